package server

import (
	"context"
	"fmt"
	"sync"
)

// State is a lifecycle state of the dispatcher.
type State string

const (
	StateInitializing State = "initializing"
	StateListening    State = "listening"
	StateDraining     State = "draining"
	StateStopped      State = "stopped"
)

func (s State) String() string { return string(s) }

// Event drives lifecycle transitions.
type Event string

const (
	EventBind    Event = "bind"    // listener bound
	EventAbort   Event = "abort"   // bind failed or stopped before start
	EventDrain   Event = "drain"   // shutdown requested
	EventDrained Event = "drained" // in-flight work done and listener closed
)

// Action runs before the state changes. An error keeps the current state.
type Action func(ctx context.Context, from, to State, event Event) error

type transition struct {
	to      State
	actions []Action
}

// lifecycle is a small table-driven state machine: [from][event] -> transition.
type lifecycle struct {
	mu          sync.RWMutex
	current     State
	transitions map[State]map[Event]transition
}

func newLifecycle(actions ...Action) *lifecycle {
	l := &lifecycle{
		current:     StateInitializing,
		transitions: make(map[State]map[Event]transition),
	}
	l.add(StateInitializing, StateListening, EventBind, actions...)
	l.add(StateInitializing, StateStopped, EventAbort, actions...)
	l.add(StateListening, StateDraining, EventDrain, actions...)
	l.add(StateDraining, StateStopped, EventDrained, actions...)
	return l
}

func (l *lifecycle) add(from, to State, event Event, actions ...Action) {
	if _, ok := l.transitions[from]; !ok {
		l.transitions[from] = make(map[Event]transition)
	}
	l.transitions[from][event] = transition{to: to, actions: actions}
}

func (l *lifecycle) Current() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// CanFire reports whether event has a transition from the current state.
func (l *lifecycle) CanFire(event Event) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.transitions[l.current][event]
	return ok
}

// Fire applies event. Actions run under the lock and must not call back into l.
func (l *lifecycle) Fire(ctx context.Context, event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.transitions[l.current][event]
	if !ok {
		return &TransitionError{State: l.current, Event: event}
	}
	for _, action := range t.actions {
		if action == nil {
			continue
		}
		if err := action(ctx, l.current, t.to, event); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}
	l.current = t.to
	return nil
}
