package response

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/httpdispatch/pkg/logger"
)

// DefaultServerName is sent in the Server header unless overridden.
const DefaultServerName = "httpdispatch"

// Writer serializes responses onto a connection.
type Writer struct {
	serverName string
	logger     *slog.Logger
	now        func() time.Time
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithServerName sets the Server header value. Empty names are ignored.
func WithServerName(name string) WriterOption {
	return func(w *Writer) {
		if name != "" {
			w.serverName = name
		}
	}
}

// WithLogger sets the logger used to report transport failures.
func WithLogger(l *slog.Logger) WriterOption {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithClock overrides the time source used for the Date header.
func WithClock(now func() time.Time) WriterOption {
	return func(w *Writer) {
		if now != nil {
			w.now = now
		}
	}
}

// NewWriter returns a Writer. Without WithLogger, failures are discarded.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{
		serverName: DefaultServerName,
		logger:     logger.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write serializes resp as an HTTP/1.1 response: status line, headers, blank
// line, body. A nil resp is written as an empty 500. Write errors are logged,
// not returned.
func (w *Writer) Write(ctx context.Context, dst io.Writer, resp *Response) {
	if resp == nil {
		resp = Error(http.StatusInternalServerError, fmt.Errorf("no response produced"))
	}
	if err := w.write(dst, resp); err != nil {
		w.logger.WarnContext(ctx, "failed to write response",
			logger.Status(resp.Status),
			logger.Error(err),
		)
	}
}

func (w *Writer) write(dst io.Writer, resp *Response) error {
	h := make(http.Header, len(resp.Header)+9)
	for k, vs := range resp.Header {
		h[k] = append([]string(nil), vs...)
	}
	SetCORS(h)
	h.Set("Content-Type", resp.ContentType())
	h.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	h.Set("Date", w.now().UTC().Format(http.TimeFormat))
	h.Set("Server", w.serverName)
	h.Set("Connection", "close")

	bw := bufio.NewWriter(dst)
	if _, err := fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\n", resp.Status, statusText(resp.Status)); err != nil {
		return err
	}
	if err := h.Write(bw); err != nil {
		return err
	}
	if _, err := bw.WriteString("\r\n"); err != nil {
		return err
	}
	if _, err := bw.Write(resp.Body); err != nil {
		return err
	}
	return bw.Flush()
}

func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "status code " + strconv.Itoa(code)
}
