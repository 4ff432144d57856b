package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/httpdispatch/pkg/config"
	"github.com/dmitrymomot/httpdispatch/pkg/request"
	"github.com/dmitrymomot/httpdispatch/pkg/response"
)

// CannedRoute describes a fixed response served for a path, as read from a
// routes file:
//
//	routes:
//	  - name: version
//	    path: /version
//	    methods: [GET]
//	    content_type: json
//	    body: {version: "1.0.0"}
//
// ContentType is "json", "text" or a literal media type. JSON bodies are
// encoded once at load time; other bodies must be strings.
type CannedRoute struct {
	Name        string            `yaml:"name"`
	Path        string            `yaml:"path"`
	Prefix      bool              `yaml:"prefix"`
	Methods     []string          `yaml:"methods"`
	Status      int               `yaml:"status"`
	ContentType string            `yaml:"content_type"`
	Headers     map[string]string `yaml:"headers"`
	Body        any               `yaml:"body"`
}

type routesFile struct {
	Routes []CannedRoute `yaml:"routes"`
}

// LoadRoutes reads canned routes from a YAML file.
func LoadRoutes(path string) ([]Route, error) {
	var f routesFile
	if err := config.LoadYAML(path, &f); err != nil {
		return nil, err
	}
	return buildRoutes(f.Routes)
}

// ParseRoutes builds canned routes from a YAML document.
func ParseRoutes(data []byte) ([]Route, error) {
	var f routesFile
	if err := config.ParseYAML(data, &f); err != nil {
		return nil, err
	}
	return buildRoutes(f.Routes)
}

func buildRoutes(defs []CannedRoute) ([]Route, error) {
	routes := make([]Route, 0, len(defs))
	for i, def := range defs {
		rt, err := def.Route()
		if err != nil {
			return nil, fmt.Errorf("route #%d: %w", i, err)
		}
		routes = append(routes, rt)
	}
	return routes, nil
}

// Route validates the definition and compiles it into a Route.
func (c CannedRoute) Route() (Route, error) {
	if !strings.HasPrefix(c.Path, "/") {
		return Route{}, fmt.Errorf("%w: path %q must start with /", ErrInvalidRoute, c.Path)
	}

	status := c.Status
	if status == 0 {
		status = http.StatusOK
	}
	if status < 100 || status > 599 {
		return Route{}, fmt.Errorf("%w: status %d", ErrInvalidRoute, c.Status)
	}

	methods := make([]request.Method, 0, len(c.Methods))
	for _, name := range c.Methods {
		m, err := request.ParseMethod(strings.ToUpper(name))
		if err != nil {
			return Route{}, fmt.Errorf("%w: %w", ErrInvalidRoute, err)
		}
		methods = append(methods, m)
	}

	tmpl, err := c.render(status)
	if err != nil {
		return Route{}, err
	}

	match := PathEquals(c.Path)
	if c.Prefix {
		match = PathPrefix(c.Path)
	}
	if len(methods) > 0 {
		match = All(MethodIs(methods...), match)
	}

	name := c.Name
	if name == "" {
		name = c.Path
	}

	return Route{
		Name:  name,
		Match: match,
		Handler: HandlerFunc(func(context.Context, *request.Request) (*response.Response, error) {
			return &response.Response{
				Status: tmpl.Status,
				Header: tmpl.Header.Clone(),
				Body:   tmpl.Body,
			}, nil
		}),
	}, nil
}

func (c CannedRoute) render(status int) (*response.Response, error) {
	var resp *response.Response
	switch ct := strings.ToLower(strings.TrimSpace(c.ContentType)); ct {
	case "json":
		r, err := response.JSON(status, c.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRoute, err)
		}
		resp = r
	case "", "text":
		body, err := textBody(c.Body)
		if err != nil {
			return nil, err
		}
		resp = response.Text(status, body)
	default:
		body, err := textBody(c.Body)
		if err != nil {
			return nil, err
		}
		resp = response.New(status, c.ContentType, []byte(body))
	}

	for k, v := range c.Headers {
		resp.Header.Set(k, v)
	}
	return resp, nil
}

func textBody(v any) (string, error) {
	switch b := v.(type) {
	case nil:
		return "", nil
	case string:
		return b, nil
	default:
		return "", fmt.Errorf("%w: non-json body must be a string, got %T", ErrInvalidRoute, v)
	}
}
