package collection

import (
	"strings"

	"github.com/google/uuid"
)

// Collection is a set of mock routes loaded from a .reqspy.yaml file.
type Collection struct {
	Name      string            `yaml:"name"`
	Version   string            `yaml:"version"`
	Variables map[string]string `yaml:"variables,omitempty"`
	Items     []Item            `yaml:"items"`
}

// Item is a union type: either a Folder or a Route.
type Item struct {
	Folder *Folder `yaml:"folder,omitempty"`
	Route  *Route  `yaml:"route,omitempty"`
}

// Folder groups related routes.
type Folder struct {
	Name  string `yaml:"name"`
	Items []Item `yaml:"items,omitempty"`
}

// Route is one mocked endpoint.
type Route struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Protocol string `yaml:"protocol,omitempty"` // http (default), websocket, grpc
	Method   string `yaml:"method"`
	URL      string `yaml:"url"`

	// Params narrow the match: every enabled param must be present in the
	// request query with an equal coerced value.
	Params   []KVPair  `yaml:"params,omitempty"`
	Response *Response `yaml:"response,omitempty"`
}

// NewRoute creates a new HTTP route with a fresh ID.
func NewRoute(name, method, url string) *Route {
	return &Route{
		ID:       uuid.New().String(),
		Name:     name,
		Protocol: "http",
		Method:   method,
		URL:      url,
	}
}

// IsHTTP reports whether the route can be served over plain HTTP.
func (r *Route) IsHTTP() bool {
	return r.Protocol == "" || strings.EqualFold(r.Protocol, "http")
}

// KVPair represents a key-value pair (header, param, etc.)
type KVPair struct {
	Key     string `yaml:"key"`
	Value   string `yaml:"value"`
	Enabled bool   `yaml:"enabled"`
}

// Response is the canned reply for a route.
type Response struct {
	Status  int      `yaml:"status,omitempty"`
	Headers []KVPair `yaml:"headers,omitempty"`
	Body    *Body    `yaml:"body,omitempty"`
}

// Body represents a response body.
type Body struct {
	Type    string `yaml:"type"` // json, xml, text, html
	Content string `yaml:"content"`
}

// FlatItem represents a flattened tree item for listing.
type FlatItem struct {
	Route    *Route
	Folder   *Folder
	Depth    int
	IsFolder bool
	Path     string // "/Folder/Route"
}

// FlattenItems flattens the tree depth-first.
func FlattenItems(items []Item, depth int, parentPath string) []FlatItem {
	var result []FlatItem
	for i := range items {
		item := &items[i]
		if item.Folder != nil {
			path := parentPath + "/" + item.Folder.Name
			result = append(result, FlatItem{
				Folder:   item.Folder,
				Depth:    depth,
				IsFolder: true,
				Path:     path,
			})
			result = append(result, FlattenItems(item.Folder.Items, depth+1, path)...)
		}
		if item.Route != nil {
			result = append(result, FlatItem{
				Route: item.Route,
				Depth: depth,
				Path:  parentPath + "/" + item.Route.Name,
			})
		}
	}
	return result
}

// Routes returns every route in the collection in depth-first order.
func (c *Collection) Routes() []*Route {
	var routes []*Route
	for _, fi := range FlattenItems(c.Items, 0, "") {
		if fi.Route != nil {
			routes = append(routes, fi.Route)
		}
	}
	return routes
}

// Expand substitutes {{name}} placeholders with collection variables.
// Unknown placeholders are left untouched.
func (c *Collection) Expand(s string) string {
	if len(c.Variables) == 0 || !strings.Contains(s, "{{") {
		return s
	}
	pairs := make([]string, 0, len(c.Variables)*2)
	for k, v := range c.Variables {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
