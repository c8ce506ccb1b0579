package collection

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports every route that cannot be served: missing URL, a method
// that is not an HTTP token, a status outside 100-599, an enabled param
// without a key, or a duplicate ID.
func (c *Collection) Validate() error {
	var errs []error
	seen := map[string]string{}
	var walk func(items []Item, prefix string)
	walk = func(items []Item, prefix string) {
		for i, item := range items {
			if item.Folder != nil {
				walk(item.Folder.Items, prefix+item.Folder.Name+"/")
			}
			r := item.Route
			if r == nil {
				continue
			}
			label := r.Name
			if label == "" {
				label = fmt.Sprintf("#%d", i+1)
			}
			label = prefix + label
			for _, err := range r.problems() {
				errs = append(errs, fmt.Errorf("route %q: %w", label, err))
			}
			if r.ID != "" {
				if other, dup := seen[r.ID]; dup {
					errs = append(errs, fmt.Errorf("route %q: id %q already used by %q", label, r.ID, other))
				} else {
					seen[r.ID] = label
				}
			}
		}
	}
	walk(c.Items, "")
	return errors.Join(errs...)
}

func (r *Route) problems() []error {
	var errs []error
	if strings.TrimSpace(r.URL) == "" {
		errs = append(errs, errors.New("url is required"))
	}
	if r.Method != "" && !isToken(r.Method) {
		errs = append(errs, fmt.Errorf("invalid method %q", r.Method))
	}
	if r.Response != nil && r.Response.Status != 0 && (r.Response.Status < 100 || r.Response.Status > 599) {
		errs = append(errs, fmt.Errorf("status %d out of range 100-599", r.Response.Status))
	}
	for _, p := range r.Params {
		if p.Enabled && p.Key == "" {
			errs = append(errs, errors.New("enabled param has an empty key"))
		}
	}
	return errs
}

// isToken reports whether s is an RFC 9110 token, the syntax of a method.
func isToken(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0:
		default:
			return false
		}
	}
	return s != ""
}
