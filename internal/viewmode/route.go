package viewmode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/prdash/internal/common"
)

// Route is a navigation target such as /negotiate/edit/12.
type Route struct {
	Segments []string
	ID       string
}

// ParseRoute splits a path into segments. The last segment after
// "negotiate", "view" or "edit" is taken as the id parameter.
func ParseRoute(path string) Route {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}

	r := Route{Segments: segments}
	if n := len(segments); n >= 2 {
		last := segments[n-1]
		switch segments[n-2] {
		case "negotiate", "view", "edit":
			if last != "view" && last != "edit" {
				r.ID = last
			}
		}
	}
	return r
}

// HasSegment reports whether any path segment equals name.
func (r Route) HasSegment(name string) bool {
	for _, s := range r.Segments {
		if s == name {
			return true
		}
	}
	return false
}

// ListPath is the route of the negotiation list.
const ListPath = "/negotiate"

// ViewPath returns the route showing negotiation id.
func ViewPath(id int64) string {
	return fmt.Sprintf("/negotiate/view/%d", id)
}

// EditPath returns the route editing negotiation id.
func EditPath(id int64) string {
	return fmt.Sprintf("/negotiate/edit/%d", id)
}

// ParseID parses a route identifier. Only positive integers are valid.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", common.ErrInvalidID, raw)
	}
	return id, nil
}
