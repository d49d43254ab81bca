package routepattern

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoMatch is returned when no registered route matches a hash.
var ErrNoMatch = errors.New("routepattern: no route matches hash")

// Route is one registered route: a name paired with its compiled pattern.
type Route struct {
	Name    string
	Path    string
	pattern *Pattern
}

// Match is the result of a successful lookup.
type Match struct {
	Name   string
	Params map[string]string
}

// Matcher holds a flat set of registered routes and resolves hashes against
// them, picking the most specific match when more than one pattern matches.
type Matcher struct {
	routes []*Route
}

// NewMatcher creates an empty matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// AddRoute compiles path and registers it under name.
func (m *Matcher) AddRoute(path, name string) error {
	pattern, err := Compile(path)
	if err != nil {
		return err
	}
	m.routes = append(m.routes, &Route{Name: name, Path: path, pattern: pattern})
	return nil
}

// Resolve matches hash against all registered routes and returns the most
// specific match.
func (m *Matcher) Resolve(hash string) (Match, error) {
	var candidates []struct {
		route  *Route
		params map[string]string
		score  Score
	}

	for _, r := range m.routes {
		params, ok := r.pattern.Match(hash)
		if !ok {
			continue
		}
		candidates = append(candidates, struct {
			route  *Route
			params map[string]string
			score  Score
		}{r, params, r.pattern.ScoreOf()})
	}

	if len(candidates) == 0 {
		return Match{}, ErrNoMatch
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[j].score.Less(candidates[i].score)
	})

	best := candidates[0]
	return Match{Name: best.route.Name, Params: best.params}, nil
}

// NameToPath returns the original pattern path registered for a route name,
// used to rebuild a hash for name-based redirects.
func (m *Matcher) NameToPath(name string) (string, bool) {
	for _, r := range m.routes {
		if r.Name == name {
			return r.Path, true
		}
	}
	return "", false
}

// Expand builds a concrete hash for the named route, injecting params.
func (m *Matcher) Expand(name string, params map[string]string) (string, error) {
	for _, r := range m.routes {
		if r.Name == name {
			return r.pattern.Expand(params)
		}
	}
	return "", fmt.Errorf("routepattern: no route registered with name %q", name)
}
