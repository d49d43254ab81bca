// Package routepattern compiles and matches hash path patterns.
//
// It exists to back the bundled HostRouter test double (internal/testhost)
// used by the guard engine's own test suite, and to give an embedding
// application a ready-made HostRouter when it has no existing SPA router to
// adapt. Route matching itself stays an external collaborator of the guard
// engine proper (guard.HostRouter) — this package is the one concrete
// implementation shipped alongside it.
package routepattern

import (
	"fmt"
	"regexp"
	"strings"
)

// SegmentKind classifies one path segment of a compiled pattern.
type SegmentKind int

const (
	SegmentStatic SegmentKind = iota
	SegmentParam
	SegmentOptional
	SegmentWildcard
)

// Segment is one element of a compiled Pattern.
type Segment struct {
	Kind  SegmentKind
	Name  string
	Value string
}

// Pattern is a compiled hash path pattern supporting static segments,
// ":param" segments, ":param?" optional segments, and a trailing
// ":param*" wildcard segment.
type Pattern struct {
	segments []Segment
	regex    *regexp.Regexp
}

// Score reports the specificity of a pattern: more static segments and
// fewer param/optional/wildcard segments mean a more specific match.
type Score struct {
	Static, Param, Optional, Wildcard int
}

// Less reports whether s is a weaker (lower-priority) match than other.
func (s Score) Less(other Score) bool {
	if s.Static != other.Static {
		return s.Static < other.Static
	}
	if s.Param != other.Param {
		return s.Param > other.Param
	}
	if s.Optional != other.Optional {
		return s.Optional > other.Optional
	}
	return s.Wildcard > other.Wildcard
}

// Compile parses path into a Pattern. path must start with "/".
func Compile(path string) (*Pattern, error) {
	if path == "" {
		return nil, fmt.Errorf("routepattern: path cannot be empty")
	}
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("routepattern: path must start with /")
	}

	if path == "/" {
		return &Pattern{regex: regexp.MustCompile("^/$")}, nil
	}

	path = strings.TrimSuffix(path, "/")
	parts := strings.Split(path, "/")[1:]

	segments, err := parseSegments(parts)
	if err != nil {
		return nil, err
	}

	return &Pattern{
		segments: segments,
		regex:    regexp.MustCompile(generateRegex(segments)),
	}, nil
}

// Match reports whether hash matches the pattern, returning extracted
// parameters on success.
func (p *Pattern) Match(hash string) (map[string]string, bool) {
	hash = strings.TrimSuffix(hash, "/")
	if hash == "" {
		hash = "/"
	}
	if !strings.HasPrefix(hash, "/") {
		hash = "/" + hash
	}

	matches := p.regex.FindStringSubmatch(hash)
	if matches == nil {
		return nil, false
	}

	params := make(map[string]string)
	idx := 1
	for _, seg := range p.segments {
		switch seg.Kind {
		case SegmentParam:
			if idx < len(matches) {
				params[seg.Name] = matches[idx]
				idx++
			}
		case SegmentOptional:
			if idx < len(matches) && matches[idx] != "" {
				params[seg.Name] = matches[idx]
			}
			idx++
		case SegmentWildcard:
			if idx < len(matches) {
				params[seg.Name] = matches[idx]
			}
			idx++
		}
	}
	return params, true
}

// Expand injects params into the pattern's segments to build a concrete
// hash path, the reverse of Match. Required params must be present;
// optional and wildcard segments are simply omitted when absent. Grounded
// on the teacher's Router.buildPathFromPattern (named_routes.go).
func (p *Pattern) Expand(params map[string]string) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}

	var parts []string
	for _, seg := range p.segments {
		switch seg.Kind {
		case SegmentStatic:
			parts = append(parts, seg.Value)
		case SegmentParam:
			value, ok := params[seg.Name]
			if !ok {
				return "", fmt.Errorf("routepattern: missing required parameter %q", seg.Name)
			}
			parts = append(parts, value)
		case SegmentOptional, SegmentWildcard:
			if value, ok := params[seg.Name]; ok {
				parts = append(parts, value)
			}
		}
	}
	return "/" + strings.Join(parts, "/"), nil
}

// ScoreOf computes the specificity score of the pattern.
func (p *Pattern) ScoreOf() Score {
	var s Score
	for _, seg := range p.segments {
		switch seg.Kind {
		case SegmentStatic:
			s.Static++
		case SegmentParam:
			s.Param++
		case SegmentOptional:
			s.Optional++
		case SegmentWildcard:
			s.Wildcard++
		}
	}
	return s
}

func parseSegments(parts []string) ([]Segment, error) {
	segments := make([]Segment, 0, len(parts))
	names := make(map[string]bool)
	wildcardSeen := false

	for i, part := range parts {
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ":") {
			segments = append(segments, Segment{Kind: SegmentStatic, Value: part})
			continue
		}

		if wildcardSeen {
			return nil, fmt.Errorf("routepattern: wildcard must be the last segment")
		}

		name := part[1:]
		switch {
		case strings.HasSuffix(name, "*"):
			name = strings.TrimSuffix(name, "*")
			if err := validateName(name, names); err != nil {
				return nil, err
			}
			if i != len(parts)-1 {
				return nil, fmt.Errorf("routepattern: wildcard must be the last segment")
			}
			wildcardSeen = true
			segments = append(segments, Segment{Kind: SegmentWildcard, Name: name})
		case strings.HasSuffix(name, "?"):
			name = strings.TrimSuffix(name, "?")
			if err := validateName(name, names); err != nil {
				return nil, err
			}
			segments = append(segments, Segment{Kind: SegmentOptional, Name: name})
		default:
			if err := validateName(name, names); err != nil {
				return nil, err
			}
			segments = append(segments, Segment{Kind: SegmentParam, Name: name})
		}
	}
	return segments, nil
}

func validateName(name string, seen map[string]bool) error {
	if name == "" {
		return fmt.Errorf("routepattern: parameter name cannot be empty")
	}
	for _, ch := range name {
		valid := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') || ch == '_'
		if !valid {
			return fmt.Errorf("routepattern: invalid parameter name %q", name)
		}
	}
	if seen[name] {
		return fmt.Errorf("routepattern: duplicate parameter name %q", name)
	}
	seen[name] = true
	return nil
}

func generateRegex(segments []Segment) string {
	if len(segments) == 0 {
		return "^/$"
	}

	var b strings.Builder
	b.WriteString("^")
	for _, seg := range segments {
		switch seg.Kind {
		case SegmentStatic:
			b.WriteString("/" + regexp.QuoteMeta(seg.Value))
		case SegmentParam:
			b.WriteString("/([^/]+)")
		case SegmentOptional:
			b.WriteString("(?:/([^/]+))?")
		case SegmentWildcard:
			b.WriteString("(?:/(.*))?")
		}
	}
	b.WriteString("/?$")
	return b.String()
}
