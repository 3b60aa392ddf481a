// Package coords reads arena and zone corner files and matches them to recordings.
//
// Coordinate files hold serialized tuple literals such as
//
//	[(12, 8), (10, 470), (630, 468), (634, 5)]
//
// either one literal per line (one quad per recording) or a single literal
// for the whole file. A single literal may be one quad shared by every
// recording or a list of quads, one per recording.
package coords

import (
	"fmt"
	"os"
	"strings"

	"github.com/madmaxpython/DeepOF-SIT/internal/geometry"
	"gopkg.in/yaml.v3"
)

// ParamSet is the parsed content of a coordinate file.
type ParamSet struct {
	// Quads holds one entry per recording, in file order.
	Quads []geometry.Quad
	// Shared is true when the file held a single quad meant for every recording.
	Shared bool
}

// Len returns the number of quads.
func (ps ParamSet) Len() int {
	return len(ps.Quads)
}

// ReadTuplesFile parses a coordinate file.
// In line mode every non-blank line is one quad literal. With singleObject
// the whole file is one literal holding either a quad or a list of quads.
func ReadTuplesFile(path string, singleObject bool) (ParamSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParamSet{}, fmt.Errorf("failed to read coordinate file: %w", err)
	}

	if singleObject {
		ps, err := ParseLiteral(string(data))
		if err != nil {
			return ParamSet{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return ps, nil
	}

	var ps ParamSet
	for i, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		q, err := ParseQuad(line)
		if err != nil {
			return ParamSet{}, fmt.Errorf("failed to parse %s line %d: %w", path, i+1, err)
		}
		ps.Quads = append(ps.Quads, q)
	}
	return ps, nil
}

// ParseQuad parses a single quad literal.
func ParseQuad(literal string) (geometry.Quad, error) {
	ps, err := ParseLiteral(literal)
	if err != nil {
		return geometry.Quad{}, err
	}
	if !ps.Shared {
		return geometry.Quad{}, fmt.Errorf("expected a single quad, got a list of %d", ps.Len())
	}
	return ps.Quads[0], nil
}

// ParseLiteral parses a quad literal or a list of quad literals.
func ParseLiteral(literal string) (ParamSet, error) {
	value, err := decodeLiteral(literal)
	if err != nil {
		return ParamSet{}, err
	}

	items, ok := value.([]interface{})
	if !ok {
		return ParamSet{}, fmt.Errorf("literal is not a sequence")
	}
	if len(items) == 0 {
		return ParamSet{}, nil
	}

	// A quad is a list of number pairs; a list of quads nests one level deeper.
	if depth(items) == 2 {
		q, err := toQuad(items)
		if err != nil {
			return ParamSet{}, err
		}
		return ParamSet{Quads: []geometry.Quad{q}, Shared: true}, nil
	}

	ps := ParamSet{Quads: make([]geometry.Quad, 0, len(items))}
	for i, item := range items {
		vertices, ok := item.([]interface{})
		if !ok {
			return ParamSet{}, fmt.Errorf("entry %d is not a sequence", i)
		}
		q, err := toQuad(vertices)
		if err != nil {
			return ParamSet{}, fmt.Errorf("entry %d: %w", i, err)
		}
		ps.Quads = append(ps.Quads, q)
	}
	return ps, nil
}

// decodeLiteral rewrites tuple parentheses as flow sequences and decodes the result.
func decodeLiteral(literal string) (interface{}, error) {
	replacer := strings.NewReplacer("(", "[", ")", "]", "\r", " ", "\n", " ", "\t", " ")
	flow := strings.TrimSpace(replacer.Replace(literal))
	if flow == "" {
		return nil, fmt.Errorf("empty literal")
	}

	var value interface{}
	if err := yaml.Unmarshal([]byte(flow), &value); err != nil {
		return nil, fmt.Errorf("invalid literal: %w", err)
	}
	return value, nil
}

// depth returns the nesting depth of the first element chain.
func depth(v interface{}) int {
	items, ok := v.([]interface{})
	if !ok {
		return 0
	}
	if len(items) == 0 {
		return 1
	}
	return 1 + depth(items[0])
}

func toQuad(items []interface{}) (geometry.Quad, error) {
	vertices := make([][]float64, len(items))
	for i, item := range items {
		pair, ok := item.([]interface{})
		if !ok {
			return geometry.Quad{}, fmt.Errorf("vertex %d is not a sequence", i)
		}
		coords := make([]float64, len(pair))
		for j, c := range pair {
			f, err := toFloat(c)
			if err != nil {
				return geometry.Quad{}, fmt.Errorf("vertex %d: %w", i, err)
			}
			coords[j] = f
		}
		vertices[i] = coords
	}
	return geometry.NewQuad(vertices)
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("coordinate %v is not a number", v)
	}
}
