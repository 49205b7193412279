// Package docpath implements the small path-expression language used to
// address values nested inside a JSON document.
//
// A path expression is a sequence of dot-separated segments.  A bare segment
// selects an object member by exact key, e.g.
//
//	metadata.name
//
// The reserved segment "item" selects every element of the array found at
// that point, so
//
//	results.item
//
// addresses each element of the array stored under the key "results".  A
// double-quoted segment always selects an object member, which makes it
// possible to address keys containing dots or a key literally named "item":
//
//	"results.item"          one member, whose key contains a dot
//	results."item"          the member named "item", not the array elements
//
// There is no support for numeric indices or slices.
package docpath

import (
	"fmt"
	"strings"

	"github.com/arnodel/grammar"
	"github.com/go-json-experiment/json"
)

// Wildcard is the reserved segment token selecting every element of an
// array.  It is only reserved when unquoted.
const Wildcard = "item"

// A Segment is a single step in a path expression: either an object member
// key or the array-element wildcard.
type Segment struct {
	Key  string
	Each bool
}

// Elem is the location step contributed by an array element.
var Elem = Segment{Each: true}

// Member is the location step contributed by an object member with the given
// key.
func Member(key string) Segment {
	return Segment{Key: key}
}

func (s Segment) String() string {
	if s.Each {
		return Wildcard
	}
	if s.Key == Wildcard || strings.ContainsAny(s.Key, `."`) {
		quoted, err := json.Marshal(s.Key)
		if err != nil {
			panic(err)
		}
		return string(quoted)
	}
	return s.Key
}

// A Path is a parsed path expression.
type Path []Segment

// Parse parses a path expression.  It returns an error on an empty
// expression, an empty segment or an unterminated quoted segment.
func Parse(s string) (Path, error) {
	stream, err := tokenisePathString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid path expression %q: %w", s, err)
	}
	var expr pathExpr
	if parseErr := grammar.Parse(&expr, stream); parseErr != nil {
		return nil, fmt.Errorf("invalid path expression %q", s)
	}
	if n := stream.Next(); n != grammar.EOF {
		return nil, fmt.Errorf("invalid path expression %q", s)
	}
	return expr.compile()
}

// MustParse is like Parse but panics on error.  Useful for expressions known
// at compile time.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	segs := make([]string, len(p))
	for i, s := range p {
		segs[i] = s.String()
	}
	return strings.Join(segs, ".")
}

// Matches reports whether the path addresses exactly the location loc, where
// loc is the sequence of steps from the document root (object member keys
// and array elements) leading to a value.
func (p Path) Matches(loc []Segment) bool {
	if len(p) != len(loc) {
		return false
	}
	return p.matchesPrefix(loc)
}

// Extends reports whether the path addresses a location strictly below loc,
// i.e. whether it is worth descending into the value at loc to look for
// matches.
func (p Path) Extends(loc []Segment) bool {
	if len(p) <= len(loc) {
		return false
	}
	return p.matchesPrefix(loc)
}

func (p Path) matchesPrefix(loc []Segment) bool {
	for i, step := range loc {
		if p[i].Each != step.Each {
			return false
		}
		if !step.Each && p[i].Key != step.Key {
			return false
		}
	}
	return true
}

// Grammar for path expressions, in the style used for the jsonpath parser.

type pathToken = grammar.SimpleToken

var tokenisePathString = grammar.SimpleTokeniser([]grammar.TokenDef{
	{
		Name: "dot",
		Ptn:  `\.`,
	},
	{
		Name: "quotedname",
		Ptn:  `"(?:\\.|[^"\\])*"`,
	},
	{
		Name: "name",
		Ptn:  `[^."]+`,
	},
})

type pathExpr struct {
	grammar.Seq
	First segmentExpr
	Rest  []dotSegment
}

func (e *pathExpr) compile() (Path, error) {
	path := make(Path, 0, len(e.Rest)+1)
	seg, err := e.First.compile()
	if err != nil {
		return nil, err
	}
	path = append(path, seg)
	for _, ds := range e.Rest {
		seg, err = ds.Segment.compile()
		if err != nil {
			return nil, err
		}
		path = append(path, seg)
	}
	return path, nil
}

type dotSegment struct {
	grammar.Seq
	Dot     pathToken `tok:"dot"`
	Segment segmentExpr
}

type segmentExpr struct {
	grammar.OneOf
	Name   *pathToken `tok:"name"`
	Quoted *pathToken `tok:"quotedname"`
}

func (e *segmentExpr) compile() (Segment, error) {
	switch {
	case e.Name != nil:
		if e.Name.TokValue == Wildcard {
			return Elem, nil
		}
		return Member(e.Name.TokValue), nil
	case e.Quoted != nil:
		var key string
		if err := json.Unmarshal([]byte(e.Quoted.TokValue), &key); err != nil {
			return Segment{}, fmt.Errorf("invalid quoted segment %s: %w", e.Quoted.TokValue, err)
		}
		return Member(key), nil
	default:
		panic("invalid segment")
	}
}
