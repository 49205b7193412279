package docstream

import (
	"fmt"

	"github.com/arnodel/docstream/docpath"
	"github.com/arnodel/docstream/iterator"
)

// ReadFields extracts the named fields from the document at path in a single
// pass over the file, without loading the whole document into memory.  Each
// field name is a path expression (see package docpath), so nested members
// can be addressed with dotted names.
//
// The result maps each requested name to its decoded value.  Fields absent
// from the document are simply absent from the result, which is not an
// error.  A missing file is reported as ErrNotFound.
//
// The whole file is scanned even once every requested field has been
// captured, so malformed content is always detected and the cost of a call
// is proportional to the file size, not to the position of the fields.
func ReadFields(path string, fields ...string) (Document, error) {
	exprs := make([]docpath.Path, len(fields))
	for i, name := range fields {
		expr, err := docpath.Parse(name)
		if err != nil {
			return nil, err
		}
		exprs[i] = expr
	}
	f, err := openDocument(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := NewDecoder(f)
	it := iterator.New(dec)
	result := Document{}
	for it.Advance() {
		collectFields(it.CurrentValue(), nil, fields, exprs, &result)
	}
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return result, nil
}

// collectFields walks a streamed value looking for members whose location
// matches one of the requested paths.  Subtrees that no requested path can
// reach are skipped over without decoding.
func collectFields(v iterator.Value, loc []docpath.Segment, fields []string, exprs []docpath.Path, out *Document) {
	switch x := v.(type) {
	case *iterator.Object:
		for x.Advance() {
			key, val := x.CurrentKeyVal()
			visitField(val, append(loc, docpath.Member(key.ToString())), fields, exprs, out)
		}
	case *iterator.Array:
		for x.Advance() {
			visitField(x.CurrentValue(), append(loc, docpath.Elem), fields, exprs, out)
		}
	}
}

func visitField(v iterator.Value, loc []docpath.Segment, fields []string, exprs []docpath.Path, out *Document) {
	var matches []int
	var extends bool
	for i, expr := range exprs {
		if expr.Matches(loc) {
			matches = append(matches, i)
		} else if expr.Extends(loc) {
			extends = true
		}
	}
	switch {
	case len(matches) > 0:
		// A path with a wildcard can match several values; the last one
		// wins, as each capture replaces the previous one.
		value := materialize(v)
		for _, i := range matches {
			setField(out, fields[i], value)
		}
		if extends {
			// Requested fields nested inside a captured value: the tokens
			// are already consumed, so walk the in-memory copy instead.
			collectFromValue(value, loc, fields, exprs, out)
		}
	case extends:
		collectFields(v, loc, fields, exprs, out)
	}
}

// collectFromValue is the materialized counterpart of collectFields, used
// when a capture at an outer location consumed the tokens of values that
// other requested paths address.
func collectFromValue(v any, loc []docpath.Segment, fields []string, exprs []docpath.Path, out *Document) {
	switch x := v.(type) {
	case Document:
		for _, e := range x {
			visitValueField(e.Value, append(loc, docpath.Member(e.Key)), fields, exprs, out)
		}
	case Array:
		for _, elem := range x {
			visitValueField(elem, append(loc, docpath.Elem), fields, exprs, out)
		}
	}
}

func visitValueField(v any, loc []docpath.Segment, fields []string, exprs []docpath.Path, out *Document) {
	for i, expr := range exprs {
		if expr.Matches(loc) {
			setField(out, fields[i], v)
		}
	}
	for _, expr := range exprs {
		if expr.Extends(loc) {
			collectFromValue(v, loc, fields, exprs, out)
			return
		}
	}
}

func setField(out *Document, name string, value any) {
	for i := range *out {
		if (*out)[i].Key == name {
			(*out)[i].Value = value
			return
		}
	}
	*out = append(*out, Entry{Key: name, Value: value})
}
