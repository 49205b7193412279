package docstream

import (
	"fmt"

	"github.com/arnodel/docstream/iterator"
)

// materialize decodes a streamed value into its in-memory representation:
// nil, bool, float64, string, Document or Array.  It consumes the value's
// tokens entirely.
func materialize(v iterator.Value) any {
	switch x := v.(type) {
	case *iterator.Scalar:
		return x.Scalar().ToGo()
	case *iterator.Object:
		doc := Document{}
		for x.Advance() {
			key, val := x.CurrentKeyVal()
			doc = append(doc, Entry{Key: key.ToString(), Value: materialize(val)})
		}
		return doc
	case *iterator.Array:
		arr := Array{}
		for x.Advance() {
			arr = append(arr, materialize(x.CurrentValue()))
		}
		return arr
	default:
		panic(fmt.Sprintf("invalid value %#v", v))
	}
}
