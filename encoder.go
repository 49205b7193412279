package docstream

import (
	"fmt"

	"github.com/arnodel/docstream/iterator"
	"github.com/arnodel/docstream/token"
)

// An Encoder outputs a stream encoding a JSON value using the given Printer
// instance for formatting, optionally colorized.  Encoding is a streaming
// operation: tokens are printed as they are pulled, so a document larger
// than memory can be pretty-printed.
type Encoder struct {
	Printer
	Colorizer *Colorizer
}

// Encode formats the JSON values encoded in the given stream.  It assumes
// the stream is well-formed and may panic if it is not.
//
// An error is returned if the Printer could not perform some writing
// operation, a typical example being a closed pipe.
func (e *Encoder) Encode(src token.ReadStream) (err error) {
	defer CatchPrinterError(&err)
	it := iterator.New(src)
	for it.Advance() {
		e.writeValue(it.CurrentValue())
		e.NewLine()
	}
	return nil
}

func (e *Encoder) writeValue(value iterator.Value) {
	switch v := value.(type) {
	case *iterator.Scalar:
		e.Colorizer.PrintScalar(e.Printer, v.Scalar())
	case *iterator.Object:
		e.writeObject(v)
	case *iterator.Array:
		e.writeArray(v)
	default:
		panic(fmt.Sprintf("invalid stream item: %#v", value))
	}
}

func (e *Encoder) writeObject(obj *iterator.Object) {
	e.PrintBytes(openObjectBytes)
	firstItem := true
	for obj.Advance() {
		key, value := obj.CurrentKeyVal()
		if !firstItem {
			e.PrintBytes(itemSeparatorBytes)
			e.NewLine()
		} else {
			e.Indent()
			firstItem = false
		}
		e.Colorizer.PrintScalar(e.Printer, key)
		e.PrintBytes(keyValueSeparatorBytes)
		e.writeValue(value)
	}
	if !firstItem {
		e.Dedent()
	}
	e.PrintBytes(closeObjectBytes)
}

func (e *Encoder) writeArray(arr *iterator.Array) {
	e.PrintBytes(openArrayBytes)
	firstItem := true
	for arr.Advance() {
		value := arr.CurrentValue()
		if !firstItem {
			e.PrintBytes(itemSeparatorBytes)
			e.NewLine()
		} else {
			e.Indent()
			firstItem = false
		}
		e.writeValue(value)
	}
	if !firstItem {
		e.Dedent()
	}
	e.PrintBytes(closeArrayBytes)
}

var (
	openObjectBytes        = []byte("{")
	closeObjectBytes       = []byte("}")
	openArrayBytes         = []byte("[")
	closeArrayBytes        = []byte("]")
	itemSeparatorBytes     = []byte(",")
	keyValueSeparatorBytes = []byte(": ")
)
