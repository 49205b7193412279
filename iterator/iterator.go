// Package iterator provides value-based iteration over token streams.  An
// Iterator turns a flat stream of tokens into a sequence of Values, where
// composite values (objects and arrays) are themselves iterated lazily: the
// tokens of a nested value are only pulled from the stream as the caller
// advances into it, and a value that the caller is not interested in can be
// skipped over with Discard.
package iterator

import (
	"fmt"

	"github.com/arnodel/docstream/token"
)

type Iterator struct {
	stream       token.ReadStream
	currentValue Value
}

func New(stream token.ReadStream) *Iterator {
	return &Iterator{stream: stream}
}

// Advance moves to the next value in the stream, discarding whatever is left
// of the current one.  It returns false when the stream is exhausted.
func (i *Iterator) Advance() (ok bool) {
	if i.currentValue != nil {
		i.currentValue.Discard()
	}
	nextItem := i.stream.Next()
	if nextItem == nil {
		i.currentValue = nil
		return false
	}
	i.currentValue = nextValue(nextItem, i.stream)
	return true
}

func (i *Iterator) CurrentValue() Value {
	return i.currentValue
}

// A Value is a single JSON value positioned in a token stream.  It is either
// a *Scalar, an *Object or an *Array.
type Value interface {

	// Discard consumes the remaining tokens of the value without decoding
	// them, so that the stream is positioned just after it.
	Discard()
}

type Scalar token.Scalar

var _ Value = &Scalar{}

func (s *Scalar) Discard() {}

func (s *Scalar) Scalar() *token.Scalar {
	return (*token.Scalar)(s)
}

// A Collection is a composite Value (an *Object or an *Array) which is
// iterated one member at a time.
type Collection interface {
	Value
	Advance() bool
	Done() bool
	CurrentValue() Value
}

type collectionBase struct {
	stream token.ReadStream

	started bool
	done    bool

	currentValue Value
}

func (c *collectionBase) Discard() {
	if c.done {
		return
	}
	if c.started {
		c.currentValue.Discard()
	}
	c.done = true
	depth := 0
	for {
		item := c.stream.Next()
		if item == nil {
			return
		}
		switch item.(type) {
		case *token.StartArray, *token.StartObject:
			depth++
		case *token.EndArray, *token.EndObject:
			depth--
		}
		if depth < 0 {
			return
		}
	}
}

func (c *collectionBase) Done() bool {
	return c.done
}

func (c *collectionBase) CurrentValue() Value {
	if c.done {
		panic("iterator done")
	}
	return c.currentValue
}

type Object struct {
	collectionBase
	currentKey *token.Scalar
}

var _ Collection = &Object{}

func (o *Object) CurrentKeyVal() (*token.Scalar, Value) {
	if o.done {
		panic("iterator done")
	}
	return o.currentKey, o.currentValue
}

// Advance moves to the next key-value pair in the object, returning false
// when there are no more.  A truncated stream ends the object early; the
// stream's producer is responsible for reporting why it was truncated.
func (o *Object) Advance() bool {
	if o.done {
		return false
	}
	if o.started {
		o.currentValue.Discard()
	}
	item := o.stream.Next()
	if item == nil {
		o.done = true
		return false
	}
	switch v := item.(type) {
	case *token.Scalar:
		item := o.stream.Next()
		if item == nil {
			o.done = true
			return false
		}
		o.started = true
		o.currentKey = v
		o.currentValue = nextValue(item, o.stream)
		return true
	case *token.EndObject:
		o.done = true
		return false
	default:
		panic(fmt.Sprintf("invalid stream %#v", item))
	}
}

type Array struct {
	collectionBase
}

var _ Collection = &Array{}

// Advance moves to the next element in the array, returning false when there
// are no more.
func (a *Array) Advance() bool {
	if a.done {
		return false
	}
	if a.started {
		a.currentValue.Discard()
	}
	item := a.stream.Next()
	if item == nil {
		a.done = true
		return false
	}
	switch item.(type) {
	case *token.EndArray:
		a.done = true
		return false
	default:
		a.started = true
		a.currentValue = nextValue(item, a.stream)
		return true
	}
}

func nextValue(firstItem token.Token, stream token.ReadStream) Value {
	switch v := firstItem.(type) {
	case *token.StartArray:
		return &Array{collectionBase: collectionBase{stream: stream}}
	case *token.StartObject:
		return &Object{collectionBase: collectionBase{stream: stream}}
	case *token.Scalar:
		return (*Scalar)(v)
	default:
		panic(fmt.Sprintf("invalid stream %#v", firstItem))
	}
}
