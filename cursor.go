package docstream

import (
	"errors"
	"fmt"
	"os"

	"github.com/arnodel/docstream/docpath"
	"github.com/arnodel/docstream/iterator"
)

// A Cursor is a lazy, forward-only sequence over the values addressed by a
// path expression inside a document, typically the elements of a large
// array.  It owns the open file handle for its lifetime: the handle is
// released exactly once, when the cursor is exhausted, when a parse error
// stops it, or when Close is called.
//
// The usual pattern is:
//
//	cur, err := docstream.OpenCursor(path, docpath.MustParse("results.item"))
//	if err != nil {
//		return err
//	}
//	defer cur.Close()
//	for cur.Next() {
//		process(cur.Value())
//	}
//	if err := cur.Err(); err != nil {
//		return err
//	}
//
// A Cursor is not restartable; a second pass requires a new cursor.
type Cursor struct {
	f    *os.File
	dec  *Decoder
	expr docpath.Path

	// Stack of partially iterated collections on the way to matching
	// values.  Children of stack[i].coll are matched against
	// expr[stack[i].seg].
	stack []cursorLevel

	current any
	err     error
	closed  bool
}

type cursorLevel struct {
	coll iterator.Collection
	seg  int
}

// OpenCursor opens the document at path for lazy iteration over the values
// matching the path expression.  A missing file is reported as ErrNotFound.
func OpenCursor(path string, expr docpath.Path) (*Cursor, error) {
	if len(expr) == 0 {
		return nil, errors.New("empty path expression")
	}
	f, err := openDocument(path)
	if err != nil {
		return nil, err
	}
	dec := NewDecoder(f)
	c := &Cursor{f: f, dec: dec, expr: expr}
	it := iterator.New(dec)
	if it.Advance() {
		if coll, ok := it.CurrentValue().(iterator.Collection); ok {
			c.stack = append(c.stack, cursorLevel{coll: coll})
		}
	}
	return c, nil
}

// Next advances the cursor to the next matching value.  It returns false
// when the sequence is exhausted or an error stopped it, after which it
// keeps returning false.  The file handle is released when Next first
// returns false.
func (c *Cursor) Next() bool {
	if c.closed || c.err != nil {
		return false
	}
	for len(c.stack) > 0 {
		top := &c.stack[len(c.stack)-1]
		if !top.coll.Advance() {
			c.stack = c.stack[:len(c.stack)-1]
			continue
		}
		seg := c.expr[top.seg]
		var val iterator.Value
		switch x := top.coll.(type) {
		case *iterator.Object:
			key, v := x.CurrentKeyVal()
			if seg.Each || seg.Key != key.ToString() {
				continue
			}
			val = v
		case *iterator.Array:
			if !seg.Each {
				continue
			}
			val = x.CurrentValue()
		}
		if top.seg == len(c.expr)-1 {
			c.current = materialize(val)
			if err := c.dec.Err(); err != nil {
				c.fail(err)
				return false
			}
			return true
		}
		if coll, ok := val.(iterator.Collection); ok {
			c.stack = append(c.stack, cursorLevel{coll: coll, seg: top.seg + 1})
		}
		// A scalar partway along the expression cannot match, it is
		// discarded by the next Advance.
	}
	if err := c.dec.Err(); err != nil {
		c.fail(err)
		return false
	}
	c.current = nil
	c.Close()
	return false
}

// Value returns the value the cursor was advanced to by the last successful
// call to Next.
func (c *Cursor) Value() any {
	return c.current
}

// Err returns the error that stopped the iteration, if any.  Exhausting the
// sequence is not an error.
func (c *Cursor) Err() error {
	return c.err
}

// Close releases the cursor's file handle.  It is safe to call Close at any
// point and more than once; calls after the first do nothing.  After Close,
// Next returns false.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.stack = nil
	return c.f.Close()
}

func (c *Cursor) fail(err error) {
	c.err = fmt.Errorf("reading %q: %w", c.f.Name(), err)
	c.current = nil
	c.Close()
}

// Seq returns the remaining values of the cursor as a lazy sequence, suitable
// for feeding a streamed field of WriteStreamed.  Draining the sequence
// drives the cursor, so after the sequence ends the caller should still check
// the cursor's Err.
func (c *Cursor) Seq() Seq {
	return cursorSeq{c}
}

type cursorSeq struct {
	c *Cursor
}

func (s cursorSeq) Next() (any, bool) {
	if !s.c.Next() {
		return nil, false
	}
	return s.c.Value(), true
}
