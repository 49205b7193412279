package docstream

import (
	"bufio"
	"fmt"
	"os"

	"github.com/go-json-experiment/json"
)

// A Seq is a lazy, forward-only sequence of values, consumed at most once.
// Next returns the next value, or false when the sequence is exhausted.
type Seq interface {
	Next() (any, bool)
}

// SliceSeq is a Seq draining a slice.  Mostly useful for tests and for
// callers that already hold the items in memory.
type SliceSeq []any

func (s *SliceSeq) Next() (any, bool) {
	if len(*s) == 0 {
		return nil, false
	}
	item := (*s)[0]
	*s = (*s)[1:]
	return item, true
}

// A StreamedField is a document member whose array value is produced
// incrementally from a lazy sequence during writing.
type StreamedField struct {
	Key   string
	Items Seq
}

// WriteStreamed writes a JSON object to the file at path, mixing two kinds
// of members: the eager ones, whose values are fully in memory, and the
// streamed ones, whose array values are drained from lazy sequences one item
// at a time.  A streamed array is serialized as it is drained and is never
// held in memory, so it can be arbitrarily large.
//
// The eager members are emitted first, in order, then the streamed members,
// in order.  The output layout is fixed: 2-space indent for members, 4-space
// indent for streamed items, one member or item per line, a trailing newline
// after the closing brace.  Keys must be unique across both sets.
//
// Any existing content at path is overwritten.  Serialization and file
// errors are returned.
func WriteStreamed(path string, eager Document, streamed []StreamedField) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)

	// The globally last key is the only member without a trailing
	// separator.
	var lastKey string
	switch {
	case len(streamed) > 0:
		lastKey = streamed[len(streamed)-1].Key
	case len(eager) > 0:
		lastKey = eager[len(eager)-1].Key
	}

	w.WriteString("{\n")
	for _, e := range eager {
		if err := writeMemberStart(w, e.Key); err != nil {
			return err
		}
		value, err := marshalValue(e.Value)
		if err != nil {
			return fmt.Errorf("serializing value for key %q: %w", e.Key, err)
		}
		w.Write(value)
		writeMemberEnd(w, e.Key, lastKey)
	}
	for _, sf := range streamed {
		if err := writeMemberStart(w, sf.Key); err != nil {
			return err
		}
		w.WriteString("[\n")
		first := true
		for {
			item, ok := sf.Items.Next()
			if !ok {
				break
			}
			if !first {
				w.WriteString(",\n")
			}
			value, err := marshalValue(item)
			if err != nil {
				return fmt.Errorf("serializing item for key %q: %w", sf.Key, err)
			}
			w.WriteString("    ")
			w.Write(value)
			first = false
		}
		w.WriteString("\n  ]")
		writeMemberEnd(w, sf.Key, lastKey)
	}
	w.WriteString("}\n")
	return w.Flush()
}

func writeMemberStart(w *bufio.Writer, key string) error {
	encodedKey, err := marshalValue(key)
	if err != nil {
		return fmt.Errorf("serializing key %q: %w", key, err)
	}
	w.WriteString("  ")
	w.Write(encodedKey)
	w.WriteString(": ")
	return nil
}

func writeMemberEnd(w *bufio.Writer, key, lastKey string) {
	if key != lastKey {
		w.WriteString(",\n")
	} else {
		w.WriteString("\n")
	}
}

// marshalValue serializes a single value on one line, non-ASCII characters
// emitted literally, Document member order preserved.
func marshalValue(v any) ([]byte, error) {
	return json.Marshal(v, json.WithMarshalers(Marshalers()))
}
