package docstream

// Document is a JSON object decoded into memory, as an ordered collection of
// key-value pairs.  Decoding into a Document rather than a map preserves the
// member order of the input, so that a document written back out is
// recognizable.
type Document []Entry

// Array is a JSON array decoded into memory.
type Array []any

// Entry is a single member of a Document.  The value is nil, bool, float64,
// string, Document or Array.
type Entry struct {
	Key   string
	Value any
}

// Get returns the value of the first entry with the given key.
func (d Document) Get(key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the document's keys in order.
func (d Document) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}
