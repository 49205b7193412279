package token

// A ReadStream is a pull-based source of tokens.  Next returns the next
// token in the stream, or nil when the stream is exhausted.
//
// All token streams in this module are synchronous: the consumer drives the
// producer one token at a time, so a partially consumed stream costs nothing
// beyond what has been pulled.
type ReadStream interface {
	Next() Token
}

// SliceReadStream is a ReadStream producing tokens from a slice.  It is
// mostly useful for tests and for replaying recorded streams.
type SliceReadStream struct {
	toks []Token
}

var _ ReadStream = &SliceReadStream{}

func NewSliceReadStream(toks []Token) *SliceReadStream {
	return &SliceReadStream{toks: toks}
}

func (r *SliceReadStream) Next() (tok Token) {
	if len(r.toks) > 0 {
		tok = r.toks[0]
		r.toks = r.toks[1:]
	}
	return
}
