package docstream

import (
	"fmt"
	"io"

	"github.com/arnodel/docstream/internal/scanner"
	"github.com/arnodel/docstream/token"
)

// A Decoder is a pull parser over JSON input: it reads a single JSON value
// and streams it as tokens, one per call to Next.  No parse tree is built;
// the memory cost of a Decoder is bounded by the nesting depth of the input.
//
// Next returns nil when the value has been fully streamed or when the input
// is invalid, in which case Err reports what went wrong.  Trailing content
// after the value is an error.
type Decoder struct {
	scanr *scanner.Scanner
	stack []frame

	started bool
	done    bool
	err     error
}

var _ token.ReadStream = &Decoder{}

// NewDecoder sets up a new Decoder instance to read from the given input.
func NewDecoder(in io.Reader) *Decoder {
	return &Decoder{scanr: scanner.NewScanner(in)}
}

// Next returns the next token of the value, or nil at the end of the value
// or on invalid input.
func (d *Decoder) Next() token.Token {
	if d.err != nil || d.done {
		return nil
	}
	tok, err := d.next()
	if err != nil {
		d.err = err
		return nil
	}
	return tok
}

// Err returns the error that stopped the stream, if any.  It is nil after
// the value has been streamed to the end.
func (d *Decoder) Err() error {
	return d.err
}

type frame struct {
	object bool
	phase  phase
}

type phase uint8

const (
	// Just after '{' or '[': expecting a first member or the closing
	// bracket.
	phaseFirst phase = iota
	// In an object, after a key: expecting ':' then a value.
	phaseColon
	// After a member: expecting ',' or the closing bracket.
	phaseSep
)

func (d *Decoder) next() (token.Token, error) {
	if len(d.stack) == 0 {
		if d.started {
			// The root value is complete, only trailing whitespace is
			// allowed.
			b, err := d.scanr.SkipSpaceAndPeek()
			if err != nil {
				return nil, err
			}
			if b != scanner.EOF {
				return nil, d.unexpectedByte("expected end of input, got")
			}
			d.done = true
			return nil, nil
		}
		d.started = true
		return d.beginValue()
	}
	top := &d.stack[len(d.stack)-1]
	if top.object {
		switch top.phase {
		case phaseFirst:
			b, err := d.scanr.SkipSpaceAndPeek()
			if err != nil {
				return nil, err
			}
			if b == '}' {
				d.scanr.Read()
				d.pop()
				return &token.EndObject{}, nil
			}
			return d.parseKey()
		case phaseColon:
			b, err := d.scanr.SkipSpaceAndRead()
			if err != nil {
				return nil, err
			}
			if b != ':' {
				d.scanr.Back()
				return nil, d.unexpectedByte("expected ':', got")
			}
			return d.beginValue()
		default: // phaseSep
			b, err := d.scanr.SkipSpaceAndRead()
			if err != nil {
				return nil, err
			}
			switch b {
			case '}':
				d.pop()
				return &token.EndObject{}, nil
			case ',':
				return d.parseKey()
			default:
				d.scanr.Back()
				return nil, d.unexpectedByte("expected '}' or ',', got")
			}
		}
	}
	switch top.phase {
	case phaseFirst:
		b, err := d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return nil, err
		}
		if b == ']' {
			d.scanr.Read()
			d.pop()
			return &token.EndArray{}, nil
		}
		return d.beginValue()
	default: // phaseSep
		b, err := d.scanr.SkipSpaceAndRead()
		if err != nil {
			return nil, err
		}
		switch b {
		case ']':
			d.pop()
			return &token.EndArray{}, nil
		case ',':
			return d.beginValue()
		default:
			d.scanr.Back()
			return nil, d.unexpectedByte("expected ']' or ',', got")
		}
	}
}

// beginValue consumes the start of a value and returns its first token,
// pushing a frame if the value is a container.  The enclosing frame, if any,
// resumes at phaseSep once the value is complete.
func (d *Decoder) beginValue() (token.Token, error) {
	if len(d.stack) > 0 {
		d.stack[len(d.stack)-1].phase = phaseSep
	}
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return nil, err
	}
	switch b {
	case '{':
		d.scanr.Read()
		d.stack = append(d.stack, frame{object: true})
		return &token.StartObject{}, nil
	case '[':
		d.scanr.Read()
		d.stack = append(d.stack, frame{})
		return &token.StartArray{}, nil
	case '"':
		return parseString(d.scanr)
	case 't':
		if err := checkBytes(d.scanr, trueBytes); err != nil {
			return nil, err
		}
		return token.TrueScalar, nil
	case 'f':
		if err := checkBytes(d.scanr, falseBytes); err != nil {
			return nil, err
		}
		return token.FalseScalar, nil
	case 'n':
		if err := checkBytes(d.scanr, nullBytes); err != nil {
			return nil, err
		}
		return token.NullScalar, nil
	default:
		if b == '-' || scanner.IsDigit(b) {
			return parseNumber(d.scanr)
		}
		return nil, d.unexpectedByte("expected a value, got")
	}
}

func (d *Decoder) parseKey() (token.Token, error) {
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return nil, err
	}
	if b != '"' {
		return nil, d.unexpectedByte("expected '\"', got")
	}
	key, err := parseString(d.scanr)
	if err != nil {
		return nil, err
	}
	key.TypeAndFlags |= token.KeyMask
	d.stack[len(d.stack)-1].phase = phaseColon
	return key, nil
}

func (d *Decoder) pop() {
	d.stack = d.stack[:len(d.stack)-1]
}

func (d *Decoder) unexpectedByte(expected string, args ...interface{}) error {
	return unexpectedByte(d.scanr, expected, args...)
}

func expectByte(scanr *scanner.Scanner, xb byte) error {
	b, err := scanr.Read()
	if err != nil {
		return err
	}
	if b != xb {
		scanr.Back()
		return unexpectedByte(scanr, "expected %q, got", xb)
	}
	return nil
}

func unexpectedByte(scanr *scanner.Scanner, expected string, args ...interface{}) error {
	pos := scanr.CurrentPos()
	b, err := scanr.Read()
	if err != nil {
		return err
	}
	if b == scanner.EOF {
		return fmt.Errorf("syntax error at L%d,C%d: %s: <EOF>", pos.Line+1, pos.Col+1, fmt.Sprintf(expected, args...))
	}
	return fmt.Errorf("syntax error at L%d,C%d: %s: %q", pos.Line+1, pos.Col+1, fmt.Sprintf(expected, args...), b)
}

func parseString(scanr *scanner.Scanner) (*token.Scalar, error) {
	scanr.StartToken()
	if err := expectByte(scanr, '"'); err != nil {
		return nil, err
	}
	isUnescaped := true
	for {
		b, err := scanr.Read()
		if err != nil {
			return nil, err
		}
		switch b {
		case '\\':
			isUnescaped = false
			x, err := scanr.Read()
			if err != nil {
				return nil, err
			}
			switch x {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				continue
			case 'u':
				for i := 0; i < 4; i++ {
					b, err = scanr.Read()
					if err != nil {
						return nil, err
					}
					if !isHexDigit(b) {
						scanr.Back()
						return nil, unexpectedByte(scanr, "expected hex digit, got")
					}
				}
			default:
				scanr.Back()
				return nil, unexpectedByte(scanr, "invalid escape character")
			}
		case '"':
			stringBytes := scanr.EndToken()
			scalar := token.NewScalar(token.String, stringBytes)
			if isUnescaped {
				scalar.TypeAndFlags |= token.UnescapedMask
			}
			return scalar, nil
		case scanner.EOF:
			scanr.Back()
			return nil, unexpectedByte(scanr, "unterminated string")
		default:
			if scanner.IsCtrl(b) {
				scanr.Back()
				return nil, unexpectedByte(scanr, "invalid control character in string")
			}
		}
	}
}

func parseNumber(scanr *scanner.Scanner) (*token.Scalar, error) {
	scanr.StartToken()
	var n int
	b, err := scanr.Read()

	// Sign part
	if b == '-' {
		b, err = scanr.Read()
	}
	if err != nil {
		return nil, err
	}

	// Integer part
	if b == '0' {
		b, err = scanr.Read()
		if err != nil {
			return nil, err
		}
	} else if b >= '1' && b <= '9' {
		b, _, err = readDigits(scanr)
		if err != nil {
			return nil, err
		}
	} else {
		scanr.Back()
		return nil, unexpectedByte(scanr, "expected digit, got")
	}

	// Fraction part
	if b == '.' {
		b, n, err = readDigits(scanr)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			scanr.Back()
			return nil, unexpectedByte(scanr, "expected digit, got")
		}
	}

	// Exponent part
	if b == 'e' || b == 'E' {
		b, err = scanr.Peek()
		if err != nil {
			return nil, err
		}
		if b == '-' || b == '+' {
			scanr.Read()
		}
		_, n, err = readDigits(scanr)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			scanr.Back()
			return nil, unexpectedByte(scanr, "expected digit, got")
		}
	}
	scanr.Back()
	return token.NewScalar(token.Number, scanr.EndToken()), nil
}

func readDigits(scanr *scanner.Scanner) (byte, int, error) {
	var n int
	for {
		b, err := scanr.Read()
		if err != nil {
			return 0, n, err
		}
		if !scanner.IsDigit(b) {
			return b, n, nil
		}
		n++
	}
}

func checkBytes(scanr *scanner.Scanner, expected []byte) error {
	for _, xb := range expected {
		if err := expectByte(scanr, xb); err != nil {
			return err
		}
	}
	return nil
}

func isHexDigit(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

var (
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
	nullBytes  = []byte("null")
)
