package scanner

import (
	"io"
	"slices"
)

// Pos is a position in the input, 0-based.
type Pos struct {
	Line int
	Col  int
}

// A Scanner reads bytes from an io.Reader through an internal buffer, keeping
// track of the current line and column.  A contiguous run of bytes can be
// recorded as a token with StartToken / EndToken; the scanner takes care of
// preserving recorded bytes when the buffer is refilled, so tokens may be
// longer than the buffer.
type Scanner struct {
	reader io.Reader
	buf    []byte

	// The first unfilled position in buf
	// 0 <= fillIndex <= len(buf)
	fillIndex int

	// Current position in buf
	// 0 <= currentIndex <= fillIndex
	currentIndex int

	// Line and column of the current position, and of the previous one so
	// that Back can restore it.
	currentPos, prevPos Pos

	// Position in buf of the currently recorded token.
	// -1 means not recording a token
	// 0 means there may be token parts no longer in the buffer
	tokenStartIndex int

	// Parts of a token that no longer fit in the read buffer.
	tokenParts [][]byte

	err error

	// Number of EOFs read so far, so that Back works after an EOF.
	eofCount int
}

func NewScanner(reader io.Reader) *Scanner {
	return NewScannerSize(reader, defaultBufSize)
}

func NewScannerSize(reader io.Reader, size int) *Scanner {
	return &Scanner{
		reader:          reader,
		buf:             make([]byte, size),
		tokenStartIndex: -1,
		prevPos:         Pos{Line: -1},
	}
}

// Read returns the next byte of input, or the EOF sentinel when the input is
// exhausted.  A non-nil error is only returned when reading from the
// underlying reader fails.
func (s *Scanner) Read() (byte, error) {
	if s.currentIndex >= s.fillIndex {
		s.fillBuf()
	}
	if s.currentIndex < s.fillIndex {
		b := s.buf[s.currentIndex]
		s.prevPos = s.currentPos
		switch {
		case b == '\n':
			s.currentPos.Line++
			s.currentPos.Col = 0
		case b < 0xC0:
			// Last byte in a utf8-encoded codepoint
			s.currentPos.Col++
		}
		s.currentIndex++
		return b, nil
	}
	if s.err == io.EOF {
		s.eofCount++
		return EOF, nil
	}
	return 0, s.err
}

// Back undoes the last Read.  Only one byte of lookback is available, going
// back twice in a row panics.
func (s *Scanner) Back() {
	if s.currentIndex <= 0 || s.currentIndex <= s.tokenStartIndex {
		panic("cannot go back from start")
	}
	if s.prevPos.Line < 0 {
		panic("cannot go back twice")
	}
	if s.eofCount > 0 {
		s.eofCount--
		return
	}
	s.currentIndex--
	s.currentPos = s.prevPos
	s.prevPos.Line = -1
}

// Peek returns the next byte of input without consuming it.
func (s *Scanner) Peek() (byte, error) {
	if s.currentIndex >= s.fillIndex {
		s.fillBuf()
	}
	if s.currentIndex < s.fillIndex {
		return s.buf[s.currentIndex], nil
	}
	return s.errOrEOF()
}

// SkipSpaceAndPeek skips JSON whitespace and returns the first byte after it
// without consuming it.
func (s *Scanner) SkipSpaceAndPeek() (byte, error) {
	for {
		for i, b := range s.buf[s.currentIndex:s.fillIndex] {
			switch {
			case b == '\n':
				s.currentPos.Line++
				s.currentPos.Col = 0
			case b == ' ' || b == '\t' || b == '\r':
				s.currentPos.Col++
			default:
				s.currentIndex += i
				return b, nil
			}
		}
		s.currentIndex = s.fillIndex
		s.fillBuf()
		if s.currentIndex >= s.fillIndex {
			return s.errOrEOF()
		}
	}
}

// SkipSpaceAndRead skips JSON whitespace and consumes and returns the first
// byte after it.
func (s *Scanner) SkipSpaceAndRead() (byte, error) {
	b, err := s.SkipSpaceAndPeek()
	if err != nil || b == EOF {
		if b == EOF {
			s.eofCount++
		}
		return b, err
	}
	s.prevPos = s.currentPos
	if b < 0xC0 {
		s.currentPos.Col++
	}
	s.currentIndex++
	return b, nil
}

// StartToken starts recording a token at the current position and returns
// that position.
func (s *Scanner) StartToken() Pos {
	if s.tokenStartIndex >= 0 {
		panic("already in record mode")
	}
	s.tokenStartIndex = s.currentIndex
	return s.currentPos
}

// EndToken stops recording and returns the bytes consumed since StartToken.
func (s *Scanner) EndToken() []byte {
	if s.tokenStartIndex < 0 {
		panic("not in record mode")
	}
	if s.tokenParts == nil {
		tokBytes := slices.Clone(s.buf[s.tokenStartIndex:s.currentIndex])
		s.tokenStartIndex = -1
		return tokBytes
	}
	// Precalculate the size of the token so it doesn't have to be grown
	// mid-concatenation.
	tokLen := s.currentIndex - s.tokenStartIndex
	for _, p := range s.tokenParts {
		tokLen += len(p)
	}
	tokBytes := make([]byte, 0, tokLen)
	for _, p := range s.tokenParts {
		tokBytes = append(tokBytes, p...)
	}
	tokBytes = append(tokBytes, s.buf[s.tokenStartIndex:s.currentIndex]...)
	s.tokenStartIndex = -1
	s.tokenParts = nil
	return tokBytes
}

// CurrentPos returns the line and column of the current position.
func (s *Scanner) CurrentPos() Pos {
	return s.currentPos
}

func (s *Scanner) fillBuf() {
	if s.fillIndex == len(s.buf) {
		var baseIndex int
		// If we are recording a token then try to shift the buffer so the
		// token remains wholly in the buffer.
		if s.tokenStartIndex > 0 {
			baseIndex = s.tokenStartIndex
			s.tokenStartIndex = 0
		} else if s.currentIndex >= lookBackSize {
			baseIndex = s.currentIndex - lookBackSize
			if s.tokenStartIndex >= 0 {
				// The recorded token fills the whole buffer, spill it.
				newTokenBytes := make([]byte, baseIndex)
				copy(newTokenBytes, s.buf)
				s.tokenParts = append(s.tokenParts, newTokenBytes)
			}
		}
		if baseIndex > 0 {
			copy(s.buf, s.buf[baseIndex:s.fillIndex])
			s.fillIndex -= baseIndex
			s.currentIndex -= baseIndex
		}
	}
	for i := maxConsecutiveEmptyReads; i > 0; i-- {
		n, err := s.reader.Read(s.buf[s.fillIndex:])
		s.fillIndex += n
		if err != nil {
			s.err = err
			return
		}
		if n > 0 {
			return
		}
	}
	s.err = io.ErrNoProgress
}

func (s *Scanner) errOrEOF() (byte, error) {
	if s.err == io.EOF {
		return EOF, nil
	}
	return 0, s.err
}

func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsCtrl(b byte) bool {
	return b < 32
}

const (
	lookBackSize             = 1
	maxConsecutiveEmptyReads = 100
	defaultBufSize           = 8192
)

// EOF is a sentinel byte that cannot appear in UTF-8 encoded input.
const EOF byte = 0xFF
