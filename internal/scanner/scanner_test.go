package scanner

import (
	"strings"
	"testing"
)

func checkRead(t *testing.T, s *Scanner, expected byte) {
	t.Helper()
	b, err := s.Read()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if b != expected {
		t.Fatalf("expected %q, got %q", expected, b)
	}
}

func checkPos(t *testing.T, s *Scanner, line, col int) {
	t.Helper()
	pos := s.CurrentPos()
	if pos.Line != line || pos.Col != col {
		t.Fatalf("expected position L%d,C%d, got L%d,C%d", line, col, pos.Line, pos.Col)
	}
}

func TestScannerRead(t *testing.T) {
	s := NewScanner(strings.NewReader("ab"))
	checkRead(t, s, 'a')
	checkRead(t, s, 'b')
	checkRead(t, s, EOF)
	checkRead(t, s, EOF)
}

func TestScannerBack(t *testing.T) {
	s := NewScanner(strings.NewReader("ab"))
	checkRead(t, s, 'a')
	s.Back()
	checkRead(t, s, 'a')
	checkRead(t, s, 'b')
	s.Back()
	checkRead(t, s, 'b')
	checkRead(t, s, EOF)
}

func TestScannerBackAfterEOF(t *testing.T) {
	s := NewScanner(strings.NewReader("x"))
	checkRead(t, s, 'x')
	checkRead(t, s, EOF)
	s.Back()
	checkRead(t, s, EOF)
}

func TestScannerPeek(t *testing.T) {
	s := NewScanner(strings.NewReader("ab"))
	b, err := s.Peek()
	if err != nil || b != 'a' {
		t.Fatalf("expected 'a', got %q (err: %v)", b, err)
	}
	checkRead(t, s, 'a')
	checkRead(t, s, 'b')
	b, err = s.Peek()
	if err != nil || b != EOF {
		t.Fatalf("expected EOF, got %q (err: %v)", b, err)
	}
}

func TestScannerPos(t *testing.T) {
	s := NewScanner(strings.NewReader("ab\ncd"))
	checkPos(t, s, 0, 0)
	checkRead(t, s, 'a')
	checkPos(t, s, 0, 1)
	checkRead(t, s, 'b')
	checkRead(t, s, '\n')
	checkPos(t, s, 1, 0)
	checkRead(t, s, 'c')
	checkPos(t, s, 1, 1)
	s.Back()
	checkPos(t, s, 1, 0)
}

func TestScannerPosUnicode(t *testing.T) {
	// Each codepoint counts for one column, not each byte.
	s := NewScanner(strings.NewReader("é!"))
	checkRead(t, s, 0xC3)
	checkPos(t, s, 0, 0)
	checkRead(t, s, 0xA9)
	checkPos(t, s, 0, 1)
	checkRead(t, s, '!')
	checkPos(t, s, 0, 2)
}

func TestSkipSpaceAndPeek(t *testing.T) {
	s := NewScanner(strings.NewReader("  \t\n  x"))
	b, err := s.SkipSpaceAndPeek()
	if err != nil || b != 'x' {
		t.Fatalf("expected 'x', got %q (err: %v)", b, err)
	}
	checkPos(t, s, 1, 2)
	checkRead(t, s, 'x')
}

func TestSkipSpaceAndRead(t *testing.T) {
	s := NewScanner(strings.NewReader(" a b"))
	b, err := s.SkipSpaceAndRead()
	if err != nil || b != 'a' {
		t.Fatalf("expected 'a', got %q (err: %v)", b, err)
	}
	b, err = s.SkipSpaceAndRead()
	if err != nil || b != 'b' {
		t.Fatalf("expected 'b', got %q (err: %v)", b, err)
	}
	b, err = s.SkipSpaceAndRead()
	if err != nil || b != EOF {
		t.Fatalf("expected EOF, got %q (err: %v)", b, err)
	}
}

func TestSkipSpaceOnly(t *testing.T) {
	s := NewScanner(strings.NewReader("   "))
	b, err := s.SkipSpaceAndPeek()
	if err != nil || b != EOF {
		t.Fatalf("expected EOF, got %q (err: %v)", b, err)
	}
}

func TestToken(t *testing.T) {
	s := NewScanner(strings.NewReader("hello world"))
	s.StartToken()
	for range 5 {
		if _, err := s.Read(); err != nil {
			t.Fatal(err)
		}
	}
	tok := s.EndToken()
	if string(tok) != "hello" {
		t.Fatalf("expected %q, got %q", "hello", tok)
	}
}

func TestTokenLongerThanBuffer(t *testing.T) {
	input := strings.Repeat("0123456789", 10)
	s := NewScannerSize(strings.NewReader("<"+input+">"), 8)
	checkRead(t, s, '<')
	s.StartToken()
	for range len(input) {
		if _, err := s.Read(); err != nil {
			t.Fatal(err)
		}
	}
	tok := s.EndToken()
	if string(tok) != input {
		t.Fatalf("expected %q, got %q", input, tok)
	}
	checkRead(t, s, '>')
	checkRead(t, s, EOF)
}

func TestTokenWithBack(t *testing.T) {
	s := NewScanner(strings.NewReader("123x"))
	s.StartToken()
	for {
		b, err := s.Read()
		if err != nil {
			t.Fatal(err)
		}
		if !IsDigit(b) {
			s.Back()
			break
		}
	}
	tok := s.EndToken()
	if string(tok) != "123" {
		t.Fatalf("expected %q, got %q", "123", tok)
	}
	checkRead(t, s, 'x')
}

func TestSmallBufferRead(t *testing.T) {
	input := "abcdefghijklmnop"
	s := NewScannerSize(strings.NewReader(input), 4)
	for i := 0; i < len(input); i++ {
		checkRead(t, s, input[i])
	}
	checkRead(t, s, EOF)
}
