package iterator

import (
	"testing"

	"github.com/arnodel/docstream/token"
)

func scalarTokens(toks ...token.Token) token.ReadStream {
	return token.NewSliceReadStream(toks)
}

func TestIterateScalars(t *testing.T) {
	it := New(scalarTokens(token.Int64Scalar(1), token.StringScalar("two")))
	if !it.Advance() {
		t.Fatal("expected first value")
	}
	s, ok := it.CurrentValue().(*Scalar)
	if !ok {
		t.Fatalf("expected scalar, got %#v", it.CurrentValue())
	}
	if got := s.Scalar().ToGo(); got != 1.0 {
		t.Fatalf("expected 1, got %v", got)
	}
	if !it.Advance() {
		t.Fatal("expected second value")
	}
	s = it.CurrentValue().(*Scalar)
	if got := s.Scalar().ToGo(); got != "two" {
		t.Fatalf("expected two, got %v", got)
	}
	if it.Advance() {
		t.Fatal("expected exhausted iterator")
	}
}

func TestIterateObject(t *testing.T) {
	// {"a": 1, "b": true}
	it := New(scalarTokens(
		&token.StartObject{},
		token.NewKey(token.String, []byte(`"a"`)),
		token.Int64Scalar(1),
		token.NewKey(token.String, []byte(`"b"`)),
		token.TrueScalar,
		&token.EndObject{},
	))
	if !it.Advance() {
		t.Fatal("expected a value")
	}
	obj, ok := it.CurrentValue().(*Object)
	if !ok {
		t.Fatalf("expected object, got %#v", it.CurrentValue())
	}
	expected := []struct {
		key string
		val any
	}{
		{"a", 1.0},
		{"b", true},
	}
	for _, kv := range expected {
		if !obj.Advance() {
			t.Fatalf("expected key %q", kv.key)
		}
		key, val := obj.CurrentKeyVal()
		if !key.EqualsString(kv.key) {
			t.Fatalf("expected key %q, got %s", kv.key, key)
		}
		if got := val.(*Scalar).Scalar().ToGo(); got != kv.val {
			t.Fatalf("expected value %v, got %v", kv.val, got)
		}
	}
	if obj.Advance() {
		t.Fatal("expected exhausted object")
	}
	if !obj.Done() {
		t.Fatal("expected object to be done")
	}
	if it.Advance() {
		t.Fatal("expected exhausted iterator")
	}
}

func TestIterateNestedArray(t *testing.T) {
	// [[1, 2], 3]
	it := New(scalarTokens(
		&token.StartArray{},
		&token.StartArray{},
		token.Int64Scalar(1),
		token.Int64Scalar(2),
		&token.EndArray{},
		token.Int64Scalar(3),
		&token.EndArray{},
	))
	if !it.Advance() {
		t.Fatal("expected a value")
	}
	arr := it.CurrentValue().(*Array)
	if !arr.Advance() {
		t.Fatal("expected first element")
	}
	inner := arr.CurrentValue().(*Array)
	if !inner.Advance() {
		t.Fatal("expected inner element")
	}
	if got := inner.CurrentValue().(*Scalar).Scalar().ToGo(); got != 1.0 {
		t.Fatalf("expected 1, got %v", got)
	}
	// Advancing the outer array discards the rest of the inner one.
	if !arr.Advance() {
		t.Fatal("expected second element")
	}
	if got := arr.CurrentValue().(*Scalar).Scalar().ToGo(); got != 3.0 {
		t.Fatalf("expected 3, got %v", got)
	}
	if arr.Advance() {
		t.Fatal("expected exhausted array")
	}
}

func TestDiscard(t *testing.T) {
	// {"a": {"deep": [1, 2]}} 42
	it := New(scalarTokens(
		&token.StartObject{},
		token.NewKey(token.String, []byte(`"a"`)),
		&token.StartObject{},
		token.NewKey(token.String, []byte(`"deep"`)),
		&token.StartArray{},
		token.Int64Scalar(1),
		token.Int64Scalar(2),
		&token.EndArray{},
		&token.EndObject{},
		&token.EndObject{},
		token.Int64Scalar(42),
	))
	if !it.Advance() {
		t.Fatal("expected a value")
	}
	it.CurrentValue().Discard()
	if !it.Advance() {
		t.Fatal("expected a value after discard")
	}
	if got := it.CurrentValue().(*Scalar).Scalar().ToGo(); got != 42.0 {
		t.Fatalf("expected 42, got %v", got)
	}
}

func TestTruncatedStream(t *testing.T) {
	// {"a": ... with the stream cut short: iteration ends without panicking.
	it := New(scalarTokens(
		&token.StartObject{},
		token.NewKey(token.String, []byte(`"a"`)),
	))
	if !it.Advance() {
		t.Fatal("expected a value")
	}
	obj := it.CurrentValue().(*Object)
	if obj.Advance() {
		t.Fatal("expected truncated object to end")
	}
	if !obj.Done() {
		t.Fatal("expected object to be done")
	}
}
