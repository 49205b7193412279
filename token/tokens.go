package token

import (
	"fmt"
	"strconv"

	"github.com/go-json-experiment/json"
)

// A Token is an item in a stream that encodes a JSON value.
// For example, the JSON value
//
//	{"id": 123, "tags": ["important", "new"]}
//
// would be represented by the stream of Token (in pseudocode for
// clarity):
//
//	{            -> StartObject
//	"id":        -> Scalar("id", String, key)
//	123,         -> Scalar(123, Number)
//	"tags":      -> Scalar("tags", String, key)
//	[            -> StartArray
//	"important", -> Scalar("important", String)
//	"new"        -> Scalar("new", String)
//	]            -> EndArray
//	}            -> EndObject
type Token interface {
	fmt.Stringer
}

// StartObject represents the start of a JSON object (introduced by '{').
type StartObject struct{}

func (s *StartObject) String() string {
	return "StartObject"
}

var _ Token = &StartObject{}

// EndObject represents the end of a JSON object (introduced by '}').
type EndObject struct{}

func (e *EndObject) String() string {
	return "EndObject"
}

var _ Token = &EndObject{}

// StartArray represents the start of a JSON array (introduced by '[').
type StartArray struct{}

func (s *StartArray) String() string {
	return "StartArray"
}

var _ Token = &StartArray{}

// EndArray represents the end of a JSON array (introduced by ']').
type EndArray struct{}

func (e *EndArray) String() string {
	return "EndArray"
}

var _ Token = &EndArray{}

// Scalar is the type used to represent all scalar JSON values, i.e.
// - strings
// - numbers
// - booleans (two values)
// - null (a single value)
//
// The type is encoded in the TypeAndFlags field, while the Bytes field
// contains the literal representation of the value as found in the input.
type Scalar struct {

	// Literal representation of the value, e.g.
	// - the string "foo" is represented as []byte("\"foo\"")
	// - the number 123.5 is represented as []byte("123.5")
	// - the boolean true is represented as []byte("true")
	Bytes []byte

	// Type of the value plus flags (key, unescaped)
	TypeAndFlags uint8
}

func NewScalar(tp ScalarType, bytes []byte) *Scalar {
	return &Scalar{
		Bytes:        bytes,
		TypeAndFlags: uint8(tp),
	}
}

// NewKey returns a Scalar flagged as an object key.
func NewKey(tp ScalarType, bytes []byte) *Scalar {
	return &Scalar{
		Bytes:        bytes,
		TypeAndFlags: uint8(tp) | KeyMask,
	}
}

func (s *Scalar) Type() ScalarType {
	return ScalarType(s.TypeAndFlags & TypeMask)
}

// IsKey reports whether the scalar is an object key rather than a value.
func (s *Scalar) IsKey() bool {
	return KeyMask&s.TypeAndFlags != 0
}

// IsUnescaped reports whether a string scalar is known to contain no escape
// sequences, in which case its value is its literal bytes without the
// surrounding quotes.
func (s *Scalar) IsUnescaped() bool {
	return UnescapedMask&s.TypeAndFlags != 0
}

func (s *Scalar) String() string {
	return fmt.Sprintf("Scalar(%s)", s.Bytes)
}

// EqualsString is a convenience method to check if a Scalar represents the
// passed string.
func (s *Scalar) EqualsString(str string) bool {
	if s.Type() != String {
		return false
	}
	return s.ToString() == str
}

// ToString returns the string represented by the scalar.  It panics if the
// scalar is not a string.
func (s *Scalar) ToString() string {
	if s.IsUnescaped() {
		return string(s.Bytes[1 : len(s.Bytes)-1])
	}
	var str string
	if err := json.Unmarshal(s.Bytes, &str); err != nil {
		panic(err)
	}
	return str
}

// ToGo converts the scalar to its Go representation: nil, bool, float64 or
// string.
func (s *Scalar) ToGo() any {
	switch s.Type() {
	case Null:
		return nil
	case Boolean:
		return s.Bytes[0] == 't'
	case Number:
		x, err := strconv.ParseFloat(string(s.Bytes), 64)
		if err != nil {
			panic(err)
		}
		return x
	case String:
		return s.ToString()
	default:
		panic("invalid scalar type")
	}
}

// ScalarType encodes the four possible JSON scalar types.
type ScalarType uint8

const (
	Null               = 0x0 // the type of JSON null
	Boolean            = 0x1 // a JSON boolean
	Number             = 0x2 // a JSON number
	String  ScalarType = 0x3 // a JSON string
)

const (
	TypeMask      = 0b0011
	KeyMask       = 0b0100
	UnescapedMask = 0b1000
)

var (
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
	nullBytes  = []byte("null")
)

var (
	TrueScalar  = NewScalar(Boolean, trueBytes)
	FalseScalar = NewScalar(Boolean, falseBytes)
	NullScalar  = NewScalar(Null, nullBytes)
)

// StringScalar returns a string scalar with the JSON encoding of s as its
// literal bytes.
func StringScalar(s string) *Scalar {
	encoded, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return NewScalar(String, encoded)
}

func Float64Scalar(x float64) *Scalar {
	return NewScalar(Number, strconv.AppendFloat(nil, x, 'g', -1, 64))
}

func Int64Scalar(n int64) *Scalar {
	return NewScalar(Number, strconv.AppendInt(nil, n, 10))
}

func BoolScalar(b bool) *Scalar {
	if b {
		return TrueScalar
	}
	return FalseScalar
}
