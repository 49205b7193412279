package docstream

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Unmarshalers returns the custom unmarshalers that decode JSON objects into
// Document (preserving member order) and JSON arrays into Array, both when
// decoding into any and when decoding directly into *Document or *Array.
// Scalar values are left to the default behavior, so numbers come out as
// float64.
func Unmarshalers() *json.Unmarshalers {
	return json.JoinUnmarshalers(
		json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *any) error {
			switch dec.PeekKind() {
			case '{':
				doc, err := decodeDocument(dec)
				if err != nil {
					return err
				}
				*v = doc
				return nil
			case '[':
				arr, err := decodeArray(dec)
				if err != nil {
					return err
				}
				*v = arr
				return nil
			default:
				return json.SkipFunc
			}
		}),
		json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *Document) error {
			if dec.PeekKind() != '{' {
				return json.SkipFunc
			}
			doc, err := decodeDocument(dec)
			if err != nil {
				return err
			}
			*v = doc
			return nil
		}),
		json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *Array) error {
			if dec.PeekKind() != '[' {
				return json.SkipFunc
			}
			arr, err := decodeArray(dec)
			if err != nil {
				return err
			}
			*v = arr
			return nil
		}),
	)
}

// Marshalers returns the custom marshalers encoding a Document as a JSON
// object with its members in order.  Array needs no custom marshaler, the
// default slice encoding applies.
func Marshalers() *json.Marshalers {
	return json.MarshalToFunc(func(enc *jsontext.Encoder, d Document) error {
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return fmt.Errorf("write object open: %w", err)
		}
		for _, e := range d {
			if err := enc.WriteToken(jsontext.String(e.Key)); err != nil {
				return fmt.Errorf("write key %q: %w", e.Key, err)
			}
			if err := json.MarshalEncode(enc, e.Value); err != nil {
				return fmt.Errorf("write value for key %q: %w", e.Key, err)
			}
		}
		if err := enc.WriteToken(jsontext.EndObject); err != nil {
			return fmt.Errorf("write object close: %w", err)
		}
		return nil
	})
}

func decodeDocument(dec *jsontext.Decoder) (Document, error) {
	if _, err := dec.ReadToken(); err != nil { // '{'
		return nil, fmt.Errorf("read object open: %w", err)
	}
	doc := Document{}
	for dec.PeekKind() != '}' {
		var key string
		if err := json.UnmarshalDecode(dec, &key); err != nil {
			return nil, fmt.Errorf("read object key: %w", err)
		}
		var val any
		if err := json.UnmarshalDecode(dec, &val); err != nil {
			return nil, fmt.Errorf("read object value for key %q: %w", key, err)
		}
		doc = append(doc, Entry{Key: key, Value: val})
	}
	if _, err := dec.ReadToken(); err != nil { // '}'
		return nil, fmt.Errorf("read object close: %w", err)
	}
	return doc, nil
}

func decodeArray(dec *jsontext.Decoder) (Array, error) {
	if _, err := dec.ReadToken(); err != nil { // '['
		return nil, fmt.Errorf("read array open: %w", err)
	}
	arr := Array{}
	for dec.PeekKind() != ']' {
		var elem any
		if err := json.UnmarshalDecode(dec, &elem); err != nil {
			return nil, fmt.Errorf("read array element: %w", err)
		}
		arr = append(arr, elem)
	}
	if _, err := dec.ReadToken(); err != nil { // ']'
		return nil, fmt.Errorf("read array close: %w", err)
	}
	return arr, nil
}
