package docstream

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// ErrNotFound is returned by the read operations when the document file does
// not exist.  Check for it with errors.Is.
var ErrNotFound = errors.New("document not found")

// Read parses the whole document at path into memory.  Objects decode as
// Document (member order preserved), arrays as Array, numbers as float64.
//
// A missing file is reported as ErrNotFound; malformed content as the
// decoding error.
func Read(path string) (any, error) {
	f, err := openDocument(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var v any
	if err := json.UnmarshalRead(f, &v, json.WithUnmarshalers(Unmarshalers())); err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return v, nil
}

// openDocument opens a document file for reading, converting a missing file
// into ErrNotFound.
func openDocument(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

// Write serializes v to the file at path, with 2-space indentation, UTF-8
// encoded, non-ASCII characters emitted literally.  Any existing content is
// overwritten.
func Write(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := json.MarshalWrite(f, v, json.WithMarshalers(Marshalers()), jsontext.WithIndent("  ")); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}
