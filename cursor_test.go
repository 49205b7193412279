package docstream

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnodel/docstream/docpath"
)

const cursorTestDoc = `{
  "name": "run-7",
  "results": [
    {"id": 1, "score": 0.5},
    {"id": 2, "score": 0.9},
    {"id": 3, "score": 0.1}
  ]
}`

func collectCursor(t *testing.T, c *Cursor) []any {
	t.Helper()
	var items []any
	for c.Next() {
		items = append(items, c.Value())
	}
	return items
}

func TestCursorItems(t *testing.T) {
	path := writeTestFile(t, cursorTestDoc)
	c, err := OpenCursor(path, docpath.MustParse("results.item"))
	require.NoError(t, err)
	defer c.Close()

	items := collectCursor(t, c)
	require.NoError(t, c.Err())
	require.Len(t, items, 3)
	for i, item := range items {
		doc, ok := item.(Document)
		require.True(t, ok, "expected Document, got %T", item)
		id, _ := doc.Get("id")
		assert.Equal(t, float64(i+1), id)
	}

	// Exhaustion is final.
	assert.False(t, c.Next())
	assert.False(t, c.Next())
	assert.NoError(t, c.Err())
}

func TestCursorScalarTarget(t *testing.T) {
	path := writeTestFile(t, cursorTestDoc)
	c, err := OpenCursor(path, docpath.MustParse("name"))
	require.NoError(t, err)
	defer c.Close()

	items := collectCursor(t, c)
	require.NoError(t, c.Err())
	assert.Equal(t, []any{"run-7"}, items)
}

func TestCursorNestedWildcards(t *testing.T) {
	path := writeTestFile(t, `{
	  "batches": [
	    {"rows": [1, 2]},
	    {"rows": []},
	    {"rows": [3]}
	  ]
	}`)
	c, err := OpenCursor(path, docpath.MustParse("batches.item.rows.item"))
	require.NoError(t, err)
	defer c.Close()

	items := collectCursor(t, c)
	require.NoError(t, c.Err())
	assert.Equal(t, []any{1.0, 2.0, 3.0}, items)
}

func TestCursorNoMatch(t *testing.T) {
	path := writeTestFile(t, cursorTestDoc)
	c, err := OpenCursor(path, docpath.MustParse("missing.item"))
	require.NoError(t, err)
	defer c.Close()

	assert.False(t, c.Next())
	assert.NoError(t, c.Err())
}

func TestCursorEmptyExpression(t *testing.T) {
	path := writeTestFile(t, cursorTestDoc)
	_, err := OpenCursor(path, nil)
	assert.Error(t, err)
}

func TestCursorMissingFile(t *testing.T) {
	_, err := OpenCursor(filepath.Join(t.TempDir(), "nope.json"), docpath.MustParse("results.item"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCursorEarlyClose(t *testing.T) {
	path := writeTestFile(t, cursorTestDoc)
	c, err := OpenCursor(path, docpath.MustParse("results.item"))
	require.NoError(t, err)

	require.True(t, c.Next())
	require.NoError(t, c.Close())
	assert.False(t, c.Next())
	assert.NoError(t, c.Err())
	// Closing again does nothing.
	assert.NoError(t, c.Close())
}

func TestCursorParseError(t *testing.T) {
	path := writeTestFile(t, `{"results": [{"id": 1}, {"id": ]}`)
	c, err := OpenCursor(path, docpath.MustParse("results.item"))
	require.NoError(t, err)
	defer c.Close()

	require.True(t, c.Next())
	assert.False(t, c.Next())
	err = c.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	// The error is sticky.
	assert.False(t, c.Next())
	assert.Error(t, c.Err())
}

func TestCursorSeq(t *testing.T) {
	path := writeTestFile(t, `{"xs": [10, 20, 30]}`)
	c, err := OpenCursor(path, docpath.MustParse("xs.item"))
	require.NoError(t, err)
	defer c.Close()

	seq := c.Seq()
	var items []any
	for {
		item, ok := seq.Next()
		if !ok {
			break
		}
		items = append(items, item)
	}
	require.NoError(t, c.Err())
	assert.Equal(t, []any{10.0, 20.0, 30.0}, items)
}
