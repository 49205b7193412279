// Package docstream implements routines for reading and writing JSON
// documents stored in files, without requiring a whole document to fit in
// memory.
//
// The package is organized into several sub-packages:
//
// - token: Core token types and pull-based streaming infrastructure
// - iterator: Value-based iteration over token streams
// - docpath: The path-expression language addressing nested values
// - internal/scanner: Buffered byte scanning with token recording
//
// On top of these, this package provides:
//
// - Read / Write: whole-document access with an insertion-ordered
//   Document value model
// - ReadFields: selective retrieval of dotted-path fields in a single
//   pass over the file
// - OpenCursor: a lazy, single-pass cursor over the elements of an array
//   nested at a path expression, holding the file open only for the
//   lifetime of the cursor
// - WriteStreamed: a hybrid writer emitting a document whose members are
//   partly in-memory values and partly arrays drained from lazy
//   sequences, so that a large array is never materialized
//
// All operations are synchronous and single-threaded; none are designed
// for concurrent invocation against the same path.
//
// The jdoc CLI utility in cmd/jdoc exposes the read-side operations for
// inspecting documents from the command line.
package docstream
