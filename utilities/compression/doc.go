// Package compression provides the byte-level building blocks the codecs share.
//
// Run grouping splits a row of samples into maximal runs of one value. A run
// never extends past the slice it was found in, so grouping rows one at a time
// guarantees runs stop at row boundaries. The run-length codec is built on it.
//
// The zlib helpers wrap a general-purpose deflate implementation. The deflate
// baseline codec runs raw samples through them, and the predictive codec uses
// them to store its residuals. The Huffman, dictionary and run-length container
// formats don't depend on them.

package compression
