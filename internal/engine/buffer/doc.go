// Package buffer provides the read-only, line indexed text model the section
// scanner runs over.
//
// A Buffer normalizes line endings to "\n" when it is created and remembers
// the dominant style it found, then answers line queries from a line start
// index without splitting the text:
//
//	buf := buffer.NewBufferFromString("package main\r\n\r\n// MARK: Types\r\n")
//	buf.LineCount()     // 4
//	buf.LineContent(3)  // "// MARK: Types"
//	buf.LineEnding()    // LineEndingCRLF
//
// Line numbers are 1-based, matching the sections package.
//
// Thread Safety:
//
// A Buffer is immutable after construction and safe for concurrent reads.
package buffer
