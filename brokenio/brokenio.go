// Package brokenio wraps a reader so that it misbehaves on demand.
// Typical use: you have a reader from a file, a gzip stream or an
// http body. Wrap it with NewReader and set where it should break.
// Everything then works as before until the break point.
//
// Two failures are common in the wild. A zero length file returns
// io.EOF on the first read without an error. A truncated transfer
// returns some data and then an error.
package brokenio

import (
	"errors"
	"fmt"
	"io"
)

// ErrBroken is returned once the reader has passed its failure point.
var ErrBroken = errors.New("brokenio: artificial read failure")

// Reader is modelled on the readers in the standard library, but with
// settings controlling when it fails.
type Reader struct {
	rdr       io.Reader
	failAfter int  // fail once this many bytes have gone through, <0 never
	chunk     int  // largest read passed through, 0 for no limit
	zeroFile  bool // first read returns io.EOF
	nCalled   int
	nByte     int
}

// NewReader returns a wrapper around rIn that behaves like rIn until
// one of the Set methods says otherwise.
func NewReader(rIn io.Reader) *Reader {
	return &Reader{rdr: rIn, failAfter: -1}
}

// SetFailAfter makes reads fail with ErrBroken once n bytes have been
// delivered. A negative n switches failures off.
func (r *Reader) SetFailAfter(n int) { r.failAfter = n }

// SetChunk limits each read to at most n bytes, so callers see short
// reads.
func (r *Reader) SetChunk(n int) { r.chunk = n }

// SetZeroFile makes the reader look like an empty file.
func (r *Reader) SetZeroFile(b bool) { r.zeroFile = b }

// NCalled is the number of calls to Read.
func (r *Reader) NCalled() int { return r.nCalled }

// NByte is the number of bytes delivered so far.
func (r *Reader) NByte() int { return r.nByte }

// Read wraps the original reader and keeps count of what has gone
// through.
func (r *Reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	r.nCalled++
	if r.zeroFile && r.nCalled == 1 {
		return 0, io.EOF
	}
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, fmt.Errorf("%w after %d bytes", ErrBroken, r.nByte)
		}
		if len(p) > left {
			p = p[:left]
		}
	}
	if r.chunk > 0 && len(p) > r.chunk {
		p = p[:r.chunk]
	}
	n, err = r.rdr.Read(p)
	r.nByte += n
	return n, err
}

// ReadCloser adds a Close method to a Reader, for callers that expect
// an io.ReadCloser such as an http body.
type ReadCloser struct {
	*Reader
	c io.Closer
}

// NewReadCloser wraps rc. Close is passed through unchanged.
func NewReadCloser(rc io.ReadCloser) *ReadCloser {
	return &ReadCloser{Reader: NewReader(rc), c: rc}
}

// Close wraps the original Close method.
func (r *ReadCloser) Close() error { return r.c.Close() }
