// Package zwrap takes a file and, if it is gzipped, wraps it so reads
// come from the decompressor. Closing the wrapper closes the
// decompressor, followed by the underlying file.
package zwrap

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"

	"go.uber.org/multierr"
)

// gzipMagic are the first two bytes of any gzip stream.
var gzipMagic = [2]byte{0x1f, 0x8b}

// FpGzip is what we return. If zrdr is nil, the file was not
// compressed and reads go straight through.
type FpGzip struct {
	fp   io.ReadCloser
	zrdr *gzip.Reader
}

// Close closes the decompressor, then the backing file. Both errors
// are kept.
func (fc *FpGzip) Close() error {
	if fc.zrdr == nil {
		return fc.fp.Close()
	}
	return multierr.Append(fc.zrdr.Close(), fc.fp.Close())
}

// Read reads from the decompressed stream if there is one.
func (fc *FpGzip) Read(p []byte) (int, error) {
	if fc.zrdr != nil {
		return fc.zrdr.Read(p)
	}
	return fc.fp.Read(p)
}

// Compressed says if we are reading through gzip.
func (fc *FpGzip) Compressed() bool { return fc.zrdr != nil }

// Wrap puts a gzip reader on top of fp. It fails if fp is not gzipped.
func Wrap(fp io.ReadCloser) (*FpGzip, error) {
	zrdr, err := gzip.NewReader(fp)
	if err != nil {
		return nil, err
	}
	return &FpGzip{fp: fp, zrdr: zrdr}, nil
}

// IsGzip looks at the first bytes of a seekable source and rewinds it.
func IsGzip(rs io.ReadSeeker) (bool, error) {
	var b [2]byte
	n, err := io.ReadFull(rs, b[:])
	if _, e2 := rs.Seek(0, io.SeekStart); e2 != nil {
		return false, e2
	}
	if err != nil && n < len(b) { // Short files are not compressed
		return false, nil
	}
	return b == gzipMagic, nil
}

// ReadSeekCloser is a file, or something that behaves like one.
type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// WrapMaybe looks at the stream, wraps it if it is compressed and
// otherwise hands it back unchanged, but buffered.
func WrapMaybe(fp ReadSeekCloser) (*FpGzip, error) {
	gz, err := IsGzip(fp)
	if err != nil {
		return nil, err
	}
	if gz {
		return Wrap(fp)
	}
	return &FpGzip{fp: struct {
		io.Reader
		io.Closer
	}{bufio.NewReader(fp), fp}}, nil
}

// Open opens a file which may or may not be gzipped.
func Open(fname string) (*FpGzip, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	r, err := WrapMaybe(fp)
	if err != nil {
		return nil, multierr.Append(err, fp.Close())
	}
	return r, nil
}
