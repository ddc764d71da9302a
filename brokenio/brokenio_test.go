package brokenio_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/ssbond/brokenio"
)

const longstring = "0123456789012345678901234567890123456789"

func TestPassThrough(t *testing.T) {
	rdr := brokenio.NewReader(strings.NewReader(longstring))
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	assert.Equal(t, longstring, string(b))
	assert.Equal(t, len(longstring), rdr.NByte())
}

func TestFailAfter(t *testing.T) {
	for _, n := range []int{0, 1, 10, 39} {
		rdr := brokenio.NewReader(strings.NewReader(longstring))
		rdr.SetFailAfter(n)
		b, err := io.ReadAll(rdr)
		assert.True(t, errors.Is(err, brokenio.ErrBroken), "n=%d", n)
		assert.Equal(t, longstring[:n], string(b), "n=%d", n)
	}
}

func TestFailAfterPastEnd(t *testing.T) {
	rdr := brokenio.NewReader(strings.NewReader(longstring))
	rdr.SetFailAfter(1000)
	b, err := io.ReadAll(rdr)
	assert.NoError(t, err)
	assert.Equal(t, longstring, string(b))
}

func TestChunk(t *testing.T) {
	rdr := brokenio.NewReader(strings.NewReader(longstring))
	rdr.SetChunk(3)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	assert.Equal(t, longstring, string(b))
	assert.GreaterOrEqual(t, rdr.NCalled(), len(longstring)/3)
}

func TestZeroFile(t *testing.T) {
	rdr := brokenio.NewReader(strings.NewReader(longstring))
	rdr.SetZeroFile(true)
	b, err := io.ReadAll(rdr)
	assert.NoError(t, err)
	assert.Empty(t, b)
}

type closer struct {
	io.Reader
	closed bool
}

func (c *closer) Close() error { c.closed = true; return nil }

func TestReadCloser(t *testing.T) {
	c := &closer{Reader: strings.NewReader("abc")}
	rc := brokenio.NewReadCloser(c)
	rc.SetChunk(1)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))
	require.NoError(t, rc.Close())
	assert.True(t, c.closed)
}
