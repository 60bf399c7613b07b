package byteutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetIsEmpty(t *testing.T) {
	buf := Get()
	buf.WriteString("segment")
	Put(buf)

	assert.Equal(t, 0, Get().Len())
}

func TestBytesCopies(t *testing.T) {
	buf := Get()
	buf.WriteString("abc")
	out := Bytes(buf)
	buf.Reset()
	buf.WriteString("xyz")

	assert.Equal(t, []byte("abc"), out)
}

func TestPutDropsLargeBuffers(t *testing.T) {
	big := bytes.NewBuffer(make([]byte, 0, maxPooledCap+1))
	Put(big)
	assert.Equal(t, 0, Get().Len())
}
