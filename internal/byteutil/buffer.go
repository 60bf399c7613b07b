// Package byteutil pools the scratch buffers used to encode artifacts.
package byteutil

import (
	"bytes"
	"sync"
)

// maxPooledCap keeps a single huge artifact from pinning its buffer.
const maxPooledCap = 1 << 20

var pool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// Get returns an empty buffer.
func Get() *bytes.Buffer {
	buf := pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func Put(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledCap {
		return
	}
	pool.Put(buf)
}

// Bytes copies the content of buf out so buf can go back to the pool.
func Bytes(buf *bytes.Buffer) []byte {
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}
