package artifact

import (
	"bytes"
	"fmt"

	"github.com/davecgh/go-xdr/xdr2"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/byteutil"
)

func encode(v interface{}) ([]byte, error) {
	buf := byteutil.Get()
	defer byteutil.Put(buf)

	if _, err := xdr.Marshal(buf, v); err != nil {
		return nil, fmt.Errorf("xdr encode: %w", err)
	}
	return byteutil.Bytes(buf), nil
}

func decode(data []byte, v interface{}) error {
	if _, err := xdr.Unmarshal(bytes.NewReader(data), v); err != nil {
		return fmt.Errorf("xdr decode: %w", err)
	}
	return nil
}
