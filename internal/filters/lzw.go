package filters

import (
	"bytes"
	"compress/lzw"
	"fmt"
	"io"

	tifflzw "golang.org/x/image/tiff/lzw"
)

// LZWDecode decompresses LZW data (MSB first, 8-bit literals).
//
// EarlyChange defaults to 1: code widths grow one code early, the same
// "off by one" behaviour TIFF uses, so the x/image TIFF decoder handles it.
// EarlyChange 0 is the conventional variant from compress/lzw.
func LZWDecode(data []byte, params Params) ([]byte, error) {
	var rc io.ReadCloser
	if getIntParam(params, "EarlyChange", 1) == 0 {
		rc = lzw.NewReader(bytes.NewReader(data), lzw.MSB, 8)
	} else {
		rc = tifflzw.NewReader(bytes.NewReader(data), tifflzw.MSB, 8)
	}
	defer rc.Close()

	out, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("lzw decompression failed: %w", err)
	}

	return unpredict(out, params)
}
