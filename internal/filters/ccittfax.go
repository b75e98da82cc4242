package filters

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/image/ccitt"
)

// CCITTFaxDecode decodes CCITT Group 3/4 fax compressed bi-level data.
//
// Parameters:
//   - K: -1 selects Group 4, otherwise Group 3
//   - Columns: image width in pixels (default 1728)
//   - Rows: image height (default 0, auto-detected)
//   - BlackIs1: inverts the output bits
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	columns := getIntParam(params, "Columns", 1728)
	rows := getIntParam(params, "Rows", 0)

	sf := ccitt.Group3
	if getIntParam(params, "K", 0) < 0 {
		sf = ccitt.Group4
	}
	if rows == 0 {
		rows = ccitt.AutoDetectHeight
	}

	opts := &ccitt.Options{Invert: getBoolParam(params, "BlackIs1", false)}
	out, err := io.ReadAll(ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, columns, rows, opts))
	if err != nil {
		return nil, fmt.Errorf("ccitt decode failed: %w", err)
	}
	return out, nil
}
