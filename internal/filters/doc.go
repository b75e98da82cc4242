// Package filters decodes the standard PDF stream filters.
//
// [Decode] dispatches on a filter name as it appears in a stream's /Filter
// entry (full or abbreviated form):
//
//	out, err := filters.Decode("FlateDecode", data, filters.Params{
//	    "Predictor": 12,
//	    "Columns":   5,
//	})
//
// # Supported Filters
//
//   - FlateDecode, LZWDecode: with TIFF (2) and PNG (10-15) predictors
//   - ASCIIHexDecode, ASCII85Decode
//   - RunLengthDecode
//   - CCITTFaxDecode: via golang.org/x/image/ccitt
//   - DCTDecode, JPXDecode: returned unchanged
//
// JBIG2Decode and Crypt report [ErrUnsupportedFilter].
package filters
