package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// FlateDecode decompresses zlib/deflate data and undoes the predictor named
// in params, if any.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	return unpredict(out, params)
}

// unpredict reverses a Flate or LZW predictor. Predictor 1 is identity,
// 2 is TIFF Predictor 2, and 10-15 are the PNG predictors.
func unpredict(data []byte, params Params) ([]byte, error) {
	predictor := getIntParam(params, "Predictor", 1)
	switch {
	case predictor == 1:
		return data, nil
	case predictor == 2:
		return unpredictTIFF(data, params)
	case predictor >= 10 && predictor <= 15:
		return unpredictPNG(data, params)
	}
	return nil, fmt.Errorf("unsupported predictor: %d", predictor)
}

// predictorLayout returns /Columns, /Colors and /BitsPerComponent,
// rejecting values that cannot describe a sample row.
func predictorLayout(params Params) (columns, colors, bpc int, err error) {
	columns = getIntParam(params, "Columns", 1)
	colors = getIntParam(params, "Colors", 1)
	bpc = getIntParam(params, "BitsPerComponent", 8)
	if columns < 1 {
		return 0, 0, 0, fmt.Errorf("invalid /Columns %d", columns)
	}
	if colors < 1 {
		return 0, 0, 0, fmt.Errorf("invalid /Colors %d", colors)
	}
	switch bpc {
	case 1, 2, 4, 8, 16:
	default:
		return 0, 0, 0, fmt.Errorf("invalid /BitsPerComponent %d", bpc)
	}
	return columns, colors, bpc, nil
}

// unpredictTIFF adds each sample to the sample one pixel to its left.
// Only 8 bits per component is supported.
func unpredictTIFF(data []byte, params Params) ([]byte, error) {
	columns, colors, bpc, err := predictorLayout(params)
	if err != nil {
		return nil, err
	}
	if bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor only supports 8 bits per component, got %d", bpc)
	}

	rowSize := columns * colors
	if rowSize <= 0 || len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}

	out := make([]byte, len(data))
	copy(out, data)
	for row := 0; row < len(out); row += rowSize {
		for col := colors; col < rowSize; col++ {
			out[row+col] += out[row+col-colors]
		}
	}
	return out, nil
}

// unpredictPNG decodes rows that each start with a PNG filter-type byte
// (0 None, 1 Sub, 2 Up, 3 Average, 4 Paeth).
func unpredictPNG(data []byte, params Params) ([]byte, error) {
	columns, colors, bpc, err := predictorLayout(params)
	if err != nil {
		return nil, err
	}

	bpp := (colors*bpc + 7) / 8
	rowLen := (columns*colors*bpc + 7) / 8
	stride := rowLen + 1
	if rowLen <= 0 || len(data)%stride != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), stride)
	}

	rows := len(data) / stride
	out := make([]byte, rows*rowLen)
	prev := make([]byte, rowLen)

	for r := 0; r < rows; r++ {
		src := data[r*stride+1 : (r+1)*stride]
		cur := out[r*rowLen : (r+1)*rowLen]
		ft := data[r*stride]

		for i := 0; i < rowLen; i++ {
			var left, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]

			switch ft {
			case 0:
				cur[i] = src[i]
			case 1:
				cur[i] = src[i] + left
			case 2:
				cur[i] = src[i] + up
			case 3:
				cur[i] = src[i] + byte((int(left)+int(up))/2)
			case 4:
				cur[i] = src[i] + paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("unknown PNG filter type %d in row %d", ft, r)
			}
		}
		prev = cur
	}

	return out, nil
}

// paeth selects the neighbor (left, above, or upper-left) closest to a
// linear prediction, as defined by the PNG specification.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
