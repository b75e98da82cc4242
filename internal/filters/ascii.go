package filters

import (
	"fmt"
)

// ASCIIHexDecode decodes ASCII hexadecimal encoded data.
// Each pair of hexadecimal digits represents one byte. Whitespace is
// ignored, '>' marks end of data, and an odd final digit is padded with 0.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)/2)
	var hi byte
	half := false

	for _, c := range data {
		if isWhitespace(c) {
			continue
		}
		if c == '>' {
			break
		}
		v, err := hexDigitToByte(c)
		if err != nil {
			return nil, err
		}
		if half {
			out = append(out, hi<<4|v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		out = append(out, hi<<4)
	}

	return out, nil
}

// ASCII85Decode decodes ASCII base-85 encoded data.
// Each group of 5 characters ('!' to 'u') represents 4 bytes; 'z' stands for
// four zero bytes and "~>" ends the data. A final partial group of n
// characters yields n-1 bytes.
func ASCII85Decode(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)*4/5)
	var group [5]byte
	n := 0

	flush := func(count int) {
		for i := count; i < 5; i++ {
			group[i] = 84 // 'u' - '!'
		}
		var v uint32
		for _, d := range group {
			v = v*85 + uint32(d)
		}
		for i := 0; i < count-1; i++ {
			out = append(out, byte(v>>(24-8*i)))
		}
	}

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case isWhitespace(c):
			continue
		case c == '~':
			if i+1 < len(data) && data[i+1] == '>' {
				i = len(data)
				continue
			}
			return nil, fmt.Errorf("invalid ASCII85 character: %c", c)
		case c == 'z' && n == 0:
			out = append(out, 0, 0, 0, 0)
		case c >= '!' && c <= 'u':
			group[n] = c - '!'
			n++
			if n == 5 {
				flush(5)
				n = 0
			}
		default:
			return nil, fmt.Errorf("invalid ASCII85 character: %c", c)
		}
	}

	if n == 1 {
		return nil, fmt.Errorf("invalid ASCII85 final group of one character")
	}
	if n > 1 {
		flush(n)
	}

	return out, nil
}

// hexDigitToByte converts a hexadecimal character to its numeric value (0-15).
func hexDigitToByte(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit: %c", c)
	}
}
