package core

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
)

// Text decodes s as a PDF text string.
func (s String) Text() string { return decodeText(s) }

// Text decodes h as a PDF text string.
func (h HexString) Text() string { return decodeText(h) }

// TextOf decodes obj as a text string if it is a String or HexString.
func TextOf(obj Object) (string, bool) {
	switch v := obj.(type) {
	case String:
		return v.Text(), true
	case HexString:
		return v.Text(), true
	}
	return "", false
}

// decodeText handles the three text string encodings: UTF-16BE and UTF-8
// (each marked by a byte order mark) and PDFDocEncoding.
func decodeText(b []byte) string {
	switch {
	case bytes.HasPrefix(b, bomUTF16BE):
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(b)
		if err == nil {
			return string(out)
		}
		return strings.ToValidUTF8(string(b[2:]), string(utf8.RuneError))
	case bytes.HasPrefix(b, bomUTF8):
		return strings.ToValidUTF8(string(b[3:]), string(utf8.RuneError))
	}

	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(pdfDocRune(c))
	}
	return sb.String()
}

// pdfDocRune maps a PDFDocEncoding byte to its rune. The encoding matches
// Latin-1 outside the ranges listed here.
func pdfDocRune(c byte) rune {
	switch {
	case c >= 0x18 && c <= 0x1F:
		return pdfDocLow[c-0x18]
	case c >= 0x80 && c <= 0xA0:
		return pdfDocHigh[c-0x80]
	case c == 0x7F || c == 0xAD:
		return utf8.RuneError
	}
	return rune(c)
}

var pdfDocLow = [8]rune{
	'˘', 'ˇ', 'ˆ', '˙', '˝', '˛', '˚', '˜',
}

var pdfDocHigh = [33]rune{
	'•', '†', '‡', '…', '\u2014', '\u2013', 'ƒ', '⁄', // 0x80
	'‹', '›', '\u2212', '‰', '„', '“', '”', '‘', // 0x88
	'’', '‚', '™', 'ﬁ', 'ﬂ', 'Ł', 'Œ', 'Š', // 0x90
	'Ÿ', 'Ž', 'ı', 'ł', 'œ', 'š', 'ž', utf8.RuneError, // 0x98
	'€', // 0xA0
}
