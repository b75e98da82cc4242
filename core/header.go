package core

import (
	"bytes"
	"fmt"
)

// headerSearchLimit is how far into the buffer the %PDF- marker may appear.
const headerSearchLimit = 1024

// Version is a PDF version number such as 1.7.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// IsZero reports whether no version was found.
func (v Version) IsZero() bool {
	return v == Version{}
}

// ParseHeader finds "%PDF-M.m" in the first 1024 bytes and returns the
// version and the offset of the marker. Junk before the marker is allowed.
func ParseHeader(buf []byte) (Version, int, error) {
	head := buf
	if len(head) > headerSearchLimit {
		head = head[:headerSearchLimit]
	}

	idx := bytes.Index(head, []byte("%PDF-"))
	if idx < 0 {
		return Version{}, 0, newError(ErrUnexpectedToken, 0, "%%PDF- header not found in first %d bytes", headerSearchLimit)
	}

	pos := idx + len("%PDF-")
	major, pos, ok := readDigits(buf, pos)
	if !ok || pos >= len(buf) || buf[pos] != '.' {
		return Version{}, idx, newError(ErrUnexpectedToken, int64(idx), "malformed PDF version")
	}
	minor, _, ok := readDigits(buf, pos+1)
	if !ok {
		return Version{}, idx, newError(ErrUnexpectedToken, int64(idx), "malformed PDF version")
	}
	return Version{Major: major, Minor: minor}, idx, nil
}

func readDigits(buf []byte, pos int) (int, int, bool) {
	start := pos
	n := 0
	for pos < len(buf) && isDigit(buf[pos]) && pos-start < 4 {
		n = n*10 + int(buf[pos]-'0')
		pos++
	}
	return n, pos, pos > start
}
