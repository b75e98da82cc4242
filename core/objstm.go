package core

// ObjectStream represents a PDF Object Stream (Type /ObjStm), introduced in PDF 1.5.
// Object streams store multiple objects in a single compressed stream.
//
// The payload is decoded on first access. An ObjectStream is not safe for
// concurrent use.
type ObjectStream struct {
	stream   *Stream
	inflater Inflater
	n        int
	first    int
	extends  *IndirectRef

	decoded []byte
	entries []objectStreamEntry
}

type objectStreamEntry struct {
	num    int
	offset int // relative to First
}

// NewObjectStream validates the stream dictionary of an object stream. A
// nil inflater means DefaultInflater.
func NewObjectStream(stream *Stream, inf Inflater) (*ObjectStream, error) {
	if stream == nil {
		return nil, newError(ErrUnexpectedToken, 0, "object stream is nil")
	}
	dict := stream.Dict

	if typ, _ := dict.GetName("Type"); typ != "ObjStm" {
		return nil, newError(ErrUnexpectedToken, stream.Offset, "stream has /Type %q, expected /ObjStm", typ)
	}
	n, ok := dict.GetInt("N")
	if !ok || n < 0 {
		return nil, newError(ErrUnexpectedToken, stream.Offset, "object stream missing valid /N")
	}
	first, ok := dict.GetInt("First")
	if !ok || first < 0 {
		return nil, newError(ErrUnexpectedToken, stream.Offset, "object stream missing valid /First")
	}

	os := &ObjectStream{
		stream:   stream,
		inflater: inf,
		n:        int(n),
		first:    int(first),
	}
	if ref, ok := dict.GetIndirectRef("Extends"); ok {
		os.extends = &ref
	}
	return os, nil
}

// N returns the number of objects stored in the stream.
func (os *ObjectStream) N() int {
	return os.n
}

// First returns the offset of the first object in the decoded data.
func (os *ObjectStream) First() int {
	return os.first
}

// Extends returns the /Extends reference, or nil. It is not followed.
func (os *ObjectStream) Extends() *IndirectRef {
	return os.extends
}

func (os *ObjectStream) load() error {
	if os.entries != nil {
		return nil
	}

	decoded, err := os.stream.Decode(os.inflater)
	if err != nil {
		return err
	}
	if os.first > len(decoded) {
		return newError(ErrUnexpectedEnd, os.stream.Offset, "/First %d beyond decoded length %d", os.first, len(decoded))
	}

	// Header: N pairs of "objNum offset"
	if os.n > os.first/2 {
		return newError(ErrUnexpectedToken, os.stream.Offset, "/N %d too large for a %d byte header", os.n, os.first)
	}
	lex := NewLexer(decoded[:os.first])
	entries := make([]objectStreamEntry, 0, os.n)
	for i := 0; i < os.n; i++ {
		num, err := readCount(lex, "object number")
		if err != nil {
			return err
		}
		off, err := readCount(lex, "object offset")
		if err != nil {
			return err
		}
		entries = append(entries, objectStreamEntry{num: num, offset: off})
	}

	os.decoded = decoded
	os.entries = entries
	return nil
}

// ObjectAt parses the index-th object and returns it with its object number.
func (os *ObjectStream) ObjectAt(index int) (int, Object, error) {
	if err := os.load(); err != nil {
		return 0, nil, err
	}
	if index < 0 || index >= len(os.entries) {
		return 0, nil, newError(ErrObjectNotFound, os.stream.Offset, "index %d out of range [0, %d)", index, len(os.entries))
	}

	e := os.entries[index]
	p := NewParser(os.decoded)
	obj, err := p.ParseObjectAt(int64(os.first + e.offset))
	if err != nil {
		return 0, nil, truncated(err, int64(os.first+e.offset), "compressed object")
	}
	return e.num, obj, nil
}

// IndexOf returns the index of object number num within the stream.
func (os *ObjectStream) IndexOf(num int) (int, bool, error) {
	if err := os.load(); err != nil {
		return 0, false, err
	}
	for i, e := range os.entries {
		if e.num == num {
			return i, true, nil
		}
	}
	return 0, false, nil
}

// ObjectNumbers returns the object numbers stored in this stream, in header order.
func (os *ObjectStream) ObjectNumbers() ([]int, error) {
	if err := os.load(); err != nil {
		return nil, err
	}
	nums := make([]int, len(os.entries))
	for i, e := range os.entries {
		nums[i] = e.num
	}
	return nums, nil
}
