package core

// parseStreamSection parses a cross-reference stream (PDF 1.5+).
//
// The payload is a sequence of records of W[0]+W[1]+W[2] bytes, each field
// a big-endian unsigned integer. /Index lists (first, count) pairs of the
// object numbers covered; it defaults to [0 Size].
func (x *XRefParser) parseStreamSection(offset int64, refs ReferenceResolver) (*XRefSection, error) {
	p := NewParser(x.buf)
	p.SetReferenceResolver(refs)
	p.SetPos(offset)

	iobj, err := p.ParseIndirectObject()
	if err != nil {
		return nil, err
	}
	stream, ok := iobj.Object.(*Stream)
	if !ok {
		return nil, newError(ErrUnexpectedToken, offset, "xref section object %s is %v, expected stream", iobj.Ref.ID(), iobj.Object.Type())
	}
	dict := stream.Dict
	if typ, _ := dict.GetName("Type"); typ != "XRef" {
		return nil, newError(ErrUnexpectedToken, offset, "xref stream has /Type %q, expected /XRef", typ)
	}

	widths, err := xrefWidths(dict, offset)
	if err != nil {
		return nil, err
	}
	size, ok := dict.GetInt("Size")
	if !ok || size < 0 {
		return nil, newError(ErrUnexpectedToken, offset, "xref stream missing valid /Size")
	}
	index, err := xrefIndex(dict, int(size), offset)
	if err != nil {
		return nil, err
	}

	data, err := stream.Decode(x.inflater)
	if err != nil {
		return nil, err
	}

	recLen := widths[0] + widths[1] + widths[2]
	if recLen == 0 {
		return nil, newError(ErrUnexpectedToken, offset, "xref stream /W has zero total width")
	}

	sec := &XRefSection{Offset: offset, Form: XRefFormStream, Entries: make(map[int]XRefEntry), Trailer: dict}
	pos := 0
	for i := 0; i < len(index); i += 2 {
		first, count := index[i], index[i+1]
		for j := 0; j < count; j++ {
			if pos+recLen > len(data) {
				return nil, newError(ErrUnexpectedEnd, stream.Offset, "xref stream payload has %d bytes, need %d", len(data), pos+recLen)
			}
			rec := data[pos : pos+recLen]
			pos += recLen

			typ := int64(1)
			if widths[0] > 0 {
				typ = readField(rec[:widths[0]])
			}
			f1 := readField(rec[widths[0] : widths[0]+widths[1]])
			f2 := readField(rec[widths[0]+widths[1]:])

			switch typ {
			case 0:
				sec.Entries[first+j] = XRefEntry{Type: XRefFree, Offset: f1, Generation: int(f2)}
			case 1:
				sec.Entries[first+j] = XRefEntry{Type: XRefInUse, Offset: f1, Generation: int(f2)}
			case 2:
				sec.Entries[first+j] = XRefEntry{Type: XRefCompressed, StreamNumber: int(f1), Index: int(f2)}
			default:
				// unknown types are references to the null object
			}
		}
	}
	return sec, nil
}

func xrefWidths(dict *Dict, at int64) ([3]int, error) {
	var w [3]int
	arr, ok := dict.GetArray("W")
	if !ok || arr.Len() != 3 {
		return w, newError(ErrUnexpectedToken, at, "xref stream /W must be an array of three integers")
	}
	for i := range w {
		n, ok := arr.GetInt(i)
		if !ok || n < 0 || n > 8 {
			return w, newError(ErrUnexpectedToken, at, "invalid xref stream field width %v", arr.Get(i))
		}
		w[i] = int(n)
	}
	return w, nil
}

func xrefIndex(dict *Dict, size int, at int64) ([]int, error) {
	arr, ok := dict.GetArray("Index")
	if !ok {
		return []int{0, size}, nil
	}
	if arr.Len()%2 != 0 {
		return nil, newError(ErrUnexpectedToken, at, "xref stream /Index has odd length %d", arr.Len())
	}
	index := make([]int, arr.Len())
	for i := range index {
		n, ok := arr.GetInt(i)
		if !ok || n < 0 {
			return nil, newError(ErrUnexpectedToken, at, "invalid xref stream /Index element %v", arr.Get(i))
		}
		index[i] = int(n)
	}
	return index, nil
}

// readField decodes a big-endian unsigned integer of up to 8 bytes.
func readField(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}
