package core

import "github.com/tsawler/pdfxref/internal/filters"

// Inflater decodes stream data for one filter. params is the filter's
// /DecodeParms entry and may be nil.
type Inflater interface {
	Inflate(data []byte, filter Name, params Object) ([]byte, error)
}

// InflaterFunc adapts a function to the Inflater interface.
type InflaterFunc func(data []byte, filter Name, params Object) ([]byte, error)

// Inflate calls f.
func (f InflaterFunc) Inflate(data []byte, filter Name, params Object) ([]byte, error) {
	return f(data, filter, params)
}

// DefaultInflater decodes the standard PDF filters.
var DefaultInflater Inflater = InflaterFunc(defaultInflate)

func defaultInflate(data []byte, filter Name, params Object) ([]byte, error) {
	parms, _ := params.(*Dict)
	return filters.Decode(string(filter), data, dictToParams(parms))
}

// Decode applies the stream's /Filter chain in order and returns the decoded
// bytes. A nil inflater means DefaultInflater. A stream without /Filter
// returns its raw data.
func (s *Stream) Decode(inf Inflater) ([]byte, error) {
	if inf == nil {
		inf = DefaultInflater
	}

	var names Array
	switch f := s.Dict.Get("Filter").(type) {
	case nil, Null:
		return s.Data, nil
	case Name:
		names = Array{f}
	case Array:
		names = f
	default:
		return nil, newError(ErrUnexpectedToken, s.Offset, "invalid /Filter type: %v", f.Type())
	}

	parms := s.Dict.Get("DecodeParms")
	data := s.Data
	for i, f := range names {
		name, ok := f.(Name)
		if !ok {
			return nil, newError(ErrUnexpectedToken, s.Offset, "filter %d is not a name: %v", i, f)
		}

		var p Object
		switch v := parms.(type) {
		case Array:
			p = v.Get(i)
		case *Dict:
			if len(names) == 1 {
				p = v
			}
		}
		if _, isNull := p.(Null); isNull {
			p = nil
		}

		out, err := inf.Inflate(data, name, p)
		if err != nil {
			return nil, wrapError(ErrDecompressionFailure, s.Offset, err, "filter %d (%s)", i, name)
		}
		data = out
	}
	return data, nil
}

// dictToParams converts a decode parameter dictionary to filters.Params,
// translating PDF object types to Go primitive types.
func dictToParams(dict *Dict) filters.Params {
	if dict.Len() == 0 {
		return nil
	}

	params := make(filters.Params, dict.Len())
	for _, k := range dict.Keys() {
		switch obj := dict.Get(k).(type) {
		case Int:
			params[string(k)] = int(obj)
		case Real:
			params[string(k)] = float64(obj)
		case Bool:
			params[string(k)] = bool(obj)
		case String:
			params[string(k)] = string(obj)
		case Name:
			params[string(k)] = string(obj)
		default:
			params[string(k)] = obj
		}
	}
	return params
}
