package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Object represents a PDF object. The set of implementations is closed:
// Null, Bool, Int, Real, String, HexString, Name, Array, *Dict, *Stream and
// IndirectRef. Consumers dispatch with a type switch.
type Object interface {
	Type() ObjectType
	// String returns the object in PDF syntax.
	String() string
	isObject()
}

// ObjectType represents the type of PDF object
type ObjectType int

const (
	ObjNull ObjectType = iota
	ObjBool
	ObjInt
	ObjReal
	ObjString
	ObjHexString
	ObjName
	ObjArray
	ObjDict
	ObjStream
	ObjIndirect
)

// String returns the string representation of the object type
func (t ObjectType) String() string {
	switch t {
	case ObjNull:
		return "Null"
	case ObjBool:
		return "Bool"
	case ObjInt:
		return "Int"
	case ObjReal:
		return "Real"
	case ObjString:
		return "String"
	case ObjHexString:
		return "HexString"
	case ObjName:
		return "Name"
	case ObjArray:
		return "Array"
	case ObjDict:
		return "Dict"
	case ObjStream:
		return "Stream"
	case ObjIndirect:
		return "IndirectRef"
	default:
		return "Unknown"
	}
}

// Null represents a PDF null object
type Null struct{}

func (Null) Type() ObjectType { return ObjNull }
func (Null) String() string   { return "null" }
func (Null) isObject()        {}

// Bool represents a PDF boolean
type Bool bool

func (b Bool) Type() ObjectType { return ObjBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) isObject() {}

// Int represents a PDF integer
type Int int64

func (i Int) Type() ObjectType { return ObjInt }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }
func (Int) isObject()          {}

// Real represents a PDF real number
type Real float64

func (r Real) Type() ObjectType { return ObjReal }

// String always includes a decimal point so the value re-parses as a Real.
func (r Real) String() string {
	s := strconv.FormatFloat(float64(r), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (Real) isObject() {}

// String represents a PDF literal string, with escapes already decoded.
type String []byte

func (s String) Type() ObjectType { return ObjString }
func (s String) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, b := range s {
		switch b {
		case '(', ')', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(b)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if b < 0x20 || b >= 0x7f {
				fmt.Fprintf(&sb, "\\%03o", b)
			} else {
				sb.WriteByte(b)
			}
		}
	}
	sb.WriteByte(')')
	return sb.String()
}
func (String) isObject() {}

// HexString represents a PDF hexadecimal string, already decoded to bytes.
type HexString []byte

func (h HexString) Type() ObjectType { return ObjHexString }
func (h HexString) String() string   { return fmt.Sprintf("<%X>", []byte(h)) }
func (HexString) isObject()          {}

// Name represents a PDF name, with #xx escapes already decoded.
type Name string

func (n Name) Type() ObjectType { return ObjName }
func (n Name) String() string {
	var sb strings.Builder
	sb.WriteByte('/')
	for i := 0; i < len(n); i++ {
		b := n[i]
		if b == '#' || b < 0x21 || b > 0x7e || !isRegular(b) {
			fmt.Fprintf(&sb, "#%02X", b)
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}
func (Name) isObject() {}

// Array represents a PDF array
type Array []Object

func (a Array) Type() ObjectType { return ObjArray }
func (a Array) String() string {
	parts := make([]string, 0, len(a))
	for _, obj := range a {
		parts = append(parts, obj.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
func (Array) isObject() {}

// Len returns the length of the array
func (a Array) Len() int {
	return len(a)
}

// Get retrieves an element at the given index
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

// GetInt retrieves an integer at the given index
func (a Array) GetInt(index int) (Int, bool) {
	i, ok := a.Get(index).(Int)
	return i, ok
}

// GetName retrieves a name at the given index
func (a Array) GetName(index int) (Name, bool) {
	n, ok := a.Get(index).(Name)
	return n, ok
}

// GetNumber retrieves an Int or Real at the given index as a float64
func (a Array) GetNumber(index int) (float64, bool) {
	return Number(a.Get(index))
}

// Dict represents a PDF dictionary. Keys keep the order in which they were
// first set; setting an existing key replaces its value in place, so a
// parsed dictionary with duplicate keys keeps the last value.
type Dict struct {
	keys []Name
	vals map[Name]Object
}

// NewDict creates an empty dictionary
func NewDict() *Dict {
	return &Dict{vals: make(map[Name]Object)}
}

func (d *Dict) Type() ObjectType { return ObjDict }
func (d *Dict) String() string {
	var sb strings.Builder
	sb.WriteString("<<")
	for i, key := range d.Keys() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(key.String())
		sb.WriteByte(' ')
		sb.WriteString(d.vals[key].String())
	}
	sb.WriteString(">>")
	return sb.String()
}
func (*Dict) isObject() {}

// Len returns the number of entries
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Get retrieves a value from the dictionary, or nil
func (d *Dict) Get(key Name) Object {
	if d == nil {
		return nil
	}
	return d.vals[key]
}

// Has checks if a key exists in the dictionary
func (d *Dict) Has(key Name) bool {
	if d == nil {
		return false
	}
	_, ok := d.vals[key]
	return ok
}

// Set sets a value in the dictionary
func (d *Dict) Set(key Name, value Object) {
	if d.vals == nil {
		d.vals = make(map[Name]Object)
	}
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = value
}

// Delete removes a key from the dictionary
func (d *Dict) Delete(key Name) {
	if _, ok := d.vals[key]; !ok {
		return
	}
	delete(d.vals, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns all keys in insertion order
func (d *Dict) Keys() []Name {
	if d == nil {
		return nil
	}
	keys := make([]Name, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Equal reports whether d and other hold equal entries in the same order.
func (d *Dict) Equal(other *Dict) bool {
	if d.Len() != other.Len() {
		return false
	}
	if d.Len() == 0 {
		return true
	}
	for i, key := range d.keys {
		if other.keys[i] != key || !Equal(d.vals[key], other.vals[key]) {
			return false
		}
	}
	return true
}

// GetName retrieves a name value
func (d *Dict) GetName(key Name) (Name, bool) {
	n, ok := d.Get(key).(Name)
	return n, ok
}

// GetInt retrieves an integer value
func (d *Dict) GetInt(key Name) (Int, bool) {
	i, ok := d.Get(key).(Int)
	return i, ok
}

// GetDict retrieves a dictionary value
func (d *Dict) GetDict(key Name) (*Dict, bool) {
	dict, ok := d.Get(key).(*Dict)
	return dict, ok
}

// GetArray retrieves an array value
func (d *Dict) GetArray(key Name) (Array, bool) {
	arr, ok := d.Get(key).(Array)
	return arr, ok
}

// GetReal retrieves a real number value
func (d *Dict) GetReal(key Name) (Real, bool) {
	r, ok := d.Get(key).(Real)
	return r, ok
}

// GetString retrieves a literal or hex string value as raw bytes
func (d *Dict) GetString(key Name) ([]byte, bool) {
	switch s := d.Get(key).(type) {
	case String:
		return []byte(s), true
	case HexString:
		return []byte(s), true
	}
	return nil, false
}

// GetBool retrieves a boolean value
func (d *Dict) GetBool(key Name) (Bool, bool) {
	b, ok := d.Get(key).(Bool)
	return b, ok
}

// GetStream retrieves a stream value
func (d *Dict) GetStream(key Name) (*Stream, bool) {
	s, ok := d.Get(key).(*Stream)
	return s, ok
}

// GetIndirectRef retrieves an indirect reference
func (d *Dict) GetIndirectRef(key Name) (IndirectRef, bool) {
	ref, ok := d.Get(key).(IndirectRef)
	return ref, ok
}

// Stream represents a PDF stream object. Data is the raw, undecoded span of
// the source buffer; Offset is where that span starts.
type Stream struct {
	Dict   *Dict
	Data   []byte
	Offset int64
}

func (s *Stream) Type() ObjectType { return ObjStream }
func (s *Stream) String() string {
	return fmt.Sprintf("%s stream (%d bytes)", s.Dict.String(), len(s.Data))
}
func (*Stream) isObject() {}

// ObjectID identifies an indirect object
type ObjectID struct {
	Number     int
	Generation int
}

func (id ObjectID) String() string {
	return fmt.Sprintf("%d %d", id.Number, id.Generation)
}

// IndirectRef represents an indirect object reference
type IndirectRef ObjectID

func (r IndirectRef) Type() ObjectType { return ObjIndirect }
func (r IndirectRef) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}
func (IndirectRef) isObject() {}

// ID returns the referenced object id
func (r IndirectRef) ID() ObjectID {
	return ObjectID(r)
}

// IndirectObject represents an indirect object with its reference
type IndirectObject struct {
	Ref    IndirectRef
	Object Object
}

// Number returns an Int or Real as float64.
func Number(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}

// Equal reports whether a and b are structurally equal. Streams compare
// their dictionaries and raw data.
func Equal(a, b Object) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Real:
		y, ok := b.(Real)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && string(x) == string(y)
	case HexString:
		y, ok := b.(HexString)
		return ok && string(x) == string(y)
	case Name:
		y, ok := b.(Name)
		return ok && x == y
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Dict:
		y, ok := b.(*Dict)
		return ok && x.Equal(y)
	case *Stream:
		y, ok := b.(*Stream)
		return ok && x.Dict.Equal(y.Dict) && string(x.Data) == string(y.Data)
	case IndirectRef:
		y, ok := b.(IndirectRef)
		return ok && x == y
	}
	return false
}
