package filters

import (
	"bytes"
	"compress/lzw"
	"compress/zlib"
	"errors"
	"testing"
)

func zlibCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	w.Close()
	return buf.Bytes()
}

func TestFlateDecodeBasic(t *testing.T) {
	original := []byte("Hello, PDF World! This is a test of FlateDecode.")

	result, err := FlateDecode(zlibCompress(t, original), nil)
	if err != nil {
		t.Fatalf("FlateDecode failed: %v", err)
	}
	if !bytes.Equal(result, original) {
		t.Errorf("FlateDecode = %q, want %q", result, original)
	}
}

func TestFlateDecodeInvalid(t *testing.T) {
	if _, err := FlateDecode([]byte("not zlib data"), nil); err == nil {
		t.Error("expected error for invalid zlib data")
	}
}

func TestPNGPredictors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []byte
	}{
		{"none", []byte{0, 1, 2, 3, 0, 4, 5, 6}, []byte{1, 2, 3, 4, 5, 6}},
		{"sub", []byte{1, 1, 1, 1, 1, 5, 5, 5}, []byte{1, 2, 3, 5, 10, 15}},
		{"up", []byte{0, 1, 2, 3, 2, 1, 1, 1}, []byte{1, 2, 3, 2, 3, 4}},
		// row 2: a[0]=0,up=10 -> 5+5; a[1]=10,up=20 -> 15+5
		{"average", []byte{0, 10, 20, 0, 3, 5, 5, 0}, []byte{10, 20, 0, 10, 20, 10}},
		{"paeth", []byte{0, 10, 20, 30, 4, 0, 0, 0}, []byte{10, 20, 30, 10, 20, 30}},
	}

	params := Params{"Predictor": 12, "Columns": 3}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FlateDecode(zlibCompress(t, tt.data), params)
			if err != nil {
				t.Fatalf("FlateDecode failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPNGPredictorXRefStreamRows(t *testing.T) {
	// /W [1 2 1] with /Columns 4, Up filter on the second row
	raw := []byte{
		2, 1, 0, 15, 0,
		2, 0, 0, 10, 0,
	}
	got, err := unpredict(raw, Params{"Predictor": 12, "Columns": 4})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 0, 15, 0, 1, 0, 25, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPNGPredictorErrors(t *testing.T) {
	if _, err := unpredict([]byte{0, 1, 2}, Params{"Predictor": 12, "Columns": 3}); err == nil {
		t.Error("expected error for short row")
	}
	if _, err := unpredict([]byte{9, 1, 2, 3}, Params{"Predictor": 12, "Columns": 3}); err == nil {
		t.Error("expected error for unknown filter type")
	}
	if _, err := unpredict([]byte{1}, Params{"Predictor": 7}); err == nil {
		t.Error("expected error for unsupported predictor")
	}
}

func TestTIFFPredictor2(t *testing.T) {
	raw := []byte{10, 1, 1, 20, 2, 2}
	got, err := unpredict(raw, Params{"Predictor": 2, "Columns": 3})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{10, 11, 12, 20, 22, 24}
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := unpredict(raw, Params{"Predictor": 2, "Columns": 3, "BitsPerComponent": 4}); err == nil {
		t.Error("expected error for 4 bits per component")
	}
}

// TestPredictorInvalidLayout tests that impossible row layouts are rejected
func TestPredictorInvalidLayout(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"png negative colors", Params{"Predictor": 12, "Colors": -2, "Columns": -5}},
		{"png zero columns", Params{"Predictor": 12, "Columns": 0}},
		{"png negative columns", Params{"Predictor": 12, "Columns": -3}},
		{"png bad bits", Params{"Predictor": 12, "Columns": 2, "BitsPerComponent": 3}},
		{"png negative bits", Params{"Predictor": 12, "Columns": 2, "BitsPerComponent": -8}},
		{"tiff negative colors", Params{"Predictor": 2, "Colors": -2, "Columns": 5}},
		{"tiff zero colors", Params{"Predictor": 2, "Colors": 0, "Columns": 5}},
		{"tiff negative columns", Params{"Predictor": 2, "Columns": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := unpredict(make([]byte, 11), tt.params); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPaeth(t *testing.T) {
	tests := []struct {
		a, b, c, want byte
	}{
		{0, 0, 0, 0},
		{10, 20, 10, 20},
		{20, 10, 10, 20},
		{10, 10, 20, 10},
		{5, 50, 40, 5},
	}
	for _, tt := range tests {
		if got := paeth(tt.a, tt.b, tt.c); got != tt.want {
			t.Errorf("paeth(%d, %d, %d) = %d, want %d", tt.a, tt.b, tt.c, got, tt.want)
		}
	}
}

func TestLZWDecode(t *testing.T) {
	original := []byte("TOBEORNOTTOBEORTOBEORNOT")

	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, lzw.MSB, 8)
	w.Write(original)
	w.Close()

	got, err := LZWDecode(buf.Bytes(), Params{"EarlyChange": 0})
	if err != nil {
		t.Fatalf("LZWDecode failed: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Errorf("LZWDecode = %q, want %q", got, original)
	}
}

func TestASCIIHexDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{"basic", "48656C6C6F>", []byte("Hello"), false},
		{"whitespace", "48 65\n6c 6C\t6F>", []byte("Hello"), false},
		{"odd digits", "ABC>", []byte{0xAB, 0xC0}, false},
		{"no EOD", "4142", []byte("AB"), false},
		{"stops at EOD", "41>42", []byte("A"), false},
		{"invalid", "4G>", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ASCIIHexDecode([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestASCII85Decode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{"full group", "87cURD]i,\"Ebo80~>", []byte("Hello World!"), false},
		{"zero", "z~>", []byte{0, 0, 0, 0}, false},
		{"partial group", "87cURDZ~>", []byte("Hello"), false},
		{"whitespace", "87cU RD]i\n,\"Ebo80~>", []byte("Hello World!"), false},
		{"no EOD", "87cURD]i,\"Ebo80", []byte("Hello World!"), false},
		{"invalid char", "87c{~>", nil, true},
		{"lone final char", "87cURD~>", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ASCII85Decode([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunLengthDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    []byte
		wantErr bool
	}{
		{"literal", []byte{2, 'a', 'b', 'c', 128}, []byte("abc"), false},
		{"repeat", []byte{254, 'x', 128}, []byte("xxx"), false},
		{"mixed", []byte{0, 'a', 255, 'b', 128, 'z'}, []byte("abb"), false},
		{"no EOD", []byte{1, 'h', 'i'}, []byte("hi"), false},
		{"truncated literal", []byte{5, 'a'}, nil, true},
		{"truncated repeat", []byte{200}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RunLengthDecode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeDispatch(t *testing.T) {
	data := []byte("payload")

	got, err := Decode("AHx", []byte("7061796C6F6164>"), nil)
	if err != nil || !bytes.Equal(got, data) {
		t.Errorf("Decode(AHx) = %q, %v", got, err)
	}

	got, err = Decode("DCTDecode", data, nil)
	if err != nil || !bytes.Equal(got, data) {
		t.Errorf("Decode(DCTDecode) should pass data through, got %q, %v", got, err)
	}

	for _, name := range []string{"JBIG2Decode", "Crypt", "Bogus"} {
		if _, err := Decode(name, data, nil); !errors.Is(err, ErrUnsupportedFilter) {
			t.Errorf("Decode(%s) error = %v, want ErrUnsupportedFilter", name, err)
		}
	}
}

func TestParamHelpers(t *testing.T) {
	params := Params{
		"Columns":  100,
		"Colors":   int64(3),
		"BPC":      float64(8),
		"BlackIs1": true,
		"Odd":      "true",
	}

	tests := []struct {
		key  string
		def  int
		want int
	}{
		{"Columns", 1, 100},
		{"Colors", 1, 3},
		{"BPC", 1, 8},
		{"Missing", 42, 42},
		{"Odd", 7, 7},
	}
	for _, tt := range tests {
		if got := getIntParam(params, tt.key, tt.def); got != tt.want {
			t.Errorf("getIntParam(%s) = %d, want %d", tt.key, got, tt.want)
		}
	}

	if getIntParam(nil, "Any", 99) != 99 {
		t.Error("getIntParam(nil) should return default")
	}
	if !getBoolParam(params, "BlackIs1", false) {
		t.Error("getBoolParam(BlackIs1) = false, want true")
	}
	if getBoolParam(params, "Odd", false) {
		t.Error("getBoolParam should ignore non-bool values")
	}
}
