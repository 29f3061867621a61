package trajviz

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestRecordReader(t *testing.T) {
	data := `{"x": 1, "y": 2, "z": 3, "H": -130.5, "t": 0.5}
{"x": -1.5, "y": 0, "z": 2e1, "extra": "ignored"}
{"x": 0, "y": 0, "z": 0, "H": null}
`
	rr := NewRecordReader(strings.NewReader(data), "")
	exp := []Record{{X: 1, Y: 2, Z: 3}, {X: -1.5, Y: 0, Z: 20}, {}}
	for i, e := range exp {
		rec, err := rr.Next()
		if err != nil {
			t.Fatalf("record %d: %s", i, err)
		}
		if rec.Position() != e.Position() {
			t.Fatalf("record %d: got %s expected %s", i, rec, e)
		}
		if rr.Line() != i+1 {
			t.Fatalf("record %d: line %d", i, rr.Line())
		}
	}
	if _, err := rr.Next(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
	if _, err := rr.Next(); err != io.EOF {
		t.Fatalf("EOF should be sticky, got %v", err)
	}
}

func TestRecordOptionalFields(t *testing.T) {
	rr := NewRecordReader(strings.NewReader(`{"x": 1, "y": 2, "z": 3, "H": -130.5, "t": 0.5, "tau": 0.25}`+"\n"+`{"x": 1, "y": 2, "z": 3}`), "")
	rec, err := rr.Next()
	if err != nil {
		t.Fatal(err)
	}
	if rec.Metric == nil || *rec.Metric != -130.5 {
		t.Fatalf("invalid metric %v", rec.Metric)
	}
	if rec.T == nil || *rec.T != 0.5 || rec.Tau == nil || *rec.Tau != 0.25 {
		t.Fatal("invalid times")
	}
	if rec.String() != "(1.000000, 2.000000, 3.000000) m=-130.5" {
		t.Fatalf("invalid string %s", rec)
	}
	if rec, err = rr.Next(); err != nil {
		t.Fatal(err)
	}
	if rec.Metric != nil || rec.T != nil || rec.Tau != nil {
		t.Fatal("optional fields should be nil when absent")
	}
}

func TestRecordMetricField(t *testing.T) {
	rr := NewRecordReader(strings.NewReader(`{"x": 1, "y": 2, "z": 3, "H": -130, "E": -50}`), "E")
	rec, err := rr.Next()
	if err != nil {
		t.Fatal(err)
	}
	if rec.Metric == nil || *rec.Metric != -50 {
		t.Fatalf("expected the E field as metric, got %v", rec.Metric)
	}
}

func TestRecordBlankLineEndsStream(t *testing.T) {
	for _, data := range []string{
		"{\"x\": 1, \"y\": 2, \"z\": 3}\n\n{\"x\": 4, \"y\": 5, \"z\": 6}\n",
		"{\"x\": 1, \"y\": 2, \"z\": 3}\n   \nnot even json\n",
	} {
		rr := NewRecordReader(strings.NewReader(data), "")
		if _, err := rr.Next(); err != nil {
			t.Fatal(err)
		}
		if _, err := rr.Next(); err != io.EOF {
			t.Fatalf("blank line should end the stream, got %v", err)
		}
		if _, err := rr.Next(); err != io.EOF {
			t.Fatalf("stream should stay ended, got %v", err)
		}
	}
}

func TestRecordEmptyStream(t *testing.T) {
	for _, data := range []string{"", "\n"} {
		rr := NewRecordReader(strings.NewReader(data), "")
		if _, err := rr.Next(); err != io.EOF {
			t.Fatalf("%q: expected EOF, got %v", data, err)
		}
	}
}

func TestRecordDecodeError(t *testing.T) {
	data := "{\"x\": 1, \"y\": 2, \"z\": 3}\n{\"x\": 1, \"y\": 2, \"z\": 3}\n{\"x\": 1, \"y\": \n"
	rr := NewRecordReader(strings.NewReader(data), "")
	for i := 0; i < 2; i++ {
		if _, err := rr.Next(); err != nil {
			t.Fatal(err)
		}
	}
	_, err := rr.Next()
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected a decode error, got %v", err)
	}
	if derr.Line != 3 {
		t.Fatalf("expected line 3, got %d", derr.Line)
	}
	if !strings.HasPrefix(derr.Error(), "line 3: ") {
		t.Fatalf("unexpected message %s", derr)
	}
}

func TestRecordMissingField(t *testing.T) {
	for _, data := range []string{`{"x": 1, "y": 2}`, `{"y": 1, "z": 2}`, `{"x": 1, "y": "two", "z": 3}`, `{"x": 1, "y": 2, "z": 3, "H": "bad"}`, `[1, 2, 3]`} {
		rr := NewRecordReader(strings.NewReader(data), "")
		_, err := rr.Next()
		var derr *DecodeError
		if !errors.As(err, &derr) || derr.Line != 1 {
			t.Fatalf("%s: expected a decode error on line 1, got %v", data, err)
		}
	}
	for _, data := range []string{`{"x": 1, "y": 2}`, `{"x": null, "y": 2, "z": 3}`, `{"x": 1, "y": 2, "z": null}`} {
		rr := NewRecordReader(strings.NewReader(data), "")
		if _, err := rr.Next(); !errors.Is(err, ErrMissingField) {
			t.Fatalf("%s: expected ErrMissingField, got %v", data, err)
		}
	}
}
