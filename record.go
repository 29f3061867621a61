package trajviz

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultMetricField is the record field used for color coding.
	DefaultMetricField = "H"
	maxLineSize        = 1 << 20
)

var (
	// ErrNoRecords is returned when the data stream holds no record at all.
	ErrNoRecords = errors.New("no record in data stream")
	// ErrMissingField is returned when a record lacks one of its coordinates.
	ErrMissingField = errors.New("missing field")
)

// Record is one decoded line of the data stream.
type Record struct {
	X, Y, Z float64
	Metric  *float64 // Error metric (H by default), nil if absent.
	T       *float64 // Coordinate time, if provided by the generator.
	Tau     *float64 // Proper time, if provided by the generator.
}

// Position returns the record coordinates as a vector.
func (r Record) Position() r3.Vec {
	return r3.Vec{X: r.X, Y: r.Y, Z: r.Z}
}

func (r Record) String() string {
	if r.Metric != nil {
		return fmt.Sprintf("(%f, %f, %f) m=%.1f", r.X, r.Y, r.Z, *r.Metric)
	}
	return fmt.Sprintf("(%f, %f, %f)", r.X, r.Y, r.Z)
}

// DecodeError reports a line which could not be decoded.
type DecodeError struct {
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// RecordReader reads line delimited JSON records. The stream ends at EOF or
// at the first empty line.
type RecordReader struct {
	scanner *bufio.Scanner
	metric  string
	line    int
	done    bool
}

// NewRecordReader returns a reader of records from r. The metric field is
// the one decoded into Record.Metric; it defaults to DefaultMetricField.
func NewRecordReader(r io.Reader, metric string) *RecordReader {
	if metric == "" {
		metric = DefaultMetricField
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &RecordReader{scanner: s, metric: metric}
}

// Line returns the number of the last line read.
func (rr *RecordReader) Line() int {
	return rr.line
}

// Next returns the next record, or io.EOF once the stream is exhausted.
func (rr *RecordReader) Next() (Record, error) {
	if rr.done {
		return Record{}, io.EOF
	}
	if !rr.scanner.Scan() {
		rr.done = true
		if err := rr.scanner.Err(); err != nil {
			return Record{}, fmt.Errorf("line %d: %w", rr.line+1, err)
		}
		return Record{}, io.EOF
	}
	rr.line++
	line := rr.scanner.Bytes()
	if len(strings.TrimSpace(string(line))) == 0 {
		// An empty line is the end of stream sentinel.
		rr.done = true
		return Record{}, io.EOF
	}
	rec, err := decodeRecord(line, rr.metric)
	if err != nil {
		return Record{}, &DecodeError{Line: rr.line, Err: err}
	}
	return rec, nil
}

func decodeRecord(line []byte, metric string) (rec Record, err error) {
	var fields map[string]json.RawMessage
	if err = json.Unmarshal(line, &fields); err != nil {
		return
	}
	for _, c := range []struct {
		name string
		dst  *float64
	}{{"x", &rec.X}, {"y", &rec.Y}, {"z", &rec.Z}} {
		raw, ok := fields[c.name]
		if !ok || string(raw) == "null" {
			return rec, fmt.Errorf("%w `%s`", ErrMissingField, c.name)
		}
		if err = json.Unmarshal(raw, c.dst); err != nil {
			return rec, fmt.Errorf("field `%s`: %w", c.name, err)
		}
	}
	if rec.Metric, err = optionalFloat(fields, metric); err != nil {
		return
	}
	if rec.T, err = optionalFloat(fields, "t"); err != nil {
		return
	}
	rec.Tau, err = optionalFloat(fields, "tau")
	return
}

func optionalFloat(fields map[string]json.RawMessage, name string) (*float64, error) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("field `%s`: %w", name, err)
	}
	return &v, nil
}
