package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultSeparator = "\t"
	commentPrefix    = "#"
	fieldCount       = 4
)

var (
	ErrParse          = errors.New("parse error")
	ErrEmpty          = errors.New("dataset contains no samples")
	ErrEmptySeparator = errors.New("separator must not be empty")
)

// Sample is one row of the input table.
type Sample struct {
	X       float64
	Y       float64
	BoxSize float64
	Value   float64
}

// ParseError reports the first malformed line of an input table.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// Read parses a delimited table of x, y, box size and value columns.
// Lines starting with '#' and blank lines are skipped.
func Read(r io.Reader, separator string) ([]Sample, error) {
	if separator == "" {
		return nil, ErrEmptySeparator
	}

	var samples []Sample
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, commentPrefix) || strings.TrimSpace(line) == "" {
			continue
		}
		s, err := parseLine(line, separator)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Reason: err.Error()}
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return samples, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path, separator string) ([]Sample, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	samples, err := Read(f, separator)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return samples, nil
}

func parseLine(line, separator string) (Sample, error) {
	fields := strings.Split(line, separator)
	if len(fields) != fieldCount {
		return Sample{}, fmt.Errorf("expected %d fields, got %d", fieldCount, len(fields))
	}

	var values [fieldCount]float64
	names := [fieldCount]string{"x", "y", "box size", "value"}
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Sample{}, fmt.Errorf("%s: %q is not a finite number", names[i], strings.TrimSpace(f))
		}
		values[i] = v
	}

	s := Sample{X: values[0], Y: values[1], BoxSize: values[2], Value: values[3]}
	if s.BoxSize <= 0 {
		return Sample{}, fmt.Errorf("box size must be positive, got %v", s.BoxSize)
	}
	return s, nil
}

// Stats summarises a sample set.
type Stats struct {
	Count      int
	ValueMin   float64
	ValueMax   float64
	MinBoxSize float64
}

// Summarize computes the statistics the renderer needs from samples.
func Summarize(samples []Sample) (Stats, error) {
	if len(samples) == 0 {
		return Stats{}, ErrEmpty
	}

	st := Stats{
		Count:      len(samples),
		ValueMin:   samples[0].Value,
		ValueMax:   samples[0].Value,
		MinBoxSize: samples[0].BoxSize,
	}
	for _, s := range samples[1:] {
		st.ValueMin = math.Min(st.ValueMin, s.Value)
		st.ValueMax = math.Max(st.ValueMax, s.Value)
		st.MinBoxSize = math.Min(st.MinBoxSize, s.BoxSize)
	}
	return st, nil
}
