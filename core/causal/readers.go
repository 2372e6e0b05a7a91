package causal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// ReadConnectionMatrix reads a labelled adjacency matrix CSV. The first
// row is an empty cell followed by the variable names; each following row
// is a variable name followed by 0/1 entries, value 1 meaning the column
// variable causally points at the row variable.
func ReadConnectionMatrix(path string) ([]string, *mat.Dense, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 || len(records[0]) < 2 {
		return nil, nil, fmt.Errorf("%w: %s: connection matrix needs a header row and at least one variable", ErrBadFormat, path)
	}

	variables := records[0][1:]
	n := len(variables)
	if len(records)-1 != n {
		return nil, nil, fmt.Errorf("%w: %s has %d variables but %d rows", ErrShapeMismatch, path, n, len(records)-1)
	}

	conn := mat.NewDense(n, n, nil)
	for i, record := range records[1:] {
		if len(record) != n+1 {
			return nil, nil, fmt.Errorf("%w: %s row %d has %d columns, want %d", ErrShapeMismatch, path, i+1, len(record), n+1)
		}
		for j, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %s row %d: %v", ErrBadFormat, path, i+1, err)
			}
			conn.Set(i, j, v)
		}
	}
	return variables, conn, nil
}

// ReadGainMatrix reads a bare numeric CSV into a square gain matrix.
func ReadGainMatrix(path string) (*mat.Dense, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	n := len(records)
	if n == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrBadFormat, path)
	}

	gain := mat.NewDense(n, len(records[0]), nil)
	for i, record := range records {
		if len(record) != len(records[0]) {
			return nil, fmt.Errorf("%w: %s row %d has %d columns, want %d", ErrShapeMismatch, path, i, len(record), len(records[0]))
		}
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s row %d: %v", ErrBadFormat, path, i, err)
			}
			gain.Set(i, j, v)
		}
	}
	if rows, cols := gain.Dims(); rows != cols {
		return nil, fmt.Errorf("%w: %s gain matrix is %dx%d, want square", ErrShapeMismatch, path, rows, cols)
	}
	return gain, nil
}

// ReadBiasVector reads a bias vector CSV: a header row of variable names
// followed by one row of non-negative weights.
func ReadBiasVector(path string) ([]string, BiasVector, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, nil, err
	}
	if len(records) != 2 {
		return nil, nil, fmt.Errorf("%w: %s: bias vector needs a name row and a value row", ErrBadFormat, path)
	}
	variables := records[0]
	if len(records[1]) != len(variables) {
		return nil, nil, fmt.Errorf("%w: %s has %d names but %d values", ErrShapeMismatch, path, len(variables), len(records[1]))
	}

	bias := make(BiasVector, len(variables))
	for i, field := range records[1] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s value %d: %v", ErrBadFormat, path, i, err)
		}
		bias[i] = v
	}
	return variables, bias, nil
}

// ReadVariables reads the variable names from a time-series CSV header.
// A leading time column (empty label or "Time") is skipped.
func ReadVariables(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}
	if len(header) > 0 && (header[0] == "" || header[0] == "Time" || header[0] == "time") {
		header = header[1:]
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: %s has no variable columns", ErrBadFormat, path)
	}
	return header, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open matrix file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}
