package causal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestReadConnectionMatrix(t *testing.T) {
	path := writeFile(t, t.TempDir(), "conn.csv",
		",FT101,PT102,TT103\n"+
			"FT101,0,1,0\n"+
			"PT102,1,0,1\n"+
			"TT103,0,1,0\n")

	variables, conn, err := ReadConnectionMatrix(path)
	if err != nil {
		t.Fatalf("ReadConnectionMatrix: %v", err)
	}
	if len(variables) != 3 || variables[0] != "FT101" {
		t.Errorf("variables: got %v", variables)
	}
	if got := conn.At(1, 0); got != 1 {
		t.Errorf("conn[1,0]: got %v, want 1", got)
	}
	if got := conn.At(0, 2); got != 0 {
		t.Errorf("conn[0,2]: got %v, want 0", got)
	}
}

func TestReadConnectionMatrix_RowMismatch(t *testing.T) {
	path := writeFile(t, t.TempDir(), "conn.csv",
		",A,B\n"+
			"A,0,1\n")

	_, _, err := ReadConnectionMatrix(path)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("got %v, want ErrShapeMismatch", err)
	}
}

func TestReadGainMatrix(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gain.csv",
		"0,0.52,-0.3\n"+
			"0.1,0,0\n"+
			"0,1.4,0\n")

	gain, err := ReadGainMatrix(path)
	if err != nil {
		t.Fatalf("ReadGainMatrix: %v", err)
	}
	if got := gain.At(0, 1); got != 0.52 {
		t.Errorf("gain[0,1]: got %v, want 0.52", got)
	}
	if got := gain.At(0, 2); got != -0.3 {
		t.Errorf("gain[0,2]: got %v, want -0.3", got)
	}
}

func TestReadGainMatrix_NonSquare(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gain.csv", "0,1,2\n3,4,5\n")

	_, err := ReadGainMatrix(path)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("got %v, want ErrShapeMismatch", err)
	}
}

func TestReadBiasVector(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bias.csv", "A,B,C\n0.5,0.25,0.25\n")

	variables, bias, err := ReadBiasVector(path)
	if err != nil {
		t.Fatalf("ReadBiasVector: %v", err)
	}
	if len(variables) != 3 {
		t.Fatalf("variables: got %v", variables)
	}
	if bias[0] != 0.5 {
		t.Errorf("bias[0]: got %v, want 0.5", bias[0])
	}
}

func TestReadVariables(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"with time column", "Time,A,B,C\n0,1,2,3\n", 3},
		{"unlabelled first column", ",A,B\n0,1,2\n", 2},
		{"bare header", "A,B\n1,2\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "data.csv", tt.content)
			variables, err := ReadVariables(path)
			if err != nil {
				t.Fatalf("ReadVariables: %v", err)
			}
			if len(variables) != tt.want {
				t.Errorf("got %d variables %v, want %d", len(variables), variables, tt.want)
			}
		})
	}
}
