// Package storage resolves the directory layout of a ranking case: where
// case configuration lives, where weight data is read from, and where
// noderank results are written. The result tree mirrors the weight-data
// tree with the "weightdata" element swapped for "noderank".
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ModeTests selects the self-contained test configuration namespace;
// any other mode resolves through the locations file.
const ModeTests = "tests"

// locationsFile names the file holding data/config/save locations for
// non-test modes.
const locationsFile = "looprank.yaml"

// ErrNoBoxes indicates a weight-data directory without box subdirectories.
var ErrNoBoxes = errors.New("no box directories found")

// Dirs holds the resolved directory roots for one case.
type Dirs struct {
	// Save is the export root; the noderank tree is created below it.
	Save string
	// CaseConfig is the directory holding the case configuration file.
	CaseConfig string
	// CaseData is the case data root containing the weightdata tree.
	CaseData string
}

type locations struct {
	DataLoc   string `yaml:"dataloc"`
	ConfigLoc string `yaml:"configloc"`
	SaveLoc   string `yaml:"saveloc"`
}

// Resolve returns the directory layout for a mode and case. Test mode
// uses fixed relative directories; other modes read the locations file
// from the working directory.
func Resolve(mode, caseName string) (*Dirs, error) {
	if mode == ModeTests {
		return &Dirs{
			Save:       "test_exports",
			CaseConfig: "test_configs",
			CaseData:   filepath.Join("test_configs", caseName),
		}, nil
	}

	raw, err := os.ReadFile(locationsFile)
	if err != nil {
		return nil, fmt.Errorf("read locations file: %w", err)
	}
	var locs locations
	if err := yaml.Unmarshal(raw, &locs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", locationsFile, err)
	}
	if locs.DataLoc == "" || locs.ConfigLoc == "" || locs.SaveLoc == "" {
		return nil, fmt.Errorf("%s must set dataloc, configloc and saveloc", locationsFile)
	}

	return &Dirs{
		Save:       expandHome(locs.SaveLoc),
		CaseConfig: filepath.Join(expandHome(locs.ConfigLoc), mode, caseName),
		CaseData:   filepath.Join(expandHome(locs.DataLoc), mode, caseName),
	}, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// EnsureDir creates a directory if it does not exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// WeightDataDir returns the weight-data directory for one
// (case, scenario, weight method) triple.
func (d *Dirs) WeightDataDir(caseName, scenario, weightMethod string) string {
	return filepath.Join(d.Save, "weightdata", caseName, scenario, weightMethod)
}

// NoderankDir mirrors a weight-data path into the noderank result tree.
func NoderankDir(dataDir string) string {
	parts := strings.Split(filepath.ToSlash(dataDir), "/")
	for i, part := range parts {
		if part == "weightdata" {
			parts[i] = "noderank"
		}
	}
	return filepath.Join(parts...)
}

// ListSubdirs returns the sorted names of the immediate subdirectories.
func ListSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// BoxDir returns the directory of one time-window box. Box directories
// are numbered from one on disk: box index 0 lives in "box001".
func BoxDir(dir string, boxIndex int) string {
	return filepath.Join(dir, fmt.Sprintf("box%03d", boxIndex+1))
}

// DiscoverBoxes counts the box subdirectories of a weight-array
// directory and returns the zero-based box indexes in order.
func DiscoverBoxes(dir string) ([]int, error) {
	subdirs, err := ListSubdirs(dir)
	if err != nil {
		return nil, err
	}
	var boxes []int
	for _, name := range subdirs {
		if strings.HasPrefix(name, "box") {
			boxes = append(boxes, len(boxes))
		}
	}
	if len(boxes) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoBoxes, dir)
	}
	return boxes, nil
}
