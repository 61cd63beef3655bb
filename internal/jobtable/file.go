package jobtable

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tuanphanughdtun/schedule/internal/job"
)

// Format is a job table file format
type Format int

const (
	FormatCSV Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFor picks the format from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported job table extension %q (use .csv, .yaml or .yml)", filepath.Ext(path))
	}
}

// Read parses a job table in the given format
func Read(r io.Reader, format Format) (job.JobSet, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatYAML:
		return ReadYAML(r)
	default:
		return job.JobSet{}, fmt.Errorf("unsupported format %v", format)
	}
}

// Write serializes a job table in the given format
func Write(w io.Writer, set job.JobSet, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, set)
	case FormatYAML:
		return WriteYAML(w, set)
	default:
		return fmt.Errorf("unsupported format %v", format)
	}
}

// LoadFile reads a job table file. A CSV table, or a YAML table without a
// name, is named after the file.
func LoadFile(path string) (job.JobSet, error) {
	format, err := FormatFor(path)
	if err != nil {
		return job.JobSet{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return job.JobSet{}, err
	}
	defer f.Close()

	set, err := Read(f, format)
	if err != nil {
		return job.JobSet{}, fmt.Errorf("%s: %w", path, err)
	}
	if set.Name == "" {
		set.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return set, nil
}

// SaveFile writes a job table file in the format its extension names
func SaveFile(path string, set job.JobSet) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, set, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
