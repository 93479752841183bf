// Package filestore persists lab samples as flat text files, xlsx workbooks
// and JSON run manifests.
package filestore

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"randlab/domain/run"
	"randlab/domain/stats"
	"randlab/internal/errors"
	"randlab/ports"
)

// ManifestFile is the name of the run manifest written next to the samples
const ManifestFile = "manifest.json"

// FloatDecimals is the number of decimals written for real-valued samples
const FloatDecimals = 3

// TextStore writes each sample to <Dir>/<stem>.txt, one value per line
type TextStore struct {
	Dir string
}

var _ ports.SampleStore = (*TextStore)(nil)

// NewTextStore creates dir if needed and returns a store writing into it
func NewTextStore(dir string) (*TextStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.IOError("failed to create output directory "+dir, err)
	}
	return &TextStore{Dir: dir}, nil
}

// Path returns the file a sample with the given stem is written to
func (s *TextStore) Path(stem string) string {
	return filepath.Join(s.Dir, stem+".txt")
}

// SaveFloats writes sample with three decimals per line
func (s *TextStore) SaveFloats(stem string, sample stats.Sample) error {
	return s.writeLines(stem, len(sample), func(i int) string {
		return strconv.FormatFloat(sample[i], 'f', FloatDecimals, 64)
	})
}

// SaveInts writes sample as plain integers, one per line
func (s *TextStore) SaveInts(stem string, sample stats.IntSample) error {
	return s.writeLines(stem, len(sample), func(i int) string {
		return strconv.Itoa(sample[i])
	})
}

// SaveManifest writes the manifest as indented JSON
func (s *TextStore) SaveManifest(manifest *run.Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode run manifest")
	}
	path := filepath.Join(s.Dir, ManifestFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.IOError("failed to write "+path, err)
	}
	return nil
}

// Flush is a no-op; every Save call writes its file completely
func (s *TextStore) Flush() error {
	return nil
}

func (s *TextStore) writeLines(stem string, n int, line func(i int) string) error {
	path := s.Path(stem)
	f, err := os.Create(path)
	if err != nil {
		return errors.IOError("failed to create "+path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := 0; i < n; i++ {
		if _, err := w.WriteString(line(i)); err != nil {
			return errors.IOError("failed to write "+path, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return errors.IOError("failed to write "+path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.IOError("failed to write "+path, err)
	}
	if err := f.Close(); err != nil {
		return errors.IOError("failed to close "+path, err)
	}
	return nil
}
