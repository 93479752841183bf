package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"randlab/domain/run"
	"randlab/domain/stats"
	"randlab/internal/errors"
	"randlab/ports"
)

// ManifestSheet holds the run manifest in a workbook
const ManifestSheet = "manifest"

// WorkbookStore collects every sample of a run as one sheet of a single
// xlsx workbook, written to Path on Flush
type WorkbookStore struct {
	Path string

	file   *excelize.File
	sheets map[string]bool
}

var _ ports.SampleStore = (*WorkbookStore)(nil)

// NewWorkbookStore creates an empty workbook that will be saved at path
func NewWorkbookStore(path string) (*WorkbookStore, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ManifestSheet); err != nil {
		return nil, errors.Wrap(err, "failed to prepare workbook")
	}
	return &WorkbookStore{
		Path:   path,
		file:   f,
		sheets: map[string]bool{ManifestSheet: true},
	}, nil
}

// SaveFloats adds a sheet named stem holding sample in column A
func (s *WorkbookStore) SaveFloats(stem string, sample stats.Sample) error {
	return s.writeColumn(stem, len(sample), func(i int) interface{} { return sample[i] })
}

// SaveInts adds a sheet named stem holding sample in column A
func (s *WorkbookStore) SaveInts(stem string, sample stats.IntSample) error {
	return s.writeColumn(stem, len(sample), func(i int) interface{} { return sample[i] })
}

// SaveManifest fills the manifest sheet with run metadata, parameters and
// one row per sample
func (s *WorkbookStore) SaveManifest(manifest *run.Manifest) error {
	rows := [][]interface{}{
		{"run_id", manifest.RunID.String()},
		{"lab", string(manifest.Lab)},
		{"seed", manifest.Seed},
		{"created_at", manifest.CreatedAt.Format("2006-01-02T15:04:05Z07:00")},
		{"fingerprint", manifest.Fingerprint().String()},
	}

	names := make([]string, 0, len(manifest.Parameters))
	for name := range manifest.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rows = append(rows, []interface{}{name, manifest.Parameters[name]})
	}

	rows = append(rows, []interface{}{}, []interface{}{"sample", "stem", "size", "fingerprint", "passed"})
	for _, rec := range manifest.Samples {
		rows = append(rows, []interface{}{rec.Name, rec.Stem, rec.Size, rec.Fingerprint.String(), passedAll(rec.Verdicts)})
	}

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := s.file.SetCellValue(ManifestSheet, cell, v); err != nil {
				return errors.Wrapf(err, "failed to write manifest cell %s", cell)
			}
		}
	}
	return nil
}

// Flush saves the workbook, creating the parent directory if needed
func (s *WorkbookStore) Flush() error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return errors.IOError("failed to create output directory", err)
	}
	if err := s.file.SaveAs(s.Path); err != nil {
		return errors.IOError("failed to save workbook "+s.Path, err)
	}
	return nil
}

// Close releases the workbook
func (s *WorkbookStore) Close() error {
	return s.file.Close()
}

func (s *WorkbookStore) writeColumn(stem string, n int, value func(i int) interface{}) error {
	if s.sheets[stem] {
		return errors.New(errors.CodeIOError, fmt.Sprintf("sheet %q already written", stem))
	}
	if _, err := s.file.NewSheet(stem); err != nil {
		return errors.Wrapf(err, "failed to add sheet %s", stem)
	}
	s.sheets[stem] = true

	if err := s.file.SetCellValue(stem, "A1", stem); err != nil {
		return errors.Wrapf(err, "failed to write header of %s", stem)
	}
	for i := 0; i < n; i++ {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := s.file.SetCellValue(stem, cell, value(i)); err != nil {
			return errors.Wrapf(err, "failed to write %s!%s", stem, cell)
		}
	}
	return nil
}

func passedAll(verdicts []stats.Verdict) string {
	if len(verdicts) == 0 {
		return ""
	}
	for _, v := range verdicts {
		if !v.Passed {
			return "no"
		}
	}
	return "yes"
}
