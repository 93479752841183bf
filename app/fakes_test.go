package app

import (
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"randlab/domain/run"
	"randlab/domain/stats"
	"randlab/internal"
	"randlab/ports"
)

func quietLogger() *internal.Logger {
	return internal.NewLoggerTo(io.Discard, internal.LogLevelError)
}

// memStore keeps everything a lab persists in memory
type memStore struct {
	mu       sync.Mutex
	stems    []string
	floats   map[string]stats.Sample
	ints     map[string]stats.IntSample
	manifest *run.Manifest
	flushes  int
}

func newMemStore() *memStore {
	return &memStore{floats: map[string]stats.Sample{}, ints: map[string]stats.IntSample{}}
}

func (m *memStore) SaveFloats(stem string, sample stats.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stems = append(m.stems, stem)
	m.floats[stem] = sample
	return nil
}

func (m *memStore) SaveInts(stem string, sample stats.IntSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stems = append(m.stems, stem)
	m.ints[stem] = sample
	return nil
}

func (m *memStore) SaveManifest(manifest *run.Manifest) error {
	m.manifest = manifest
	return nil
}

func (m *memStore) Flush() error {
	m.flushes++
	return nil
}

// MockStore lets tests script store failures
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveFloats(stem string, sample stats.Sample) error {
	return m.Called(stem, sample).Error(0)
}

func (m *MockStore) SaveInts(stem string, sample stats.IntSample) error {
	return m.Called(stem, sample).Error(0)
}

func (m *MockStore) SaveManifest(manifest *run.Manifest) error {
	return m.Called(manifest).Error(0)
}

func (m *MockStore) Flush() error {
	return m.Called().Error(0)
}

// recordingReporter remembers section titles and reported labels
type recordingReporter struct {
	sections []string
	uniform  []string
	verdicts map[string][]stats.Verdict
	moments  []string
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{verdicts: map[string][]stats.Verdict{}}
}

func (r *recordingReporter) Section(title string) { r.sections = append(r.sections, title) }
func (r *recordingReporter) ReportParameters(map[string]float64) {}
func (r *recordingReporter) ReportUniform(label string, _ stats.Sample) {
	r.uniform = append(r.uniform, label)
}

func (r *recordingReporter) ReportVerdicts(label string, verdicts []stats.Verdict) {
	r.verdicts[label] = verdicts
}

func (r *recordingReporter) ReportMoments(label string, _ stats.IntSample, _, _ stats.MomentSummary) {
	r.moments = append(r.moments, label)
}

var (
	_ ports.SampleStore = (*memStore)(nil)
	_ ports.SampleStore = (*MockStore)(nil)
	_ ports.Reporter    = (*recordingReporter)(nil)
)
