package filestore

import (
	"randlab/domain/run"
	"randlab/domain/stats"
	"randlab/internal/errors"
	"randlab/ports"
)

// MultiStore fans every call out to several stores. All stores are tried
// and their failures are reported together.
type MultiStore []ports.SampleStore

var _ ports.SampleStore = MultiStore(nil)

func (m MultiStore) SaveFloats(stem string, sample stats.Sample) error {
	return m.each(func(s ports.SampleStore) error { return s.SaveFloats(stem, sample) })
}

func (m MultiStore) SaveInts(stem string, sample stats.IntSample) error {
	return m.each(func(s ports.SampleStore) error { return s.SaveInts(stem, sample) })
}

func (m MultiStore) SaveManifest(manifest *run.Manifest) error {
	return m.each(func(s ports.SampleStore) error { return s.SaveManifest(manifest) })
}

func (m MultiStore) Flush() error {
	return m.each(func(s ports.SampleStore) error { return s.Flush() })
}

func (m MultiStore) each(fn func(ports.SampleStore) error) error {
	var errs errors.Collector
	for _, s := range m {
		errs.Add(fn(s))
	}
	return errs.ErrorOrNil()
}
