package app

import (
	"context"
	"time"

	"randlab/adapters/rng"
	"randlab/adapters/stats/goodness"
	"randlab/domain/run"
	"randlab/domain/stats"
	"randlab/internal"
	"randlab/internal/errors"
	"randlab/ports"
)

// Stems of the three uniform samples
const (
	StemCongruential = "congruential"
	StemPlatform     = "platform"
	StemCombined     = "maclaren_marsaglia"
)

// UniformLabService generates the congruential, platform and combined
// samples and runs the goodness-of-fit battery on each
type UniformLabService struct {
	tester   *goodness.Tester
	reporter ports.Reporter
	store    ports.SampleStore
	logger   *internal.Logger
}

// UniformLabRequest defines the inputs of a uniform lab run
type UniformLabRequest struct {
	Congruential rng.Congruential
	PlatformSeed uint64
	Shuffle      rng.MacLarenMarsaglia
	Size         int
}

// UniformSampleResult is one tested uniform sample
type UniformSampleResult struct {
	Name     string          `json:"name"`
	Sample   stats.Sample    `json:"-"`
	Verdicts []stats.Verdict `json:"verdicts"`
}

// UniformLabResult contains the tested samples and the run manifest
type UniformLabResult struct {
	Samples  []UniformSampleResult `json:"samples"`
	Manifest *run.Manifest         `json:"manifest"`
}

// AllPassed reports whether every verdict of every sample passed
func (r *UniformLabResult) AllPassed() bool {
	for _, s := range r.Samples {
		for _, v := range s.Verdicts {
			if !v.Passed {
				return false
			}
		}
	}
	return true
}

// NewUniformLabService creates a uniform lab service
func NewUniformLabService(tester *goodness.Tester, reporter ports.Reporter, store ports.SampleStore, logger *internal.Logger) *UniformLabService {
	return &UniformLabService{
		tester:   tester,
		reporter: reporter,
		store:    store,
		logger:   logger,
	}
}

// Validate checks the generator parameters and sizes together
func (req UniformLabRequest) Validate() error {
	var errs errors.Collector
	errs.Add(req.Congruential.Validate())
	if req.Size < 1 {
		errs.Add(errors.InvalidParameter("size", req.Size, "[1,inf)"))
	}
	if req.Shuffle.K < 1 {
		errs.Add(errors.InvalidParameter("k", req.Shuffle.K, "[1,inf)"))
	}
	return errs.ErrorOrNil()
}

// Run generates, reports, tests and persists the three uniform samples
func (s *UniformLabService) Run(ctx context.Context, req UniformLabRequest) (*UniformLabResult, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid uniform lab request")
	}

	startTime := time.Now()
	manifest := run.NewManifest(run.LabUniform, req.PlatformSeed)
	params := map[string]float64{
		"multiplier": float64(req.Congruential.Multiplier),
		"modulus":    float64(req.Congruential.Modulus),
		"lcg_seed":   float64(req.Congruential.Seed),
		"seed":       float64(req.PlatformSeed),
		"k":          float64(req.Shuffle.K),
		"size":       float64(req.Size),
		"bins":       float64(s.tester.Bins),
	}
	for name, value := range params {
		manifest.SetParameter(name, value)
	}
	log := s.logger.With("run_id", manifest.RunID.String())
	log.Info("uniform lab started: size=%d k=%d", req.Size, req.Shuffle.K)

	s.reporter.Section("parameters")
	s.reporter.ReportParameters(params)

	platform := rng.Platform{Seed: req.PlatformSeed}
	generators := []struct {
		name string
		gen  ports.UniformGenerator
	}{
		{StemCongruential, req.Congruential},
		{StemPlatform, platform},
		{StemCombined, rng.Combined{First: req.Congruential, Second: platform, Shuffle: req.Shuffle}},
	}

	result := &UniformLabResult{Manifest: manifest}
	for _, g := range generators {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "uniform lab cancelled")
		}

		sample := g.gen.Generate(req.Size)
		verdicts := s.tester.Battery(sample)
		for _, v := range verdicts {
			log.Debug("%s %s: statistic=%.4f critical=%.4f passed=%t", g.name, v.Test, v.Scaled, v.Critical, v.Passed)
		}

		s.reporter.Section(g.name)
		s.reporter.ReportUniform(g.name, sample)
		s.reporter.ReportVerdicts(g.name, verdicts)

		if err := s.store.SaveFloats(g.name, sample); err != nil {
			return nil, errors.Wrapf(err, "failed to save %s sample", g.name)
		}

		manifest.AddSample(run.SampleRecord{
			Name:        g.name,
			Stem:        g.name,
			Size:        len(sample),
			Fingerprint: sample.Fingerprint(),
			Verdicts:    verdicts,
		})
		result.Samples = append(result.Samples, UniformSampleResult{Name: g.name, Sample: sample, Verdicts: verdicts})
	}

	if err := persistManifest(s.store, manifest); err != nil {
		return nil, err
	}

	log.Info("uniform lab finished in %dms, all passed: %t", time.Since(startTime).Milliseconds(), result.AllPassed())
	return result, nil
}

func persistManifest(store ports.SampleStore, manifest *run.Manifest) error {
	if err := manifest.Validate(); err != nil {
		return errors.Wrap(err, "incomplete run manifest")
	}
	if err := store.SaveManifest(manifest); err != nil {
		return errors.Wrap(err, "failed to save run manifest")
	}
	if err := store.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush sample store")
	}
	return nil
}
