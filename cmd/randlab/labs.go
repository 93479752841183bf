package main

import (
	"context"
	"path/filepath"

	"randlab/adapters/filestore"
	"randlab/adapters/rng"
	"randlab/adapters/sampler"
	"randlab/adapters/stats/goodness"
	"randlab/app"
	"randlab/domain/run"
	"randlab/internal/config"
	"randlab/ports"
)

// WorkbookFile is the workbook name inside each lab directory
const WorkbookFile = "samples.xlsx"

func runUniform(ctx context.Context, env *labEnv) error {
	store, closeStore, err := openStore(env.cfg.Output, run.LabUniform)
	if err != nil {
		return err
	}
	defer closeStore()

	cfg := env.cfg
	tester := &goodness.Tester{
		Bins:               cfg.Tests.Bins,
		Lower:              0,
		Upper:              1,
		ChiSquareCritical:  goodness.ChiSquareCritical(cfg.Tests.Bins, cfg.Tests.Alpha),
		KolmogorovCritical: cfg.Tests.KolmogorovCritical,
	}
	svc := app.NewUniformLabService(tester, env.reporter, store, env.logger)

	result, err := svc.Run(ctx, app.UniformLabRequest{
		Congruential: congruential(cfg),
		PlatformSeed: cfg.Uniform.PlatformSeed,
		Shuffle:      rng.MacLarenMarsaglia{K: cfg.Uniform.K},
		Size:         cfg.Uniform.Size,
	})
	if err != nil {
		return err
	}

	if !result.AllPassed() {
		env.logger.Warn("uniformity rejected for at least one sample, see the verdict tables")
	}
	env.logger.Info("uniform run %s written to %s", result.Manifest.RunID, labDir(cfg.Output, run.LabUniform))
	return nil
}

func runDiscrete(ctx context.Context, env *labEnv) error {
	store, closeStore, err := openStore(env.cfg.Output, run.LabDiscrete)
	if err != nil {
		return err
	}
	defer closeStore()

	cfg := env.cfg
	req := app.DiscreteLabRequest{
		Samplers: []ports.DiscreteSampler{
			sampler.Bernoulli{P: cfg.Discrete.BernoulliP},
			sampler.Binomial{M: cfg.Discrete.BinomialM, P: cfg.Discrete.BinomialP},
			sampler.Geometric{P: cfg.Discrete.GeometricP},
			sampler.Poisson{Lambda: cfg.Discrete.PoissonLambda},
		},
		Size:    cfg.Discrete.Size,
		Workers: cfg.Discrete.Workers,
		Seed:    cfg.Discrete.Seed,
		Sources: app.PlatformSources(cfg.Discrete.Seed),
	}
	if cfg.Discrete.Source == config.SourceCongruential {
		lcg := congruential(cfg)
		if err := lcg.Validate(); err != nil {
			return err
		}
		req.Seed = lcg.Seed
		req.Sources = app.CongruentialSources(lcg)
	}

	svc := app.NewDiscreteLabService(env.reporter, store, env.logger)
	result, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}
	env.logger.Info("discrete run %s written to %s", result.Manifest.RunID, labDir(cfg.Output, run.LabDiscrete))
	return nil
}

func congruential(cfg *config.Config) rng.Congruential {
	return rng.Congruential{
		Multiplier: cfg.Uniform.Multiplier,
		Modulus:    cfg.Uniform.Modulus,
		Seed:       cfg.Uniform.Seed,
	}
}

func labDir(out config.OutputConfig, lab run.Lab) string {
	return filepath.Join(out.Dir, string(lab))
}

// openStore builds the store for the requested formats inside the lab
// directory. The returned func releases workbook resources.
func openStore(out config.OutputConfig, lab run.Lab) (ports.SampleStore, func(), error) {
	dir := labDir(out, lab)
	var stores filestore.MultiStore
	var closers []func() error

	if out.WantsText() {
		text, err := filestore.NewTextStore(dir)
		if err != nil {
			return nil, nil, err
		}
		stores = append(stores, text)
	}
	if out.WantsWorkbook() {
		workbook, err := filestore.NewWorkbookStore(filepath.Join(dir, WorkbookFile))
		if err != nil {
			return nil, nil, err
		}
		stores = append(stores, workbook)
		closers = append(closers, workbook.Close)
	}

	return stores, func() {
		for _, c := range closers {
			_ = c()
		}
	}, nil
}
