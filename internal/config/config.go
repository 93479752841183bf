package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"randlab/internal/errors"
)

// Keys shared by viper, the RANDLAB_* environment and the command-line flags
const (
	KeySeed               = "seed"
	KeySize               = "size"
	KeyOutDir             = "out-dir"
	KeyFormat             = "format"
	KeyWorkers            = "workers"
	KeyBins               = "bins"
	KeyK                  = "k"
	KeyAlpha              = "alpha"
	KeyMultiplier         = "multiplier"
	KeyModulus            = "modulus"
	KeyLCGSeed            = "lcg-seed"
	KeySource             = "source"
	KeyBernoulliP         = "bernoulli-p"
	KeyBinomialM          = "binomial-m"
	KeyBinomialP          = "binomial-p"
	KeyGeometricP         = "geometric-p"
	KeyPoissonLambda      = "poisson-lambda"
	KeyKolmogorovCritical = "kolmogorov-critical"
	KeyLogLevel           = "log-level"

	EnvPrefix = "RANDLAB"
)

// Output formats
const (
	FormatText = "text"
	FormatXLSX = "xlsx"
	FormatBoth = "both"
)

// Uniform sources used by the discrete lab
const (
	SourcePlatform     = "platform"
	SourceCongruential = "congruential"
)

// Config represents the complete application configuration
type Config struct {
	Uniform  UniformConfig
	Discrete DiscreteConfig
	Tests    TestsConfig
	Output   OutputConfig
	LogLevel string
}

// UniformConfig holds the uniform lab parameters
type UniformConfig struct {
	Multiplier   uint64
	Modulus      uint64
	Seed         uint64
	PlatformSeed uint64
	K            int
	Size         int
}

// DiscreteConfig holds the discrete lab parameters
type DiscreteConfig struct {
	Size          int
	Seed          uint64
	Source        string
	Workers       int
	BernoulliP    float64
	BinomialM     int
	BinomialP     float64
	GeometricP    float64
	PoissonLambda float64
}

// TestsConfig holds goodness-of-fit settings
type TestsConfig struct {
	Bins               int
	Alpha              float64
	KolmogorovCritical float64
}

// OutputConfig holds persistence settings
type OutputConfig struct {
	Dir    string
	Format string
}

// SetDefaults registers built-in defaults on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySeed, 5489)
	v.SetDefault(KeySize, 1000)
	v.SetDefault(KeyOutDir, ".")
	v.SetDefault(KeyFormat, FormatText)
	v.SetDefault(KeyWorkers, 4)
	v.SetDefault(KeyBins, 10)
	v.SetDefault(KeyK, 32)
	v.SetDefault(KeyAlpha, 0.05)
	v.SetDefault(KeyMultiplier, 24389)
	v.SetDefault(KeyModulus, uint64(1)<<31)
	v.SetDefault(KeyLCGSeed, 24389)
	v.SetDefault(KeySource, SourcePlatform)
	v.SetDefault(KeyBernoulliP, 0.7)
	v.SetDefault(KeyBinomialM, 5)
	v.SetDefault(KeyBinomialP, 0.25)
	v.SetDefault(KeyGeometricP, 0.7)
	v.SetDefault(KeyPoissonLambda, 2.0)
	v.SetDefault(KeyKolmogorovCritical, 1.36)
	v.SetDefault(KeyLogLevel, "INFO")
}

// Flags returns a flag for every configuration key, with the built-in defaults
func Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.Uint64(KeySeed, 5489, "seed of the platform generator and base seed of the discrete lab")
	fs.Int(KeySize, 1000, "number of values per sample")
	fs.String(KeyOutDir, ".", "directory receiving one sub-directory per lab")
	fs.String(KeyFormat, FormatText, "output format: text, xlsx or both")
	fs.Int(KeyWorkers, 4, "distributions sampled concurrently")
	fs.Int(KeyBins, 10, "chi-square histogram bins")
	fs.Int(KeyK, 32, "MacLaren-Marsaglia table size")
	fs.Float64(KeyAlpha, 0.05, "chi-square significance level for non-default bin counts")
	fs.Uint64(KeyMultiplier, 24389, "congruential multiplier")
	fs.Uint64(KeyModulus, uint64(1)<<31, "congruential modulus")
	fs.Uint64(KeyLCGSeed, 24389, "congruential seed")
	fs.String(KeySource, SourcePlatform, "uniform source of the discrete lab: platform or congruential")
	fs.Float64(KeyBernoulliP, 0.7, "Bernoulli success probability")
	fs.Int(KeyBinomialM, 5, "binomial number of trials")
	fs.Float64(KeyBinomialP, 0.25, "binomial success probability")
	fs.Float64(KeyGeometricP, 0.7, "geometric success probability")
	fs.Float64(KeyPoissonLambda, 2.0, "Poisson rate")
	fs.Float64(KeyKolmogorovCritical, 1.36, "critical value for sqrt(n)*D")
	fs.String(KeyLogLevel, "INFO", "log level: ERROR, WARN, INFO, DEBUG or TRACE")
	return fs
}

// Load reads configuration from defaults, a .env file, RANDLAB_* variables
// and flags (when non-nil), in increasing precedence, and validates it
func Load(flags *flag.FlagSet) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// the plain LOG_LEVEL variable is honoured after the prefixed one
	if err := v.BindEnv(KeyLogLevel, EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, errors.Wrap(err, "failed to bind log level")
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(err, "failed to bind flags")
		}
	}

	config := FromViper(v)
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// FromViper builds a Config from the resolved values in v without validating it
func FromViper(v *viper.Viper) *Config {
	seed := v.GetUint64(KeySeed)
	size := v.GetInt(KeySize)
	return &Config{
		Uniform: UniformConfig{
			Multiplier:   v.GetUint64(KeyMultiplier),
			Modulus:      v.GetUint64(KeyModulus),
			Seed:         v.GetUint64(KeyLCGSeed),
			PlatformSeed: seed,
			K:            v.GetInt(KeyK),
			Size:         size,
		},
		Discrete: DiscreteConfig{
			Size:          size,
			Seed:          seed,
			Source:        strings.ToLower(v.GetString(KeySource)),
			Workers:       v.GetInt(KeyWorkers),
			BernoulliP:    v.GetFloat64(KeyBernoulliP),
			BinomialM:     v.GetInt(KeyBinomialM),
			BinomialP:     v.GetFloat64(KeyBinomialP),
			GeometricP:    v.GetFloat64(KeyGeometricP),
			PoissonLambda: v.GetFloat64(KeyPoissonLambda),
		},
		Tests: TestsConfig{
			Bins:               v.GetInt(KeyBins),
			Alpha:              v.GetFloat64(KeyAlpha),
			KolmogorovCritical: v.GetFloat64(KeyKolmogorovCritical),
		},
		Output: OutputConfig{
			Dir:    v.GetString(KeyOutDir),
			Format: strings.ToLower(v.GetString(KeyFormat)),
		},
		LogLevel: v.GetString(KeyLogLevel),
	}
}

// Validate checks every section and reports all problems together.
// Distribution parameters are checked by the samplers themselves.
func (c *Config) Validate() error {
	var errs errors.Collector

	if c.Uniform.Size < 1 {
		errs.Add(errors.ConfigInvalid("%s must be at least 1, got %d", KeySize, c.Uniform.Size))
	}
	if c.Uniform.K < 1 {
		errs.Add(errors.ConfigInvalid("%s must be at least 1, got %d", KeyK, c.Uniform.K))
	}
	if c.Discrete.Workers < 1 {
		errs.Add(errors.ConfigInvalid("%s must be at least 1, got %d", KeyWorkers, c.Discrete.Workers))
	}
	switch c.Discrete.Source {
	case SourcePlatform, SourceCongruential:
	default:
		errs.Add(errors.ConfigInvalid("%s must be %s or %s, got %q",
			KeySource, SourcePlatform, SourceCongruential, c.Discrete.Source))
	}
	if c.Tests.Bins < 2 {
		errs.Add(errors.ConfigInvalid("%s must be at least 2, got %d", KeyBins, c.Tests.Bins))
	}
	if !(c.Tests.Alpha > 0 && c.Tests.Alpha < 1) {
		errs.Add(errors.ConfigInvalid("%s must lie in (0,1), got %v", KeyAlpha, c.Tests.Alpha))
	}
	if !(c.Tests.KolmogorovCritical > 0) {
		errs.Add(errors.ConfigInvalid("%s must be positive, got %v", KeyKolmogorovCritical, c.Tests.KolmogorovCritical))
	}
	switch c.Output.Format {
	case FormatText, FormatXLSX, FormatBoth:
	default:
		errs.Add(errors.ConfigInvalid("%s must be %s, %s or %s, got %q",
			KeyFormat, FormatText, FormatXLSX, FormatBoth, c.Output.Format))
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		errs.Add(errors.ConfigInvalid("%s is required", KeyOutDir))
	}

	return errs.ErrorOrNil()
}

// WantsText reports whether flat text files should be written
func (o OutputConfig) WantsText() bool {
	return o.Format == FormatText || o.Format == FormatBoth
}

// WantsWorkbook reports whether an xlsx workbook should be written
func (o OutputConfig) WantsWorkbook() bool {
	return o.Format == FormatXLSX || o.Format == FormatBoth
}

// loadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to load %s", path)
	}
	return nil
}
