package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for an spsplot invocation.
// Values are populated from .spsplot.yaml, SPSPLOT_* env vars, and CLI flags.
type Config struct {
	// Spectrometer settings. Defaults match the SE-SPS operating point the
	// original planning tool shipped with.
	Angle         float64 `mapstructure:"angle"`          // degrees
	BeamEnergy    float64 `mapstructure:"beam_energy"`    // MeV
	MagneticField float64 `mapstructure:"magnetic_field"` // kG
	RhoMin        float64 `mapstructure:"rho_min"`        // cm, acceptance window
	RhoMax        float64 `mapstructure:"rho_max"`        // cm

	// Data sources.
	Catalog      string        `mapstructure:"catalog"`       // reactions.toml path
	MassTable    string        `mapstructure:"mass_table"`    // optional external mass table
	CachePath    string        `mapstructure:"cache_path"`    // excitation-level cache database
	NNDCURL      string        `mapstructure:"nndc_url"`      // NuDat endpoint
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"` // per NuDat request
	Offline      bool          `mapstructure:"offline"`       // forbid network fetches

	Verbose bool `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("angle", 35.0)
	viper.SetDefault("beam_energy", 16.0)
	viper.SetDefault("magnetic_field", 8.7)
	viper.SetDefault("rho_min", 69.0)
	viper.SetDefault("rho_max", 87.0)
	viper.SetDefault("catalog", ".spsplot/reactions.toml")
	viper.SetDefault("mass_table", "")
	viper.SetDefault("cache_path", ".spsplot/levels.db")
	viper.SetDefault("nndc_url", "https://www.nndc.bnl.gov/nudat3/getdatasetClassic.jsp")
	viper.SetDefault("fetch_timeout", "30s")
	viper.SetDefault("offline", false)
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
