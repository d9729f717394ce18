package cmd

import (
	"github.com/spf13/viper"
	"gopkg.in/guregu/null.v3"

	"github.com/kinetechlab/chromquant"
)

// speciesConfig is one species entry in the config file.
type speciesConfig struct {
	ID                   string   `mapstructure:"id"`
	Name                 string   `mapstructure:"name"`
	ReferenceID          string   `mapstructure:"reference_id"`
	RetentionTime        float64  `mapstructure:"retention_time"`
	RetentionTolerance   float64  `mapstructure:"retention_tolerance"`
	InitialConcentration *float64 `mapstructure:"initial_concentration"`
	ConcentrationUnit    string   `mapstructure:"concentration_unit"`
	InternalStandard     bool     `mapstructure:"internal_standard"`
}

type config struct {
	Species []speciesConfig `mapstructure:"species"`
}

// loadRegistry reads the config file and builds the species registry from
// it. The registry enforces uniqueness and the single-internal-standard
// rule, so a bad config fails here rather than mid-run.
func loadRegistry(path string) (*chromquant.Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.Species) == 0 {
		return nil, &chromquant.ConfigurationError{Op: "config", Message: "no species declared in " + path}
	}

	reg := chromquant.NewRegistry()
	for _, sc := range cfg.Species {
		sp := &chromquant.Species{
			ID:                 sc.ID,
			Name:               sc.Name,
			ReferenceID:        sc.ReferenceID,
			RetentionTime:      sc.RetentionTime,
			RetentionTolerance: sc.RetentionTolerance,
			ConcentrationUnit:  chromquant.Unit(sc.ConcentrationUnit),
			InternalStandard:   sc.InternalStandard,
		}
		if sc.InitialConcentration != nil {
			sp.InitialConcentration = null.FloatFrom(*sc.InitialConcentration)
		}
		if err := reg.Define(sp); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
