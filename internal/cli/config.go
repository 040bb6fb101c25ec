package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/oceanmesh/vgrid/pkg/errors"
)

// Config is the optional TOML job file accepted by the build commands via
// --config. Flags given on the command line take precedence over values in
// the file.
//
// Example:
//
//	[stretching]
//	function = "s"
//	theta_f = 3.0
//	theta_b = 0.5
//
//	[vqs]
//	dz_bottom_min = 0.5
//	depths = [50.0, 150.0, 600.0]
//	levels = [10, 20, 40]
//
//	[sz]
//	slevels = 20
//	critical_depth = 30.0
type Config struct {
	Stretching StretchingConfig `toml:"stretching"`
	VQS        VQSConfig        `toml:"vqs"`
	SZ         SZConfig         `toml:"sz"`
}

// StretchingConfig mirrors the shared stretching flags.
type StretchingConfig struct {
	Function string   `toml:"function"`
	AVqs0    *float64 `toml:"a_vqs0"`
	ThetaF   *float64 `toml:"theta_f"`
	ThetaB   *float64 `toml:"theta_b"`
	ThetaS   *float64 `toml:"theta_s"`
	Hc       *float64 `toml:"hc"`
	Etal     *float64 `toml:"etal"`
}

// VQSConfig mirrors the vqs command flags.
type VQSConfig struct {
	DzBottomMin *float64  `toml:"dz_bottom_min"`
	Depths      []float64 `toml:"depths"`
	Levels      []int     `toml:"levels"`
}

// SZConfig mirrors the sz command flags.
type SZConfig struct {
	SLevels       *int      `toml:"slevels"`
	ZLevels       []float64 `toml:"zlevels"`
	CriticalDepth *float64  `toml:"critical_depth"`
}

// loadConfig reads and decodes a TOML job file. An empty path yields an
// empty config.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidSpec, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidSpec, err, "parse config %s", path)
	}
	return cfg, nil
}
