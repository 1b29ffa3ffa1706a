// Package config resolves compiler defaults: built-in values, then an
// optional minilang.toml in the working directory, then MINILANG_*
// environment variables. Command-line flags override all of these.
package config

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/xyproto/env/v2"
)

const DefaultFile = "minilang.toml"

type Config struct {
	Registers   int  `toml:"registers"`
	Optimize    bool `toml:"optimize"`
	SafetyCheck bool `toml:"safety_check"`
}

func Default() Config {
	return Config{
		Registers:   8,
		Optimize:    true,
		SafetyCheck: true,
	}
}

// Load reads the config file when it exists and applies environment
// overrides. A missing file is not an error; an unreadable or
// malformed one is.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, &c); err != nil {
			return c, errors.Wrapf(err, "parsing %s", path)
		}
	} else if !os.IsNotExist(err) {
		return c, errors.Wrapf(err, "reading %s", path)
	}

	c.Registers = env.Int("MINILANG_REGISTERS", c.Registers)
	if env.Has("MINILANG_OPTIMIZE") {
		c.Optimize = env.Bool("MINILANG_OPTIMIZE")
	}
	if env.Has("MINILANG_SAFETY_CHECK") {
		c.SafetyCheck = env.Bool("MINILANG_SAFETY_CHECK")
	}
	return c, nil
}
