// Package config loads the window and asset settings.
package config

import (
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// Name is the base name of the optional settings file.
	Name      = "terrascape"
	envPrefix = "TERRASCAPE"
)

// Config holds the settings the window and game are created with.
type Config struct {
	Title  string `mapstructure:"title"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	// Samples is the multisample count of the framebuffer.
	Samples        int     `mapstructure:"samples"`
	UpdateRate     float64 `mapstructure:"update_rate"`
	FrameRate      float64 `mapstructure:"frame_rate"`
	MultiThreaded  bool    `mapstructure:"multi_threaded"`
	VSync          bool    `mapstructure:"vsync"`
	Assets         string  `mapstructure:"assets"`
	AnimateLoading bool    `mapstructure:"animate_loading"`
	AtlasDumpDir   string  `mapstructure:"atlas_dump_dir"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Title:          "Terrascape",
		Width:          1280,
		Height:         720,
		Samples:        8,
		VSync:          true,
		Assets:         "assets",
		AnimateLoading: true,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("title", d.Title)
	v.SetDefault("width", d.Width)
	v.SetDefault("height", d.Height)
	v.SetDefault("samples", d.Samples)
	v.SetDefault("update_rate", d.UpdateRate)
	v.SetDefault("frame_rate", d.FrameRate)
	v.SetDefault("multi_threaded", d.MultiThreaded)
	v.SetDefault("vsync", d.VSync)
	v.SetDefault("assets", d.Assets)
	v.SetDefault("animate_loading", d.AnimateLoading)
	v.SetDefault("atlas_dump_dir", d.AtlasDumpDir)
}

// Load reads the settings file at path, or when path is empty looks for
// terrascape.{yaml,json,toml} in the working directory and ~/.terrascape.
// A missing file is not an error. TERRASCAPE_* environment variables take
// precedence over the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "failed to resolve config path %q", path)
		}
		v.SetConfigFile(expanded)
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home + "/." + Name)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "failed to read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}
	return c.resolve()
}

func (c Config) resolve() (Config, error) {
	var err error
	if c.Assets, err = homedir.Expand(c.Assets); err != nil {
		return Config{}, errors.Wrapf(err, "failed to resolve asset path %q", c.Assets)
	}
	if c.AtlasDumpDir != "" {
		if c.AtlasDumpDir, err = homedir.Expand(c.AtlasDumpDir); err != nil {
			return Config{}, errors.Wrapf(err, "failed to resolve atlas dump path %q", c.AtlasDumpDir)
		}
	}
	if c.Width <= 0 || c.Height <= 0 {
		return Config{}, errors.Errorf("window size %dx%d must be positive", c.Width, c.Height)
	}
	return c, nil
}
