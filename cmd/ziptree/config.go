package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/meigma/ziptree"
)

const envPrefix = "ZIPTREE"

// Configuration keys.
const (
	keyVerbose      = "verbose"
	keyLevel        = "pack.level"
	keyExclude      = "pack.exclude"
	keyRejectUnsafe = "unpack.reject_unsafe"
)

// loadConfig layers defaults, an optional config file and the environment
// into v. Flags are bound by the subcommands and take precedence.
func loadConfig(v *viper.Viper, cfgFile string) error {
	v.SetDefault(keyVerbose, false)
	v.SetDefault(keyLevel, ziptree.DefaultLevel)
	v.SetDefault(keyExclude, []string{})
	v.SetDefault(keyRejectUnsafe, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Short forms for the common settings.
	_ = v.BindEnv(keyLevel, envPrefix+"_PACK_LEVEL", envPrefix+"_LEVEL")
	_ = v.BindEnv(keyExclude, envPrefix+"_PACK_EXCLUDE", envPrefix+"_EXCLUDE")
	_ = v.BindEnv(keyRejectUnsafe, envPrefix+"_UNPACK_REJECT_UNSAFE", envPrefix+"_REJECT_UNSAFE")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return nil
	}

	v.SetConfigName("ziptree")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "ziptree"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// fileConfig mirrors the layered configuration tree.
type fileConfig struct {
	Pack ziptree.ArchiveOptions `mapstructure:"pack"`
}

// archiveOptions decodes the pack section into ziptree.ArchiveOptions.
// The whole tree is decoded so every layer is merged per key.
func archiveOptions(v *viper.Viper) (ziptree.ArchiveOptions, error) {
	var cfg fileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ziptree.ArchiveOptions{}, fmt.Errorf("decode pack options: %w", err)
	}
	if err := cfg.Pack.Validate(); err != nil {
		return ziptree.ArchiveOptions{}, err
	}
	return cfg.Pack, nil
}
