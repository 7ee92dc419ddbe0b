// Package config loads calctree settings.
//
// Settings are layered, later sources winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, calctree.toml by default
//  3. A .env file, loaded into the process environment
//  4. CALCTREE_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// Example calctree.toml:
//
//	calculation_scripts_directory = "scripts"
//	calculation_scripts_files = "calc_"
//	base_reference_directory = "reference"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[render]
//	formats = ["json", "svg"]
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	pkgio "github.com/fiktools/calctree/pkg/io"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "calctree.toml"

// DefaultEnvFile is the dotenv file looked up in the working directory.
const DefaultEnvFile = ".env"

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config holds every setting.
type Config struct {
	ScriptsDir   string `toml:"calculation_scripts_directory" env:"CALCTREE_SCRIPTS_DIR"`
	ScriptsFiles string `toml:"calculation_scripts_files"     env:"CALCTREE_SCRIPTS_FILES"`
	Recursive    bool   `toml:"recursive"                     env:"CALCTREE_RECURSIVE"`
	ReferenceDir string `toml:"base_reference_directory"      env:"CALCTREE_REFERENCE_DIR"`
	ArtifactName string `toml:"artifact_name"                 env:"CALCTREE_ARTIFACT_NAME"`
	WarningsDir  string `toml:"warnings_directory"            env:"CALCTREE_WARNINGS_DIR"`
	Seed         int    `toml:"seed"                          env:"CALCTREE_SEED"`

	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`

	// Source is the config file that was read, if any.
	Source string `toml:"-"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend"    env:"CALCTREE_CACHE_BACKEND"`
	Dir           string        `toml:"dir"        env:"CALCTREE_CACHE_DIR"`
	TTL           time.Duration `toml:"ttl"        env:"CALCTREE_CACHE_TTL"`
	Entries       int           `toml:"entries"    env:"CALCTREE_CACHE_ENTRIES"`
	RedisAddr     string        `toml:"redis_addr" env:"CALCTREE_REDIS_ADDR"`
	RedisPassword string        `toml:"-"          env:"CALCTREE_REDIS_PASSWORD"`
	RedisDB       int           `toml:"redis_db"   env:"CALCTREE_REDIS_DB"`
	Prefix        string        `toml:"prefix"     env:"CALCTREE_CACHE_PREFIX"`
}

// RenderConfig holds output options.
type RenderConfig struct {
	Formats  []string `toml:"formats"  env:"CALCTREE_FORMATS"  envSeparator:","`
	Detailed bool     `toml:"detailed" env:"CALCTREE_DETAILED"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ScriptsDir:   ".",
		ScriptsFiles: `.*\.py`,
		ReferenceDir: ".",
		ArtifactName: pkgio.DefaultArtifactName,
		Seed:         1,
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     7 * 24 * time.Hour,
			Prefix:  "calctree:",
		},
		Render: RenderConfig{
			Formats: []string{"json"},
		},
	}
}

// Load builds a Config from defaults, the TOML file at path, the dotenv
// file at envFile and the environment. An empty path or envFile looks for
// the default file in the working directory and skips it when absent; an
// explicit path must exist.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if err := cfg.readFile(path); err != nil {
		return cfg, err
	}
	if err := loadDotenv(envFile); err != nil {
		return cfg, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) readFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}

	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}
	c.Source = path
	return nil
}

func loadDotenv(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ParseEnv applies CALCTREE_* environment variables to target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ArtifactPath returns where the dependency tree artifact is written.
func (c Config) ArtifactPath() string {
	return filepath.Join(c.ReferenceDir, c.ArtifactName)
}
