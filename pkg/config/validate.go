package config

import (
	"regexp"
	"slices"

	"github.com/fiktools/calctree/pkg/errors"
)

// Formats lists the output formats the render stage supports.
var Formats = []string{"json", "graph", "dot", "svg", "png"}

var backends = []string{BackendFile, BackendMemory, BackendRedis, BackendNone}

// Validate reports the first invalid setting as an INVALID_CONFIG error.
func (c Config) Validate() error {
	if err := errors.ValidatePath(c.ScriptsDir); err != nil {
		return invalid(err, "calculation_scripts_directory")
	}
	if err := errors.ValidatePath(c.ReferenceDir); err != nil {
		return invalid(err, "base_reference_directory")
	}
	if err := errors.ValidateFilename(c.ArtifactName); err != nil {
		return invalid(err, "artifact_name")
	}
	if _, err := regexp.Compile(c.ScriptsFiles); err != nil {
		return invalid(err, "calculation_scripts_files")
	}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q must be one of %v", c.Cache.Backend, backends)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	for _, f := range c.Render.Formats {
		if !slices.Contains(Formats, f) {
			return errors.New(errors.ErrCodeInvalidConfig, "render.formats: unsupported format %q (supported: %v)", f, Formats)
		}
	}
	return nil
}

func invalid(err error, field string) error {
	return errors.New(errors.ErrCodeInvalidConfig, "%s: %s", field, errors.UserMessage(err))
}
