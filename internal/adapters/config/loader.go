// Package config provides the configuration loader for cirun.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/cirun/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using an optional cirun.yaml file.
type Loader struct {
	logger  ports.Logger
	getenv  func(string) string
	homeDir func() (string, error)
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		logger:  logger,
		getenv:  os.Getenv,
		homeDir: os.UserHomeDir,
	}
}

// Load reads cirun.yaml from cwd and applies it over the default settings.
func (l *Loader) Load(cwd string) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	path := filepath.Join(cwd, domain.ConfigFileName)
	file, found, err := Read(path)
	if err != nil {
		return domain.Settings{}, err
	}
	if found {
		l.logger.Info("using configuration from " + path)
		apply(&settings, file)
	}

	if dir := l.getenv(domain.CypressCacheEnv); dir != "" {
		settings.CypressCachePath = dir
	}

	if err := l.resolvePaths(&settings, cwd); err != nil {
		return domain.Settings{}, err
	}
	if err := validate(settings); err != nil {
		return domain.Settings{}, zerr.With(err, "file", path)
	}

	return settings, nil
}

// Read parses the configuration file at path. A missing file is reported as not found.
func Read(path string) (Cirunfile, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the working directory
	if errors.Is(err, fs.ErrNotExist) {
		return Cirunfile{}, false, nil
	}
	if err != nil {
		return Cirunfile{}, false, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "file", path)
	}

	var file Cirunfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return Cirunfile{}, false, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "file", path)
	}

	return file, true, nil
}

// apply overlays the non-empty fields of file onto settings.
func apply(settings *domain.Settings, file Cirunfile) {
	set := func(dst *string, value string) {
		if value = strings.TrimSpace(value); value != "" {
			*dst = value
		}
	}

	set(&settings.Lockfile, file.Lockfile)

	set(&settings.Install, file.Commands.Install)
	set(&settings.Verify, file.Commands.Verify)
	set(&settings.Build, file.Commands.Build)
	set(&settings.PercyInstall, file.Commands.PercyInstall)

	set(&settings.StartScript, file.Server.Start)
	set(&settings.Port, file.Server.Port)

	set(&settings.NpmCachePath, file.Paths.Npm)
	set(&settings.CypressCachePath, file.Paths.Cypress)

	set(&settings.Cache.Backend, file.Cache.Backend)
	set(&settings.Cache.Dir, file.Cache.Dir)
	set(&settings.Cache.S3.Bucket, file.Cache.S3.Bucket)
	set(&settings.Cache.S3.Prefix, file.Cache.S3.Prefix)
	set(&settings.Cache.S3.Region, file.Cache.S3.Region)
	set(&settings.Cache.S3.Endpoint, file.Cache.S3.Endpoint)
	if file.Cache.S3.PathStyle {
		settings.Cache.S3.PathStyle = true
	}
}

// resolvePaths expands "~" and anchors the lockfile at cwd.
func (l *Loader) resolvePaths(settings *domain.Settings, cwd string) error {
	if !filepath.IsAbs(settings.Lockfile) {
		settings.Lockfile = filepath.Join(cwd, settings.Lockfile)
	}

	for _, p := range []*string{&settings.NpmCachePath, &settings.CypressCachePath, &settings.Cache.Dir} {
		expanded, err := l.expandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

func (l *Loader) expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := l.homeDir()
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrHomeDirUnavailable.Error()), "path", path)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func validate(settings domain.Settings) error {
	if !validPort(settings.Port) {
		return zerr.With(domain.ErrInvalidPort, "port", settings.Port)
	}

	switch settings.Cache.Backend {
	case domain.BackendLocal, domain.BackendNone:
	case domain.BackendS3:
		if settings.Cache.S3.Bucket == "" {
			return domain.ErrMissingBucket
		}
	default:
		return zerr.With(domain.ErrUnknownBackend, "backend", settings.Cache.Backend)
	}
	return nil
}

// validPort accepts a TCP port number or a URL, as start-server-and-test does.
func validPort(port string) bool {
	if n, err := strconv.Atoi(port); err == nil {
		return n > 0 && n <= 65535
	}
	u, err := url.Parse(port)
	return err == nil && u.Scheme != "" && u.Host != ""
}
