package domain

// Cache backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendNone  = "none"
)

// Settings is the project configuration for a run.
type Settings struct {
	// Lockfile is hashed to derive cache keys.
	Lockfile string

	Install      string
	Verify       string
	Build        string
	PercyInstall string

	// StartScript is the npm script that serves the built project.
	StartScript string
	// Port is the port or URL start-server-and-test waits on.
	Port string

	NpmCachePath     string
	CypressCachePath string

	Cache CacheSettings
}

// CacheSettings selects and configures the cache backend.
type CacheSettings struct {
	Backend string
	// Dir is the snapshot directory of the local backend.
	Dir string
	S3  S3Settings
}

// S3Settings configures the S3 backend.
type S3Settings struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
	// PathStyle forces path-style addressing, needed by most S3-compatible servers.
	PathStyle bool
}

// DefaultSettings returns the settings for a standard npm + Cypress project.
func DefaultSettings() Settings {
	return Settings{
		Lockfile:         DefaultLockfile,
		Install:          "npm ci",
		Verify:           "npx cypress verify",
		Build:            "npm run build",
		PercyInstall:     "npm install --save-dev @percy/cypress",
		StartScript:      "start",
		Port:             "3000",
		NpmCachePath:     "~/.npm",
		CypressCachePath: "~/.cache/Cypress",
		Cache: CacheSettings{
			Backend: BackendLocal,
			Dir:     DefaultCacheDir(),
		},
	}
}
