package config

// Cirunfile represents the structure of the cirun.yaml configuration file.
// Every field is optional; empty values keep the defaults.
type Cirunfile struct {
	Lockfile string      `yaml:"lockfile"`
	Commands CommandsDTO `yaml:"commands"`
	Server   ServerDTO   `yaml:"server"`
	Paths    PathsDTO    `yaml:"paths"`
	Cache    CacheDTO    `yaml:"cache"`
}

// CommandsDTO holds the shell command lines of the pipeline steps.
type CommandsDTO struct {
	Install      string `yaml:"install"`
	Verify       string `yaml:"verify"`
	Build        string `yaml:"build"`
	PercyInstall string `yaml:"percyInstall"`
}

// ServerDTO configures how the built project is served for the tests.
type ServerDTO struct {
	Start string `yaml:"start"`
	Port  string `yaml:"port"`
}

// PathsDTO locates the cached directories.
type PathsDTO struct {
	Npm     string `yaml:"npm"`
	Cypress string `yaml:"cypress"`
}

// CacheDTO selects the snapshot backend.
type CacheDTO struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	S3      S3DTO  `yaml:"s3"`
}

// S3DTO configures the S3 backend.
type S3DTO struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"pathStyle"`
}
