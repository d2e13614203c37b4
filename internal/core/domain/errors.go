package domain

import "go.trai.ch/zerr"

var (
	// ErrPipelineFailed tags any failure of the run sequence.
	ErrPipelineFailed = zerr.New("pipeline failed")

	// ErrStepFailed is returned when a pipeline step fails.
	ErrStepFailed = zerr.New("step failed")

	// ErrEmptyCommand is returned when a configured command line has no words.
	ErrEmptyCommand = zerr.New("empty command")

	// ErrInvalidCommand is returned when a command line cannot be split into words.
	ErrInvalidCommand = zerr.New("invalid command line")

	// ErrCommandFailed is returned when a command exits with a non-zero status.
	ErrCommandFailed = zerr.New("command failed")

	// ErrLockfileHashFailed is returned when the lockfile cannot be hashed.
	ErrLockfileHashFailed = zerr.New("failed to hash lockfile")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidPort is returned when the server port is neither a number nor a URL.
	ErrInvalidPort = zerr.New("invalid server port, expected a port number or URL")

	// ErrUnknownBackend is returned when the configured cache backend does not exist.
	ErrUnknownBackend = zerr.New("unknown cache backend, expected 'local', 's3' or 'none'")

	// ErrMissingBucket is returned when the S3 backend has no bucket configured.
	ErrMissingBucket = zerr.New("s3 cache backend requires a bucket")

	// ErrHomeDirUnavailable is returned when "~" cannot be expanded.
	ErrHomeDirUnavailable = zerr.New("failed to determine home directory")

	// ErrCacheRestoreFailed is returned when a snapshot cannot be restored.
	ErrCacheRestoreFailed = zerr.New("failed to restore cache")

	// ErrCacheSaveFailed is returned when a snapshot cannot be saved.
	ErrCacheSaveFailed = zerr.New("failed to save cache")

	// ErrCachePathNotFound is returned when the directory to save does not exist.
	ErrCachePathNotFound = zerr.New("cache path does not exist")

	// ErrChecksumMismatch is returned when a snapshot does not match its recorded checksum.
	ErrChecksumMismatch = zerr.New("snapshot checksum mismatch")

	// ErrMetadataReadFailed is returned when snapshot metadata cannot be read.
	ErrMetadataReadFailed = zerr.New("failed to read snapshot metadata")

	// ErrMetadataWriteFailed is returned when snapshot metadata cannot be written.
	ErrMetadataWriteFailed = zerr.New("failed to write snapshot metadata")

	// ErrArchiveFailed is returned when a directory cannot be archived.
	ErrArchiveFailed = zerr.New("failed to archive directory")

	// ErrExtractFailed is returned when a snapshot cannot be extracted.
	ErrExtractFailed = zerr.New("failed to extract snapshot")

	// ErrIllegalPath is returned when an archive entry escapes the destination directory.
	ErrIllegalPath = zerr.New("illegal path in archive")

	// ErrExportFailed is returned when a variable cannot be exported to later steps.
	ErrExportFailed = zerr.New("failed to export variable")

	// ErrCleanFailed is returned when the local cache cannot be removed.
	ErrCleanFailed = zerr.New("failed to remove cache directory")
)
