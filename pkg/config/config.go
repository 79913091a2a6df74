// Package config provides configuration management for phingest.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode
//   - Handle: host, prefix, admin, password, endpoint, skip_tls_verify
//   - Storage: endpoint, region, access_key_id, secret_access_key, bucket
//   - CDN: separate_key, endpoint, region, access_key_id,
//     secret_access_key, bucket, public_url
//   - Dataset: project_id, dataset, token, api_version
//   - SequenceLock: redis_url, ttl_seconds
//   - Derivatives: format, quality
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Ingest: tags, offline, no_compress, allow_duplicates, recursive,
//     allow_hidden, xmp_file, mirror, output_dir, profile
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use PHINGEST_ prefix with underscores for nesting:
//
//	PHINGEST_DATABASE_HOST=localhost
//	PHINGEST_HANDLE_PREFIX=21.T11998
//	PHINGEST_STORAGE_BUCKET=photos
//	PHINGEST_LOG_LEVEL=info
package config

import (
	"runtime"
)

// Config represents the complete phingest configuration.
type Config struct {
	// Database contains PostgreSQL connection settings of the catalog.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Handle contains settings of the identifier naming service.
	Handle HandleConfig `mapstructure:"handle" yaml:"handle"`

	// Storage is the S3 bucket for primary assets.
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`

	// CDN is the S3 bucket for derivative renditions.
	CDN CDNConfig `mapstructure:"cdn" yaml:"cdn"`

	// Dataset is the optional external content dataset mirror.
	Dataset DatasetConfig `mapstructure:"dataset" yaml:"dataset"`

	// SequenceLock optionally serializes identifier sequence allocation
	// between concurrent ingest processes.
	SequenceLock SequenceLockConfig `mapstructure:"sequence_lock" yaml:"sequence_lock"`

	// Derivatives contains global settings of generated renditions.
	Derivatives DerivativesConfig `mapstructure:"derivatives" yaml:"derivatives"`

	// Ingest contains settings specific to the ingest command.
	Ingest IngestConfig `mapstructure:"ingest" yaml:"ingest"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers used to encode
	// renditions of one item.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// HandleConfig describes access to the naming service that binds
// identifiers to locations.
type HandleConfig struct {
	// Host is the base URL of the naming service REST API,
	// for example "https://hdl.example.org:8000".
	Host string `mapstructure:"host" yaml:"host"`

	// Prefix is the namespace token of all identifiers.
	Prefix string `mapstructure:"prefix" yaml:"prefix"`

	// Admin is the index and handle of the administrator,
	// for example "300:21.T11998/ADMIN".
	Admin string `mapstructure:"admin" yaml:"admin"`

	// Password of the administrator.
	Password string `mapstructure:"password" yaml:"password"`

	// Endpoint is the public site that resolves identifiers, default
	// locations are "{endpoint}/view/{suffix}".
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// SkipTLSVerify disables certificate verification for self-signed
	// naming service installations.
	SkipTLSVerify bool `mapstructure:"skip_tls_verify" yaml:"skip_tls_verify"`
}

// StorageConfig describes an S3-compatible bucket.
type StorageConfig struct {
	// Endpoint is a custom S3 endpoint. Empty means AWS.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// Region of the bucket.
	Region string `mapstructure:"region" yaml:"region"`

	// AccessKeyID of the credentials.
	AccessKeyID string `mapstructure:"access_key_id" yaml:"access_key_id"`

	// SecretAccessKey of the credentials.
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key"`

	// Bucket name.
	Bucket string `mapstructure:"bucket" yaml:"bucket"`
}

// CDNConfig describes the bucket that receives renditions.
type CDNConfig struct {
	// SeparateKey is true when the CDN bucket uses its own endpoint and
	// credentials. Otherwise Storage settings are reused and only
	// Bucket differs.
	SeparateKey bool `mapstructure:"separate_key" yaml:"separate_key"`

	StorageConfig `mapstructure:",squash" yaml:",inline"`

	// PublicURL is the base URL renditions are served from.
	PublicURL string `mapstructure:"public_url" yaml:"public_url"`
}

// DatasetConfig describes the external content dataset.
type DatasetConfig struct {
	ProjectID  string `mapstructure:"project_id"  yaml:"project_id"`
	Dataset    string `mapstructure:"dataset"     yaml:"dataset"`
	Token      string `mapstructure:"token"       yaml:"token"`
	APIVersion string `mapstructure:"api_version" yaml:"api_version"`
}

// SequenceLockConfig enables a per (prefix, date) lock around identifier
// assignment. Empty RedisURL disables locking.
type SequenceLockConfig struct {
	RedisURL   string `mapstructure:"redis_url"   yaml:"redis_url"`
	TTLSeconds int    `mapstructure:"ttl_seconds" yaml:"ttl_seconds"`
}

// DerivativesConfig contains the output format and quality that are used
// with the default rendition set.
type DerivativesConfig struct {
	// Format is "jpg" or "png".
	Format string `mapstructure:"format" yaml:"format"`

	// Quality of lossy encoding, 1-100.
	Quality int `mapstructure:"quality" yaml:"quality"`
}

// IngestConfig contains runtime settings of the ingest command.
type IngestConfig struct {
	// Tags are attached to every ingested item.
	Tags []string `mapstructure:"tags" yaml:"tags"`

	// Offline skips registration, uploads and catalog writes.
	// Renditions are still generated.
	Offline bool `mapstructure:"offline" yaml:"offline"`

	// NoCompress skips rendition generation.
	NoCompress bool `mapstructure:"no_compress" yaml:"no_compress"`

	// AllowDuplicates ingests probable duplicates instead of skipping them.
	AllowDuplicates bool `mapstructure:"allow_duplicates" yaml:"allow_duplicates"`

	// Recursive descends into subdirectories in directory mode.
	Recursive bool `mapstructure:"recursive" yaml:"recursive"`

	// AllowHidden includes dot-files and dot-directories.
	AllowHidden bool `mapstructure:"allow_hidden" yaml:"allow_hidden"`

	// XMPFile overrides embedded XMP with a sidecar file.
	// Only valid for a single item.
	XMPFile string `mapstructure:"xmp_file" yaml:"xmp_file"`

	// Mirror copies ingested items to the external dataset.
	Mirror bool `mapstructure:"mirror" yaml:"mirror"`

	// OutputDir receives renditions generated in offline mode.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Profile is a YAML file with rendition specs that replace defaults.
	Profile string `mapstructure:"profile" yaml:"profile"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "phingest",
			SSLMode:  "disable",
		},
		Handle: HandleConfig{
			Endpoint: "https://example.org",
		},
		Storage: StorageConfig{
			Region: "us-east-1",
		},
		CDN: CDNConfig{
			StorageConfig: StorageConfig{Region: "us-east-1"},
		},
		Dataset: DatasetConfig{
			APIVersion: "v2021-06-07",
		},
		SequenceLock: SequenceLockConfig{
			TTLSeconds: 300,
		},
		Derivatives: DerivativesConfig{
			Format:  "jpg",
			Quality: 85,
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}

// RequiredSections returns the top-level config.yaml sections that must
// be present for the current runtime settings. Offline runs do not touch
// remote services and need none of them.
func (c *Config) RequiredSections() []string {
	if c.Ingest.Offline {
		return nil
	}
	res := []string{"database", "handle", "storage"}
	if !c.Ingest.NoCompress {
		res = append(res, "cdn")
	}
	if c.Ingest.Mirror {
		res = append(res, "dataset")
	}
	return res
}
