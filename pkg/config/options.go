package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptHandleHost sets the base URL of the naming service.
func OptHandleHost(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidURL("Handle Host", s) {
			c.Handle.Host = s
		}
	}
}

// OptHandlePrefix sets the namespace token of identifiers.
func OptHandlePrefix(s string) Option {
	s = strings.Trim(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidString("Handle Prefix", s) {
			c.Handle.Prefix = s
		}
	}
}

// OptHandleAdmin sets the administrator of the naming service.
func OptHandleAdmin(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Handle Admin", s) {
			c.Handle.Admin = s
		}
	}
}

// OptHandlePassword sets the administrator password.
func OptHandlePassword(s string) Option {
	return func(c *Config) {
		if isValidString("Handle Password", s) {
			c.Handle.Password = s
		}
	}
}

// OptHandleEndpoint sets the public site that resolves identifiers.
func OptHandleEndpoint(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidURL("Handle Endpoint", s) {
			c.Handle.Endpoint = s
		}
	}
}

// OptHandleSkipTLSVerify disables certificate checks of the naming
// service.
func OptHandleSkipTLSVerify(b bool) Option {
	return func(c *Config) {
		c.Handle.SkipTLSVerify = b
	}
}

// OptStorage sets the bucket of primary assets. Empty fields of s keep
// their current values.
func OptStorage(s StorageConfig) Option {
	return func(c *Config) {
		mergeStorage("Storage", &c.Storage, s)
	}
}

// OptCDN sets the bucket of renditions. Empty fields of s keep their
// current values.
func OptCDN(s CDNConfig) Option {
	return func(c *Config) {
		c.CDN.SeparateKey = s.SeparateKey
		mergeStorage("CDN", &c.CDN.StorageConfig, s.StorageConfig)
		url := strings.TrimRight(strings.TrimSpace(s.PublicURL), "/")
		if url != "" && isValidURL("CDN PublicURL", url) {
			c.CDN.PublicURL = url
		}
	}
}

// OptDatasetProjectID sets the project of the external dataset.
func OptDatasetProjectID(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Dataset ProjectID", s) {
			c.Dataset.ProjectID = s
		}
	}
}

// OptDatasetDataset sets the dataset name.
func OptDatasetDataset(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Dataset Name", s) {
			c.Dataset.Dataset = s
		}
	}
}

// OptDatasetToken sets the write token of the dataset API.
func OptDatasetToken(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Dataset Token", s) {
			c.Dataset.Token = s
		}
	}
}

// OptDatasetAPIVersion sets the dataset API version, e.g. "v2021-06-07".
func OptDatasetAPIVersion(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Dataset APIVersion", s) {
			if !strings.HasPrefix(s, "v") {
				s = "v" + s
			}
			c.Dataset.APIVersion = s
		}
	}
}

// OptSequenceLockRedisURL enables the sequence lock backed by Redis.
func OptSequenceLockRedisURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("SequenceLock RedisURL", s) {
			c.SequenceLock.RedisURL = s
		}
	}
}

// OptSequenceLockTTL sets the lock expiration in seconds.
func OptSequenceLockTTL(i int) Option {
	return func(c *Config) {
		if isValidInt("SequenceLock TTL", i) {
			c.SequenceLock.TTLSeconds = i
		}
	}
}

// OptDerivativesFormat sets the output format of renditions.
// Valid values: "jpg", "jpeg", "png".
func OptDerivativesFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Derivatives.Format", s) {
			if s == "jpeg" {
				s = "jpg"
			}
			c.Derivatives.Format = s
		}
	}
}

// OptDerivativesQuality sets the lossy encoding quality (1-100).
func OptDerivativesQuality(i int) Option {
	return func(c *Config) {
		if isValidInt("Derivatives Quality", i) && isValidRange(
			"Derivatives Quality", i, 1, 100,
		) {
			c.Derivatives.Quality = i
		}
	}
}

// OptIngestTags sets tags attached to every ingested item.
func OptIngestTags(tags []string) Option {
	return func(c *Config) {
		var res []string
		for _, v := range tags {
			v = strings.TrimSpace(v)
			if v != "" {
				res = append(res, v)
			}
		}
		c.Ingest.Tags = res
	}
}

// OptIngestOffline disables all persistence.
func OptIngestOffline(b bool) Option {
	return func(c *Config) {
		c.Ingest.Offline = b
	}
}

// OptIngestNoCompress disables rendition generation.
func OptIngestNoCompress(b bool) Option {
	return func(c *Config) {
		c.Ingest.NoCompress = b
	}
}

// OptIngestAllowDuplicates disables skipping of probable duplicates.
func OptIngestAllowDuplicates(b bool) Option {
	return func(c *Config) {
		c.Ingest.AllowDuplicates = b
	}
}

// OptIngestRecursive enables recursive directory traversal.
func OptIngestRecursive(b bool) Option {
	return func(c *Config) {
		c.Ingest.Recursive = b
	}
}

// OptIngestAllowHidden includes hidden files.
func OptIngestAllowHidden(b bool) Option {
	return func(c *Config) {
		c.Ingest.AllowHidden = b
	}
}

// OptIngestXMPFile sets a sidecar XMP file that replaces embedded XMP.
func OptIngestXMPFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Ingest XMPFile", s) {
			c.Ingest.XMPFile = s
		}
	}
}

// OptIngestMirror enables mirroring to the external dataset.
func OptIngestMirror(b bool) Option {
	return func(c *Config) {
		c.Ingest.Mirror = b
	}
}

// OptIngestOutputDir sets the directory for offline renditions.
func OptIngestOutputDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Ingest OutputDir", s) {
			c.Ingest.OutputDir = s
		}
	}
}

// OptIngestProfile sets a YAML file with rendition specs.
func OptIngestProfile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Ingest Profile", s) {
			c.Ingest.Profile = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stdout", "stderr".
func OptLogDestination(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent encoding workers.
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory used to build config, cache and log
// paths.
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

func mergeStorage(name string, dst *StorageConfig, src StorageConfig) {
	if s := strings.TrimSpace(src.Endpoint); s != "" &&
		isValidURL(name+" Endpoint", s) {
		dst.Endpoint = strings.TrimRight(s, "/")
	}
	if s := strings.TrimSpace(src.Region); s != "" {
		dst.Region = s
	}
	if s := strings.TrimSpace(src.AccessKeyID); s != "" {
		dst.AccessKeyID = s
	}
	if s := strings.TrimSpace(src.SecretAccessKey); s != "" {
		dst.SecretAccessKey = s
	}
	if s := strings.TrimSpace(src.Bucket); s != "" {
		dst.Bucket = s
	}
}
