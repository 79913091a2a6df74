package config

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Ingest).
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}

	s = c.Handle.Host
	if s != "" {
		res = append(res, OptHandleHost(s))
	}
	s = c.Handle.Prefix
	if s != "" {
		res = append(res, OptHandlePrefix(s))
	}
	s = c.Handle.Admin
	if s != "" {
		res = append(res, OptHandleAdmin(s))
	}
	s = c.Handle.Password
	if s != "" {
		res = append(res, OptHandlePassword(s))
	}
	s = c.Handle.Endpoint
	if s != "" {
		res = append(res, OptHandleEndpoint(s))
	}
	if c.Handle.SkipTLSVerify {
		res = append(res, OptHandleSkipTLSVerify(true))
	}

	res = append(res, OptStorage(c.Storage), OptCDN(c.CDN))

	s = c.Dataset.ProjectID
	if s != "" {
		res = append(res, OptDatasetProjectID(s))
	}
	s = c.Dataset.Dataset
	if s != "" {
		res = append(res, OptDatasetDataset(s))
	}
	s = c.Dataset.Token
	if s != "" {
		res = append(res, OptDatasetToken(s))
	}
	s = c.Dataset.APIVersion
	if s != "" {
		res = append(res, OptDatasetAPIVersion(s))
	}

	s = c.SequenceLock.RedisURL
	if s != "" {
		res = append(res, OptSequenceLockRedisURL(s))
	}
	i = c.SequenceLock.TTLSeconds
	if i > 0 {
		res = append(res, OptSequenceLockTTL(i))
	}

	s = c.Derivatives.Format
	if s != "" {
		res = append(res, OptDerivativesFormat(s))
	}
	i = c.Derivatives.Quality
	if i > 0 {
		res = append(res, OptDerivativesQuality(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidRange(name string, i, min, max int) bool {
	res := i >= min && i <= max
	if !res {
		gn.Warn("<em>%s</em> has to be between %d and %d, ignoring %d",
			name, min, max, i)
	}
	return res
}

func isValidURL(name, s string) bool {
	u, err := url.Parse(s)
	res := err == nil && (u.Scheme == "http" || u.Scheme == "https") &&
		u.Host != ""
	if !res {
		gn.Warn("<em>%s</em> is not a valid http(s) URL, ignoring '%s'",
			name, s)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Derivatives.Format": {"jpg": s, "jpeg": s, "png": s},
		"Log.Level":          {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":         {"json": s, "text": s, "tint": s},
		"Log.Destination":    {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
