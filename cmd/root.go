/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/internal/iofs"
	"github.com/phingest/phingest/internal/iologger"
	app "github.com/phingest/phingest/pkg"
	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "PHINGEST"

var (
	homeDir   string
	opts      []config.Option
	cfg       *config.Config
	sections  map[string]bool
	logCloser io.Closer
)

// knownSections are the top-level sections of config.yaml.
var knownSections = []string{
	"database", "handle", "storage", "cdn", "dataset",
	"sequence_lock", "derivatives", "log",
}

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "phingest",
		Short:   "Phingest ingests photos into a persistent archive",
		Long: `Phingest ingests photographs into a persistent archive.

For every photo it:
  - extracts EXIF and XMP metadata
  - assigns a persistent identifier and registers it with the
    naming service
  - uploads the original to the main bucket
  - writes the item and its tags to the PostgreSQL catalog
  - generates renditions and uploads them to the CDN bucket
  - optionally mirrors the item to an external content dataset

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (PHINGEST_*)
  3. Config file (~/.config/phingest/config.yaml)
  4. Built-in defaults

Environment variables use underscores for nesting,
for example database.host is PHINGEST_DATABASE_HOST.`,
		PersistentPreRunE: bootstrap,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logCloser != nil {
				_ = logCloser.Close()
			}
		},
		RunE:          runRoot,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for phingest")
	rootCmd.PersistentFlags().Bool("debug", false, "force debug log level")

	rootCmd.AddCommand(
		getIngestCmd(),
		getCreateCmd(),
		getMirrorCmd(),
		getJournalCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Hardcoded defaults until the user's settings are known.
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if logCloser, err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, sections, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Update([]config.Option{config.OptLogLevel("debug")})
	}

	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"sections", presentList(sections),
	)
	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	_ = logCloser.Close()
	var err error
	logCloser, err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log)
	return err
}

func runRoot(cmd *cobra.Command, _ []string) error {
	gn.Info("Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir))
	return cmd.Help()
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig reads config.yaml with environment overrides. It also
// reports which top-level sections are provided by the file or by the
// environment.
func initConfig(home string) (*config.Config, map[string]bool, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, presentSections(v, os.Environ()), nil
}

func initEnvVars(v *viper.Viper) {
	// Only persistent settings (config.ToOptions) are bound.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	keys := []string{
		"database.host", "database.port", "database.user",
		"database.password", "database.database", "database.ssl_mode",

		"handle.host", "handle.prefix", "handle.admin", "handle.password",
		"handle.endpoint", "handle.skip_tls_verify",

		"storage.endpoint", "storage.region", "storage.access_key_id",
		"storage.secret_access_key", "storage.bucket",

		"cdn.separate_key", "cdn.endpoint", "cdn.region",
		"cdn.access_key_id", "cdn.secret_access_key", "cdn.bucket",
		"cdn.public_url",

		"dataset.project_id", "dataset.dataset", "dataset.token",
		"dataset.api_version",

		"sequence_lock.redis_url", "sequence_lock.ttl_seconds",

		"derivatives.format", "derivatives.quality",

		"log.level", "log.format", "log.destination",

		"jobs_number",
	}
	for _, k := range keys {
		_ = v.BindEnv(k, envName(k))
	}

	v.AutomaticEnv()
}

// envName converts a config key to its environment variable,
// "database.host" becomes "PHINGEST_DATABASE_HOST".
func envName(key string) string {
	key = strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	return envPrefix + "_" + key
}

// presentSections returns top-level sections found in the config file
// or set through at least one environment variable.
func presentSections(v *viper.Viper, environ []string) map[string]bool {
	res := make(map[string]bool)
	for _, s := range knownSections {
		if v.InConfig(s) {
			res[s] = true
			continue
		}
		prefix := envName(s) + "_"
		for _, e := range environ {
			if strings.HasPrefix(e, prefix) {
				res[s] = true
				break
			}
		}
	}
	return res
}

func presentList(present map[string]bool) []string {
	var res []string
	for _, s := range knownSections {
		if present[s] {
			res = append(res, s)
		}
	}
	return res
}

// checkSections returns ConfigurationInvalid if any of required sections
// is absent.
func checkSections(required []string, present map[string]bool) error {
	var missing []string
	for _, s := range required {
		if !present[s] {
			missing = append(missing, s)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	list := strings.Join(missing, ", ")
	return &gn.Error{
		Code: errcode.ConfigurationInvalidError,
		Msg: `<err>Missing configuration sections: %s</err>
   Add them to <em>%s</em> or set PHINGEST_* environment variables.`,
		Vars: []any{list, config.ConfigFilePath(homeDir)},
		Err:  fmt.Errorf("missing config sections: %s", list),
	}
}
