package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRootCmd verifies the command tree.
func TestGetRootCmd(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "phingest", cmd.Use)
	assert.NotNil(t, cmd.PersistentPreRunE,
		"PersistentPreRunE should be set for bootstrap")
	assert.NotNil(t, cmd.RunE)
	assert.True(t, cmd.SilenceErrors)
	assert.True(t, cmd.SilenceUsage)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, n := range []string{"ingest", "create", "mirror", "journal"} {
		assert.Contains(t, names, n)
	}

	debug := cmd.PersistentFlags().Lookup("debug")
	require.NotNil(t, debug)
	assert.Equal(t, "false", debug.DefValue)
}

// TestGetRootCmd_Version verifies both version flags and the custom
// template.
func TestGetRootCmd_Version(t *testing.T) {
	for _, flag := range []string{"--version", "-V"} {
		t.Run(flag, func(t *testing.T) {
			cmd := getRootCmd()
			cmd.Version = "version: v1.2.3\nbuild:   abc123"

			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{flag})

			require.NoError(t, cmd.Execute())
			out := buf.String()
			assert.Contains(t, out, "v1.2.3")
			assert.Contains(t, out, "abc123")
			assert.NotContains(t, out, "phingest version")
		})
	}
}

func TestGetRootCmd_HelpText(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	help := buf.String()
	assert.Contains(t, help, "persistent identifier")
	assert.Contains(t, help, "PHINGEST_")
	assert.Contains(t, help, "--debug")
}

func TestGetRootCmd_InvalidCommand(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"nonexistent-command"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}

func TestGetRootCmd_IndependentInstances(t *testing.T) {
	cmd1 := getRootCmd()
	cmd2 := getRootCmd()
	assert.NotSame(t, cmd1, cmd2)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "PHINGEST_DATABASE_HOST", envName("database.host"))
	assert.Equal(t, "PHINGEST_SEQUENCE_LOCK_REDIS_URL",
		envName("sequence_lock.redis_url"))
	assert.Equal(t, "PHINGEST_JOBS_NUMBER", envName("jobs_number"))
}

// TestPresentSections verifies that sections come from the file or
// from environment variables, commented out sections are absent.
func TestPresentSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `database:
  host: db.example.org
handle:
  prefix: "21.T11998"
# dataset:
#   dataset: photos
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	env := []string{
		"HOME=/root",
		"PHINGEST_STORAGE_BUCKET=photos",
		"PHINGEST_CDNX=1",
	}
	res := presentSections(v, env)

	assert.Equal(t,
		[]string{"database", "handle", "storage", "log"},
		presentList(res),
	)
}

func TestInitConfig(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".config", "phingest")
	require.NoError(t, os.MkdirAll(dir, 0755))
	data := "database:\n  host: db.example.org\n  port: 6543\n" +
		"cdn:\n  bucket: renditions\n  public_url: https://cdn.example.org\n"
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(data), 0644))
	t.Setenv("PHINGEST_DATABASE_USER", "archivist")

	res, present, err := initConfig(home)
	require.NoError(t, err)
	assert.Equal(t, "db.example.org", res.Database.Host)
	assert.Equal(t, 6543, res.Database.Port)
	assert.Equal(t, "archivist", res.Database.User)
	assert.Equal(t, "renditions", res.CDN.Bucket)
	assert.Equal(t, "https://cdn.example.org", res.CDN.PublicURL)
	assert.True(t, present["database"])
	assert.True(t, present["cdn"])
	assert.False(t, present["handle"])

	_, _, err = initConfig(t.TempDir())
	assert.True(t, errcode.Is(err, errcode.ReadFileError))
}

func TestCheckSections(t *testing.T) {
	present := map[string]bool{"database": true, "handle": true}

	assert.NoError(t, checkSections(nil, present))
	assert.NoError(t, checkSections([]string{"database", "handle"}, present))

	err := checkSections([]string{"database", "storage", "cdn"}, present)
	require.Error(t, err)
	assert.True(t, errcode.Is(err, errcode.ConfigurationInvalidError))
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Contains(t, gnErr.Err.Error(), "storage, cdn")
}
