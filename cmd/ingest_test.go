package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIngestCmd_Flags(t *testing.T) {
	cmd := getIngestCmd()
	assert.Equal(t, "ingest OBJECT", cmd.Use)

	tests := []struct {
		name, short, def string
	}{
		{"mode", "m", ""},
		{"recursive", "r", "false"},
		{"allow-hidden", "", "false"},
		{"tag", "t", "[]"},
		{"offline", "", "false"},
		{"nocompress", "n", "false"},
		{"allow-duplicates", "", "false"},
		{"xmp", "", ""},
		{"mirror", "", "false"},
		{"out", "o", ""},
		{"profile", "", ""},
	}
	for _, tt := range tests {
		fl := cmd.Flags().Lookup(tt.name)
		require.NotNil(t, fl, tt.name)
		assert.Equal(t, tt.short, fl.Shorthand, tt.name)
		assert.Equal(t, tt.def, fl.DefValue, tt.name)
	}
}

func TestIngestFlags_Validate(t *testing.T) {
	tests := []struct {
		name  string
		flags ingestFlags
		ok    bool
	}{
		{"photo", ingestFlags{mode: "photo"}, true},
		{"photos", ingestFlags{mode: "photos"}, true},
		{"photo with xmp", ingestFlags{mode: "photo", xmp: "a.xmp"}, true},
		{"photos with xmp", ingestFlags{mode: "photos", xmp: "a.xmp"}, false},
		{"unknown mode", ingestFlags{mode: "video"}, false},
		{"no mode", ingestFlags{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.flags.validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errcode.Is(err, errcode.ConfigModeError))
		})
	}
}

func TestIngestFlags_Options(t *testing.T) {
	cmd := getIngestCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"-m", "photo", "-t", "Street", "-t", "night", "--offline",
		"--nocompress", "--allow-duplicates", "--xmp", "a.xmp",
		"--out", "/tmp/out", "--mirror", "-r",
	}))

	f := ingestFlags{
		mode: "photo", tags: []string{"Street", "night"}, offline: true,
		noCompress: true, allowDuplicates: true, xmp: "a.xmp",
		out: "/tmp/out", mirror: true, recursive: true,
	}
	c := config.New()
	c.Update(f.options(cmd))

	assert.Equal(t, []string{"Street", "night"}, c.Ingest.Tags)
	assert.True(t, c.Ingest.Offline)
	assert.True(t, c.Ingest.NoCompress)
	assert.True(t, c.Ingest.AllowDuplicates)
	assert.True(t, c.Ingest.Mirror)
	assert.True(t, c.Ingest.Recursive)
	assert.False(t, c.Ingest.AllowHidden)
	assert.Equal(t, "a.xmp", c.Ingest.XMPFile)
	assert.Equal(t, "/tmp/out", c.Ingest.OutputDir)
	assert.Empty(t, c.Ingest.Profile)
	assert.Nil(t, c.RequiredSections(), "offline run needs no sections")
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "a.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("x"), 0644))
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, "b.png"), []byte("x"), 0644))

	res, err := collect(photo, modePhoto, config.IngestConfig{})
	require.NoError(t, err)
	assert.Equal(t, []string{photo}, res)

	res, err = collect(dir, modePhotos, config.IngestConfig{})
	require.NoError(t, err)
	assert.Len(t, res, 2)

	_, err = collect(dir, modePhoto, config.IngestConfig{})
	assert.True(t, errcode.Is(err, errcode.ConfigModeError))

	_, err = collect(photo, modePhotos, config.IngestConfig{})
	assert.True(t, errcode.Is(err, errcode.ConfigModeError))

	_, err = collect(filepath.Join(dir, "none"), modePhotos,
		config.IngestConfig{})
	assert.True(t, errcode.Is(err, errcode.CollectFilesError))
}

func TestRunIngest_MissingSections(t *testing.T) {
	origCfg, origSections := cfg, sections
	t.Cleanup(func() { cfg, sections = origCfg, origSections })

	cfg = config.New()
	sections = map[string]bool{"database": true, "handle": true}

	cmd := getIngestCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-m", "photo"}))

	err := runIngest(cmd, "a.jpg", ingestFlags{mode: "photo"})
	assert.True(t, errcode.Is(err, errcode.ConfigurationInvalidError))
}
