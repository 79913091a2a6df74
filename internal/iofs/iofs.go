package iofs

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/media"
)

//go:embed config.yaml
var ConfigYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// CollectFiles returns sorted paths of supported media files under root.
// A root that is a file is returned as is if its kind is known.
// Hidden files and directories are skipped unless allowHidden is set.
func CollectFiles(root string, recursive, allowHidden bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, CollectFilesError(root, err)
	}
	if !info.IsDir() {
		if _, ok := media.KindFor(root); !ok {
			return nil, CollectFilesError(root,
				errors.New("unsupported file extension"))
		}
		return []string{root}, nil
	}

	var res []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		hidden := strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if !recursive || (hidden && !allowHidden) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden && !allowHidden {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := media.KindFor(path); ok {
			res = append(res, path)
		}
		return nil
	})
	if err != nil {
		return nil, CollectFilesError(root, err)
	}

	slices.Sort(res)
	return res, nil
}
