package main

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/dscope"
	"github.com/reusee/tinydisplay/animate"
	"github.com/reusee/tinydisplay/configs"
	"github.com/reusee/tinydisplay/evaluate"
	"github.com/reusee/tinydisplay/logs"
)

type Module struct {
	dscope.Module
	Evaluate evaluate.Module
	Animate  animate.Module
}

//go:embed schema.cue
var schema string

var configFileNames = []string{
	"tinydisplay.cue",
	".tinydisplay.cue",
}

// configPaths lists existing config files, most specific first.
func configPaths(dirs []string) (paths []string) {
	for _, dir := range dirs {
		for _, filename := range configFileNames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return
}

func configDirs() (dirs []string) {
	if workingDir, err := os.Getwd(); err == nil {
		dirs = append(dirs, workingDir)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, configDir)
	}
	dirs = append(dirs, "/etc")
	return
}

func (Module) ConfigsLoader(
	logger logs.Logger,
) configs.Loader {
	paths := configPaths(configDirs())
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", paths,
		)
	}
	return configs.NewLoader(paths, schema)
}
