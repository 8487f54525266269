package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/johannesbuchholz/copysnap/internal/config"
	"github.com/johannesbuchholz/copysnap/internal/fsaccessor"
	"github.com/johannesbuchholz/copysnap/internal/ignore"
	"github.com/johannesbuchholz/copysnap/internal/logging"
	"github.com/johannesbuchholz/copysnap/internal/report"
	"github.com/johannesbuchholz/copysnap/internal/snapshotstore"
)

func snapshotMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("expected exactly one source directory argument")
	}
	sourceDir := arguments[0]

	info, err := os.Stat(sourceDir)
	if err != nil {
		return errors.Wrapf(err, "stat source directory %q", sourceDir)
	}
	if !info.IsDir() {
		return errors.Errorf("%q is not a directory", sourceDir)
	}

	level, ok := logging.NameToLevel(rootConfiguration.logLevel)
	if !ok {
		return errors.Errorf("invalid log level %q", rootConfiguration.logLevel)
	}
	logger := logging.New(level, os.Stderr)

	cfg, cfgPath, err := config.Load(rootConfiguration.storeDir)
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}
	if cfgPath != "" {
		logger.Debugf("loaded configuration from %s", cfgPath)
	}

	matcher, err := ignore.Compile(cfg.IgnorePatterns)
	if err != nil {
		return errors.Wrap(err, "compile ignore patterns")
	}

	fsa := fsaccessor.New(fsaccessor.WithIgnoreMatcher(matcher))
	store := snapshotstore.New(rootConfiguration.storeDir, logger)

	start := time.Now()
	result, err := store.Create(sourceDir, fsa, time.Now())
	if err != nil {
		return errors.Wrap(err, "create snapshot")
	}

	fmt.Print(report.Summary(result.SnapshotDir, result.Counts, time.Since(start)))
	return nil
}

var snapshotCommand = &cobra.Command{
	Use:   "snapshot <source-dir>",
	Short: "Take a new snapshot of a source directory",
	Run:   mainify(snapshotMain),
}
