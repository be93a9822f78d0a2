package main

import (
	"context"
	"fmt"
	"os"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/cli/cmd"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/config"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/executor"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/logging"
	"github.com/cockroachdb/errors"
)

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}

	logging.Setup(settings.LogLevel)

	root := cmd.NewRootCommand(cmd.Dependencies{
		Settings:        settings,
		Executor:        executor.BinaryFileExecutor{},
		SpleeterBinPath: config.SpleeterPath,
		DemucsBinPath:   config.DemucsPath,
	})

	if err := root.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			cmd.PrintFailure(os.Stderr, err)
		}
		os.Exit(1)
	}
}
