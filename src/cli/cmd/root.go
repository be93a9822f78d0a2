// Package cmd is the command line shell around the separation pipeline.
package cmd

import (
	"fmt"
	"io"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/config"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/executor"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/model"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X ...cmd.Version=v1.2.3".
var Version = "dev"

type Dependencies struct {
	Settings config.Settings
	Executor executor.Executor
	// bin lookups run lazily so a missing tool only matters to the engine
	// that needs it
	SpleeterBinPath func() string
	DemucsBinPath   func() string
	// ModelLoader overrides the in-process model, nil runs demucs.
	ModelLoader model.Loader
}

func NewRootCommand(deps Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stems",
		Short:         "Split a song into vocal and instrument stems",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newSeparateCommand(deps))
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newTransformCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
			return err
		},
	}
}

// PrintFailure writes everything known about err: the message, the context
// fields and stack, and the separation tool's own output when there is one.
func PrintFailure(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n\n%+v\n", err, err)

	if output, ok := splitter.Diagnostics(err); ok && output != "" {
		fmt.Fprintf(w, "\nTool output:\n%s\n", output)
	}
}
