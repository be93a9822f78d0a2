package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/working_dir"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/cleanup"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/model"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pipeline"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/store"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/upload"
	"github.com/apex/log"
	"github.com/spf13/cobra"
)

const tempDirPattern = "stems-*"

type separateFlags struct {
	engine    string
	splitType string
	inProcess bool
	outDir    string
	noZip     bool
}

func newSeparateCommand(deps Dependencies) *cobra.Command {
	flags := separateFlags{}

	cmd := &cobra.Command{
		Use:   "separate <file>",
		Short: "Separate an audio file into stems",
		Long: "Separate an audio file into stems with Spleeter or Demucs.\n\n" +
			"By default the stems are zipped into <out>/<name>_stems.zip. With --no-zip\n" +
			"or --in-process each stem is written as its own file under <out>/<name>/.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeparate(cmd, deps, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.engine, "engine", deps.Settings.DefaultEngine, "Separation engine: spleeter or demucs")
	cmd.Flags().StringVar(&flags.splitType, "stems", deps.Settings.DefaultSplitType, "Stem configuration: 2stems, 4stems or 5stems")
	cmd.Flags().BoolVar(&flags.inProcess, "in-process", false, "Decode the WAV input and separate it through the model holder")
	cmd.Flags().StringVar(&flags.outDir, "out", ".", "Directory that receives the results")
	cmd.Flags().BoolVar(&flags.noZip, "no-zip", false, "Copy the stems instead of zipping them")

	return cmd
}

func runSeparate(cmd *cobra.Command, deps Dependencies, flags separateFlags, inputPath string) error {
	splitType, err := splitter.ParseSplitType(flags.splitType)
	if err != nil {
		return err
	}

	engine, err := splitter.ParseEngineType(flags.engine)
	if err != nil {
		return err
	}

	source, err := os.Open(inputPath)
	if err != nil {
		return cerr.Field("input", inputPath).Wrap(err).Error("Failed to open input file")
	}
	defer source.Close()

	tempDir, err := os.MkdirTemp("", tempDirPattern)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to create temporary working directory")
	}
	// runs on success, failure and panic alike
	defer func() {
		if removeErr := os.RemoveAll(tempDir); removeErr != nil {
			log.WithError(removeErr).WithField("dir", tempDir).Warn("Failed to remove temporary working directory")
		}
	}()

	workingDir, err := working_dir.NewWorkingDir(tempDir)
	if err != nil {
		return err
	}
	if err := workingDir.Ensure(); err != nil {
		return err
	}

	// nothing is served from the temp dir, so deletions need no delay
	cleanupManager := cleanup.NewManager(0)
	defer cleanupManager.Wait()

	input, err := upload.NewReceiver(workingDir.UploadsDir(), 0).Receive(filepath.Base(inputPath), source)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to stage input file")
	}

	outDir, err := filepath.Abs(flags.outDir)
	if err != nil {
		return cerr.Field("out", flags.outDir).Wrap(err).Error("Failed to resolve output directory")
	}

	baseName, _ := upload.SplitExt(upload.SafeFileName(filepath.Base(inputPath)))

	var rows []stemRow
	if flags.inProcess {
		rows, err = separateInProcess(cmd, deps, workingDir, cleanupManager, input, splitType, filepath.Join(outDir, baseName))
	} else {
		rows, err = separateWithTool(cmd, deps, workingDir, cleanupManager, input, splitType, engine, flags.noZip, outDir, baseName)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), renderStemTable(cmd.OutOrStdout(), rows))
	return err
}

func separateWithTool(
	cmd *cobra.Command,
	deps Dependencies,
	workingDir working_dir.WorkingDir,
	cleanupManager *cleanup.Manager,
	input upload.Input,
	splitType splitter.SplitType,
	engine splitter.EngineType,
	noZip bool,
	outDir string,
	baseName string,
) ([]stemRow, error) {
	spleeterBin, demucsBin := "", ""
	if engine == splitter.SpleeterType {
		spleeterBin = deps.SpleeterBinPath()
	} else {
		demucsBin = deps.DemucsBinPath()
	}

	fileSplitter, err := splitter.NewLocalFileSplitter(workingDir.Root(), spleeterBin, demucsBin, deps.Executor)
	if err != nil {
		return nil, err
	}

	archivePipeline := pipeline.NewArchivePipeline(workingDir, fileSplitter, cleanupManager)
	result, err := archivePipeline.Run(cmd.Context(), input, pipeline.ArchiveOptions{
		SplitType:   splitType,
		Engine:      engine,
		SkipArchive: noZip,
	}, nil)
	if err != nil {
		return nil, err
	}

	if !noZip {
		dst := filepath.Join(outDir, baseName+"_stems.zip")
		if _, err := copyFile(result.ArchivePath, dst); err != nil {
			return nil, err
		}

		rows := make([]stemRow, 0, len(result.Files))
		for _, file := range result.Files {
			row := stemRow{
				Name:     stemName(file),
				Path:     dst + ":" + filepath.Base(file),
				Features: analyzeStemFile(file),
			}
			if info, err := os.Stat(file); err == nil {
				row.Size = info.Size()
			}
			rows = append(rows, row)
		}
		return rows, nil
	}

	return copyStems(result.Files, filepath.Join(outDir, baseName))
}

func separateInProcess(
	cmd *cobra.Command,
	deps Dependencies,
	workingDir working_dir.WorkingDir,
	cleanupManager *cleanup.Manager,
	input upload.Input,
	splitType splitter.SplitType,
	stemDir string,
) ([]stemRow, error) {
	loader := deps.ModelLoader
	if loader == nil {
		loader = model.NewToolModelLoader(workingDir.TempDir(), deps.DemucsBinPath(), deps.Executor)
	}

	stemPipeline := pipeline.NewStemPipeline(
		workingDir,
		model.NewSeparator(model.NewHolder(loader)),
		store.NewLocalStemStore(workingDir.OutputDir()),
		cleanupManager,
		pipeline.StemPipelineConfig{},
	)

	result, err := stemPipeline.Run(cmd.Context(), input, splitType, nil)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(result.Names))
	for _, name := range result.Names {
		files = append(files, result.Files[name])
	}

	return copyStems(files, stemDir)
}

func copyStems(files []string, dir string) ([]stemRow, error) {
	rows := make([]stemRow, 0, len(files))
	for _, file := range files {
		dst := filepath.Join(dir, filepath.Base(file))
		size, err := copyFile(file, dst)
		if err != nil {
			return nil, err
		}
		rows = append(rows, stemRow{
			Name:     stemName(file),
			Path:     dst,
			Size:     size,
			Features: analyzeStemFile(dst),
		})
	}

	return rows, nil
}

func stemName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
