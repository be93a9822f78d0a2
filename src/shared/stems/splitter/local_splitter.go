package splitter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/executor"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/working_dir"
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/domains"
)

var SeparationFailedMark = domains.New("separation_failed")

var _ FileSplitter = LocalFileSplitter{}

var spleeterParamMap = map[SplitType]string{
	SplitTwoStemsType:  "spleeter:2stems",
	SplitFourStemsType: "spleeter:4stems",
	SplitFiveStemsType: "spleeter:5stems",
}

// ToolFailure is the diagnostic payload of a separation tool that did not
// exit cleanly.
type ToolFailure struct {
	Engine   EngineType
	ExitCode int
	Output   string
	cause    error
}

func (t *ToolFailure) Error() string {
	return fmt.Sprintf("%s exited with status %d", t.Engine, t.ExitCode)
}

func (t *ToolFailure) Unwrap() error { return t.cause }

// NewToolFailure wraps the error of a finished tool run together with what
// the tool printed.
func NewToolFailure(engine EngineType, output []byte, runErr error) *ToolFailure {
	exitCode, exited := executor.ExitCode(runErr)
	if !exited {
		exitCode = -1
	}

	return &ToolFailure{
		Engine:   engine,
		ExitCode: exitCode,
		Output:   string(output),
		cause:    runErr,
	}
}

// Diagnostics returns the tool output carried by err, if any.
func Diagnostics(err error) (string, bool) {
	var failure *ToolFailure
	if errors.As(err, &failure) {
		return failure.Output, true
	}

	return "", false
}

func NewLocalFileSplitter(workingDirStr string, spleeterBinPath string, demucsBinPath string, executor executor.Executor) (LocalFileSplitter, error) {
	workingDir, err := working_dir.NewWorkingDir(workingDirStr)
	if err != nil {
		return LocalFileSplitter{}, cerr.Wrap(err).Error("Failed to convert working dir to absolute format")
	}

	return LocalFileSplitter{
		workingDir:      workingDir,
		spleeterBinPath: spleeterBinPath,
		demucsBinPath:   demucsBinPath,
		executor:        executor,
		device:          newLazyDevice(executor),
	}, nil
}

type LocalFileSplitter struct {
	workingDir      working_dir.WorkingDir
	spleeterBinPath string
	demucsBinPath   string
	executor        executor.Executor
	device          *lazyDevice
}

func (l LocalFileSplitter) SplitFile(ctx context.Context, inputFilePath string, stemsOutputDir string, splitType SplitType, engineType EngineType) error {
	absInputFilePath, err := filepath.Abs(inputFilePath)
	if err != nil {
		return cerr.Wrap(err).Error("Cannot convert source path to absolute format")
	}

	errctx := cerr.Field("input_filepath", absInputFilePath)

	absStemsOutputDir, err := filepath.Abs(stemsOutputDir)
	if err != nil {
		return errctx.Wrap(err).Error("Cannot convert destination path to absolute format")
	}

	args, err := l.buildArgs(absInputFilePath, absStemsOutputDir, splitType, engineType)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to build separation command")
	}

	// the tool can't be stopped once started, so this is the last point to bail
	if ctx.Err() != nil {
		return cerr.Wrap(ctx.Err()).Error("Context cancelled before splitting could happen")
	}

	binPath := l.spleeterBinPath
	if engineType == DemucsType {
		binPath = l.demucsBinPath
	}

	if binPath == "" {
		return errctx.Field("engine_type", engineType).Error("No binary configured for engine")
	}

	if err := l.run(engineType, binPath, args, absStemsOutputDir, splitType); err != nil {
		return errctx.Field("output_dir", absStemsOutputDir).
			Wrap(err).Error(fmt.Sprintf("Failed to execute %s", engineType))
	}

	return nil
}

func (l LocalFileSplitter) buildArgs(sourcePath string, destPath string, splitType SplitType, engineType EngineType) ([]string, error) {
	switch engineType {
	case SpleeterType:
		splitParam, ok := spleeterParamMap[splitType]
		if !ok {
			return nil, markInvalid(cerr.Field("split_type", splitType).Error("Invalid split type for spleeter"))
		}

		return []string{"separate", "-p", splitParam, "-o", destPath, sourcePath}, nil

	case DemucsType:
		var extra []string
		switch splitType {
		case SplitTwoStemsType:
			extra = []string{"--two-stems", "vocals"}
		case SplitFourStemsType:
		default:
			return nil, markInvalid(cerr.Field("split_type", splitType).Error("Demucs does not support this split type"))
		}

		args := append([]string{"-o", destPath, "-d", l.device.get()}, extra...)
		return append(args, sourcePath), nil

	default:
		return nil, markInvalid(cerr.Field("engine_type", engineType).Error("Invalid engine type"))
	}
}

func markInvalid(err error) error {
	return errors.Mark(err, InvalidOptionMark)
}

func (l LocalFileSplitter) run(engineType EngineType, binPath string, args []string, destPath string, splitType SplitType) error {
	logger := log.WithFields(log.Fields{
		"engine":     engineType,
		"destPath":   destPath,
		"splitType":  splitType,
		"workingDir": l.workingDir,
	})

	logger.Info(fmt.Sprintf("Running %s command", engineType))

	errctx := cerr.Field("bin_path", binPath).Field("args", args)

	cmd := l.executor.Command(binPath, args...)
	cmd.SetDir(l.workingDir.Root())

	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Mark(errctx.Field("tool_output", string(output)).
			Wrap(NewToolFailure(engineType, output, err)).
			Error(fmt.Sprintf("Error occurred while running %s", engineType)), SeparationFailedMark)
	}

	logger.Debug(string(output))
	logger.Info(fmt.Sprintf("Finished %s command", engineType))

	return nil
}
