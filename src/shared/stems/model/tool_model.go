package model

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/executor"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/collect"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pcm"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

const (
	DeviceCPU  = splitter.DeviceCPU
	DeviceCUDA = splitter.DeviceCUDA

	scratchPrefix = "separate-"
	mixFileName   = "mix.wav"
	resultDirName = "separated"
)

var _ Model = &ToolModel{}

// NewToolModelLoader returns a Loader that detects the device once and hands
// back a ToolModel bound to it.
func NewToolModelLoader(scratchDir string, demucsBinPath string, exec executor.Executor) Loader {
	return func() (Model, error) {
		if demucsBinPath == "" {
			return nil, cerr.Error("No demucs binary configured")
		}

		if err := os.MkdirAll(scratchDir, os.ModePerm); err != nil {
			return nil, cerr.Field("scratch_dir", scratchDir).Wrap(err).Error("Failed to create scratch directory")
		}

		device := splitter.DetectDevice(exec)
		log.WithFields(log.Fields{
			"device":   device,
			"bin_path": demucsBinPath,
		}).Info("Selected inference device")

		return &ToolModel{
			scratchDir:    scratchDir,
			demucsBinPath: demucsBinPath,
			device:        device,
			executor:      exec,
		}, nil
	}
}

// ToolModel runs demucs on a scratch copy of the mix and reads its stems back.
type ToolModel struct {
	scratchDir    string
	demucsBinPath string
	device        string
	executor      executor.Executor
}

func (t *ToolModel) Name() string {
	return "demucs/" + t.device
}

func (t *ToolModel) Device() string {
	return t.device
}

func (t *ToolModel) Separate(ctx context.Context, mix pcm.Buffer) (pcm.StemSet, error) {
	if ctx.Err() != nil {
		return nil, cerr.Wrap(ctx.Err()).Error("Context cancelled before separation")
	}

	jobDir, err := os.MkdirTemp(t.scratchDir, scratchPrefix)
	if err != nil {
		return nil, cerr.Field("scratch_dir", t.scratchDir).Wrap(err).Error("Failed to create scratch job directory")
	}
	defer func() {
		if err := os.RemoveAll(jobDir); err != nil {
			log.WithError(err).WithField("dir", jobDir).Warn("Failed to remove scratch directory")
		}
	}()

	errctx := cerr.Field("scratch_job_dir", jobDir)

	mixPath := filepath.Join(jobDir, mixFileName)
	if err := pcm.WriteWAVFile(mixPath, mix); err != nil {
		return nil, errctx.Wrap(err).Error("Failed to write mix to scratch file")
	}

	resultDir := filepath.Join(jobDir, resultDirName)
	args := []string{"-o", resultDir, "-d", t.device, mixPath}

	output, err := t.executor.Command(t.demucsBinPath, args...).CombinedOutput()
	if err != nil {
		return nil, errors.Mark(errctx.Field("args", args).
			Wrap(splitter.NewToolFailure(splitter.DemucsType, output, err)).
			Error("Error occurred while running demucs"), splitter.SeparationFailedMark)
	}

	files, err := collect.Collect(resultDir)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to collect demucs output")
	}

	stems := pcm.StemSet{}
	for _, file := range files {
		if filepath.Ext(file) != collect.StemExt {
			continue
		}

		name := strings.TrimSuffix(filepath.Base(file), collect.StemExt)
		buffer, err := pcm.ReadWAVFile(file)
		if err != nil {
			return nil, errctx.Field("stem", name).Wrap(err).Error("Failed to read stem produced by demucs")
		}

		stems[name] = buffer
	}

	if len(stems) == 0 {
		return nil, errors.Mark(errctx.Error("Demucs produced no WAV stems"), collect.NoOutputMark)
	}

	return stems, nil
}
