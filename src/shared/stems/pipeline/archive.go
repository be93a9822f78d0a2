// Package pipeline runs one separation job end to end, from a saved upload to
// the files handed back to the caller, and applies the cleanup policy on
// every exit path.
package pipeline

import (
	"context"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/working_dir"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/cleanup"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/collect"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/upload"
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

// Options are the separation choices a caller makes per job.
type Options struct {
	SplitType splitter.SplitType
	Engine    splitter.EngineType
}

type ArchiveOptions struct {
	SplitType splitter.SplitType
	Engine    splitter.EngineType
	// SkipArchive leaves the collected files unzipped.
	SkipArchive bool
}

type ArchiveResult struct {
	JobID       string
	OutputDir   string
	Files       []string
	ArchivePath string
}

func NewArchivePipeline(workingDir working_dir.WorkingDir, fileSplitter splitter.FileSplitter, cleanupManager *cleanup.Manager) ArchivePipeline {
	return ArchivePipeline{
		workingDir: workingDir,
		splitter:   fileSplitter,
		cleanup:    cleanupManager,
	}
}

// ArchivePipeline separates with an external tool and zips whatever the
// tool produced.
type ArchivePipeline struct {
	workingDir working_dir.WorkingDir
	splitter   splitter.FileSplitter
	cleanup    *cleanup.Manager
}

// Run processes input. Deletions are scheduled to start once done is
// closed, so a caller still streaming the result can hold them off.
func (a ArchivePipeline) Run(ctx context.Context, input upload.Input, options ArchiveOptions, done <-chan struct{}) (ArchiveResult, error) {
	outputDir := a.workingDir.JobOutputDir(input.JobID)

	logger := log.WithFields(log.Fields{
		"job_id":     input.JobID,
		"split_type": options.SplitType,
		"engine":     options.Engine,
	})
	errctx := cerr.Fields(cerr.F{
		"job_id":     input.JobID,
		"output_dir": outputDir,
	})

	err := a.splitter.SplitFile(ctx, input.Path, outputDir, options.SplitType, options.Engine)
	if err != nil {
		a.cleanup.ScheduleAfter(done, input.Path)
		return ArchiveResult{}, errctx.Wrap(err).Error("Separation failed")
	}

	files, err := collect.Collect(outputDir)
	if err != nil {
		if errors.Is(err, collect.NoOutputMark) {
			a.cleanup.ScheduleAfter(done, input.Path, outputDir)
		} else {
			a.cleanup.ScheduleAfter(done, input.Path)
		}
		return ArchiveResult{}, errctx.Wrap(err).Error("Failed to collect separation output")
	}

	result := ArchiveResult{
		JobID:     input.JobID,
		OutputDir: outputDir,
		Files:     files,
	}

	if !options.SkipArchive {
		result.ArchivePath = a.workingDir.ArchivePath(input.JobID)

		if err := collect.Archive(files, result.ArchivePath); err != nil {
			a.cleanup.ScheduleAfter(done, input.Path, result.ArchivePath)
			return ArchiveResult{}, errctx.Wrap(err).Error("Failed to package separation output")
		}
	}

	a.cleanup.ScheduleAfter(done, input.Path)

	logger.WithField("files", len(files)).Info("Job finished")
	return result, nil
}
