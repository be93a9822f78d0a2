package pipeline

import (
	"context"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/working_dir"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/cleanup"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/collect"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/model"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pcm"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/store"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/upload"
	"github.com/apex/log"
)

type StemResult struct {
	JobID     string
	OutputDir string
	Files     collect.StemFilePaths
	// Names lists the stems in presentation order.
	Names    []string
	Features map[string]pcm.Features
}

type StemPipelineConfig struct {
	// RemoveLocalStems drops the job's local stem files once they are saved
	// to the store, for stores that keep their own copy.
	RemoveLocalStems bool
}

func NewStemPipeline(workingDir working_dir.WorkingDir, separator model.Separator, stemStore store.Store, cleanupManager *cleanup.Manager, config StemPipelineConfig) StemPipeline {
	return StemPipeline{
		workingDir: workingDir,
		separator:  separator,
		store:      stemStore,
		cleanup:    cleanupManager,
		config:     config,
	}
}

// StemPipeline separates in process and exposes every stem on its own.
type StemPipeline struct {
	workingDir working_dir.WorkingDir
	separator  model.Separator
	store      store.Store
	cleanup    *cleanup.Manager
	config     StemPipelineConfig
}

func (s StemPipeline) Run(ctx context.Context, input upload.Input, splitType splitter.SplitType, done <-chan struct{}) (StemResult, error) {
	// the input is never needed after this call
	defer s.cleanup.ScheduleAfter(done, input.Path)

	outputDir := s.workingDir.JobOutputDir(input.JobID)
	errctx := cerr.Fields(cerr.F{
		"job_id":     input.JobID,
		"split_type": splitType,
	})

	mix, err := pcm.ReadWAVFile(input.Path)
	if err != nil {
		return StemResult{}, errctx.Wrap(err).Error("Failed to decode uploaded audio")
	}

	stems, err := s.separator.Separate(ctx, mix, splitType)
	if err != nil {
		return StemResult{}, errctx.Wrap(err).Error("Separation failed")
	}

	features, err := analyzeStems(stems)
	if err != nil {
		return StemResult{}, errctx.Wrap(err).Error("Failed to analyze stems")
	}

	files, err := collect.WriteStems(stems, outputDir)
	if err != nil {
		s.cleanup.ScheduleAfter(done, outputDir)
		return StemResult{}, errctx.Wrap(err).Error("Failed to write stems")
	}

	if err := s.store.SaveStems(ctx, input.JobID, files); err != nil {
		s.cleanup.ScheduleAfter(done, outputDir)
		return StemResult{}, errctx.Wrap(err).Error("Failed to store stems")
	}

	if s.config.RemoveLocalStems {
		s.cleanup.ScheduleAfter(done, outputDir)
	}

	names := orderedNames(splitType, stems)
	log.WithFields(log.Fields{
		"job_id": input.JobID,
		"stems":  names,
	}).Info("Job finished")

	return StemResult{
		JobID:     input.JobID,
		OutputDir: outputDir,
		Files:     files,
		Names:     names,
		Features:  features,
	}, nil
}

func analyzeStems(stems pcm.StemSet) (map[string]pcm.Features, error) {
	features := make(map[string]pcm.Features, len(stems))
	for name, buffer := range stems {
		stemFeatures, err := pcm.Analyze(buffer)
		if err != nil {
			return nil, cerr.Field("stem", name).Wrap(err).Error("Failed to analyze stem")
		}
		features[name] = stemFeatures
	}

	return features, nil
}

func orderedNames(splitType splitter.SplitType, stems pcm.StemSet) []string {
	var names []string
	for _, name := range splitType.StemNames() {
		if _, ok := stems[name]; ok {
			names = append(names, name)
		}
	}

	if len(names) != len(stems) {
		return stems.Names()
	}

	return names
}
