package model

import (
	"context"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pcm"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

const (
	VocalsStem        = "vocals"
	AccompanimentStem = "accompaniment"
)

func NewSeparator(holder *Holder) Separator {
	return Separator{holder: holder}
}

// Separator turns a mix into the stems a split type asks for, using the
// process wide model.
type Separator struct {
	holder *Holder
}

func (s Separator) Separate(ctx context.Context, mix pcm.Buffer, splitType splitter.SplitType) (pcm.StemSet, error) {
	errctx := cerr.Field("split_type", splitType)

	if _, err := splitter.ParseSplitType(string(splitType)); err != nil {
		return nil, errctx.Wrap(err).Error("Cannot separate into an unknown split type")
	}

	stereo, err := mix.NormalizeChannels()
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to prepare mix for the model")
	}

	separationModel, err := s.holder.Get()
	if err != nil {
		return nil, errctx.Wrap(err).Error("Separation model is unavailable")
	}

	logger := log.WithFields(log.Fields{
		"model":      separationModel.Name(),
		"split_type": splitType,
		"channels":   mix.NumChannels(),
		"samples":    mix.NumSamples(),
	})
	logger.Info("Separating mix")

	native, err := separationModel.Separate(ctx, stereo)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Model failed to separate mix")
	}

	var stems pcm.StemSet
	if splitType == splitter.SplitTwoStemsType {
		stems, err = vocalsAndAccompaniment(native)
	} else {
		stems, err = selectStems(native, splitType.StemNames())
	}
	if err != nil {
		return nil, errctx.Field("model_stems", native.Names()).Wrap(err).Error("Model output does not fit the split type")
	}

	if err := stems.Validate(); err != nil {
		return nil, errctx.Wrap(err).Error("Model produced an inconsistent stem set")
	}

	logger.WithField("stems", stems.Names()).Info("Mix separated")
	return stems, nil
}

// vocalsAndAccompaniment folds every stem other than vocals into a single
// accompaniment stem.
func vocalsAndAccompaniment(native pcm.StemSet) (pcm.StemSet, error) {
	vocals, ok := native[VocalsStem]
	if !ok {
		return nil, cerr.Error("Model produced no vocals stem")
	}

	var others []pcm.Buffer
	for _, name := range native.Names() {
		if name != VocalsStem {
			others = append(others, native[name])
		}
	}

	if len(others) == 0 {
		return nil, cerr.Error("Model produced nothing besides vocals")
	}

	accompaniment, err := pcm.Sum(others...)
	if err != nil {
		return nil, cerr.Wrap(err).Error("Failed to mix accompaniment")
	}

	return pcm.StemSet{
		VocalsStem:        vocals,
		AccompanimentStem: accompaniment,
	}, nil
}

func selectStems(native pcm.StemSet, names []string) (pcm.StemSet, error) {
	stems := pcm.StemSet{}
	for _, name := range names {
		stem, ok := native[name]
		if !ok {
			return nil, errors.Mark(cerr.Field("stem", name).Error("Model does not produce this stem"), splitter.InvalidOptionMark)
		}
		stems[name] = stem
	}

	return stems, nil
}
