package pcm

import (
	"sort"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
)

// StemSet maps a stem name to its audio. All stems of a set share one sample
// rate and one channel count.
type StemSet map[string]Buffer

func (s StemSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s StemSet) Validate() error {
	if len(s) == 0 {
		return cerr.Error("Stem set is empty")
	}

	var reference Buffer
	var referenceName string

	for i, name := range s.Names() {
		stem := s[name]
		if err := stem.Validate(); err != nil {
			return cerr.Field("stem", name).Wrap(err).Error("Stem buffer is invalid")
		}

		if i == 0 {
			reference, referenceName = stem, name
			continue
		}

		if stem.SampleRate != reference.SampleRate || stem.NumChannels() != reference.NumChannels() {
			return cerr.Fields(cerr.F{
				"stem":               name,
				"reference_stem":     referenceName,
				"sample_rate":        stem.SampleRate,
				"reference_rate":     reference.SampleRate,
				"channels":           stem.NumChannels(),
				"reference_channels": reference.NumChannels(),
			}).Error("Stems disagree on sample rate or channel count")
		}
	}

	return nil
}
