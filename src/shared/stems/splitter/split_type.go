package splitter

import (
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/errors/mark"
	"github.com/cockroachdb/errors/domains"
)

var InvalidOptionMark = domains.New("invalid_split_option")

type SplitType string

const (
	InvalidSplitType   SplitType = ""
	SplitTwoStemsType  SplitType = "2stems"
	SplitFourStemsType SplitType = "4stems"
	SplitFiveStemsType SplitType = "5stems"
)

var stemNames = map[SplitType][]string{
	SplitTwoStemsType:  {"vocals", "accompaniment"},
	SplitFourStemsType: {"vocals", "drums", "bass", "other"},
	SplitFiveStemsType: {"vocals", "drums", "bass", "piano", "other"},
}

func ParseSplitType(str string) (SplitType, error) {
	splitType := SplitType(str)
	if _, ok := stemNames[splitType]; !ok {
		return InvalidSplitType, mark.Message(InvalidOptionMark, "Value does not match any split type: "+str)
	}

	return splitType, nil
}

// StemNames lists the stems a split type yields, in presentation order.
func (s SplitType) StemNames() []string {
	names := stemNames[s]
	return append([]string(nil), names...)
}

type EngineType string

const (
	InvalidEngineType EngineType = ""
	SpleeterType      EngineType = "spleeter"
	DemucsType        EngineType = "demucs"
)

func ParseEngineType(str string) (EngineType, error) {
	switch engine := EngineType(str); engine {
	case SpleeterType, DemucsType:
		return engine, nil
	default:
		return InvalidEngineType, mark.Message(InvalidOptionMark, "Value does not match any engine: "+str)
	}
}

// DisplayName is how the engine is named in user facing messages.
func (e EngineType) DisplayName() string {
	switch e {
	case DemucsType:
		return "Demucs"
	default:
		return "Spleeter"
	}
}
