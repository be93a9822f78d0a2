package jobusecase

import (
	"mime/multipart"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/errors/mark"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pipeline"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/go-playground/validator/v10"
)

const (
	stemsField  = "stems"
	engineField = "engine"
)

type formOptions struct {
	SplitType string `validate:"omitempty,oneof=2stems 4stems 5stems"`
	Engine    string `validate:"omitempty,oneof=spleeter demucs"`
}

type Options = pipeline.Options

func firstValue(form *multipart.Form, field string) string {
	if form == nil || len(form.Value[field]) == 0 {
		return ""
	}

	return form.Value[field][0]
}

// parseOptions reads the optional stems and engine fields, falling back to
// the configured defaults. A non-empty only pins the engine.
func parseOptions(validate *validator.Validate, form *multipart.Form, defaults Options, only splitter.EngineType) (Options, error) {
	raw := formOptions{
		SplitType: firstValue(form, stemsField),
		Engine:    firstValue(form, engineField),
	}

	if err := validate.Struct(raw); err != nil {
		return Options{}, mark.Wrap(err, splitter.InvalidOptionMark, "Invalid separation options")
	}

	options := defaults
	if raw.SplitType != "" {
		options.SplitType = splitter.SplitType(raw.SplitType)
	}
	if raw.Engine != "" {
		options.Engine = splitter.EngineType(raw.Engine)
	}

	if only != "" && options.Engine != only {
		return Options{}, mark.Message(splitter.InvalidOptionMark, "This endpoint only runs "+string(only))
	}

	if options.Engine == splitter.DemucsType && options.SplitType == splitter.SplitFiveStemsType {
		return Options{}, mark.Message(splitter.InvalidOptionMark, "Demucs does not support 5 stems")
	}

	return options, nil
}
