package model

import (
	"context"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pcm"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Model separates a stereo buffer into the stems it natively produces.
//
//counterfeiter:generate . Model
type Model interface {
	Name() string
	Separate(ctx context.Context, mix pcm.Buffer) (pcm.StemSet, error)
}

// Loader builds a Model. It runs at most once per successful load.
type Loader func() (Model, error)
