package store

import (
	"context"
	"io"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/collect"
	"github.com/cockroachdb/errors/domains"
)

var StemNotFoundMark = domains.New("stem_not_found")

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Store keeps the per-stem files of a job until the job is swept.
//
//counterfeiter:generate . Store
type Store interface {
	SaveStems(ctx context.Context, jobID string, stems collect.StemFilePaths) error
	OpenStem(ctx context.Context, jobID string, stem string) (io.ReadCloser, error)
	DeleteJob(ctx context.Context, jobID string) error
}

func objectName(jobID string, stem string) string {
	return jobID + "/" + stem + collect.StemExt
}
