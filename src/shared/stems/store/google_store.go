package store

import (
	"context"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/collect"
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const wavContentType = "audio/wav"

var _ Store = GoogleStemStore{}

func NewGoogleStemStore(bucketName string, options ...option.ClientOption) (GoogleStemStore, error) {
	client, err := storage.NewClient(context.Background(), options...)
	if err != nil {
		return GoogleStemStore{}, cerr.Wrap(err).Error("Failed to create cloud storage client")
	}

	return NewGoogleStemStoreWithClient(client, bucketName), nil
}

func NewGoogleStemStoreWithClient(client *storage.Client, bucketName string) GoogleStemStore {
	return GoogleStemStore{
		client:     client,
		bucketName: bucketName,
	}
}

type GoogleStemStore struct {
	client     *storage.Client
	bucketName string
}

func (g GoogleStemStore) bucket() *storage.BucketHandle {
	return g.client.Bucket(g.bucketName)
}

func (g GoogleStemStore) SaveStems(ctx context.Context, jobID string, stems collect.StemFilePaths) error {
	for stem, src := range stems {
		if err := g.upload(ctx, objectName(jobID, stem), src); err != nil {
			return cerr.Fields(cerr.F{
				"job_id": jobID,
				"stem":   stem,
				"bucket": g.bucketName,
			}).Wrap(err).Error("Failed to upload stem")
		}
	}

	return nil
}

func (g GoogleStemStore) upload(ctx context.Context, name string, src string) error {
	file, err := os.Open(src)
	if err != nil {
		return cerr.Field("src", src).Wrap(err).Error("Failed to open stem file")
	}
	defer file.Close()

	writer := g.bucket().Object(name).NewWriter(ctx)
	writer.ContentType = wavContentType

	if _, err := io.Copy(writer, file); err != nil {
		_ = writer.Close()
		return cerr.Wrap(err).Error("Failed to write to cloud storage")
	}

	if err := writer.Close(); err != nil {
		return cerr.Wrap(err).Error("Failed to finish cloud storage write")
	}

	return nil
}

func (g GoogleStemStore) OpenStem(ctx context.Context, jobID string, stem string) (io.ReadCloser, error) {
	reader, err := g.bucket().Object(objectName(jobID, stem)).NewReader(ctx)
	if err != nil {
		errctx := cerr.Fields(cerr.F{"job_id": jobID, "stem": stem, "bucket": g.bucketName})
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, errors.Mark(errctx.Wrap(err).Error("Stem object does not exist"), StemNotFoundMark)
		}
		return nil, errctx.Wrap(err).Error("Failed to read stem object")
	}

	return reader, nil
}

func (g GoogleStemStore) DeleteJob(ctx context.Context, jobID string) error {
	errctx := cerr.Fields(cerr.F{"job_id": jobID, "bucket": g.bucketName})

	objects := g.bucket().Objects(ctx, &storage.Query{Prefix: jobID + "/"})
	for {
		attrs, err := objects.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return errctx.Wrap(err).Error("Failed to list job objects")
		}

		err = g.bucket().Object(attrs.Name).Delete(ctx)
		if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return errctx.Field("object", attrs.Name).Wrap(err).Error("Failed to delete job object")
		}

		log.WithField("object", attrs.Name).Debug("Deleted stem object")
	}

	return nil
}

func (g GoogleStemStore) Close() error {
	return g.client.Close()
}
