package jobstorage

import (
	"context"
	"time"

	jobentity "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/entity"
	dynamolib "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/dynamo"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/errors/mark"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/cockroachdb/errors"
	"github.com/guregu/dynamo"
)

const (
	idKey        = "id"
	expiresAtKey = "expires_at"
)

var _ jobentity.Store = DynamoStore{}

// DynamoStore keeps job records in a table whose TTL attribute is
// expires_at, so records go away on their own even without the janitor.
type DynamoStore struct {
	dynamoDB  dynamolib.DynamoDBWrapper
	tableName string
}

func NewDynamoStore(dynamoDB dynamolib.DynamoDBWrapper, tableName string) DynamoStore {
	return DynamoStore{
		dynamoDB:  dynamoDB,
		tableName: tableName,
	}
}

type dbJob struct {
	ID        string    `dynamo:"id,hash"`
	State     string    `dynamo:"state"`
	Variant   string    `dynamo:"variant"`
	SplitType string    `dynamo:"split_type"`
	Engine    string    `dynamo:"engine,omitempty"`
	Stems     []string  `dynamo:"stems,omitempty"`
	CreatedAt time.Time `dynamo:"created_at"`
	// unix seconds, the format DynamoDB TTL expects
	ExpiresAt int64 `dynamo:"expires_at,omitempty"`
}

func toDBJob(job jobentity.Job) dbJob {
	record := dbJob{
		ID:        job.ID,
		State:     string(job.State),
		Variant:   string(job.Variant),
		SplitType: string(job.SplitType),
		Engine:    string(job.Engine),
		Stems:     job.Stems,
		CreatedAt: job.CreatedAt,
	}

	if !job.ExpiresAt.IsZero() {
		record.ExpiresAt = job.ExpiresAt.Unix()
	}

	return record
}

func (d dbJob) toEntity() jobentity.Job {
	job := jobentity.Job{
		ID:        d.ID,
		State:     jobentity.State(d.State),
		Variant:   jobentity.Variant(d.Variant),
		SplitType: splitter.SplitType(d.SplitType),
		Engine:    splitter.EngineType(d.Engine),
		Stems:     d.Stems,
		CreatedAt: d.CreatedAt.UTC(),
	}

	if d.ExpiresAt != 0 {
		job.ExpiresAt = time.Unix(d.ExpiresAt, 0).UTC()
	}

	return job
}

func (d DynamoStore) table() dynamolib.DynamoTableWrapper {
	return d.dynamoDB.Table(d.tableName)
}

func (d DynamoStore) Put(ctx context.Context, job jobentity.Job) error {
	if job.ID == "" {
		return mark.Message(DefaultErrorMark, "Job has no ID")
	}

	err := d.table().Put(toDBJob(job)).RunWithContext(ctx)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to put the job in the DB")
	}

	return nil
}

func (d DynamoStore) Get(ctx context.Context, jobID string) (jobentity.Job, error) {
	record := dbJob{}
	err := d.table().Get(idKey, jobID).OneWithContext(ctx, &record)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return jobentity.Job{}, mark.Wrap(err, JobNotFoundMark, "Job is not found")
		}
		return jobentity.Job{}, mark.Wrap(err, DefaultErrorMark, "Failed to fetch job")
	}

	return record.toEntity(), nil
}

func (d DynamoStore) ListExpired(ctx context.Context, before time.Time) ([]jobentity.Job, error) {
	records := []dbJob{}
	err := d.table().Scan().
		Filter("$ <= ?", expiresAtKey, before.Unix()).
		AllWithContext(ctx, &records)
	if err != nil {
		return nil, mark.Wrap(err, DefaultErrorMark, "Failed to scan for expired jobs")
	}

	jobs := make([]jobentity.Job, 0, len(records))
	for _, record := range records {
		jobs = append(jobs, record.toEntity())
	}

	return jobs, nil
}

func (d DynamoStore) Delete(ctx context.Context, jobID string) error {
	err := d.table().Delete(idKey, jobID).RunWithContext(ctx)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to delete job")
	}

	return nil
}
