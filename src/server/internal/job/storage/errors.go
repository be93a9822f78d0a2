package jobstorage

import "github.com/cockroachdb/errors/domains"

var (
	JobNotFoundMark  = domains.New("job_not_found")
	DefaultErrorMark = domains.New("job_storage_error")
)
