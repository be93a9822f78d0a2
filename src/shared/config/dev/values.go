package dev

import "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/config"

// DynamoDB local
const (
	DynamoAccessKeyID     = "local"
	DynamoSecretAccessKey = "local"
	DynamoDBHost          = "http://localhost:8000"
	DynamoDBRegion        = "localhost"
	DynamoJobsTable       = "StemJobs"
)

var DynamoConfig = config.LocalDynamo{
	AccessKeyID:     DynamoAccessKeyID,
	SecretAccessKey: DynamoSecretAccessKey,
	Region:          DynamoDBRegion,
	Host:            DynamoDBHost,
	TableName:       DynamoJobsTable,
}

// RabbitMQ
const (
	RabbitMQHost      = "amqp://localhost:5672"
	RabbitMQQueueName = "stem-jobs-dev"
)

// fake-gcs-server
const (
	CloudStorageEndpoint = "http://localhost:4443/storage/v1/"
	CloudStorageBucket   = "stems-dev"
)

var CloudStorageConfig = config.LocalCloudStorage{
	HostEndpoint: CloudStorageEndpoint,
	BucketName:   CloudStorageBucket,
}
