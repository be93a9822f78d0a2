package dynamolib

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/guregu/dynamo"
)

type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	// Host is empty for the real AWS endpoint.
	Host string
}

func NewDynamoDB(creds Credentials) DynamoDBWrapper {
	dbSession := session.Must(session.NewSession())

	dbConfig := aws.NewConfig().
		WithCredentials(credentials.NewStaticCredentials(
			creds.AccessKeyID,
			creds.SecretAccessKey,
			"",
		)).
		WithRegion(creds.Region)

	if creds.Host != "" {
		dbConfig = dbConfig.WithEndpoint(creds.Host)
	}

	return NewDynamoDBWrapper(dynamo.New(dbSession, dbConfig))
}

func NewDynamoDBWrapper(db *dynamo.DB) DynamoDBWrapper {
	return DynamoDBWrapper{DB: db}
}

type DynamoDBWrapper struct {
	*dynamo.DB
}

type DynamoTableWrapper struct {
	dynamo.Table
}

func (d DynamoDBWrapper) Table(tableName string) DynamoTableWrapper {
	return DynamoTableWrapper{
		Table: d.DB.Table(tableName),
	}
}
