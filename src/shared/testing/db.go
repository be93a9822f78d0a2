package testing

import (
	"net/http"
	"time"

	dynamolib "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/dynamo"
	. "github.com/onsi/gomega"
)

type jobRecord struct {
	ID string `dynamo:"id,hash"`
}

// DynamoAvailable reports whether a local DynamoDB answers, so suites that
// need one can skip on machines without it.
func DynamoAvailable() bool {
	client := http.Client{Timeout: time.Second}
	response, err := client.Get(DynamoDBHost)
	if err != nil {
		return false
	}
	_ = response.Body.Close()
	return true
}

func MakeTestDB(testRegion string) dynamolib.DynamoDBWrapper {
	return dynamolib.NewDynamoDB(dynamolib.Credentials{
		AccessKeyID:     DynamoAccessKeyID,
		SecretAccessKey: DynamoSecretAccessKey,
		Region:          testRegion,
		Host:            DynamoDBHost,
	})
}

func ResetDB(db dynamolib.DynamoDBWrapper) {
	DeleteAllTables(db)
	CreateAllTables(db)
}

func BeforeSuiteDB(testRegion string) dynamolib.DynamoDBWrapper {
	db := MakeTestDB(testRegion)
	DeleteAllTables(db)
	return db
}

func AfterSuiteDB(db dynamolib.DynamoDBWrapper) {
	DeleteAllTables(db)
}

func CreateAllTables(db dynamolib.DynamoDBWrapper) {
	err := db.CreateTable(JobsTable, jobRecord{}).Run()
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
}

func DeleteAllTables(db dynamolib.DynamoDBWrapper) {
	tableResults := db.ListTables()
	tableNames := ExpectSuccess(tableResults.All())

	for _, tableName := range tableNames {
		err := db.Table(tableName).DeleteTable().Run()
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
	}
}
