package testing

import (
	"time"

	server_app "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/application"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/config"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/config/dev"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/executor"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pipeline"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
)

const (
	FakeSpleeterBinPath = "/fake/bin/spleeter"
	FakeDemucsBinPath   = "/fake/bin/demucs"

	// short enough for tests to wait out
	TestCleanupDelay = 50 * time.Millisecond
	TestMaxUpload    = 8 << 20
)

func ServerConfig(dataDir string, exec executor.Executor) server_app.Config {
	return server_app.Config{
		DataDir:            dataDir,
		Port:               ServerPort,
		CORSAllowedOrigins: []string{"*"},
		Log:                false,
		CleanupDelay:       TestCleanupDelay,
		MaxUploadBytes:     TestMaxUpload,
		JanitorInterval:    time.Minute,
		Defaults: pipeline.Options{
			SplitType: splitter.SplitFourStemsType,
			Engine:    splitter.SpleeterType,
		},
		SpleeterBinPath: FakeSpleeterBinPath,
		DemucsBinPath:   FakeDemucsBinPath,
		Executor:        exec,
	}
}

// DynamoDB
const (
	DynamoAccessKeyID     = dev.DynamoAccessKeyID
	DynamoSecretAccessKey = dev.DynamoSecretAccessKey
	DynamoDBHost          = dev.DynamoDBHost
	JobsTable             = "StemJobsTest"
)

func DynamoConfig(region string) config.LocalDynamo {
	return config.LocalDynamo{
		AccessKeyID:     DynamoAccessKeyID,
		SecretAccessKey: DynamoSecretAccessKey,
		Region:          region,
		Host:            DynamoDBHost,
		TableName:       JobsTable,
	}
}

// RabbitMQ
const (
	RabbitMQHost      = dev.RabbitMQHost
	RabbitMQQueueName = "stem-jobs-test"
)

// Server
const (
	ServerPort = ":5010"
)
