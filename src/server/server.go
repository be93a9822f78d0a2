package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/application"
	jobusecase "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/usecase"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/config"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/config/dev"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/config/envvar"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/config/local"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/env"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/logging"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/apex/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		panic(err)
	}

	logging.Setup(settings.LogLevel)

	appConfig := baseConfig(settings)

	switch env.Get() {
	case env.Production:
		if envvar.IsSet(envvar.ALLOWED_FE_ORIGINS) {
			commaSeparatedOrigins := envvar.MustGet(envvar.ALLOWED_FE_ORIGINS)
			appConfig.CORSAllowedOrigins = strings.Split(commaSeparatedOrigins, ",")
		}

		if envvar.IsSet(envvar.DYNAMODB_JOBS_TABLE) {
			appConfig.DynamoConfig = config.ProdDynamo{
				AccessKeyID:     envvar.MustGet(envvar.AWS_ACCESS_KEY_ID),
				SecretAccessKey: envvar.MustGet(envvar.AWS_SECRET_ACCESS_KEY),
				Region:          envvar.MustGet(envvar.AWS_REGION),
				TableName:       envvar.MustGet(envvar.DYNAMODB_JOBS_TABLE),
			}
		}

		if envvar.IsSet(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME) {
			appConfig.CloudStorageConfig = config.ProdCloudStorage{
				SecretKey:  envvar.MustGet(envvar.GOOGLE_CLOUD_KEY),
				BucketName: envvar.MustGet(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME),
			}
		}

		if envvar.IsSet(envvar.RABBITMQ_URL) {
			appConfig.RabbitMQURL = envvar.MustGet(envvar.RABBITMQ_URL)
			appConfig.RabbitMQQueueName = envvar.MustGet(envvar.RABBITMQ_QUEUE_NAME)
		}

	case env.Development:
		appConfig.DataDir = local.DataDir()

		// the local backends are opt in, a bare checkout runs on memory and disk
		if envvar.IsSet(envvar.DYNAMODB_JOBS_TABLE) {
			appConfig.DynamoConfig = dev.DynamoConfig
		}
		if envvar.IsSet(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME) {
			appConfig.CloudStorageConfig = dev.CloudStorageConfig
		}
		if envvar.IsSet(envvar.RABBITMQ_URL) {
			appConfig.RabbitMQURL = dev.RabbitMQHost
			appConfig.RabbitMQQueueName = dev.RabbitMQQueueName
		}

	default:
		panic("Unexpected environment")
	}

	app := application.NewApp(appConfig)

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		<-signals

		log.Info("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.Shutdown(ctx); err != nil {
			cerr.Log(err)
		}
	}()

	if err := app.Start(); err != nil {
		panic(err)
	}
}

func baseConfig(settings config.Settings) application.Config {
	return application.Config{
		DataDir:            settings.DataDir,
		Port:               settings.Port,
		CORSAllowedOrigins: settings.CORSAllowedOrigins,
		Log:                true,
		CleanupDelay:       settings.CleanupDelay,
		MaxUploadBytes:     settings.MaxUploadBytes,
		RetentionPeriod:    settings.RetentionPeriod,
		JanitorInterval:    settings.JanitorInterval,
		Defaults: jobusecase.Options{
			SplitType: splitter.SplitType(settings.DefaultSplitType),
			Engine:    splitter.EngineType(settings.DefaultEngine),
		},
		SpleeterBinPath: config.SpleeterPath(),
		DemucsBinPath:   config.DemucsPath(),
	}
}
