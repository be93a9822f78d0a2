package application

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/janitor"
	jobentity "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/entity"
	jobevents "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/events"
	jobgateway "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/gateway"
	jobstorage "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/storage"
	jobusecase "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/usecase"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/config"
	dynamolib "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/dynamo"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/executor"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/rabbitmq"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/working_dir"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/cleanup"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/model"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pipeline"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/store"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/upload"
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"
)

type HTTPMethod string

const (
	GET  HTTPMethod = "GET"
	POST HTTPMethod = "POST"
)

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}

	return t
}

type App struct {
	echo    *echo.Echo
	port    string
	cleanup *cleanup.Manager
	janitor *janitor.Janitor
	closers []io.Closer
}

type Config struct {
	DataDir            string
	Port               string
	CORSAllowedOrigins []string
	Log                bool

	CleanupDelay    time.Duration
	MaxUploadBytes  int64
	RetentionPeriod time.Duration
	JanitorInterval time.Duration
	Defaults        jobusecase.Options

	SpleeterBinPath string
	DemucsBinPath   string
	// Executor runs the separation tools. Nil runs the real binaries.
	Executor executor.Executor
	// ModelLoader builds the in-process model. Nil runs demucs per request.
	ModelLoader model.Loader

	// nil keeps job records in memory
	DynamoConfig config.Dynamo
	// nil keeps per-stem files in the data dir
	CloudStorageConfig config.CloudStorage
	// empty disables job events
	RabbitMQURL       string
	RabbitMQQueueName string
}

func NewApp(config Config) App {
	e := echo.New()
	e.HideBanner = true

	if config.Log {
		e.Use(middleware.Logger())
	}

	corsMiddleware := makeCorsMiddleware(config)

	handleRoute := func(method HTTPMethod, path string, handlerFunc echo.HandlerFunc) {
		params := func() (string, echo.HandlerFunc, echo.MiddlewareFunc) {
			return path, handlerFunc, corsMiddleware
		}

		e.OPTIONS(params())

		switch method {
		case GET:
			e.GET(params())
		case POST:
			e.POST(params())
		default:
			panic("unhandled http method!")
		}
	}

	workingDir := must(working_dir.NewWorkingDir(config.DataDir))
	if err := workingDir.Ensure(); err != nil {
		panic(err)
	}

	app := App{
		echo:    e,
		port:    config.Port,
		cleanup: cleanup.NewManager(config.CleanupDelay),
	}

	jobStore := makeJobStore(config.DynamoConfig)
	stemStore, removeLocalStems := makeStemStore(config.CloudStorageConfig, workingDir)
	if closer, ok := stemStore.(io.Closer); ok {
		app.closers = append(app.closers, closer)
	}

	notifier := makeNotifier(config, &app)
	jobGateway := makeJobGateway(config, workingDir, app.cleanup, jobStore, stemStore, removeLocalStems, notifier)

	app.janitor = janitor.NewJanitor(workingDir, jobStore, stemStore, janitor.Config{
		Retention: config.RetentionPeriod,
		Interval:  config.JanitorInterval,
	})

	// health check
	handleRoute(GET, "/health-check", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// separation routes
	handleRoute(POST, "/process", jobGateway.Process)
	handleRoute(POST, "/separate", jobGateway.Separate)
	handleRoute(GET, "/jobs/:id/stems/:stem", func(c echo.Context) error {
		jobID := c.Param("id")
		stem := c.Param("stem")
		return jobGateway.GetStem(c, jobID, stem)
	})

	return app
}

func (a *App) Start() error {
	a.janitor.Start()

	err := a.echo.Start(a.port)
	if err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "Couldn't start echo server")
	}

	return nil
}

// Handler exposes the routes without binding a port.
func (a *App) Handler() http.Handler {
	return a.echo
}

// Stop closes the server, then waits for the janitor and any pending cleanup
// before releasing backends.
func (a *App) Stop() error {
	err := a.echo.Close()
	if err != nil {
		return errors.Wrap(err, "Failed to stop echo server")
	}

	a.janitor.Stop()
	a.cleanup.Wait()

	for _, closer := range a.closers {
		if err := closer.Close(); err != nil {
			log.WithError(err).Warn("Failed to close backend")
		}
	}

	return nil
}

// Shutdown is Stop with in-flight requests allowed to finish first.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.echo.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "Failed to shut down echo server")
	}

	return a.Stop()
}

func makeJobStore(dynamoConfig config.Dynamo) jobentity.Store {
	switch t := dynamoConfig.(type) {
	case nil:
		return jobstorage.NewMemoryStore()

	case config.ProdDynamo:
		db := dynamolib.NewDynamoDB(dynamolib.Credentials{
			AccessKeyID:     t.AccessKeyID,
			SecretAccessKey: t.SecretAccessKey,
			Region:          t.Region,
		})
		return jobstorage.NewDynamoStore(db, t.TableName)

	case config.LocalDynamo:
		db := dynamolib.NewDynamoDB(dynamolib.Credentials{
			AccessKeyID:     t.AccessKeyID,
			SecretAccessKey: t.SecretAccessKey,
			Region:          t.Region,
			Host:            t.Host,
		})
		return jobstorage.NewDynamoStore(db, t.TableName)

	default:
		panic("Unexpected dynamo config type")
	}
}

// makeStemStore also reports whether local stem files can go once stored.
func makeStemStore(cloudStorageConfig config.CloudStorage, workingDir working_dir.WorkingDir) (store.Store, bool) {
	switch t := cloudStorageConfig.(type) {
	case nil:
		return store.NewLocalStemStore(workingDir.OutputDir()), false

	case config.ProdCloudStorage:
		return must(store.NewGoogleStemStore(
			t.BucketName,
			option.WithCredentialsJSON([]byte(t.SecretKey)),
		)), true

	case config.LocalCloudStorage:
		return must(store.NewGoogleStemStore(
			t.BucketName,
			option.WithEndpoint(t.HostEndpoint),
			option.WithoutAuthentication(),
		)), true

	default:
		panic("Unrecognized cloud storage config")
	}
}

func makeNotifier(config Config, app *App) jobevents.Notifier {
	if config.RabbitMQURL == "" {
		return jobevents.NoopNotifier{}
	}

	publisher, err := rabbitmq.NewQueuePublisher(config.RabbitMQURL, config.RabbitMQQueueName)
	if err != nil {
		panic(errors.Wrap(err, "Failed to create rabbitMQ publisher"))
	}

	app.closers = append(app.closers, publisher)
	return jobevents.NewRabbitMQNotifier(publisher)
}

func makeExecutor(config Config) executor.Executor {
	if config.Executor != nil {
		return config.Executor
	}

	return executor.BinaryFileExecutor{}
}

func makeArchivePipeline(config Config, workingDir working_dir.WorkingDir, cleanupManager *cleanup.Manager) pipeline.ArchivePipeline {
	fileSplitter := must(splitter.NewLocalFileSplitter(
		workingDir.Root(),
		config.SpleeterBinPath,
		config.DemucsBinPath,
		makeExecutor(config),
	))

	return pipeline.NewArchivePipeline(workingDir, fileSplitter, cleanupManager)
}

func makeStemPipeline(config Config, workingDir working_dir.WorkingDir, cleanupManager *cleanup.Manager, stemStore store.Store, removeLocalStems bool) pipeline.StemPipeline {
	loader := config.ModelLoader
	if loader == nil {
		loader = model.NewToolModelLoader(workingDir.TempDir(), config.DemucsBinPath, makeExecutor(config))
	}

	separator := model.NewSeparator(model.NewHolder(loader))

	return pipeline.NewStemPipeline(workingDir, separator, stemStore, cleanupManager, pipeline.StemPipelineConfig{
		RemoveLocalStems: removeLocalStems,
	})
}

func makeJobGateway(
	config Config,
	workingDir working_dir.WorkingDir,
	cleanupManager *cleanup.Manager,
	jobStore jobentity.Store,
	stemStore store.Store,
	removeLocalStems bool,
	notifier jobevents.Notifier,
) jobgateway.Gateway {
	jobUsecase := jobusecase.NewUsecase(
		upload.NewReceiver(workingDir.UploadsDir(), config.MaxUploadBytes),
		makeArchivePipeline(config, workingDir, cleanupManager),
		makeStemPipeline(config, workingDir, cleanupManager, stemStore, removeLocalStems),
		jobStore,
		stemStore,
		notifier,
		jobusecase.Config{
			Defaults:  config.Defaults,
			Retention: config.RetentionPeriod,
		},
	)

	return jobgateway.NewGateway(jobUsecase, config.MaxUploadBytes)
}

func makeCorsMiddleware(config Config) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  config.CORSAllowedOrigins,
		AllowHeaders:  []string{echo.HeaderContentType},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	})
}
