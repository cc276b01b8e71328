package main

import (
	"context"
	"fmt"
	"github.com/charmbracelet/log"
	"go.uber.org/fx"
	"io"
	"net/http"
	"org_relay/dal"
	"org_relay/index"
	"org_relay/logic"
	"org_relay/server"
	"org_relay/shared"
	"org_relay/texts"
	"os"
)

type initErrorHandler struct {
}

func (*initErrorHandler) HandleError(err error) {
	fmt.Fprintf(os.Stderr, "Failed to initialize dependency injection\n%v", err)
}

var logger *log.Logger

func main() {

	cfg := shared.LoadConfig()
	provideConfig := func() *shared.Config {
		return cfg
	}

	logger = initLogger(cfg)
	provideLogger := func() shared.ILogger {
		return logger
	}

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			provideConfig,
			provideLogger,
			server.NewHTTPServer,
			fx.Annotate(server.NewMux, fx.ParamTags(`group:"handler_group"`)),
			shared.NewUserAgent,
			texts.NewTexts,
			dal.NewRepo,
			index.NewIndexManager,
			logic.NewMetrics,
			logic.NewFetcher,
			logic.NewFeedValidator,
			logic.NewFeedCrawler,
			logic.NewRelaySync,
			logic.NewFollowDiscovery,
			logic.NewStalePruner,
			logic.NewNotifier,
			logic.NewRegistrar,
			logic.NewScheduler,
			asHandlerGroupDef(server.NewRelayHandlerGroup),
			asHandlerGroupDef(server.NewRssHandlerGroup),
			asHandlerGroupDef(server.NewStreamHandlerGroup),
			asHandlerGroupDef(server.NewApiHandlerGroup),
			asHandlerGroupDef(server.NewMetricsHandlerGroup),
		),
		fx.Invoke(
			func(repo dal.IRepo) { repo.InitUpdateDb() },
			registerHooks,
			func(*http.Server) {},
		),
		fx.ErrorHook(&initErrorHandler{}),
	)
	app.Run()
}

func asHandlerGroupDef(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(server.IHandlerGroup)),
		fx.ResultTags(`group:"handler_group"`),
	)
}

func initLogger(cfg *shared.Config) *log.Logger {

	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
		if err != nil {
			msg := fmt.Sprintf("Failed to open log file '%v': %v", cfg.LogFile, err)
			log.Fatal(msg)
		}
		out = io.MultiWriter(os.Stdout, logFile)
	}

	logger := log.New(out)
	logger.SetReportTimestamp(true)
	logger.SetTimeFormat("2006-01-02 15:04:05.000")
	switch cfg.LogLevel {
	case "Debug":
		logger.SetLevel(log.DebugLevel)
	case "Info":
		logger.SetLevel(log.InfoLevel)
	case "Warn":
		logger.SetLevel(log.WarnLevel)
	case "Error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.ErrorLevel)
	}
	logger.SetReportCaller(true)

	return logger
}

func registerHooks(
	lc fx.Lifecycle,
	metrics logic.IMetrics,
	indexMgr index.IIndexManager,
	scheduler logic.IScheduler,
) {
	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				logger.Printf("Application starting up")
				metrics.ServiceStarted()
				// Serve what the store already holds until the first scan completes
				if err := indexMgr.Rebuild(ctx); err != nil {
					logger.Errorf("Initial index build failed: %v", err)
				}
				scheduler.Start()
				return nil
			},
			OnStop: func(context.Context) error {
				logger.Printf("Application shutting down")
				scheduler.Stop()
				return nil
			},
		},
	)
}
