package server

import (
	"context"
	"errors"

	"github.com/rakeshcr92/InsiderNet/pkg/config"
	xhttp "github.com/rakeshcr92/InsiderNet/pkg/http"
	pkgkafka "github.com/rakeshcr92/InsiderNet/pkg/kafka"
	applogger "github.com/rakeshcr92/InsiderNet/pkg/logger"
)

// Consumer is the part of pkg/kafka.Consumer the app drives.
type Consumer interface {
	RegisterHandler(h pkgkafka.MessageHandler)
	Start() error
	Stop(ctx context.Context) error
}

// App runs the request worker: a Kafka consumer feeding the pipeline plus
// the operational HTTP server.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	consumer   Consumer
	handler    pkgkafka.MessageHandler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	consumer Consumer,
	handler pkgkafka.MessageHandler,
	httpServer *xhttp.Server,
) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		log:        log,
		consumer:   consumer,
		handler:    handler,
		httpServer: httpServer,
	}
}

// Run starts the application and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.consumer == nil || a.handler == nil {
		return errors.New("app: consumer and handler are required")
	}

	if a.httpServer != nil {
		if err := a.httpServer.Start(); err != nil {
			a.log.Error("http server start error", applogger.Error(err))
			return err
		}
	}

	a.consumer.RegisterHandler(a.handler)
	if err := a.consumer.Start(); err != nil {
		a.log.Error("kafka consumer start error", applogger.Error(err))
		a.stopHTTP()
		return err
	}
	a.log.Info("pipeline worker started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("topic", a.handler.Topic()),
		applogger.Strings("brokers", a.cfg.Kafka.Brokers),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the consumer first so in-flight runs finish, then the HTTP server.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var err error
	if cerr := a.consumer.Stop(ctx); cerr != nil {
		a.log.Warn("kafka consumer stop error", applogger.Error(cerr))
		err = cerr
	}
	a.stopHTTP()

	a.log.Info("shutdown complete")
	return err
}

func (a *App) stopHTTP() {
	if a.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}
}
