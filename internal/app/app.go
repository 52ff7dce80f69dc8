package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/BookCatalog/internal/config"
	"github.com/GoArmGo/BookCatalog/internal/core/ports"
	"github.com/GoArmGo/BookCatalog/internal/database/client"
	"github.com/GoArmGo/BookCatalog/internal/handler"
)

// App — собранное приложение. Запускается либо как HTTP-сервер
// каталога, либо как воркер событий отзывов.
type App struct {
	cfg      *config.Config
	dbClient *client.Client

	authHandler   *handler.AuthHandler
	bookHandler   *handler.BookHandler
	reviewHandler *handler.ReviewHandler
	tokenVerifier handler.TokenVerifier

	eventConsumer ports.ReviewEventConsumer
	eventStorage  ports.EventStorage

	logger *slog.Logger
}

// NewApp создаёт приложение из уже собранных зависимостей.
func NewApp(
	cfg *config.Config,
	dbClient *client.Client,
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
	reviewHandler *handler.ReviewHandler,
	tokenVerifier handler.TokenVerifier,
	eventConsumer ports.ReviewEventConsumer,
	eventStorage ports.EventStorage,
	logger *slog.Logger,
) *App {
	return &App{
		cfg:           cfg,
		dbClient:      dbClient,
		authHandler:   authHandler,
		bookHandler:   bookHandler,
		reviewHandler: reviewHandler,
		tokenVerifier: tokenVerifier,
		eventConsumer: eventConsumer,
		eventStorage:  eventStorage,
		logger:        logger,
	}
}

// Run запускает приложение в указанном режиме и блокируется
// до сигнала завершения.
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("application starting", "mode", mode)

	var err error
	switch mode {
	case "server":
		err = a.runServer(ctx)
	case "worker":
		err = a.runWorker(ctx)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}
	if err != nil {
		return err
	}

	a.logger.Info("shutting down")

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown error", "error", closeErr)
	}

	a.logger.Info("stopped cleanly")
	return nil
}

// Shutdown закрывает все ресурсы приложения.
func (a *App) Shutdown() error {
	if a.dbClient != nil {
		if err := a.dbClient.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия БД: %w", err)
		}
	}

	if closer, ok := a.eventConsumer.(interface{ Close() }); ok {
		closer.Close()
	}

	return nil
}
