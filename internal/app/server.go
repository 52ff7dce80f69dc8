package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GoArmGo/BookCatalog/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// runServer запускает HTTP-сервер каталога и блокируется
// до отмены контекста.
func (a *App) runServer(ctx context.Context) error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.cfg.RequestTimeout))
	r.Use(handler.RequestLogger(a.logger))

	// Публичные маршруты.
	r.Post("/signup", a.authHandler.Signup)
	r.Post("/login", a.authHandler.Login)
	r.Get("/books", a.bookHandler.ListBooks)
	r.Get("/books/{id}", a.bookHandler.GetBookByID)
	r.Get("/search", a.bookHandler.SearchBooks)

	// Маршруты, требующие аутентификации.
	r.Group(func(r chi.Router) {
		r.Use(handler.Authenticate(a.tokenVerifier, a.logger))

		r.Post("/books", a.bookHandler.CreateBook)
		r.Post("/books/{id}/cover", a.bookHandler.UploadCover)
		r.Post("/books/{id}/reviews", a.bookHandler.CreateReview)
		r.Put("/reviews/{id}", a.reviewHandler.UpdateReview)
		r.Delete("/reviews/{id}", a.reviewHandler.DeleteReview)
	})

	serverAddr := fmt.Sprintf(":%s", a.cfg.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка HTTP-сервера: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("HTTP server stopped")
	return nil
}
