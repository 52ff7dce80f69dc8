package di

import (
	"github.com/GoArmGo/BookCatalog/internal/adapter/storage/minio"
	"github.com/GoArmGo/BookCatalog/internal/app"
	"github.com/GoArmGo/BookCatalog/internal/auth"
	"github.com/GoArmGo/BookCatalog/internal/config"
	"github.com/GoArmGo/BookCatalog/internal/database/client"
	"github.com/GoArmGo/BookCatalog/internal/database/storage"
	"github.com/GoArmGo/BookCatalog/internal/handler"
	"github.com/GoArmGo/BookCatalog/internal/logger"
	"github.com/GoArmGo/BookCatalog/internal/rabbitmq"
	"github.com/GoArmGo/BookCatalog/internal/usecase"

	"github.com/go-playground/validator/v10"
)

// Лимит одновременных загрузок обложек.
const maxConcurrentUploads = 5

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(service string) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: service,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Инициализация PostgreSQL клиента (с миграциями)
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 3. Инициализация хранилищ
	bookStorage := storage.NewBookStorage(dbClient.DB, slogger)
	reviewStorage := storage.NewReviewStorage(dbClient.DB, slogger)
	userStorage := storage.NewUserStorage(dbClient.DB, slogger)
	eventStorage := storage.NewEventStorage(dbClient.DB, slogger)

	// 4. Инициализация клиентов внешних сервисов
	fileStorage, err := minio.NewMinioClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 5. Инициализация RabbitMQ клиента (publisher и consumer — один клиент)
	rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 6. Аутентификация
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTokenTTL)

	// 7. Инициализация бизнес-логики (usecases)
	catalogUseCase := usecase.NewCatalogUseCase(bookStorage, reviewStorage, fileStorage, slogger)
	reviewUseCase := usecase.NewReviewUseCase(reviewStorage, rabbitMQClient, slogger)
	authUseCase := usecase.NewAuthUseCase(userStorage, tokenManager, slogger)

	// 8. Создание лимитера загрузок
	uploadLimiter := make(chan struct{}, maxConcurrentUploads)

	// 9. HTTP-обработчики
	validate := validator.New()
	authHandler := handler.NewAuthHandler(authUseCase, validate, slogger)
	bookHandler := handler.NewBookHandler(catalogUseCase, reviewUseCase, uploadLimiter, validate, slogger)
	reviewHandler := handler.NewReviewHandler(reviewUseCase, validate, slogger)

	// 10. Сборка итогового приложения
	application := app.NewApp(
		cfg,
		dbClient,
		authHandler,
		bookHandler,
		reviewHandler,
		tokenManager,
		rabbitMQClient,
		eventStorage,
		slogger,
	)

	slogger.Info("all dependencies initialized")
	return application, nil
}
