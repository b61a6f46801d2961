package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/service"
	"github.com/Cventura12/Clarify-AI-sub000/internal/config"
	openaiproducer "github.com/Cventura12/Clarify-AI-sub000/internal/infrastructure/external/openai"
	"github.com/Cventura12/Clarify-AI-sub000/internal/infrastructure/persistence/repository"
	"github.com/Cventura12/Clarify-AI-sub000/internal/infrastructure/persistence/sqlite"
	"github.com/Cventura12/Clarify-AI-sub000/internal/infrastructure/storage"
	httpserver "github.com/Cventura12/Clarify-AI-sub000/internal/interfaces/http"
	"github.com/Cventura12/Clarify-AI-sub000/pkg/database"
	"github.com/Cventura12/Clarify-AI-sub000/pkg/utils"
)

func main() {
	// Local development convenience; absence of .env is not an error.
	_ = gotenv.Load()

	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting plan execution engine",
		zap.Int("port", cfg.Server.Port),
		zap.String("model", cfg.OpenAI.Model))

	db, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	txManager := sqlite.NewDB(db, logger)

	// Repositories
	requestRepo := repository.NewRequestRepository(db, logger)
	taskRepo := repository.NewTaskRepository(db, logger)
	planRepo := repository.NewPlanRepository(db, logger)
	stepRepo := repository.NewStepRepository(db, logger)
	logRepo := repository.NewExecutionLogRepository(db, logger)
	planRunRepo := repository.NewPlanRunRepository(db, logger)
	artifactRepo := repository.NewArtifactRepository(db, logger)
	profileRepo := repository.NewProfileRepository(db, logger)

	// External adapters
	prompts, err := openaiproducer.LoadPrompts(cfg.OpenAI.PromptsPath)
	if err != nil {
		logger.Fatal("Failed to load prompts", zap.Error(err))
	}
	producer := openaiproducer.NewProducer(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		prompts,
		cfg.OpenAI.Timeout,
		logger,
	)
	artifactStore := storage.NewLocalArtifactStore(cfg.Storage.ArtifactDir, logger)

	// Application services
	serviceLogger := utils.NewSugarAdapter(logger)
	interpretationService := service.NewInterpretationService(producer, requestRepo, taskRepo, txManager, serviceLogger)
	planService := service.NewPlanService(producer, taskRepo, planRepo, stepRepo, txManager, serviceLogger)
	stepService := service.NewStepService(stepRepo, logRepo, serviceLogger)
	executionService := service.NewExecutionService(
		stepRepo, planRepo, taskRepo, requestRepo, profileRepo,
		logRepo, planRunRepo, artifactRepo, artifactStore, serviceLogger,
	)

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		interpretationService,
		planService,
		stepService,
		executionService,
		serviceLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server exited")
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "configs/config.yaml"
}
