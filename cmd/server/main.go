package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/hiring-backend/internal/config"
	"github.com/ignatzorin/hiring-backend/internal/db"
	httpRouter "github.com/ignatzorin/hiring-backend/internal/http/router"
	"github.com/ignatzorin/hiring-backend/internal/infrastructure/document"
	"github.com/ignatzorin/hiring-backend/internal/infrastructure/functions"
	"github.com/ignatzorin/hiring-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/hiring-backend/internal/interface/http/handler"
	"github.com/ignatzorin/hiring-backend/internal/logger"
	"github.com/ignatzorin/hiring-backend/internal/realtime"
	"github.com/ignatzorin/hiring-backend/internal/seed"
	"github.com/ignatzorin/hiring-backend/internal/storage"
	"github.com/ignatzorin/hiring-backend/internal/usecase/admin"
	"github.com/ignatzorin/hiring-backend/internal/usecase/assessment"
	"github.com/ignatzorin/hiring-backend/internal/usecase/auth"
	"github.com/ignatzorin/hiring-backend/internal/usecase/candidate"
	"github.com/ignatzorin/hiring-backend/internal/usecase/job"
	"github.com/ignatzorin/hiring-backend/internal/usecase/training"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.IsProduction())

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.PoolOptions{MaxOpenConns: cfg.DBMaxOpenConns})
	if err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	applied, err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка миграций")
	}
	logger.Log.WithField("applied", applied).Info("main: миграции проверены")

	// Репозитории.
	userRepo := persistence.NewUserRepositoryAdapter(dbConn)
	candidateRepo := persistence.NewCandidateRepositoryAdapter(dbConn)
	activityRepo := persistence.NewActivityRepositoryAdapter(dbConn)
	jobRepo := persistence.NewJobRepositoryAdapter(dbConn)
	assessmentRepo := persistence.NewAssessmentRepositoryAdapter(dbConn)
	trainingRepo := persistence.NewTrainingRepositoryAdapter(dbConn)

	if cfg.SeedPath != "" {
		fixtures, err := seed.Load(cfg.SeedPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("main: не удалось прочитать сиды")
		}
		if _, err := seed.NewSeeder(userRepo, jobRepo, assessmentRepo, trainingRepo).Apply(ctx, fixtures); err != nil {
			logger.Log.WithError(err).Fatal("main: не удалось применить сиды")
		}
	}

	// Инфраструктура.
	documents, err := storage.NewDocumentStorage(cfg.DocumentStoragePath, cfg.PublicBaseURL, cfg.MaxResumeSizeMB, cfg.MaxVideoSizeMB)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: не удалось подготовить хранилище документов")
	}
	extractor := document.NewExtractor()
	remote := functions.NewClient(cfg.FunctionsBaseURL, cfg.FunctionsAPIKey, cfg.FunctionsTimeout)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	hub := realtime.NewHub()
	go hub.Run(ctx)
	notifier := realtime.NewNotifier(hub)

	handlers := httpRouter.Handlers{
		Health: handler.NewHealthHandler(dbConn),
		Auth: handler.NewAuthHandler(
			auth.NewRegisterUseCase(userRepo, candidateRepo, activityRepo, tokens),
			auth.NewLoginUseCase(userRepo, tokens),
			auth.NewRefreshUseCase(userRepo, tokens),
			auth.NewMeUseCase(userRepo, candidateRepo),
		),
		Candidate: handler.NewCandidateHandler(handler.CandidateUseCases{
			Dashboard:      candidate.NewDashboardUseCase(candidateRepo, activityRepo),
			Upload:         candidate.NewUploadDocumentUseCase(candidateRepo, activityRepo, documents, extractor, notifier),
			UpdateProfile:  candidate.NewUpdateProfileUseCase(candidateRepo, notifier),
			ApplyToJob:     candidate.NewApplyToJobUseCase(candidateRepo, jobRepo, activityRepo, notifier),
			Get:            candidate.NewGetCandidateUseCase(candidateRepo),
			List:           candidate.NewListCandidatesUseCase(candidateRepo),
			ListActivities: candidate.NewListActivitiesUseCase(candidateRepo, activityRepo),
			UpdateStatus:   candidate.NewUpdateStatusUseCase(candidateRepo, activityRepo, notifier, remote),
			AssignManager:  candidate.NewAssignManagerUseCase(candidateRepo, userRepo, activityRepo, notifier),
			Delete:         candidate.NewDeleteCandidateUseCase(candidateRepo, documents, notifier),
			Export:         candidate.NewExportCandidatesUseCase(candidateRepo),
		}),
		Assessment: handler.NewAssessmentHandler(handler.AssessmentUseCases{
			Create:      assessment.NewCreateAssessmentUseCase(assessmentRepo),
			Generate:    assessment.NewGenerateQuestionsUseCase(remote),
			List:        assessment.NewListAssessmentsUseCase(assessmentRepo),
			Get:         assessment.NewGetAssessmentUseCase(assessmentRepo),
			Start:       assessment.NewStartAssessmentUseCase(candidateRepo, assessmentRepo, notifier),
			Submit:      assessment.NewSubmitAssessmentUseCase(candidateRepo, assessmentRepo, activityRepo, notifier),
			Review:      assessment.NewReviewResultUseCase(assessmentRepo, activityRepo, notifier),
			ListResults: assessment.NewListResultsUseCase(candidateRepo, assessmentRepo),
		}),
		Training: handler.NewTrainingHandler(handler.TrainingUseCases{
			Get:          training.NewGetTrainingUseCase(candidateRepo, trainingRepo),
			MarkWatched:  training.NewMarkVideoWatchedUseCase(candidateRepo, trainingRepo),
			SubmitQuiz:   training.NewSubmitQuizUseCase(candidateRepo, trainingRepo, activityRepo, notifier),
			CreateModule: training.NewCreateModuleUseCase(trainingRepo),
			ListModules:  training.NewListModulesUseCase(trainingRepo),
		}),
		Job: handler.NewJobHandler(
			job.NewCreateJobUseCase(jobRepo),
			job.NewListJobsUseCase(jobRepo),
			job.NewGetJobUseCase(jobRepo),
			job.NewCloseJobUseCase(jobRepo),
		),
		Admin: handler.NewAdminHandler(
			admin.NewChangeEmailUseCase(userRepo, candidateRepo, remote),
			admin.NewChangeRoleUseCase(userRepo),
			admin.NewCreateStaffUseCase(userRepo),
		),
		Realtime: handler.NewRealtimeHandler(hub, tokens, candidateRepo, cfg.AllowedOrigins),
	}

	engine := httpRouter.SetupRouter(cfg, documents.Root(), tokens, handlers)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	logger.Log.WithFields(logrus.Fields{"port": cfg.HTTPPort, "env": cfg.Env}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Warn("main: ошибка закрытия базы")
	}
}
