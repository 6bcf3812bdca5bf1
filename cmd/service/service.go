package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "internship_service/config"

	"internship_service/internal/app"
	"internship_service/internal/repository"
	"internship_service/internal/server/httpapi"
	"internship_service/internal/service"
	"internship_service/pkg/db"
	"internship_service/pkg/kafka"
	"internship_service/pkg/logger"

	_ "github.com/lib/pq"
)

func main() {
	log := logger.New()
	defer log.Sync() //nolint:errcheck

	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConfig := db.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	}

	pg, err := db.NewPostgres(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	taskRepo := repository.NewTaskRepository(pg.DB())
	submissionRepo := repository.NewSubmissionRepository(pg.DB())

	rosterClient := app.NewRosterClient(
		cfg.Services.StudentService.Address,
		cfg.Services.StudentService.Timeout,
	)
	fileClient := app.NewFileClient(
		cfg.Services.FileService.Address,
		cfg.Services.FileService.Timeout,
	)

	kafkaProducer, err := kafka.NewProducer(kafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	if err != nil {
		log.Fatalf("Failed to create Kafka producer: %v", err)
	}
	defer kafkaProducer.Close()

	resolver := service.NewAssignmentResolver(rosterClient)

	taskService := service.NewTaskService(taskRepo, submissionRepo, rosterClient)
	submissionService := service.NewSubmissionService(
		submissionRepo,
		taskRepo,
		rosterClient,
		fileClient,
		kafkaProducer,
		log,
	)
	reviewService := service.NewReviewService(submissionRepo, kafkaProducer, log)
	monitoringService := service.NewMonitoringService(taskRepo, submissionRepo, resolver)

	handler := httpapi.NewHandler(
		taskService,
		submissionService,
		reviewService,
		monitoringService,
		log,
	)
	server := httpapi.NewServer(handler, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := NewReminderWorker(
		taskRepo,
		submissionRepo,
		resolver,
		kafkaProducer,
		log,
		cfg.Worker.ReminderInterval,
		cfg.Worker.DueSoonWindow,
	)
	go worker.Start(ctx)

	go func() {
		log.Infof("Starting HTTP server on %s", cfg.HTTP.Address)
		if err := server.Start(cfg.HTTP.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Failed to shut down cleanly: %v", err)
	}
	log.Info("Server stopped")
}
