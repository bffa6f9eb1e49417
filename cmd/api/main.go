package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/centuryrain1980/Autograding/internal/config"
	"github.com/centuryrain1980/Autograding/internal/extract"
	"github.com/centuryrain1980/Autograding/internal/handler"
	"github.com/centuryrain1980/Autograding/internal/middleware"
	"github.com/centuryrain1980/Autograding/internal/models"
	"github.com/centuryrain1980/Autograding/internal/router"
	"github.com/centuryrain1980/Autograding/internal/service"
	"github.com/centuryrain1980/Autograding/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	validate := validator.New(validator.WithRequiredStructEnabled())

	extractor := extract.New(logger)
	documents := store.NewDocumentStore(extractor, logger)
	settings := service.NewSettingsService(models.Settings{
		Provider:  models.Provider(cfg.AIProvider),
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		ModelName: cfg.ModelName,
	}, cfg.DefaultRubric, logger)

	invoker := service.NewAIInvoker(logger)
	orchestrator := service.NewGradingOrchestrator(documents, invoker, settings, logger)
	exporter := service.NewExportService(documents, logger)

	documentHandler := handler.NewDocumentHandler(documents, orchestrator, logger)
	gradingHandler := handler.NewGradingHandler(orchestrator, documents, logger)
	settingsHandler := handler.NewSettingsHandler(settings, validate, logger)
	exportHandler := handler.NewExportHandler(exporter, documents, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		DocumentHandler: documentHandler,
		GradingHandler:  gradingHandler,
		SettingsHandler: settingsHandler,
		ExportHandler:   exportHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, orchestrator)
}

func waitForShutdown(app *fiber.App, orchestrator *service.GradingOrchestrator) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	// In-flight grading calls run to completion; results land in memory and
	// are lost with the session, matching the single-session lifecycle.
	done := make(chan struct{})
	go func() {
		orchestrator.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		log.Println("grading drain timed out")
	}

	log.Println("server stopped")
}
