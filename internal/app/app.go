package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"tomekeeper/backend/features/document"
	"tomekeeper/backend/features/kb"
	"tomekeeper/backend/features/stats"
	"tomekeeper/backend/internal/adapter/gemini"
	"tomekeeper/backend/internal/adapter/whisper"
	"tomekeeper/backend/internal/config"
	"tomekeeper/backend/internal/embed"
	"tomekeeper/backend/internal/middleware"
	"tomekeeper/backend/internal/processor"
	"tomekeeper/backend/internal/runner"
	"tomekeeper/backend/internal/taskq"
	"tomekeeper/backend/internal/vector"
	"tomekeeper/backend/internal/video"
)

type App struct {
	Handler  http.Handler
	Consumer *runner.Consumer

	port int
}

func New(ctx context.Context, cfg *config.Config, db *sql.DB, vectors *vector.Store, taskPub taskq.EventPublisher) (*App, error) {
	// Embedding provider
	embedder, err := embed.NewEmbedder(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("embedder init: %w", err)
	}

	// Video pipeline
	summarizer, err := gemini.NewSummarizer(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("summarizer init: %w", err)
	}
	transcriber := whisper.NewClient(cfg.OpenAIAPIKey, cfg.TranscriptionURL)
	pipeline := video.NewPipeline(
		video.NewFFmpeg(cfg.FFmpegPath),
		transcriber,
		summarizer,
		cfg.AudioSegmentSeconds,
		cfg.TranscribeConcurrency,
		time.Duration(cfg.SummaryTimeoutSeconds)*time.Second,
	)
	dispatcher := processor.NewDispatcher(cfg.ChunkMaxChars, processor.NewVideoProcessor(pipeline))

	// Repositories
	kbRepo := kb.NewPostgresRepo(db)
	docRepo := document.NewPostgresRepo(db)
	taskRepo := taskq.NewPostgresRepo(db)

	// Task queue
	queue := taskq.NewQueue(taskRepo, taskPub)

	// Feature: Knowledge Base
	kbService := kb.NewService(kbRepo, vectors)
	kbHandler := kb.NewHandler(kbService)

	// Feature: Document
	docService := document.NewService(docRepo, kbRepo, queue, vectors, cfg.UploadDir)
	docHandler := document.NewHandler(docService, cfg.MaxUploadSizeMB<<20)

	// Feature: Stats
	statsHandler := stats.NewHandler(kbRepo, docRepo)

	// Middleware: CORS
	enableCORS := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	// Routes
	mux := http.NewServeMux()

	mux.Handle("POST /kb", middleware.CorrelationID(enableCORS(kbHandler.Create)))
	mux.Handle("GET /kb", middleware.CorrelationID(enableCORS(kbHandler.List)))
	mux.Handle("GET /kb/{id}", middleware.CorrelationID(enableCORS(kbHandler.Get)))
	mux.Handle("DELETE /kb/{id}", middleware.CorrelationID(enableCORS(kbHandler.Delete)))

	mux.Handle("POST /kb/{id}/documents", middleware.CorrelationID(enableCORS(docHandler.Upload)))
	mux.Handle("GET /kb/{id}/documents", middleware.CorrelationID(enableCORS(docHandler.List)))

	mux.Handle("POST /documents/{id}/process", middleware.CorrelationID(enableCORS(docHandler.Process)))
	mux.Handle("GET /documents/{id}/status", middleware.CorrelationID(enableCORS(docHandler.Status)))
	mux.Handle("GET /documents/{id}/chunks", middleware.CorrelationID(enableCORS(docHandler.Chunks)))
	mux.Handle("DELETE /documents/{id}", middleware.CorrelationID(enableCORS(docHandler.Delete)))

	mux.Handle("GET /stats", middleware.CorrelationID(enableCORS(statsHandler.GetStats)))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Runner consumer
	consumer := runner.NewConsumer(docRepo, taskRepo, dispatcher, embedder, vectors)

	return &App{
		Handler:  mux,
		Consumer: consumer,
		port:     cfg.ServerPort,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: a.Handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
