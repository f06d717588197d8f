package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/orviss/podium/backend/internal/config"
	"github.com/orviss/podium/backend/internal/handler"
	"github.com/orviss/podium/backend/internal/registry"
	"github.com/orviss/podium/backend/internal/service/ai"
	"github.com/orviss/podium/backend/internal/service/conversation"
	idealservice "github.com/orviss/podium/backend/internal/service/ideal"
	"github.com/orviss/podium/backend/internal/service/media"
	"github.com/orviss/podium/backend/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	reg := registry.NewMemoryStore()
	clips := speech.NewClipStore()

	// Initialize AI service for chat and speech improvement
	var aiService *ai.Service
	if cfg.AI.Enabled() {
		aiService, err = ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without chat and improvement functionality")
		} else {
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, skipping AI initialization")
	}

	var chatManager *conversation.Manager
	if aiService != nil {
		chatManager = conversation.NewManager(aiService)
	}

	// Initialize the ideal-speech workflow when both the AI and speech
	// services are available
	var workflow *idealservice.Workflow
	if aiService != nil && cfg.Speech.Enabled {
		speechClient := speech.NewClient(cfg.Speech)
		generator := idealservice.NewSpeechGenerator(speechClient, aiService, speechClient, clips, "/api/ideal/audio")
		fetcher := media.NewHTTPFetcher(cfg.Speech.Timeout)
		workflow = idealservice.NewWorkflow(fetcher, generator)
		log.Println("Ideal speech workflow initialized successfully")
	} else {
		log.Println("Speech service credentials not configured, skipping ideal speech initialization")
	}

	router := handler.NewRouter(reg, chatManager, workflow, clips)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Podium backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
