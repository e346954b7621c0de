package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/user/frontier-trail/config"
	"github.com/user/frontier-trail/internal/game"
	"github.com/user/frontier-trail/internal/push"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	flag.Parse()

	// Set up logger
	logger := setupLogger()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize game manager
	gameManager, err := game.NewGameManager(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize game manager", zap.Error(err))
	}
	gameManager.SetLogger(logger)

	// Wire the websocket push hub
	hub := push.NewHub(logger)
	gameManager.SetNotifier(hub)

	// Set up HTTP server
	server := setupHTTPServer(cfg, gameManager, hub, logger)

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Start periodic persistence
	autoSaver := game.NewAutoSaver(gameManager, time.Duration(cfg.Board.AutosaveSeconds)*time.Second, logger)
	autoSaver.Start()
	defer autoSaver.Stop()

	// Wait for shutdown signal
	waitForShutdown(logger)
}

func setupLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

func setupHTTPServer(cfg config.Config, gameManager *game.GameManager, hub *push.Hub, logger *zap.Logger) *http.Server {
	// Create router
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Session lifecycle
	router.Post("/sessions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerCount int `json:"player_count"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		snapshot, err := gameManager.StartSession(req.PlayerCount)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, snapshot)
	})

	router.Get("/sessions/{session_id}/snapshot", func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := gameManager.Snapshot(chi.URLParam(r, "session_id"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, snapshot)
	})

	// Turn flow
	router.Post("/sessions/{session_id}/roll", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ActorID string `json:"actor_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		outcome, err := gameManager.AdvanceTurnByRoll(chi.URLParam(r, "session_id"), req.ActorID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, outcome)
	})

	router.Post("/sessions/{session_id}/decision", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ActorID        string `json:"actor_id"`
			ChosenTile     int    `json:"chosen_tile"`
			StepsRemaining int    `json:"steps_remaining"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		outcome, err := gameManager.SubmitDecision(chi.URLParam(r, "session_id"), req.ActorID, req.ChosenTile, req.StepsRemaining)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, outcome)
	})

	// Battle actions
	router.Post("/sessions/{session_id}/battle/action", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ActorID string `json:"actor_id"`
			Action  string `json:"action"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		view, err := gameManager.SubmitBattleAction(chi.URLParam(r, "session_id"), req.ActorID, req.Action)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, view)
	})

	// Items and shop
	router.Post("/sessions/{session_id}/items/use", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ActorID  string `json:"actor_id"`
			ItemID   int    `json:"item_id"`
			TargetID string `json:"target_id"`
			Value    int    `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if err := gameManager.UseItem(chi.URLParam(r, "session_id"), req.ActorID, req.ItemID, req.TargetID, req.Value); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	router.Post("/sessions/{session_id}/items/obtain", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ActorID string `json:"actor_id"`
			ItemID  int    `json:"item_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if err := gameManager.ObtainItem(chi.URLParam(r, "session_id"), req.ActorID, req.ItemID); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	router.Post("/sessions/{session_id}/shop/buy", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ActorID string `json:"actor_id"`
			ItemID  int    `json:"item_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if err := gameManager.BuyShopItem(chi.URLParam(r, "session_id"), req.ActorID, req.ItemID); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// Server-push event stream
	router.Get("/ws", hub.HandleWS)

	return &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func waitForShutdown(logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("Shutting down")
}
