package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/easelhq/easel/internal/asset"
	"github.com/easelhq/easel/internal/auth"
	"github.com/easelhq/easel/internal/board"
	"github.com/easelhq/easel/internal/config"
	"github.com/easelhq/easel/internal/element"
	"github.com/easelhq/easel/internal/live"
	mw "github.com/easelhq/easel/internal/middleware"
	"github.com/easelhq/easel/internal/typeid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := board.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	authService := auth.NewService(store, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	boardHandler := board.NewHandler(store)

	library, err := asset.NewLibrary(cfg.AssetDir)
	if err != nil {
		slog.Error("open asset library", "error", err)
		os.Exit(1)
	}
	assetHandler := asset.NewHandler(library)

	// Snapshot loader for board rooms.
	load := func(boardID string) ([]*element.Element, error) {
		snap, err := store.LatestSnapshot(context.Background(), boardID)
		if err != nil {
			return nil, err
		}
		var els []*element.Element
		if err := json.Unmarshal(snap.Elements, &els); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		return els, nil
	}

	// Snapshot saver for board rooms.
	save := func(boardID string, els []*element.Element) error {
		data, err := json.Marshal(els)
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		_, err = store.SaveSnapshot(context.Background(), typeid.NewSnapshotID(), boardID, data)
		return err
	}

	hub := live.NewHub(load, save, library)

	origins := strings.Split(cfg.AllowedOrigins, ",")

	r := mux.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Media endpoints
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.Middleware)

	api.HandleFunc("/boards", boardHandler.List).Methods("GET")
	api.HandleFunc("/boards", boardHandler.Create).Methods("POST")
	api.HandleFunc("/boards/{boardId}", boardHandler.Get).Methods("GET")
	api.HandleFunc("/boards/{boardId}", boardHandler.Delete).Methods("DELETE")
	api.HandleFunc("/boards/{boardId}/snapshots/latest", boardHandler.GetLatestSnapshot).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/board/{boardId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, store, origins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop rooms first so every dirty board gets a final snapshot.
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *live.Hub, authSvc *auth.Service, store *board.Store, origins []string) {
	boardID := mux.Vars(r)["boardId"]

	if _, err := store.GetBoard(r.Context(), boardID); err != nil {
		http.Error(w, "board not found", http.StatusNotFound)
		return
	}

	var userID, displayName string
	anonymous := false

	token := auth.TokenFromRequest(r)
	if token == "" {
		// Anonymous spectators may watch; only authenticated clients can
		// hold the editor role.
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
		anonymous = true
	} else {
		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		user, err := authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(origins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := live.NewClient(conn, userID, displayName, boardID, anonymous)
	hub.Join(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// originPatterns strips schemes from the configured origins; websocket
// accept options match on host patterns.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(o), "https://"), "http://")
		if o != "" {
			patterns = append(patterns, o)
		}
	}
	return patterns
}
