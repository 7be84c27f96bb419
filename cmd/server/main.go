package main

import (
	"net/http"

	"tictacarena/internal/api"
	"tictacarena/internal/broadcast"
	"tictacarena/internal/config"
	"tictacarena/internal/game"
	"tictacarena/internal/presence"
	"tictacarena/internal/ws"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.ParseEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	store, err := presence.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open presence store")
	}
	defer store.Close()

	// Initialize layers
	registry := broadcast.NewRegistry()
	gameService := game.NewService(game.NewStore())
	dispatcher := ws.NewDispatcher(registry, gameService, store)

	// Setup routes
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	api.NewHandler(store).RegisterRoutes(r)
	ws.NewHandler(dispatcher).RegisterRoutes(r)

	// Serve the bundled client
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/login.html", http.StatusFound)
	})
	r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))

	log.Info().Str("addr", cfg.Addr).Msg("server starting")
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
