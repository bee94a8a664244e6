// README: Entry point; loads config, wires the catalog, planner, assistant
// and speech backends, starts the HTTP server.
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

	"tastetrip/internal/ai"
	"tastetrip/internal/assistant"
	"tastetrip/internal/config"
	httptransport "tastetrip/internal/http"
	"tastetrip/internal/infra"
	"tastetrip/internal/logger"
	"tastetrip/internal/maps"
	"tastetrip/internal/modules/poi"
	"tastetrip/internal/modules/session"
	"tastetrip/internal/modules/trip"
	"tastetrip/internal/speech"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	slg := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var poiStore poi.Store
	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatalf("db init: %v", err)
		}
		defer pool.Close()
		poiStore = poi.NewPGStore(pool)
		slg.Info("poi catalog backed by postgres")
	} else {
		poiStore = poi.NewMemStore(poi.Seed())
		slg.Info("poi catalog running from the in-memory seed")
	}
	poiSvc := poi.NewService(poiStore, slg)

	var sessionStore session.Store
	if cfg.Redis.Addr != "" {
		sessionStore = session.NewRedisStore(infra.NewRedis(cfg.Redis.Addr))
		slg.Info("session snapshots backed by redis", "addr", cfg.Redis.Addr)
	} else {
		sessionStore = session.NewMemStore()
	}

	planner := trip.NewPlanner(maps.NewGeocoder(), maps.NewRouteService(), slg)

	var gen ai.Generator
	if cfg.AI.GeminiKey != "" {
		g, err := ai.NewGeminiGenerator(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer g.Close()
		gen = g
	} else {
		slg.Warn("GEMINI_API_KEY not set; running on the deterministic resolver only")
	}
	agent := ai.NewAgent(gen, slg)

	var backends []speech.Synthesizer
	if cfg.Speech.ElevenLabsKey != "" {
		backends = append(backends, speech.NewElevenLabs(cfg.Speech.ElevenLabsKey))
	}
	if cfg.Speech.GoogleTTSKey != "" {
		backends = append(backends, speech.NewGoogleTTS(cfg.Speech.GoogleTTSKey))
	}
	synth := speech.NewChain(slg, backends...)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		POIs:    poiSvc,
		Planner: planner,
		Assistant: assistant.Config{
			Agent:    agent,
			Planner:  planner,
			POIs:     poiSvc,
			Synth:    synth,
			Store:    sessionStore,
			Log:      slg,
			Disabled: !cfg.Assist.Enabled,
		},
		AdminKey: cfg.AdminKey,
		Log:      slg,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slg.Info("tastetrip api listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
