package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"skydrift/internal/api"
	"skydrift/pkg/audio"
	"skydrift/pkg/cache"
	"skydrift/pkg/config"
	"skydrift/pkg/core"
	"skydrift/pkg/db"
	"skydrift/pkg/imagegen"
	llmgemini "skydrift/pkg/llm/gemini"
	"skydrift/pkg/logging"
	"skydrift/pkg/solar"
	"skydrift/pkg/theme"
	ttsgemini "skydrift/pkg/tts/gemini"
	"skydrift/pkg/version"
	"skydrift/pkg/weather"
)

const configPath = "configs/skydrift.yaml"

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

func main() {
	flag.Parse()

	if *initConfig {
		if _, err := config.Load(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", configPath)
		return
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// .env is optional; the key may come from the environment directly.
	_ = godotenv.Load()
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY not set (put it in .env or the environment)")
	}

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("Skydrift started", "version", version.Version)

	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()

	weatherCache := cache.NewSQLiteCache(dbConn, time.Duration(appCfg.Weather.CacheTTL))
	weatherClient := weather.NewClient(appCfg.Weather.BaseURL, time.Duration(appCfg.Weather.Timeout), weatherCache)
	board := weather.NewBoard()
	solarSvc := solar.NewService()

	themes, err := theme.NewRegistry(appCfg.Theme.Default)
	if err != nil {
		return fmt.Errorf("failed to load themes: %w", err)
	}

	llmClient, err := llmgemini.NewClient(apiKey, appCfg.LLM, "logs/gemini_history.log")
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	defer llmClient.Close()

	speechProv := ttsgemini.NewProvider(llmClient.Raw(), appCfg.TTS)
	imageGen := imagegen.NewGenerator(llmClient.Raw(), appCfg.Image)
	audioMgr := audio.New()
	defer audioMgr.Shutdown()

	pipeline := core.NewPipeline(weatherClient, llmClient, speechProv, imageGen, audioMgr, themes)
	defer pipeline.Shutdown()

	drifter := core.NewDrifter(pipeline, time.Duration(appCfg.Drift.Interval))
	defer drifter.Stop()

	jobs := core.NewJobs(weatherClient, board, solarSvc, dbConn, appCfg.Ticker)
	if err := jobs.Start(); err != nil {
		return fmt.Errorf("failed to start background jobs: %w", err)
	}
	defer jobs.Stop()

	// Live stream wiring: state transitions and spectrum frames go out
	// over the websocket.
	stream := api.NewStreamHandler()
	pipeline.SetOnChange(func(s core.Snapshot) {
		stream.Broadcast("state", s)
	})
	audioMgr.SetFrameSink(func(bins []float64) {
		stream.Broadcast("spectrum", audio.Bars(bins))
	})

	return runServer(ctx, appCfg, pipeline, drifter, board, solarSvc, themes, audioMgr, stream)
}

func runServer(ctx context.Context, cfg *config.Config, pipeline *core.Pipeline, drifter *core.Drifter, board *weather.Board, solarSvc *solar.Service, themes *theme.Registry, audioMgr *audio.Manager, stream *api.StreamHandler) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	shutdownFunc := func() { quit <- syscall.SIGTERM }

	srv := api.NewServer(cfg.Server.Address,
		api.NewReportHandler(pipeline, drifter),
		api.NewBoardHandler(board, solarSvc),
		api.NewThemeHandler(themes),
		stream,
		api.NewAudioHandler(audioMgr),
		shutdownFunc,
	)

	srv.Handler = loggingMiddleware(srv.Handler)
	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
