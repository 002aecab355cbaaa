package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"wall-panel-server/modules/common/config"
	"wall-panel-server/modules/common/database"
	"wall-panel-server/modules/common/logger"
	redisutil "wall-panel-server/modules/common/redis"
	"wall-panel-server/modules/common/storage"
	"wall-panel-server/modules/common/vertexai"
	"wall-panel-server/modules/composite"
	"wall-panel-server/modules/design"
	"wall-panel-server/modules/panel"
	"wall-panel-server/modules/realtime"
	"wall-panel-server/modules/wallanalysis"
	"wall-panel-server/modules/worker"
)

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "wall-panel-server",
	})
}

type wallAnalyzer interface {
	design.WallAnalyzer
	Close() error
}

// newAnalyzer - VISION_BACKEND에 따라 Gemini API 또는 Vertex AI 선택
func newAnalyzer(ctx context.Context, cfg *config.Config) (wallAnalyzer, error) {
	if cfg.VisionBackend == "vertex" {
		client, err := vertexai.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return wallanalysis.NewVertexAnalyzer(client, cfg.GeminiVisionModel), nil
	}
	return wallanalysis.NewGeminiAnalyzer(ctx, cfg.PrimaryGeminiKey(), cfg.GeminiVisionModel)
}

func main() {
	logger.Setup(os.Getenv("APP_ENV"))

	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load config")
	}
	logger.Setup(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redisutil.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect to Redis")
	}
	defer rdb.Close()

	db, err := database.NewClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize Database client")
	}

	analyzer, err := newAnalyzer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize wall analyzer")
	}
	defer analyzer.Close()

	service := design.NewService(design.Deps{
		Jobs:     db,
		Images:   storage.NewClient(cfg),
		Analyzer: analyzer,
		Editor:   design.NewGeminiEditor(cfg.GeminiAPIKeys, cfg.GeminiImageModel),
		Notifier: design.NewRedisNotifier(rdb),
		Renderer: design.NewRenderer(panel.DefaultCatalog(), panel.DefaultLayoutConfig(), composite.DefaultStyle()),
		Output: design.Output{
			Format:         cfg.OutputFormat,
			WebPQuality:    cfg.WebPQuality,
			EditCanvasSize: cfg.EditCanvasSize,
		},
	})

	// Redis Queue Worker 시작 (백그라운드)
	queue := worker.NewQueue(rdb)
	queueWorker := worker.New(queue, service)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		queueWorker.Run(ctx)
	}()

	// 상태 이벤트 -> WebSocket
	hub := realtime.NewHub()
	go func() {
		if err := hub.Subscribe(ctx, rdb); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("❌ Status subscription stopped")
		}
	}()

	// 라우터 설정
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	worker.NewEnqueueHandler(queue, db).RegisterRoutes(r)
	design.NewHandler(db).RegisterRoutes(r)
	hub.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("🚀 Wall panel server starting")
		log.Info().Msgf("📡 WebSocket endpoint: ws://localhost:%s/ws?job={jobId}", cfg.Port)
		log.Info().Msgf("❤️  Health check: http://localhost:%s/health", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("🛑 Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}

	// 진행 중인 Job은 끝까지 처리
	<-workerDone
	log.Info().Msg("👋 Bye")
}
