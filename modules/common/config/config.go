package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Redis
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Supabase
	SupabaseURL            string
	SupabaseServiceKey     string
	SupabaseStorageBaseURL string
	SupabaseBucket         string
	DesignsTable           string

	// Gemini API
	GeminiAPIKeys     []string
	GeminiVisionModel string
	GeminiImageModel  string

	// Vision backend: "gemini" (API key) | "vertex"
	VisionBackend           string
	VertexAIProject         string
	VertexAILocation        string
	VertexAICredentialsJSON string
	VertexAICredentialsPath string

	// Server
	Port   string
	AppEnv string

	// Output
	OutputFormat   string // "webp" | "png"
	WebPQuality    float32
	EditCanvasSize int
}

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️  .env file not found, using environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("redis", cfg.GetRedisAddr()).
		Bool("redis_tls", cfg.RedisUseTLS).
		Str("supabase", cfg.SupabaseURL).
		Str("vision_backend", cfg.VisionBackend).
		Str("vision_model", cfg.GeminiVisionModel).
		Str("image_model", cfg.GeminiImageModel).
		Int("gemini_keys", len(cfg.GeminiAPIKeys)).
		Str("output", cfg.OutputFormat).
		Msg("✅ Configuration loaded successfully")

	return cfg, nil
}

// FromEnv builds and validates a Config from the current environment without
// touching .env files or the global config.
func FromEnv() (*Config, error) {
	cfg := &Config{
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   getEnvBool("REDIS_USE_TLS", true),

		SupabaseURL:            strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseServiceKey:     getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBaseURL: getEnv("SUPABASE_STORAGE_BASE_URL", ""),
		SupabaseBucket:         getEnv("SUPABASE_BUCKET", "designs"),
		DesignsTable:           getEnv("SUPABASE_DESIGNS_TABLE", "designs"),

		GeminiAPIKeys:     geminiKeys(),
		GeminiVisionModel: getEnv("GEMINI_VISION_MODEL", "gemini-2.5-flash"),
		GeminiImageModel:  getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),

		VisionBackend:           strings.ToLower(getEnv("VISION_BACKEND", "gemini")),
		VertexAIProject:         getEnv("VERTEXAI_PROJECT", ""),
		VertexAILocation:        getEnv("VERTEXAI_LOCATION", "us-central1"),
		VertexAICredentialsJSON: getEnv("VERTEXAI_CREDENTIALS_JSON", ""),
		VertexAICredentialsPath: getEnv("VERTEXAI_CREDENTIALS_PATH", ""),

		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "production"),

		OutputFormat:   strings.ToLower(getEnv("OUTPUT_FORMAT", "webp")),
		WebPQuality:    float32(getEnvInt("WEBP_QUALITY", 90)),
		EditCanvasSize: getEnvInt("EDIT_CANVAS_SIZE", 1024),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if len(c.GeminiAPIKeys) == 0 {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	switch c.VisionBackend {
	case "gemini":
	case "vertex":
		if c.VertexAIProject == "" {
			return fmt.Errorf("VERTEXAI_PROJECT is required when VISION_BACKEND=vertex")
		}
	default:
		return fmt.Errorf("VISION_BACKEND must be gemini or vertex, got %q", c.VisionBackend)
	}
	if c.OutputFormat != "webp" && c.OutputFormat != "png" {
		return fmt.Errorf("OUTPUT_FORMAT must be webp or png, got %q", c.OutputFormat)
	}
	if c.WebPQuality <= 0 || c.WebPQuality > 100 {
		return fmt.Errorf("WEBP_QUALITY must be in (0, 100]")
	}
	if c.EditCanvasSize < 64 {
		return fmt.Errorf("EDIT_CANVAS_SIZE must be at least 64")
	}
	return nil
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// PrimaryGeminiKey returns the first configured key.
func (c *Config) PrimaryGeminiKey() string {
	if len(c.GeminiAPIKeys) == 0 {
		return ""
	}
	return c.GeminiAPIKeys[0]
}

// geminiKeys - GEMINI_API_KEYS (쉼표 구분) 우선, 없으면 GEMINI_API_KEY
func geminiKeys() []string {
	var keys []string
	for _, k := range strings.Split(os.Getenv("GEMINI_API_KEYS"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		if k := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}
