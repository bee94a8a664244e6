// README: Config loader with env defaults for HTTP, storage and the AI and
// speech backends. Optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		// Empty DSN runs the catalog from the in-memory seed.
		DSN string
	}
	Redis struct {
		// Empty address keeps session snapshots in process memory.
		Addr string
	}
	AI struct {
		// Empty key disables the model path; the assistant still works
		// on the deterministic resolver.
		GeminiKey string
	}
	Speech struct {
		ElevenLabsKey string
		GoogleTTSKey  string
	}
	Assist struct {
		// Pre-launch gate; disabled sessions greet with a coming-soon
		// message and never listen.
		Enabled bool
	}
	AdminKey string
	LogLevel string
}

func Load() (Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("TASTETRIP_HTTP_ADDR", ":8080")
	cfg.DB.DSN = os.Getenv("TASTETRIP_DB_DSN")
	cfg.Redis.Addr = os.Getenv("TASTETRIP_REDIS_ADDR")
	cfg.AI.GeminiKey = os.Getenv("GEMINI_API_KEY")
	cfg.Speech.ElevenLabsKey = os.Getenv("ELEVENLABS_API_KEY")
	cfg.Speech.GoogleTTSKey = os.Getenv("GOOGLE_TTS_API_KEY")
	cfg.Assist.Enabled = envOrDefaultBool("TASTETRIP_ASSIST_ENABLED", true)
	cfg.AdminKey = os.Getenv("TASTETRIP_ADMIN_KEY")
	cfg.LogLevel = envOrDefault("TASTETRIP_LOG_LEVEL", "info")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
