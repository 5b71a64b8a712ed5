package services

import (
	"log/slog"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	AI          AIConfig
	JWT         JWTConfig
	WebSocket   WebSocketConfig
	CORS        CORSConfig
	Video       VideoConfig
	Chat        ChatConfig
	Environment string
	LogLevel    string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL      string
	Seed     bool
	LogLevel string
	MaxConns int
}

type AIConfig struct {
	GeminiAPIKey      string
	Model             string
	RequestsPerMinute int
	Burst             int
}

type JWTConfig struct {
	Secret string
}

type WebSocketConfig struct {
	AllowedOrigins string
}

type CORSConfig struct {
	AllowedOrigins string
}

// VideoConfig points at the hosted video-room provider. Empty APIKey disables rooms.
type VideoConfig struct {
	APIKey  string
	BaseURL string
}

// ChatConfig holds the chat provider credentials used to sign user tokens
type ChatConfig struct {
	APIKey    string
	APISecret string
}

// IsProduction reports whether cookies should be marked secure
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ShouldSeed reports whether demo accounts may be created. Production never seeds.
func (c *Config) ShouldSeed() bool {
	return c.Database.Seed && !c.IsProduction()
}

// LoadConfig loads configuration from environment variables and config files
func LoadConfig() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("environment", "development")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("websocket.allowed_origins", "")
	viper.SetDefault("cors.allowed_origins", "")
	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.model", DefaultModelName)
	viper.SetDefault("ai.requests_per_minute", 10)
	viper.SetDefault("ai.burst", 3)
	viper.SetDefault("jwt.secret", "")
	viper.SetDefault("database.url", "")
	viper.SetDefault("database.seed", false)
	viper.SetDefault("database.log_level", "silent")
	viper.SetDefault("database.max_conns", 20)
	viper.SetDefault("video.api_key", "")
	viper.SetDefault("video.base_url", "https://api.daily.co/v1")
	viper.SetDefault("chat.api_key", "")
	viper.SetDefault("chat.api_secret", "")

	// Map environment variables to config keys
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("environment", "ENVIRONMENT")
	viper.BindEnv("log.level", "LOG_LEVEL")
	viper.BindEnv("websocket.allowed_origins", "WEBSOCKET_ALLOWED_ORIGINS")
	viper.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "GEMINI_MODEL")
	viper.BindEnv("ai.requests_per_minute", "AI_REQUESTS_PER_MINUTE")
	viper.BindEnv("ai.burst", "AI_BURST")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("database.seed", "DATABASE_SEED")
	viper.BindEnv("database.log_level", "DATABASE_LOG_LEVEL")
	viper.BindEnv("database.max_conns", "DATABASE_MAX_CONNS")
	viper.BindEnv("video.api_key", "VIDEO_API_KEY")
	viper.BindEnv("video.base_url", "VIDEO_BASE_URL")
	viper.BindEnv("chat.api_key", "CHAT_API_KEY")
	viper.BindEnv("chat.api_secret", "CHAT_API_SECRET")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("Config file not found, using defaults and environment variables")
		} else {
			slog.Error("Error reading config file", "error", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
		},
		Database: DatabaseConfig{
			URL:      viper.GetString("database.url"),
			Seed:     viper.GetBool("database.seed"),
			LogLevel: viper.GetString("database.log_level"),
			MaxConns: viper.GetInt("database.max_conns"),
		},
		AI: AIConfig{
			GeminiAPIKey:      viper.GetString("gemini.api_key"),
			Model:             viper.GetString("gemini.model"),
			RequestsPerMinute: viper.GetInt("ai.requests_per_minute"),
			Burst:             viper.GetInt("ai.burst"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("jwt.secret"),
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins: viper.GetString("websocket.allowed_origins"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetString("cors.allowed_origins"),
		},
		Video: VideoConfig{
			APIKey:  viper.GetString("video.api_key"),
			BaseURL: viper.GetString("video.base_url"),
		},
		Chat: ChatConfig{
			APIKey:    viper.GetString("chat.api_key"),
			APISecret: viper.GetString("chat.api_secret"),
		},
		Environment: viper.GetString("environment"),
		LogLevel:    viper.GetString("log.level"),
	}
}
