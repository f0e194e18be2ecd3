package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	ReadModel  ReadModelConfig  `mapstructure:"readmodel"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Suggestion SuggestionConfig `mapstructure:"suggestion"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	LogLevel   string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// CatalogConfig 食譜目錄來源設定
type CatalogConfig struct {
	Path    string        `mapstructure:"path"`    // 本地 JSON 檔案路徑
	URL     string        `mapstructure:"url"`     // 遠端 JSON 來源（優先於 path）
	Timeout time.Duration `mapstructure:"timeout"` // 遠端載入逾時
}

// ReadModelConfig 讀取模型快取設定
type ReadModelConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	MaxSize int           `mapstructure:"max_size"` // 最多快取的用戶數
	TTL     time.Duration `mapstructure:"ttl"`
}

// RedisConfig 讀取模型的 Redis 二級快取設定
type RedisConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// SuggestionConfig 購物建議設定
type SuggestionConfig struct {
	DefaultTopK int `mapstructure:"default_top_k"`
	MaxTopK     int `mapstructure:"max_top_k"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件
	if err := godotenv.Load(); err != nil {
		return nil, err
	}

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("catalog.path", "CATALOG_PATH")
	viper.BindEnv("catalog.url", "CATALOG_URL")
	viper.BindEnv("readmodel.enabled", "READMODEL_ENABLED")
	viper.BindEnv("readmodel.ttl", "READMODEL_TTL")
	viper.BindEnv("redis.enabled", "READMODEL_REDIS_ENABLED")
	viper.BindEnv("redis.addr", "READMODEL_REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("suggestion.default_top_k", "SUGGESTION_TOP_K")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "pantry-chef")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 目錄來源設定
	viper.SetDefault("catalog.path", "data/recipes.json")
	viper.SetDefault("catalog.url", "")
	viper.SetDefault("catalog.timeout", "30s")

	// 讀取模型設定
	viper.SetDefault("readmodel.enabled", true)
	viper.SetDefault("readmodel.max_size", 1000)
	viper.SetDefault("readmodel.ttl", "24h")

	// Redis 設定
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.ttl", "24h")

	// 購物建議設定
	viper.SetDefault("suggestion.default_top_k", 5)
	viper.SetDefault("suggestion.max_top_k", 20)

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證目錄來源
	if config.Catalog.Path == "" && config.Catalog.URL == "" {
		return fmt.Errorf("catalog path or url is required")
	}

	// 驗證讀取模型設定
	if config.ReadModel.Enabled {
		if config.ReadModel.MaxSize <= 0 {
			return fmt.Errorf("invalid readmodel max size")
		}
		if config.ReadModel.TTL <= 0 {
			return fmt.Errorf("invalid readmodel ttl")
		}
	}

	// 驗證購物建議設定
	if config.Suggestion.DefaultTopK <= 0 {
		return fmt.Errorf("invalid suggestion default top k")
	}
	if config.Suggestion.MaxTopK < config.Suggestion.DefaultTopK {
		return fmt.Errorf("suggestion max top k must be >= default top k")
	}

	return nil
}
