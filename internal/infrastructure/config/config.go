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
	App           AppConfig     `mapstructure:"app"`
	Server        ServerConfig  `mapstructure:"server"`
	TextBackend   BackendConfig `mapstructure:"text_backend"`
	VisionBackend BackendConfig `mapstructure:"vision_backend"`
	Recipe        RecipeConfig  `mapstructure:"recipe"`
	Image         ImageConfig   `mapstructure:"image"`
	Store         StoreConfig   `mapstructure:"store"`
	LogLevel      string        `mapstructure:"log_level"`
	LogMode       string        `mapstructure:"log_mode"`
	LogDir        string        `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// BackendConfig OpenAI 相容的模型後端配置
type BackendConfig struct {
	Name      string        `mapstructure:"name"`
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// RecipeConfig 食譜生成設定
type RecipeConfig struct {
	StrictSchema bool `mapstructure:"strict_schema"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes    int64  `mapstructure:"max_size_bytes"`
	DefaultMIMEType string `mapstructure:"default_mime_type"`
}

// StoreConfig 食譜儲存配置
type StoreConfig struct {
	Driver        string `mapstructure:"driver"` // sqlite | postgres | redis
	DSN           string `mapstructure:"dsn"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
}

// 支援的儲存驅動
var supportedDrivers = map[string]bool{
	"sqlite":   true,
	"postgres": true,
	"redis":    true,
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時直接使用環境變數
	_ = godotenv.Load()

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string][]string{
		"server.port":              {"APP_SERVER_PORT", "PORT"},
		"text_backend.api_key":     {"APP_TEXT_BACKEND_API_KEY", "GROQ_API_KEY"},
		"text_backend.model":       {"APP_TEXT_BACKEND_MODEL", "GROQ_MODEL"},
		"text_backend.base_url":    {"APP_TEXT_BACKEND_BASE_URL", "GROQ_BASE_URL"},
		"vision_backend.api_key":   {"APP_VISION_BACKEND_API_KEY", "VISION_API_KEY"},
		"vision_backend.model":     {"APP_VISION_BACKEND_MODEL", "VISION_MODEL"},
		"vision_backend.base_url":  {"APP_VISION_BACKEND_BASE_URL", "VISION_BASE_URL"},
		"recipe.strict_schema":     {"APP_RECIPE_STRICT_SCHEMA", "RECIPE_STRICT_SCHEMA"},
		"store.driver":             {"APP_STORE_DRIVER", "STORE_DRIVER"},
		"store.dsn":                {"APP_STORE_DSN", "DATABASE_URL"},
		"store.redis_addr":         {"APP_STORE_REDIS_ADDR", "REDIS_ADDR"},
		"store.redis_password":     {"APP_STORE_REDIS_PASSWORD", "REDIS_PASSWORD"},
		"log_level":                {"APP_LOG_LEVEL", "LOG_LEVEL"},
		"log_mode":                 {"APP_LOG_MODE", "LOG_MODE"},
		"log_dir":                  {"APP_LOG_DIR", "LOG_DIR"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	// 設定設定檔名稱和路徑
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "ingredient-recipe")

	// 伺服器設定
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "150s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 10<<20) // 10MB

	// 文字生成後端（Groq）
	v.SetDefault("text_backend.name", "groq")
	v.SetDefault("text_backend.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("text_backend.model", "llama-3.1-8b-instant")
	v.SetDefault("text_backend.max_tokens", 1024)
	v.SetDefault("text_backend.timeout", "60s")

	// 視覺後端（OpenRouter）
	v.SetDefault("vision_backend.name", "openrouter")
	v.SetDefault("vision_backend.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("vision_backend.model", "qwen/qwen2.5-vl-72b-instruct:free")
	v.SetDefault("vision_backend.max_tokens", 512)
	v.SetDefault("vision_backend.timeout", "60s")

	// 食譜設定
	v.SetDefault("recipe.strict_schema", false)

	// 圖片設定
	v.SetDefault("image.max_size_bytes", 8*1024*1024)
	v.SetDefault("image.default_mime_type", "image/jpeg")

	// 儲存設定
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "recipes.db")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.key_prefix", "recipes")

	// 日誌設定
	v.SetDefault("log_level", "info")
	v.SetDefault("log_mode", "")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid server max body bytes")
	}

	// 驗證模型後端設定
	for name, b := range map[string]BackendConfig{
		"text_backend":   config.TextBackend,
		"vision_backend": config.VisionBackend,
	} {
		if b.BaseURL == "" {
			return fmt.Errorf("%s base url is required", name)
		}
		if b.Model == "" {
			return fmt.Errorf("%s model is required", name)
		}
		if b.Timeout <= 0 {
			return fmt.Errorf("invalid %s timeout", name)
		}
	}

	// 驗證圖片設定
	if config.Image.MaxSizeBytes <= 0 {
		return fmt.Errorf("invalid image max size")
	}

	// 驗證儲存設定
	if !supportedDrivers[config.Store.Driver] {
		return fmt.Errorf("unsupported store driver: %q", config.Store.Driver)
	}
	if config.Store.Driver != "redis" && config.Store.DSN == "" {
		return fmt.Errorf("store dsn is required for driver %s", config.Store.Driver)
	}
	if config.Store.Driver == "redis" && config.Store.RedisAddr == "" {
		return fmt.Errorf("store redis addr is required")
	}

	return nil
}
