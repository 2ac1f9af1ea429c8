package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration. It is constructed once by
// Load and passed by reference into every component that needs it.
type Config struct {
	App     App     `mapstructure:"app"`
	Server  Server  `mapstructure:"server"`
	AI      AI      `mapstructure:"ai"`
	Visual  Visual  `mapstructure:"visual"`
	Storage Storage `mapstructure:"storage"`
	Auth    Auth    `mapstructure:"auth"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// Server holds HTTP server configuration
type Server struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	StaticDir    string        `mapstructure:"static_dir"`
	CORS         CORS          `mapstructure:"cors"`
}

// CORS holds CORS middleware configuration
type CORS struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AI holds AI/LLM configuration
type AI struct {
	Gemini Gemini `mapstructure:"gemini"`
	OpenAI OpenAI `mapstructure:"openai"`
}

// Gemini holds Google Gemini configuration. Three models are involved:
// the article model writes long-form output from a video or source text,
// the discovery model runs search-grounded find/research calls, and the
// image model renders illustrations for article markers.
type Gemini struct {
	APIKey         string `mapstructure:"api_key"`
	ArticleModel   string `mapstructure:"article_model"`
	DiscoveryModel string `mapstructure:"discovery_model"`
	ImageModel     string `mapstructure:"image_model"`
}

// OpenAI holds configuration for the alternate OpenAI image provider
type OpenAI struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Visual selects the image generation provider: "gemini" or "openai".
type Visual struct {
	Provider string `mapstructure:"provider"`
}

// Storage holds flat-file storage configuration
type Storage struct {
	DataDir string `mapstructure:"data_dir"`
}

// Auth holds the admin login gate configuration
type Auth struct {
	AdminUser     string        `mapstructure:"admin_user"`
	AdminPass     string        `mapstructure:"admin_pass"`
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	SecureCookies bool          `mapstructure:"secure_cookies"`
}

// Load loads the configuration from config file, environment, and defaults.
func Load(configFile string) (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".cyberscribe")
		v.SetConfigType("yaml")
	}

	setDefaults(v)
	bindEnvironmentVariables(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// A missing session secret gets a random one: sessions then survive only
	// for the lifetime of the process, which is fine for a single node.
	if config.Auth.SessionSecret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		config.Auth.SessionSecret = hex.EncodeToString(buf)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3005)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "10m") // generation runs are slow
	v.SetDefault("server.static_dir", "public")
	v.SetDefault("server.cors.enabled", false)

	// AI defaults
	v.SetDefault("ai.gemini.article_model", "gemini-2.5-pro")
	v.SetDefault("ai.gemini.discovery_model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.image_model", "gemini-2.5-flash-image")
	v.SetDefault("ai.openai.model", "gpt-image-1")
	v.SetDefault("ai.openai.base_url", "https://api.openai.com/v1")

	// Visual defaults
	v.SetDefault("visual.provider", "gemini")

	// Storage defaults
	v.SetDefault("storage.data_dir", "data/posts")

	// Auth defaults
	v.SetDefault("auth.admin_user", "admin")
	v.SetDefault("auth.session_ttl", "168h") // 7 days
	v.SetDefault("auth.secure_cookies", false)
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables(v *viper.Viper) {
	bindEnvKeys(v, "ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys(v, "ai.openai.api_key", []string{
		"OPENAI_API_KEY",
	})

	bindEnvKeys(v, "auth.admin_user", []string{"ADMIN_USER"})
	bindEnvKeys(v, "auth.admin_pass", []string{"ADMIN_PASS"})
	bindEnvKeys(v, "auth.session_secret", []string{"SESSION_SECRET"})

	bindEnvKeys(v, "server.port", []string{"PORT"})
	bindEnvKeys(v, "storage.data_dir", []string{"DATA_DIR"})

	bindEnvKeys(v, "app.debug", []string{"DEBUG", "CYBERSCRIBE_DEBUG"})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(v *viper.Viper, viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			v.Set(viperKey, value)
			return
		}
	}
}

// validateConfig ensures required configuration is present
func validateConfig(config *Config) error {
	var errs []string

	if config.AI.Gemini.APIKey == "" {
		errs = append(errs, "Gemini API key is required. Set GEMINI_API_KEY environment variable or ai.gemini.api_key in config file.\nGet your API key from: https://makersuite.google.com/app/apikey")
	}

	if config.Auth.AdminPass == "" {
		errs = append(errs, "Admin password is required. Set ADMIN_PASS environment variable or auth.admin_pass in config file")
	}

	if config.Visual.Provider != "gemini" && config.Visual.Provider != "openai" {
		errs = append(errs, fmt.Sprintf("Unknown visual provider: %s. Supported: gemini, openai", config.Visual.Provider))
	}

	if config.Visual.Provider == "openai" && config.AI.OpenAI.APIKey == "" {
		errs = append(errs, "OpenAI image provider requires API key. Set OPENAI_API_KEY environment variable")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}
