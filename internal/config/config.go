package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	LLM        LLMConfig
	Generation GenerationConfig
	Store      StoreConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Session    SessionConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigins string
}

type LoggerConfig struct {
	Level string
	Env   string
}

// LLMConfig selects the remote question generator.
// Provider is one of "gemini", "ollama" or "openai".
type LLMConfig struct {
	Provider    string
	APIKey      string
	Model       string
	ServerURL   string
	Timeout     time.Duration
	Temperature float64
}

type GenerationConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

// StoreConfig selects the slice store backend: "memory", "sqlite" or "redis".
type StoreConfig struct {
	Backend    string
	SQLitePath string
	KeyPrefix  string
}

// RedisConfig.Address is either host:port or a redis:// or rediss:// URL.
type RedisConfig struct {
	Address     string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	AdminEmail     string
	OAuth          OAuthConfig
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	LogoutURL    string
	Scopes       []string
}

type SessionConfig struct {
	ResultTTL time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "20s")
	v.SetDefault("server.allow_origins", "*")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-pro")
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.temperature", 0.7)

	v.SetDefault("generation.max_retries", 3)
	v.SetDefault("generation.retry_delay", "2s")

	v.SetDefault("store.backend", "sqlite")
	v.SetDefault("store.sqlite_path", "quiz-maker.db")
	v.SetDefault("store.key_prefix", "quizmaker")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")

	v.SetDefault("auth.access_token_ttl", "24h")
	v.SetDefault("auth.oauth.scopes", []string{"openid", "profile", "email"})

	v.SetDefault("session.result_ttl", "1h")
}

// LoadConfig reads config.yaml from the given directories (or the defaults ".", "./config",
// "./configs"), a .env file if present, and environment overrides such as LLM_API_KEY.
func LoadConfig(paths ...string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config", "./configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !asConfigNotFound(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			AllowOrigins: v.GetString("server.allow_origins"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			APIKey:      v.GetString("llm.api_key"),
			Model:       v.GetString("llm.model"),
			ServerURL:   v.GetString("llm.server_url"),
			Timeout:     v.GetDuration("llm.timeout"),
			Temperature: v.GetFloat64("llm.temperature"),
		},
		Generation: GenerationConfig{
			MaxRetries: v.GetInt("generation.max_retries"),
			RetryDelay: v.GetDuration("generation.retry_delay"),
		},
		Store: StoreConfig{
			Backend:    strings.ToLower(v.GetString("store.backend")),
			SQLitePath: v.GetString("store.sqlite_path"),
			KeyPrefix:  v.GetString("store.key_prefix"),
		},
		Redis: RedisConfig{
			Address:     v.GetString("redis.address"),
			Password:    v.GetString("redis.password"),
			DB:          v.GetInt("redis.db"),
			PoolSize:    v.GetInt("redis.pool_size"),
			DialTimeout: v.GetDuration("redis.dial_timeout"),
		},
		Auth: AuthConfig{
			JWTSecret:      v.GetString("auth.jwt_secret"),
			AccessTokenTTL: v.GetDuration("auth.access_token_ttl"),
			AdminEmail:     v.GetString("auth.admin_email"),
			OAuth: OAuthConfig{
				ClientID:     v.GetString("auth.oauth.client_id"),
				ClientSecret: v.GetString("auth.oauth.client_secret"),
				RedirectURL:  v.GetString("auth.oauth.redirect_url"),
				AuthURL:      v.GetString("auth.oauth.auth_url"),
				TokenURL:     v.GetString("auth.oauth.token_url"),
				UserInfoURL:  v.GetString("auth.oauth.userinfo_url"),
				LogoutURL:    v.GetString("auth.oauth.logout_url"),
				Scopes:       v.GetStringSlice("auth.oauth.scopes"),
			},
		},
		Session: SessionConfig{
			ResultTTL: v.GetDuration("session.result_ttl"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func asConfigNotFound(err error, target *viper.ConfigFileNotFoundError) bool {
	nf, ok := err.(viper.ConfigFileNotFoundError)
	if ok {
		*target = nf
	}
	return ok
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "ollama", "openai":
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}
	switch c.Store.Backend {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("unsupported store.backend %q", c.Store.Backend)
	}
	if c.Generation.MaxRetries < 0 {
		return fmt.Errorf("generation.max_retries must not be negative")
	}
	return nil
}
