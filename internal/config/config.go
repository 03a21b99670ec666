package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/advcompro/garage-dashboard/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Gateway   GatewayConfig
	Cache     CacheConfig
	Report    ReportConfig
	Shop      ShopConfig
	Sync      SyncConfig
	Session   SessionConfig
	Notify    NotifyConfig
	Metrics   MetricsConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

// GatewayConfig describes the remote REST API that owns customer and mechanic data
type GatewayConfig struct {
	// BaseURL is the scheme and host of the Gateway, e.g. http://localhost:8000
	BaseURL string
	// APIKey is sent as X-API-Key when set
	APIKey string
	// Timeout bounds every Gateway call (seconds)
	Timeout int
}

// CacheConfig selects the Local Persistence Adapter backend
type CacheConfig struct {
	// Mode is one of memory, local, sqlite, postgres, azure, s3
	Mode string
	// Namespace prefixes every key so several dashboards can share a backend
	Namespace string
	// LocalPath is the directory used by the local file backend
	LocalPath string
	// SQLitePath is the database file used by the sqlite backend
	SQLitePath string
	// AutoMigrate applies the embedded migrations when the SQL backend opens
	AutoMigrate bool
	Postgres    DatabaseConfig
	// AzureConnectionString and AzureContainer configure the azure backend
	AzureConnectionString string
	AzureContainer        string
	// S3 settings configure the s3 backend (AWS S3 or MinIO)
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// ReportConfig controls where reports are computed
type ReportConfig struct {
	// Source is "local" (from the store) or "remote" (Gateway get_report)
	Source string
}

// ShopConfig holds workshop capacity figures shown on the dashboard
type ShopConfig struct {
	MechanicCapacity int
	FixingCapacity   int
}

// SyncConfig controls the periodic Gateway refresh
type SyncConfig struct {
	Enabled      bool
	Cron         string
	Timeout      int
	RunOnStartup bool
}

// SessionConfig holds the dashboard unlock gate settings
type SessionConfig struct {
	Enabled bool
	// PasscodeHash is a bcrypt hash of the shop passcode
	PasscodeHash string
	// SigningKey signs session tokens (HS256)
	SigningKey string
	// TTL is the session lifetime in minutes
	TTL int
}

// NotifyConfig holds the car-ready SMS settings
type NotifyConfig struct {
	Enabled          bool
	TwilioAccountSid string
	TwilioAuthToken  string
	From             string
	Template         string
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	// "auto" uses environment in development, vault in staging/production
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins is a list of allowed origins for CORS requests
	// Use "*" to allow all origins (not recommended for production)
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	// MaxAge is the max age (in seconds) for preflight cache
	MaxAge int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	ReferrerPolicy        string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute is the rate limit per client IP
	RequestsPerMinute int
	// UnlockAttemptsPerMinute limits passcode guesses per client IP
	UnlockAttemptsPerMinute int
	WhitelistIPs            []string
	WhitelistPaths          []string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// TimeoutDuration returns the Gateway call timeout
func (g *GatewayConfig) TimeoutDuration() time.Duration {
	return time.Duration(g.Timeout) * time.Second
}

// TimeoutDuration returns the refresh job timeout
func (s *SyncConfig) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// TTLDuration returns the session lifetime
func (s *SessionConfig) TTLDuration() time.Duration {
	return time.Duration(s.TTL) * time.Minute
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// Load loads configuration from file and environment variables
// This is a basic load that doesn't fetch secrets from vault
// Use LoadWithSecrets for full secret resolution
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Gateway.APIKey == "" {
		cfg.Gateway.APIKey = v.GetString("GATEWAY_API_KEY")
	}
	if cfg.Session.SigningKey == "" {
		cfg.Session.SigningKey = v.GetString("SESSION_SIGNING_KEY")
	}
	if cfg.Session.PasscodeHash == "" {
		cfg.Session.PasscodeHash = v.GetString("SESSION_PASSCODE_HASH")
	}
	if cfg.Notify.TwilioAccountSid == "" {
		cfg.Notify.TwilioAccountSid = v.GetString("TWILIO_ACCOUNT_SID")
	}
	if cfg.Notify.TwilioAuthToken == "" {
		cfg.Notify.TwilioAuthToken = v.GetString("TWILIO_AUTH_TOKEN")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail late at runtime
func (c *Config) Validate() error {
	switch c.Cache.Mode {
	case "memory", "local", "sqlite", "postgres", "azure", "s3":
	default:
		return fmt.Errorf("unsupported cache mode: %s", c.Cache.Mode)
	}
	switch c.Report.Source {
	case "local", "remote":
	default:
		return fmt.Errorf("unsupported report source: %s", c.Report.Source)
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.baseURL is required")
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("gateway.timeout must be positive")
	}
	return nil
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source.
// In development secrets come from env vars; in staging/production they come from
// Azure Key Vault when USE_AZURE_KEY_VAULT=true.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider (USE_AZURE_KEY_VAULT=true requires valid vault): %w", err)
	}

	logger.Info("Loading secrets from Azure Key Vault",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)
	ApplySecrets(ctx, cfg, provider)
	logger.Info("Secrets loaded from vault successfully")

	return cfg, nil
}

// SecretSource is the subset of secrets.Provider used to fill the config
type SecretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error)
}

// ApplySecrets overwrites secret-bearing fields with values from src.
// Missing secrets leave the existing value in place.
func ApplySecrets(ctx context.Context, cfg *Config, src SecretSource) {
	set := func(target *string, secretName, envName string) {
		if value, err := src.GetSecretOrEnv(ctx, secretName, envName); err == nil && value != "" {
			*target = value
		}
	}

	set(&cfg.Gateway.APIKey, "gateway-api-key", "GATEWAY_API_KEY")
	set(&cfg.Session.SigningKey, "session-signing-key", "SESSION_SIGNING_KEY")
	set(&cfg.Session.PasscodeHash, "session-passcode-hash", "SESSION_PASSCODE_HASH")
	set(&cfg.Notify.TwilioAccountSid, "twilio-account-sid", "TWILIO_ACCOUNT_SID")
	set(&cfg.Notify.TwilioAuthToken, "twilio-auth-token", "TWILIO_AUTH_TOKEN")
	set(&cfg.Cache.AzureConnectionString, "cache-azure-connection-string", "CACHE_AZURECONNECTIONSTRING")
	set(&cfg.Cache.Postgres.Password, "cache-postgres-password", "CACHE_POSTGRES_PASSWORD")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Garage Dashboard")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 3001)

	// Gateway defaults
	v.SetDefault("gateway.baseURL", "http://localhost:8000")
	v.SetDefault("gateway.timeout", 10)

	// Cache defaults
	v.SetDefault("cache.mode", "local")
	v.SetDefault("cache.namespace", "garage-dashboard")
	v.SetDefault("cache.localPath", "./data/cache")
	v.SetDefault("cache.sqlitePath", "./data/cache.db")
	v.SetDefault("cache.autoMigrate", true)
	v.SetDefault("cache.postgres.host", "localhost")
	v.SetDefault("cache.postgres.port", 5432)
	v.SetDefault("cache.postgres.name", "advcompro")
	v.SetDefault("cache.postgres.user", "temp")
	v.SetDefault("cache.postgres.password", "temp")
	v.SetDefault("cache.postgres.sslMode", "disable")
	v.SetDefault("cache.postgres.maxOpenConns", 5)
	v.SetDefault("cache.postgres.maxIdleConns", 2)
	v.SetDefault("cache.postgres.connMaxLifetime", 300)
	v.SetDefault("cache.azureContainer", "garage-dashboard")
	v.SetDefault("cache.s3Region", "us-east-1")

	// Report defaults
	v.SetDefault("report.source", "local")

	// Shop defaults
	v.SetDefault("shop.mechanicCapacity", 4)
	v.SetDefault("shop.fixingCapacity", 10)

	// Sync defaults
	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.cron", "@every 5m")
	v.SetDefault("sync.timeout", 30)
	v.SetDefault("sync.runOnStartup", true)

	// Session defaults (disabled until a passcode hash is configured)
	v.SetDefault("session.enabled", false)
	v.SetDefault("session.ttl", 720)

	// Notify defaults
	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.template", "Hi {name}, your {car} ({plate}) is ready for pickup.")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	// CORS defaults - the Next.js dev server
	v.SetDefault("cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	// Security header defaults
	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 300)
	v.SetDefault("rateLimit.unlockAttemptsPerMinute", 5)
	v.SetDefault("rateLimit.whitelistIPs", []string{})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/ready", "/metrics"})
}
