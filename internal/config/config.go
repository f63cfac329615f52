package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Upload backends.
const (
	UploadBackendLocal = "local"
	UploadBackendS3    = "s3"
)

var (
	ErrSecretKeyRequired = errors.New("SECRET_KEY must be set")
	ErrAlgorithmRequired = errors.New("ALGORITHM must be set")
)

// Config holds process-wide settings. It is built once at startup and passed
// by value to the components that need it.
type Config struct {
	Port           string        `yaml:"port"`
	Env            string        `yaml:"env"`
	LogLevel       string        `yaml:"log_level"`
	APIPrefix      string        `yaml:"api_prefix"`
	RequestTimeout time.Duration `yaml:"-"`
	CORSOrigins    []string      `yaml:"cors_allowed_origins"`

	Auth     Auth     `yaml:"auth"`
	Database Database `yaml:"database"`
	Upload   Upload   `yaml:"upload"`

	// Raw values decoded from YAML; folded into the typed fields by Load.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

// Auth configures password hashing, token signing and login throttling.
type Auth struct {
	SecretKey          string        `yaml:"secret_key"`
	Algorithm          string        `yaml:"algorithm"`
	TokenExpiryMinutes int           `yaml:"access_token_expire_minutes"`
	TokenExpiry        time.Duration `yaml:"-"`
	HashCost           int           `yaml:"hash_cost"`
	RateLimitRPS       float64       `yaml:"rate_limit_rps"`
	RateLimitBurst     int           `yaml:"rate_limit_burst"`
}

// Database holds MySQL connection parameters.
type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Upload selects and configures the inspection image store.
type Upload struct {
	Backend        string `yaml:"backend"`
	Dir            string `yaml:"dir"`
	MaxBytes       int64  `yaml:"max_bytes"`
	S3Bucket       string `yaml:"s3_bucket"`
	S3Region       string `yaml:"s3_region"`
	S3Endpoint     string `yaml:"s3_endpoint"`
	S3AccessKey    string `yaml:"s3_access_key"`
	S3SecretKey    string `yaml:"s3_secret_key"`
	S3UsePathStyle bool   `yaml:"s3_use_path_style"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Port:                  "8080",
		Env:                   "development",
		LogLevel:              "info",
		APIPrefix:             "/auth",
		RequestTimeoutSeconds: 30,
		CORSOrigins:           []string{"*"},
		Auth: Auth{
			TokenExpiryMinutes: 60,
			HashCost:           12,
			RateLimitRPS:       5,
			RateLimitBurst:     10,
		},
		Database: Database{
			Host: "127.0.0.1",
			Port: 3306,
			User: "root",
			Name: "tyrecheck",
		},
		Upload: Upload{
			Backend:  UploadBackendLocal,
			Dir:      "uploads",
			MaxBytes: 10 << 20,
			S3Region: "us-east-1",
		},
	}
}

// Load reads configuration from defaults, the optional YAML file named by
// CONFIG_FILE and the environment, in that order of precedence.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Defaults()

	if path := getenv("CONFIG_FILE"); path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	e := envReader{getenv: getenv}
	cfg.Port = e.str("PORT", cfg.Port)
	cfg.Env = e.str("ENV", cfg.Env)
	cfg.LogLevel = e.str("LOG_LEVEL", cfg.LogLevel)
	cfg.APIPrefix = e.str("API_PREFIX", cfg.APIPrefix)
	cfg.RequestTimeoutSeconds = e.int("REQUEST_TIMEOUT_SECONDS", cfg.RequestTimeoutSeconds)
	cfg.CORSOrigins = e.list("CORS_ALLOWED_ORIGINS", cfg.CORSOrigins)

	cfg.Auth.SecretKey = e.str("SECRET_KEY", cfg.Auth.SecretKey)
	cfg.Auth.Algorithm = e.str("ALGORITHM", cfg.Auth.Algorithm)
	cfg.Auth.TokenExpiryMinutes = e.int("ACCESS_TOKEN_EXPIRE_MINUTES", cfg.Auth.TokenExpiryMinutes)
	cfg.Auth.HashCost = e.int("HASH_COST", cfg.Auth.HashCost)
	cfg.Auth.RateLimitRPS = e.float("AUTH_RATE_LIMIT_RPS", cfg.Auth.RateLimitRPS)
	cfg.Auth.RateLimitBurst = e.int("AUTH_RATE_LIMIT_BURST", cfg.Auth.RateLimitBurst)

	cfg.Database = e.database(cfg.Database)

	cfg.Upload.Backend = e.str("UPLOAD_BACKEND", cfg.Upload.Backend)
	cfg.Upload.Dir = e.str("UPLOAD_DIR", cfg.Upload.Dir)
	cfg.Upload.MaxBytes = int64(e.int("UPLOAD_MAX_BYTES", int(cfg.Upload.MaxBytes)))
	cfg.Upload.S3Bucket = e.str("S3_BUCKET", cfg.Upload.S3Bucket)
	cfg.Upload.S3Region = e.str("S3_REGION", cfg.Upload.S3Region)
	cfg.Upload.S3Endpoint = e.str("S3_ENDPOINT", cfg.Upload.S3Endpoint)
	cfg.Upload.S3AccessKey = e.str("S3_ACCESS_KEY", cfg.Upload.S3AccessKey)
	cfg.Upload.S3SecretKey = e.str("S3_SECRET_KEY", cfg.Upload.S3SecretKey)
	cfg.Upload.S3UsePathStyle = e.bool("S3_USE_PATH_STYLE", cfg.Upload.S3UsePathStyle)

	if e.err != nil {
		return Config{}, e.err
	}

	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	cfg.Auth.TokenExpiry = time.Duration(cfg.Auth.TokenExpiryMinutes) * time.Minute

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDatabase reads only the database settings from the environment. It is
// used by tools that do not need the signing secret.
func LoadDatabase() (Database, error) {
	e := envReader{getenv: os.Getenv}
	db := e.database(Defaults().Database)
	return db, e.err
}

func (e *envReader) database(db Database) Database {
	db.Host = e.str("DB_HOST", db.Host)
	db.Port = e.int("DB_PORT", db.Port)
	db.User = e.str("DB_USERNAME", db.User)
	db.Password = e.str("DB_PASSWORD", db.Password)
	db.Name = e.str("DB_NAME", db.Name)
	return db
}

func (c Config) validate() error {
	if c.Auth.SecretKey == "" {
		return ErrSecretKeyRequired
	}
	if c.Auth.Algorithm == "" {
		return ErrAlgorithmRequired
	}
	if c.Auth.TokenExpiryMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", c.Auth.TokenExpiryMinutes)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %d", c.RequestTimeoutSeconds)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.Upload.MaxBytes)
	}
	switch c.Upload.Backend {
	case UploadBackendLocal:
		if c.Upload.Dir == "" {
			return errors.New("UPLOAD_DIR must be set for the local upload backend")
		}
	case UploadBackendS3:
		if c.Upload.S3Bucket == "" {
			return errors.New("S3_BUCKET must be set for the s3 upload backend")
		}
	default:
		return fmt.Errorf("unknown UPLOAD_BACKEND %q", c.Upload.Backend)
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decoding config file: %w", err)
	}
	return nil
}

// envReader collects the first parse error so Load can report it once.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) str(key, fallback string) string {
	if v := e.getenv(key); v != "" {
		return v
	}
	return fallback
}

func (e *envReader) int(key string, fallback int) int {
	v := e.getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(fmt.Errorf("%s must be an integer: %w", key, err))
		return fallback
	}
	return n
}

func (e *envReader) float(key string, fallback float64) float64 {
	v := e.getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(fmt.Errorf("%s must be a number: %w", key, err))
		return fallback
	}
	return f
}

func (e *envReader) bool(key string, fallback bool) bool {
	v := e.getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(fmt.Errorf("%s must be a boolean: %w", key, err))
		return fallback
	}
	return b
}

func (e *envReader) list(key string, fallback []string) []string {
	v := e.getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (e *envReader) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}
