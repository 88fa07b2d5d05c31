package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageDisk = "disk"
	StorageR2   = "r2"
)

type Config struct {
	ServerPort string `yaml:"port"`

	MongoURL          string `yaml:"mongo_url"`
	MongoDB           string `yaml:"mongo_db"`
	MongoTransactions bool   `yaml:"mongo_transactions"`

	RedisURL string `yaml:"redis_url"`

	// CORSAllowedOrigins enables CORS for these origins. Empty disables it.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	JWTSecret         string `yaml:"jwt_secret"`
	AccessTokenMaxAge int    `yaml:"access_token_max_age"`

	StorageBackend string `yaml:"storage_backend"`
	AssetsDir      string `yaml:"assets_dir"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes"`

	R2AccountID       string `yaml:"r2_account_id"`
	R2AccessKeyID     string `yaml:"r2_access_key_id"`
	R2SecretAccessKey string `yaml:"r2_secret_access_key"`
	R2BucketName      string `yaml:"r2_bucket_name"`
	R2PublicURL       string `yaml:"r2_public_url"`
}

// Defaults returns the configuration used when neither YAML nor the
// environment set a value.
func Defaults() *Config {
	return &Config{
		ServerPort:        "6001",
		MongoDB:           "sociopedia",
		AccessTokenMaxAge: 86400,
		StorageBackend:    StorageDisk,
		AssetsDir:         "public/assets",
		MaxBodyBytes:      30 << 20,
	}
}

// LoadConfig reads .env, then the optional YAML file named by CONFIG_FILE,
// then the process environment. Later sources win.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	cfg := Defaults()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.ServerPort, "PORT")
	setString(&c.MongoURL, "MONGO_URL")
	setString(&c.MongoDB, "MONGO_DB")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.StorageBackend, "STORAGE_BACKEND")
	setString(&c.AssetsDir, "ASSETS_DIR")

	setString(&c.R2AccountID, "R2_ACCOUNT_ID")
	setString(&c.R2AccessKeyID, "R2_ACCESS_KEY_ID")
	setString(&c.R2SecretAccessKey, "R2_SECRET_ACCESS_KEY")
	setString(&c.R2BucketName, "R2_BUCKET_NAME")
	setString(&c.R2PublicURL, "R2_PUBLIC_URL")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORSAllowedOrigins = splitList(v)
	}

	if v, err := strconv.ParseBool(os.Getenv("MONGO_TRANSACTIONS")); err == nil {
		c.MongoTransactions = v
	}

	accessTokenMaxAge, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_MAX_AGE"))
	if err == nil && accessTokenMaxAge > 0 {
		c.AccessTokenMaxAge = accessTokenMaxAge
	}

	maxBody, err := strconv.ParseInt(os.Getenv("MAX_BODY_BYTES"), 10, 64)
	if err == nil && maxBody > 0 {
		c.MaxBodyBytes = maxBody
	}

	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if c.MongoURL == "" {
		return errors.New("MONGO_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.AccessTokenMaxAge <= 0 {
		return errors.New("ACCESS_TOKEN_MAX_AGE must be positive")
	}

	switch c.StorageBackend {
	case StorageDisk:
		if c.AssetsDir == "" {
			return errors.New("ASSETS_DIR is required for disk storage")
		}
	case StorageR2:
		if c.R2AccountID == "" || c.R2AccessKeyID == "" || c.R2SecretAccessKey == "" || c.R2BucketName == "" || c.R2PublicURL == "" {
			return errors.New("missing Cloudflare R2 configuration")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}
