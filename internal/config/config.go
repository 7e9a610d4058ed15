package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql or postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	LLM struct {
		Model     string `yaml:"model"`
		APIKeyEnv string `yaml:"apiKeyEnv"`
	} `yaml:"llm"`

	Source struct {
		TokenEnv string `yaml:"tokenEnv"`
		CacheDir string `yaml:"cacheDir"`
	} `yaml:"source"`

	Analysis struct {
		Workers         int           `yaml:"workers"`
		TaskTimeout     time.Duration `yaml:"taskTimeout"`
		MaxRegionBytes  int           `yaml:"maxRegionBytes"`
		MaxExcerptBytes int           `yaml:"maxExcerptBytes"`
	} `yaml:"analysis"`

	Output struct {
		Dir     string   `yaml:"dir"`
		Formats []string `yaml:"formats"`
	} `yaml:"output"`

	Security struct {
		APIKeysEnv      string `yaml:"apiKeysEnv"`
		RateLimitBurst  int    `yaml:"rateLimitBurst"`
		RateLimitPerSec int    `yaml:"rateLimitPerSec"`
	} `yaml:"security"`
}

// Load reads config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4-turbo-preview"
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Source.TokenEnv == "" {
		c.Source.TokenEnv = "GITHUB_TOKEN"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "reports"
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{"json", "md", "html"}
	}
	if c.Security.APIKeysEnv == "" {
		c.Security.APIKeysEnv = "API_KEYS"
	}
	if c.Security.RateLimitBurst == 0 {
		c.Security.RateLimitBurst = 60
	}
	if c.Security.RateLimitPerSec == 0 {
		c.Security.RateLimitPerSec = 10
	}
}

// APIKey resolves the reasoning service API key from the environment
func (c *Config) APIKey() string {
	return os.Getenv(c.LLM.APIKeyEnv)
}

// SourceToken resolves the source host token from the environment
func (c *Config) SourceToken() string {
	return os.Getenv(c.Source.TokenEnv)
}

// InboundAPIKeys resolves the accepted client API keys from the environment,
// comma-separated. Empty means the API runs without auth.
func (c *Config) InboundAPIKeys() []string {
	var keys []string
	for _, k := range strings.Split(os.Getenv(c.Security.APIKeysEnv), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// MySQLDSN builds the MySQL connection string
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds the Postgres connection string
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		ssl,
	)
}
