package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Narrative   NarrativeConfig   `yaml:"narrative"`
	Places      PlacesConfig      `yaml:"places"`
	Venues      VenueConfig       `yaml:"venues"`
	Recommend   RecommendConfig   `yaml:"recommend"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// NarrativeConfig 总结文案生成方式: "template" 或 "llm"
type NarrativeConfig struct {
	Renderer string `yaml:"renderer"`
}

// PlacesConfig 地理编码与场馆查询提供方
type PlacesConfig struct {
	Provider  string          `yaml:"provider"`
	Nominatim NominatimConfig `yaml:"nominatim"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

// NominatimConfig OpenStreetMap Nominatim 配置
type NominatimConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	Timeout   int    `yaml:"timeout"`
}

// CatalogConfig 本地场馆目录 (YAML 文件)
type CatalogConfig struct {
	File string `yaml:"file"`
}

// VenueConfig 场馆匹配参数
type VenueConfig struct {
	MaxResults int     `yaml:"max_results"`
	RadiusKm   float64 `yaml:"radius_km"`
	// TimeoutSeconds 单次查询超时
	TimeoutSeconds int `yaml:"timeout_seconds"`
	CacheSize      int `yaml:"cache_size"`
}

// Timeout 返回单次查询超时
func (c VenueConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RecommendConfig 推荐参数
type RecommendConfig struct {
	PerAttribute int `yaml:"per_attribute"`
	Limit        int `yaml:"limit"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS     int `yaml:"qps"`
	RPM     int `yaml:"rpm"`
	Workers int `yaml:"workers"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults 为未配置的字段填充默认值
func (c *Config) ApplyDefaults() {
	if c.Narrative.Renderer == "" {
		c.Narrative.Renderer = "template"
	}
	if c.Places.Nominatim.BaseURL == "" {
		c.Places.Nominatim.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if c.Places.Nominatim.UserAgent == "" {
		c.Places.Nominatim.UserAgent = "progress-insight/1.0"
	}
	if c.Venues.MaxResults <= 0 {
		c.Venues.MaxResults = 3
	}
	if c.Venues.RadiusKm <= 0 {
		c.Venues.RadiusKm = 15
	}
	if c.Venues.TimeoutSeconds <= 0 {
		c.Venues.TimeoutSeconds = 5
	}
	if c.Venues.CacheSize <= 0 {
		c.Venues.CacheSize = 512
	}
	if c.Recommend.PerAttribute <= 0 {
		c.Recommend.PerAttribute = 2
	}
	if c.Recommend.Limit <= 0 {
		c.Recommend.Limit = 8
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 60
	}
	if c.Concurrency.Workers <= 0 {
		c.Concurrency.Workers = 4
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
}
