package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Consul   ConsulConfig   `json:"consul"`
	Jaeger   JaegerConfig   `json:"jaeger"`
	Auth     AuthConfig     `json:"auth"`
	Sweep    SweepConfig    `json:"sweep"`
	Log      LogConfig      `json:"log"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Name     string `json:"name"`      // 服务名称
	Host     string `json:"host"`      // 监听地址
	HTTPPort int    `json:"http_port"` // HTTP端口
	// CORSOrigin 允许的前端来源（开发环境默认 localhost:5173）
	CORSOrigin string `json:"cors_origin"`
	// RateLimit 每秒允许的请求数（<=0 表示不限流）
	RateLimit int64 `json:"rate_limit"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string `json:"host"`     // 数据库地址
	Port     int    `json:"port"`     // 数据库端口
	User     string `json:"user"`     // 用户名
	Password string `json:"password"` // 密码
	Database string `json:"database"` // 数据库名
	MaxIdle  int    `json:"max_idle"` // 最大空闲连接
	MaxOpen  int    `json:"max_open"` // 最大打开连接
}

// ConsulConfig Consul配置
type ConsulConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// JaegerConfig Jaeger配置
type JaegerConfig struct {
	Endpoint string  `json:"endpoint"`
	Sampler  float64 `json:"sampler"` // 采样率 0.0-1.0
}

// AuthConfig 鉴权配置（HS256 JWT）
type AuthConfig struct {
	Enabled   bool   `json:"enabled"`
	JWTSecret string `json:"jwt_secret"`
	Issuer    string `json:"issuer"`
	Audience  string `json:"audience"`
	// TokenTTLMinutes 签发的 access token 有效期（分钟）
	TokenTTLMinutes int `json:"token_ttl_minutes"`
	// PublicActions 无需登录即可访问的 action 名单
	PublicActions []string `json:"public_actions"`
}

// TokenTTL 返回 token 有效期，未配置时默认 24 小时。
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// SweepConfig 预约状态批量推进（sweep）配置
type SweepConfig struct {
	// IntervalSeconds 两次 sweep 之间的间隔（秒），<=0 使用默认值
	IntervalSeconds int `json:"interval_seconds"`
}

// Interval 返回 sweep 周期，默认 60 秒。
func (s SweepConfig) Interval() time.Duration {
	if s.IntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(s.IntervalSeconds) * time.Second
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, file
	Path   string `json:"path"`   // 日志文件路径
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configErr    error
)

// parseConfig 解析 JSON 配置（文件加载与 Consul KV 加载共用）。
func parseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig 加载配置。
// 首次加载失败后重复调用返回同一个错误，不会把半初始化的配置当成功放出去。
func LoadConfig(configPath string) (*Config, error) {
	configOnce.Do(func() {
		// 如果配置文件不存在，使用默认配置
		if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
			logrus.Warnf("Config file not found: %s, using default config", configPath)
			globalConfig = defaultConfig()
			return
		}

		data, readErr := os.ReadFile(configPath)
		if readErr != nil {
			configErr = fmt.Errorf("failed to read config file: %w", readErr)
			return
		}

		cfg, parseErr := parseConfig(data)
		if parseErr != nil {
			configErr = parseErr
			return
		}
		globalConfig = cfg
	})

	if configErr != nil {
		return nil, configErr
	}
	return globalConfig, nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	if globalConfig == nil {
		return defaultConfig()
	}
	return globalConfig
}

// defaultConfig 默认配置（开发环境）
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:       "rental-service",
			Host:       "0.0.0.0",
			HTTPPort:   8080,
			CORSOrigin: "http://localhost:5173",
			RateLimit:  100,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "root",
			Database: "drivelinkrental",
			MaxIdle:  10,
			MaxOpen:  100,
		},
		Consul: ConsulConfig{
			Host: "localhost",
			Port: 8500,
		},
		Jaeger: JaegerConfig{
			Endpoint: "http://localhost:14268/api/traces",
			Sampler:  1.0,
		},
		Auth: AuthConfig{
			Enabled:         true,
			JWTSecret:       "dev-secret-change-me",
			Issuer:          "drivelinkrental",
			Audience:        "drivelinkrental",
			TokenTTLMinutes: 24 * 60,
			PublicActions: []string{
				"registerUser", "loginUser",
				"getAllCars", "searchCars", "getRandomCars", "getCarById",
				"getAllBranches",
			},
		},
		Sweep: SweepConfig{
			IntervalSeconds: 60,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
			Path:   "logs/app.log",
		},
	}
}
