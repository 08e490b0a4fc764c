package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	App struct {
		Name string `yaml:"name"`
		Env  string `yaml:"env"`
	} `yaml:"app"`

	Line struct {
		ChannelAccessToken string        `yaml:"channel_access_token"`
		ChannelSecret      string        `yaml:"channel_secret"`
		Endpoint           string        `yaml:"endpoint"`
		Timeout            time.Duration `yaml:"timeout"`
	} `yaml:"line"`

	Server struct {
		Port string `yaml:"port"`
		// PublicBaseURL 对外可达的地址前缀，用于拼接趋势图连结。
		// 未设定时仅回覆文字，不附图。
		PublicBaseURL string        `yaml:"public_base_url"`
		StaticDir     string        `yaml:"static_dir"`
		ReadTimeout   time.Duration `yaml:"read_timeout"`
		WriteTimeout  time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`

	DataSources struct {
		Yahoo struct {
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"yahoo"`
	} `yaml:"data_sources"`

	Chart struct {
		FontPath string `yaml:"font_path"`
	} `yaml:"chart"`

	Monitor struct {
		SweepCron string `yaml:"sweep_cron"`
	} `yaml:"monitor"`

	Log struct {
		Level    string `yaml:"level"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`
}

// LoadConfig 从文件加载配置
func LoadConfig(path string) (*Config, error) {
	// 读取配置文件
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析YAML
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 环境变量覆盖
	overrideFromEnv(&config)

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate 检查必填配置项
func (c *Config) Validate() error {
	if c.Line.ChannelAccessToken == "" || c.Line.ChannelSecret == "" {
		return fmt.Errorf("未设定 CHANNEL_ACCESS_TOKEN 或 CHANNEL_SECRET，请检查环境变量")
	}
	return nil
}

// overrideFromEnv 使用环境变量覆盖配置
func overrideFromEnv(config *Config) {
	// 应用
	if env := os.Getenv("APP_NAME"); env != "" {
		config.App.Name = env
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		config.App.Env = env
	}

	// LINE凭证
	if env := os.Getenv("CHANNEL_ACCESS_TOKEN"); env != "" {
		config.Line.ChannelAccessToken = env
	}
	if env := os.Getenv("CHANNEL_SECRET"); env != "" {
		config.Line.ChannelSecret = env
	}

	// 服务器
	if env := os.Getenv("PORT"); env != "" {
		config.Server.Port = env
	}
	if env := os.Getenv("BASE_URL"); env != "" {
		config.Server.PublicBaseURL = env
	}
	if env := os.Getenv("STATIC_DIR"); env != "" {
		config.Server.StaticDir = env
	}

	// 数据源
	if env := os.Getenv("YAHOO_BASE_URL"); env != "" {
		config.DataSources.Yahoo.BaseURL = env
	}

	// 日志
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		config.Log.Level = env
	}
}

// applyDefaults 填充缺省值
func applyDefaults(config *Config) {
	if config.Server.Port == "" {
		config.Server.Port = "5000"
	}
	if config.Server.StaticDir == "" {
		config.Server.StaticDir = "static"
	}
	if config.DataSources.Yahoo.BaseURL == "" {
		config.DataSources.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	}
	if config.DataSources.Yahoo.Timeout == 0 {
		config.DataSources.Yahoo.Timeout = 10 * time.Second
	}
	if config.Line.Endpoint == "" {
		config.Line.Endpoint = "https://api.line.me"
	}
	if config.Line.Timeout == 0 {
		config.Line.Timeout = 10 * time.Second
	}
	if config.Monitor.SweepCron == "" {
		config.Monitor.SweepCron = "@every 5m"
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}

	// 尾端斜线会导致图片URL出现双斜线
	config.Server.PublicBaseURL = strings.TrimRight(config.Server.PublicBaseURL, "/")
}

// GetDefaultConfigPath 获取默认配置文件路径
func GetDefaultConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev" // 默认开发环境
	}

	return fmt.Sprintf("configs/%s/app.yaml", env)
}
