package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration 支持 TOML 中 "30m" 这样的字符串
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config 服务端配置
type Config struct {
	Addr            string   `toml:"addr"`
	StorageDir      string   `toml:"storage_dir"`
	StaticDir       string   `toml:"static_dir"`
	MaxUploadMB     int64    `toml:"max_upload_mb"`
	SessionTTL      Duration `toml:"session_ttl"`
	CleanupSchedule string   `toml:"cleanup_schedule"`
	LogLevel        string   `toml:"log_level"`
	LogFormat       string   `toml:"log_format"`
	CORSOrigins     []string `toml:"cors_origins"`
}

func Default() *Config {
	return &Config{
		Addr:            ":8000",
		StorageDir:      "tmp/transpalentor",
		StaticDir:       "web/static",
		MaxUploadMB:     10,
		SessionTTL:      Duration{24 * time.Hour},
		CleanupSchedule: "@every 30m",
		LogLevel:        "info",
		LogFormat:       "text",
		CORSOrigins:     []string{"*"},
	}
}

// Load 在默认值之上读取 TOML 文件；path 为空时只返回默认值
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unknown config keys", "path", path, "keys", undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MaxUploadBytes 上传大小上限（字节）
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if c.StorageDir == "" {
		errs = append(errs, errors.New("storage_dir is empty"))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB))
	}
	if c.SessionTTL.Duration <= 0 {
		errs = append(errs, fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level 解析 log_level
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}

// NewLogger 按配置创建 slog.Logger
func (c *Config) NewLogger() *slog.Logger {
	lvl, _ := c.Level()
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
