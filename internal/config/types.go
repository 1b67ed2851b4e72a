package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// GlobalConfig 描述守护进程级别的运行参数，所有 Bundle 共享同一份。
type GlobalConfig struct {
	ListenPort      int      `mapstructure:"ListenPort"`
	LogLevel        string   `mapstructure:"LogLevel"`
	LogFilePath     string   `mapstructure:"LogFilePath"`
	LogMaxSize      int      `mapstructure:"LogMaxSize"`
	LogMaxBackups   int      `mapstructure:"LogMaxBackups"`
	LogCompress     bool     `mapstructure:"LogCompress"`
	BasePath        string   `mapstructure:"BasePath"`
	SavePath        string   `mapstructure:"SavePath"`
	Bundler         string   `mapstructure:"Bundler"`
	ShutdownTimeout Duration `mapstructure:"ShutdownTimeout"`
}

// BundleConfig 声明单个 Bundle 的路由、源文件与可选的 bundler 覆盖。
type BundleConfig struct {
	Route   string `mapstructure:"Route"`
	Source  string `mapstructure:"Source"`
	Bundler string `mapstructure:"Bundler"`
}

// Config 聚合全局参数与 Bundle 列表，对应 TOML 根表和 [[Bundle]] 数组。
type Config struct {
	Global  GlobalConfig   `mapstructure:",squash"`
	Bundles []BundleConfig `mapstructure:"Bundle"`
}

// BundleModes 返回 route:bundler 摘要列表，供启动与校验日志输出。
func (c *Config) BundleModes() []string {
	modes := make([]string, 0, len(c.Bundles))
	for _, b := range c.Bundles {
		modes = append(modes, b.Route+":"+b.Bundler)
	}
	sort.Strings(modes)
	return modes
}

// Routes 返回所有已配置的路由，按字典序排序。
func (c *Config) Routes() []string {
	routes := make([]string, 0, len(c.Bundles))
	for _, b := range c.Bundles {
		routes = append(routes, b.Route)
	}
	sort.Strings(routes)
	return routes
}
