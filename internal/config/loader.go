package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/go-resave/resave/bundlers"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	if err := rejectBundleLevelSavePaths(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	for i := range cfg.Bundles {
		applyBundleDefaults(&cfg.Bundles[i], cfg.Global)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absBase, err := filepath.Abs(cfg.Global.BasePath)
	if err != nil {
		return nil, fmt.Errorf("无法解析源文件目录: %w", err)
	}
	cfg.Global.BasePath = absBase

	if cfg.Global.SavePath != "" {
		absSave, err := filepath.Abs(cfg.Global.SavePath)
		if err != nil {
			return nil, fmt.Errorf("无法解析保存目录: %w", err)
		}
		cfg.Global.SavePath = absSave
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 4000)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("BasePath", ".")
	v.SetDefault("SavePath", "")
	v.SetDefault("Bundler", bundlers.DefaultKey())
	v.SetDefault("ShutdownTimeout", "5s")
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 4000
	}
	if strings.TrimSpace(g.BasePath) == "" {
		g.BasePath = "."
	}
	if trimmed := strings.TrimSpace(g.Bundler); trimmed == "" {
		g.Bundler = bundlers.DefaultKey()
	} else {
		g.Bundler = strings.ToLower(trimmed)
	}
	if g.ShutdownTimeout.DurationValue() == 0 {
		g.ShutdownTimeout = Duration(5 * time.Second)
	}
}

func applyBundleDefaults(b *BundleConfig, global GlobalConfig) {
	if trimmed := strings.TrimSpace(b.Bundler); trimmed == "" {
		b.Bundler = global.Bundler
	} else {
		b.Bundler = strings.ToLower(trimmed)
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}

// rejectBundleLevelSavePaths 拦截 [[Bundle]] 内的 SavePath 字段：
// 保存目录只允许全局配置，避免同一磁盘布局被多个 Bundle 各自改写。
func rejectBundleLevelSavePaths(v *viper.Viper) error {
	raw := v.Get("Bundle")
	entries, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	for idx, entry := range entries {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if _, exists := m["SavePath"]; exists {
			name := fmt.Sprintf("#%d", idx)
			if rawRoute, ok := m["Route"].(string); ok && rawRoute != "" {
				name = rawRoute
			}
			return newFieldError(bundleField(name, "SavePath"), "仅支持全局配置，请移到根表")
		}
	}

	return nil
}
