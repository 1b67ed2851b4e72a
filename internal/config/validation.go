package config

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-resave/resave/bundlers"
)

// diagnosticsPrefix 已被守护进程的诊断接口占用，不允许配置同前缀路由。
const diagnosticsPrefix = "/-/"

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if strings.TrimSpace(g.BasePath) == "" {
		return newFieldError("Global.BasePath", "不能为空")
	}
	if g.ShutdownTimeout.DurationValue() <= 0 {
		return newFieldError("Global.ShutdownTimeout", "必须大于 0")
	}
	if _, ok := bundlers.Resolve(g.Bundler); !ok {
		return newFieldError("Global.Bundler", fmt.Sprintf("未注册 bundler: %s", g.Bundler))
	}

	if len(c.Bundles) == 0 {
		return errors.New("至少需要配置一个 Bundle")
	}

	seenRoutes := map[string]struct{}{}
	for i := range c.Bundles {
		bundle := &c.Bundles[i]
		if bundle.Route == "" {
			return newFieldError("Bundle[].Route", "不能为空")
		}
		if err := validateRoute(bundle.Route); err != nil {
			return fmt.Errorf("%s: %w", bundleField(bundle.Route, "Route"), err)
		}
		if _, exists := seenRoutes[bundle.Route]; exists {
			return newFieldError(bundleField(bundle.Route, "Route"), "重复")
		}
		seenRoutes[bundle.Route] = struct{}{}

		if err := validateSource(bundle.Source); err != nil {
			return fmt.Errorf("%s: %w", bundleField(bundle.Route, "Source"), err)
		}

		if _, ok := bundlers.Resolve(bundle.Bundler); !ok {
			return newFieldError(bundleField(bundle.Route, "Bundler"), fmt.Sprintf("未注册 bundler: %s", bundle.Bundler))
		}
	}

	return nil
}

func validateRoute(route string) error {
	if !strings.HasPrefix(route, "/") {
		return errors.New("必须以 / 开头")
	}
	if route == "/" {
		return errors.New("不能只配置根路径")
	}
	if strings.ContainsAny(route, " \t") {
		return errors.New("不允许包含空白字符")
	}
	if strings.ContainsAny(route, "?#") {
		return errors.New("不允许包含查询串或片段")
	}
	if strings.HasPrefix(route, diagnosticsPrefix) {
		return errors.New("/-/ 前缀保留给诊断接口")
	}
	return nil
}

func validateSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return errors.New("不能为空")
	}
	if filepath.IsAbs(source) {
		return errors.New("必须是相对 BasePath 的路径")
	}
	clean := path.Clean(source)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.New("不允许越出 BasePath")
	}
	return nil
}
