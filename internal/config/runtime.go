package config

import (
	"fmt"

	"github.com/go-resave/resave/bundlers"
)

// BundleRuntime 将 Bundle 配置与已注册的 bundler 合并，方便运行时直接取用。
type BundleRuntime struct {
	Config       BundleConfig
	Registration bundlers.Registration
}

// BuildRuntimes 解析每个 Bundle 生效的 bundler 注册信息。
// Validate 已保证键存在，这里的错误分支只为防御配置未经校验的调用方。
func BuildRuntimes(c *Config) ([]BundleRuntime, error) {
	runtimes := make([]BundleRuntime, 0, len(c.Bundles))
	for _, b := range c.Bundles {
		reg, ok := bundlers.Resolve(b.Bundler)
		if !ok {
			return nil, fmt.Errorf("未注册 bundler: %s", b.Bundler)
		}
		runtimes = append(runtimes, BundleRuntime{Config: b, Registration: reg})
	}
	return runtimes, nil
}
