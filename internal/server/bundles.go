package server

import (
	"fmt"
	"sort"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/go-resave/resave"
	"github.com/go-resave/resave/internal/config"
)

// BundleHandlers 根据配置构建 bundle 中间件：同一 bundler 的路由合并进一个
// 实例。路由在校验阶段已保证全局唯一，实例顺序不影响行为，这里按 key 排序
// 仅为了可预期的装配顺序。
func BundleHandlers(cfg *config.Config, logger *logrus.Logger) ([]fiber.Handler, error) {
	runtimes, err := config.BuildRuntimes(cfg)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]map[string]string)
	backends := make(map[string]resave.Bundler)
	for _, rt := range runtimes {
		key := rt.Registration.Key
		if groups[key] == nil {
			groups[key] = make(map[string]string)
			backends[key] = rt.Registration.Bundler
		}
		groups[key][rt.Config.Route] = rt.Config.Source
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	handlers := make([]fiber.Handler, 0, len(keys))
	for _, key := range keys {
		handler, err := resave.New(backends[key]).Middleware(resave.Options{
			BasePath: cfg.Global.BasePath,
			Bundles:  groups[key],
			Log:      resave.NewLogrusLogger(logger),
			SavePath: cfg.Global.SavePath,
		})
		if err != nil {
			return nil, fmt.Errorf("构建 %s bundle 中间件失败: %w", key, err)
		}
		handlers = append(handlers, handler)
	}

	return handlers, nil
}
