package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/go-resave/resave/internal/config"
	"github.com/go-resave/resave/internal/logging"
	"github.com/go-resave/resave/internal/server"
	"github.com/go-resave/resave/internal/server/routes"
	"github.com/go-resave/resave/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["bundles"] = len(cfg.Bundles)
		fields["modes"] = cfg.BundleModes()
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 保存目录是应用级副作用：中间件构造保持无副作用，目录由守护进程
	// 在启动时保证存在，静态层与 store 都依赖它。
	if cfg.Global.SavePath != "" {
		if err := os.MkdirAll(cfg.Global.SavePath, 0o755); err != nil {
			fmt.Fprintf(stdErr, "初始化保存目录失败: %v\n", err)
			return 1
		}
	}

	handlers, err := server.BundleHandlers(cfg, logger)
	if err != nil {
		fmt.Fprintf(stdErr, "构建 bundle 中间件失败: %v\n", err)
		return 1
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["bundles"] = len(cfg.Bundles)
	fields["modes"] = cfg.BundleModes()
	fields["listen_port"] = cfg.Global.ListenPort
	fields["save_enabled"] = cfg.Global.SavePath != ""
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, handlers, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("resaved", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 RESAVED_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("RESAVED_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

// startHTTPServer 装配 Fiber 应用并监听，同时在收到 SIGINT/SIGTERM 时
// 按配置的超时做优雅关闭。
func startHTTPServer(cfg *config.Config, handlers []fiber.Handler, logger *logrus.Logger) error {
	app, err := server.NewApp(server.AppOptions{
		Logger:   logger,
		Config:   cfg,
		Handlers: handlers,
	})
	if err != nil {
		return err
	}
	routes.RegisterBundleRoutes(app, cfg)

	port := cfg.Global.ListenPort
	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(fmt.Sprintf(":%d", port))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.WithFields(logrus.Fields{
			"action":  "shutdown",
			"timeout": cfg.Global.ShutdownTimeout.DurationValue().String(),
		}).Info("收到退出信号，开始优雅关闭")
		return app.ShutdownWithTimeout(cfg.Global.ShutdownTimeout.DurationValue())
	}
}
