package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/yuriacats/atcoder-helper/internal/app/executor"
	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
	"github.com/yuriacats/atcoder-helper/internal/infra/docker"
	kafkainfra "github.com/yuriacats/atcoder-helper/internal/infra/kafka"
	"github.com/yuriacats/atcoder-helper/internal/infra/process"
	"github.com/yuriacats/atcoder-helper/internal/infra/yamlstore"
	"github.com/yuriacats/atcoder-helper/internal/ports"
	"github.com/yuriacats/atcoder-helper/internal/report"
	"github.com/yuriacats/atcoder-helper/internal/runtime"
)

const (
	exitPassed = 0
	exitFailed = 1
	exitError  = 2
)

func main() {
	if err := loadDotEnv(".env"); err != nil {
		slog.Error("failed to load .env", "err", err)
		os.Exit(exitError)
	}

	cfg := loadAppConfig()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	report.SetColor(cfg.Color)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, os.Stdout, os.Stderr, logger)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg appConfig, stdout, stderr io.Writer, logger *slog.Logger) int {
	workdir, err := os.Getwd()
	if err != nil {
		logger.Error("failed to resolve working directory", "err", err)
		return exitError
	}

	registry, err := runtime.NewDefaultRegistry(
		process.Config{Logger: logger},
		docker.Config{
			Image:   cfg.DockerImage,
			Workdir: cfg.DockerWorkdir,
			HostDir: workdir,
			Logger:  logger,
		},
	)
	if err != nil {
		logger.Error("failed to initialize runtimes", "err", err)
		return exitError
	}
	defer func() {
		if cerr := registry.Close(); cerr != nil {
			logger.Warn("failed to close runner", "err", cerr)
		}
	}()

	runner, err := registry.Runner(cfg.Runtime)
	if err != nil {
		logger.Error("failed to initialize runner", "runtime", cfg.Runtime, "err", err)
		return exitError
	}

	reporters := report.Multi{report.NewTerminal(stdout, report.NewLabels())}
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafkainfra.NewPublisher(kafkainfra.PublisherConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.ResultsTopic,
		})
		if err != nil {
			logger.Error("failed to initialize kafka publisher", "err", err)
			return exitError
		}
		defer func() {
			if cerr := publisher.Close(); cerr != nil {
				logger.Warn("failed to close kafka publisher", "err", cerr)
			}
		}()
		logger.Info("publishing verdicts", "topic", cfg.ResultsTopic, "run_id", publisher.RunID())
		reporters = append(reporters, publisher)
	}

	service, err := executor.NewService(executor.Dependencies{
		Config:     yamlstore.NewTaskConfigStore(cfg.TaskConfigPath),
		Cases:      yamlstore.NewTestCaseStore(cfg.TestCasesPath),
		Runner:     runner,
		Classifier: execution.NewClassifier(),
		Reporter:   reporters,
	}, executor.Options{
		Timeout:      cfg.Timeout,
		BuildTimeout: cfg.BuildTimeout,
		MaxParallel:  cfg.MaxParallel,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("failed to initialize executor", "err", err)
		return exitError
	}

	return execute(ctx, service, stderr, logger)
}

// execute runs the suite and maps the result to a process exit code. A failed
// build has its compiler output echoed to stderr.
func execute(ctx context.Context, suite ports.SuiteExecutor, stderr io.Writer, logger *slog.Logger) int {
	result, err := suite.ExecuteSuite(ctx)
	if err != nil {
		var buildErr *execution.BuildFailedError
		if errors.As(err, &buildErr) && buildErr.Stderr != "" {
			fmt.Fprint(stderr, buildErr.Stderr)
		}
		logger.Error("test run aborted", "err", err)
		return exitError
	}

	if result.Passed() {
		return exitPassed
	}
	return exitFailed
}
