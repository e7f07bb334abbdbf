package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/yuriacats/atcoder-helper/internal/app/executor"
	"github.com/yuriacats/atcoder-helper/internal/infra/yamlstore"
	"github.com/yuriacats/atcoder-helper/internal/runtime"
)

const (
	defaultDockerImage   = "gcc:14"
	defaultDockerWorkdir = "/workspace"
	defaultResultsTopic  = "verdicts"
)

type appConfig struct {
	TaskConfigPath string
	TestCasesPath  string
	Timeout        time.Duration
	BuildTimeout   time.Duration
	MaxParallel    int
	Runtime        string
	DockerImage    string
	DockerWorkdir  string
	Color          bool
	LogLevel       slog.Level
	KafkaBrokers   []string
	ResultsTopic   string
}

// loadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

func loadAppConfig() appConfig {
	return appConfig{
		TaskConfigPath: envOrDefault("JUDGE_TASK_CONFIG", yamlstore.DefaultTaskConfigFile),
		TestCasesPath:  envOrDefault("JUDGE_TESTCASES", yamlstore.DefaultTestCaseFile),
		Timeout:        parseDuration(os.Getenv("JUDGE_TIMEOUT"), executor.DefaultTimeout),
		BuildTimeout:   parseDuration(os.Getenv("JUDGE_BUILD_TIMEOUT"), executor.DefaultBuildTimeout),
		MaxParallel:    parseMaxParallel(os.Getenv("JUDGE_MAX_PARALLEL")),
		Runtime:        envOrDefault("JUDGE_RUNTIME", runtime.BackendProcess),
		DockerImage:    envOrDefault("JUDGE_DOCKER_IMAGE", defaultDockerImage),
		DockerWorkdir:  envOrDefault("JUDGE_DOCKER_WORKDIR", defaultDockerWorkdir),
		Color:          parseColor(os.Getenv("JUDGE_COLOR"), stdoutIsTerminal()),
		LogLevel:       parseLogLevel(os.Getenv("JUDGE_LOG_LEVEL")),
		KafkaBrokers:   parseBrokerList(os.Getenv("KAFKA_BROKERS")),
		ResultsTopic:   envOrDefault("KAFKA_RESULTS_TOPIC", defaultResultsTopic),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseBrokerList(raw string) []string {
	fields := strings.Split(raw, ",")
	brokers := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}

func parseMaxParallel(raw string) int {
	if raw == "" {
		return 1
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 1
	}
	return value
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseColor(raw string, terminal bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "always", "true", "1":
		return true
	case "never", "false", "0":
		return false
	default:
		return terminal
	}
}

func parseLogLevel(raw string) slog.Level {
	level := slog.LevelWarn
	if raw == "" {
		return level
	}
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelWarn
	}
	return level
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
