package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultUserAgent is the desktop profile presented to the registry site.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"

// Common contains the credential, browser and extraction settings shared by
// every binary that runs lookups.
type Common struct {
	LinkAPIKey  string
	LinkBaseURL string
	LinkModel   string
	LinkTimeout time.Duration

	Browser Browser

	NavigateTimeout time.Duration
	ReadyTimeout    time.Duration
	ReviewTimeout   time.Duration
	ReviewPoll      time.Duration
}

// Browser describes how the headless browser is launched.
type Browser struct {
	Headless     bool
	ExecPath     string
	UserAgent    string
	WindowWidth  int
	WindowHeight int
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr string
}

// Worker holds configuration for the Kafka lookup worker.
type Worker struct {
	Common
	KafkaBrokers   []string
	RequestTopic   string
	ResultTopic    string
	KafkaConsumer  string
	DedupeCapacity int
	DedupeTTL      time.Duration
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	common, err := loadCommon()
	if err != nil {
		return nil, err
	}

	c := &API{
		Common:   *common,
		BindAddr: getEnv("API_BIND_ADDR", "0.0.0.0:5002"),
	}
	return c, nil
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	common, err := loadCommon()
	if err != nil {
		return nil, err
	}

	c := &Worker{
		Common:         *common,
		KafkaBrokers:   splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		RequestTopic:   getEnv("LOOKUP_REQUEST_TOPIC", "lookup_requests"),
		ResultTopic:    getEnv("LOOKUP_RESULT_TOPIC", "lookup_results"),
		KafkaConsumer:  getEnv("KAFKA_CONSUMER_GROUP", "lookup-worker"),
		DedupeCapacity: getInt("WORKER_DEDUPE_CAPACITY", 5000),
		DedupeTTL:      getDuration("WORKER_DEDUPE_TTL", "1h"),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if c.RequestTopic == c.ResultTopic {
		return nil, fmt.Errorf("LOOKUP_RESULT_TOPIC must differ from LOOKUP_REQUEST_TOPIC")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("WORKER_DEDUPE_CAPACITY must be positive")
	}

	return c, nil
}

func loadCommon() (*Common, error) {
	c := &Common{
		LinkAPIKey:  strings.TrimSpace(os.Getenv("PERPLEXITY_API_KEY")),
		LinkBaseURL: getEnv("LINK_BASE_URL", "https://api.perplexity.ai"),
		LinkModel:   getEnv("LINK_MODEL", "sonar-pro"),
		LinkTimeout: getDuration("LINK_TIMEOUT", "30s"),
		Browser: Browser{
			Headless:     getBool("BROWSER_HEADLESS", true),
			ExecPath:     getEnv("BROWSER_EXEC_PATH", ""),
			UserAgent:    getEnv("BROWSER_USER_AGENT", DefaultUserAgent),
			WindowWidth:  getInt("BROWSER_WINDOW_WIDTH", 1920),
			WindowHeight: getInt("BROWSER_WINDOW_HEIGHT", 1080),
		},
		NavigateTimeout: getDuration("NAVIGATE_TIMEOUT", "60s"),
		ReadyTimeout:    getDuration("READY_TIMEOUT", "20s"),
		ReviewTimeout:   getDuration("REVIEW_TIMEOUT", "30s"),
		ReviewPoll:      getDuration("REVIEW_POLL", "1s"),
	}

	if c.LinkAPIKey == "" {
		return nil, fmt.Errorf("PERPLEXITY_API_KEY is required")
	}
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		return nil, fmt.Errorf("BROWSER_WINDOW_WIDTH and BROWSER_WINDOW_HEIGHT must be positive")
	}
	if c.NavigateTimeout <= 0 {
		return nil, fmt.Errorf("NAVIGATE_TIMEOUT must be positive")
	}
	if c.ReadyTimeout <= 0 {
		return nil, fmt.Errorf("READY_TIMEOUT must be positive")
	}
	if c.ReviewPoll <= 0 {
		return nil, fmt.Errorf("REVIEW_POLL must be positive")
	}
	if c.ReviewTimeout < c.ReviewPoll {
		return nil, fmt.Errorf("REVIEW_TIMEOUT cannot be shorter than REVIEW_POLL")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
