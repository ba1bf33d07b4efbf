package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"

	"github.com/canberk17/moving/internal/config"
	"github.com/canberk17/moving/internal/dedupe"
	"github.com/canberk17/moving/internal/logger"
	"github.com/canberk17/moving/internal/lookup"
	"github.com/canberk17/moving/internal/metrics"
	"github.com/canberk17/moving/internal/models"
	"github.com/canberk17/moving/internal/processing"
)

const dlqAttempts = 5

type lookuper interface {
	Lookup(ctx context.Context, company string) (*models.SummaryResult, error)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// lookupResult is the payload published on the result topic.
type lookupResult struct {
	Company    string          `json:"company"`
	Summary    string          `json:"summary"`
	Sources    []models.Source `json:"sources"`
	ResolvedAt time.Time       `json:"resolved_at"`
}

func main() {
	_ = godotenv.Load()

	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	svc := lookup.Build(cfg.Common, metrics.New(prometheus.DefaultRegisterer), log)
	cache := dedupe.NewCache(cfg.DedupeCapacity, cfg.DedupeTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.RequestTopic,
		GroupID:        cfg.KafkaConsumer,
		MinBytes:       1,
		MaxBytes:       1e6,
		CommitInterval: 0, // Disable auto-commit; manual commit only
		MaxWait:        5 * time.Second,
	})
	defer reader.Close()

	resultWriter := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.ResultTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
	}
	defer resultWriter.Close()

	dlqTopic := cfg.RequestTopic + "_dlq"
	dlqWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       dlqTopic,
		MaxAttempts: 3,
	})
	defer dlqWriter.Close()

	log.Info("worker started",
		slog.String("topic", cfg.RequestTopic),
		slog.String("result_topic", cfg.ResultTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", dlqTopic),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := processMessage(ctx, log, svc, resultWriter, cache, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)

			// Only commit if DLQ write succeeded; otherwise skip commit and reprocess on restart
			if sendToDLQ(ctx, log, dlqWriter, msg, err, time.Second) {
				if err := reader.CommitMessages(ctx, msg); err != nil {
					log.Error("commit failed message to dlq", slog.Any("err", err))
				}
			} else if ctx.Err() != nil {
				log.Info("context canceled during DLQ retry")
				return
			}
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

func processMessage(ctx context.Context, log *slog.Logger, svc lookuper, results messageWriter, cache *dedupe.Cache, msg kafka.Message) error {
	var req models.ExtractionRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		return fmt.Errorf("decode lookup request: %w", err)
	}

	company := strings.TrimSpace(req.Company)
	if company == "" {
		return lookup.ErrEmptyCompany
	}

	key := processing.NormalizeKey(company)
	if !cache.Claim(key) {
		return replayResult(ctx, log, results, cache, key, company)
	}

	res, err := svc.Lookup(ctx, company)
	if err != nil {
		cache.Release(key)
		return fmt.Errorf("lookup %q: %w", company, err)
	}

	value, err := json.Marshal(lookupResult{
		Company:    company,
		Summary:    res.Summary,
		Sources:    res.Sources,
		ResolvedAt: time.Now().UTC(),
	})
	if err != nil {
		cache.Release(key)
		return fmt.Errorf("encode lookup result: %w", err)
	}

	if err := results.WriteMessages(ctx, resultMessage(company, value, false)); err != nil {
		cache.Release(key)
		return fmt.Errorf("publish lookup result: %w", err)
	}
	cache.Store(key, value)

	log.Info("published lookup result", slog.String("company", company))
	return nil
}

// replayResult answers a duplicate request by publishing the result already
// produced for key, so every requester sees a message under its own key.
func replayResult(ctx context.Context, log *slog.Logger, results messageWriter, cache *dedupe.Cache, key, company string) error {
	value, ok := cache.Value(key)
	if !ok {
		log.Debug("duplicate lookup request still in flight", slog.String("company", company))
		return nil
	}

	if err := results.WriteMessages(ctx, resultMessage(company, value, true)); err != nil {
		return fmt.Errorf("replay lookup result: %w", err)
	}
	log.Info("replayed lookup result", slog.String("company", company))
	return nil
}

func resultMessage(company string, value []byte, replayed bool) kafka.Message {
	return kafka.Message{
		Key:   []byte(company),
		Value: value,
		Headers: []kafka.Header{
			{Key: "message_id", Value: []byte(uuid.NewString())},
			{Key: "replayed", Value: []byte(strconv.FormatBool(replayed))},
		},
	}
}

// sendToDLQ writes msg with error context to the dead letter topic, retrying
// with exponential backoff from base. It reports whether the write succeeded.
func sendToDLQ(ctx context.Context, log *slog.Logger, dlq messageWriter, msg kafka.Message, cause error, base time.Duration) bool {
	headers := make([]kafka.Header, 0, len(msg.Headers)+4)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: "original_partition", Value: []byte(fmt.Sprintf("%d", msg.Partition))},
		kafka.Header{Key: "original_offset", Value: []byte(fmt.Sprintf("%d", msg.Offset))},
		kafka.Header{Key: "error", Value: []byte(cause.Error())},
		kafka.Header{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
	)
	dlqMsg := kafka.Message{Key: msg.Key, Value: msg.Value, Headers: headers}

	for attempt := range dlqAttempts {
		dlqErr := dlq.WriteMessages(ctx, dlqMsg)
		if dlqErr == nil {
			log.Info("message sent to DLQ",
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.Int("attempt", attempt+1),
			)
			return true
		}

		backoff := base * time.Duration(1<<uint(attempt))
		log.Warn("DLQ write failed, retrying",
			slog.Any("err", dlqErr),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return false
		}
	}

	log.Error("DLQ write exhausted retries, message may be lost if later messages commit",
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
	)
	return false
}
