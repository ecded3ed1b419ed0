package ingest

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/arenapulse/anticheat-backend/internal/infrastructure/config"
	"github.com/arenapulse/anticheat-backend/internal/service/anticheat"
)

// Consumer reads session summaries published by the session summarizer
// and feeds them into the engine. One message is one completed session.
type Consumer struct {
	reader *kafka.Reader
	svc    anticheat.Service
	logger *zap.Logger
}

// NewConsumer builds a Kafka consumer for the session-summary topic.
func NewConsumer(cfg config.KafkaConfig, svc anticheat.Service, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, svc: svc, logger: logger}
}

// Run consumes until the context is canceled. Malformed or rejected
// messages are logged and skipped; ingest is at-least-once and the
// engine's mutations are driven by profile state, not by offsets.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	c.logger.Info("kafka session intake started",
		zap.String("topic", c.reader.Config().Topic),
		zap.String("group_id", c.reader.Config().GroupID))

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Warn("kafka read error", zap.Error(err))
			continue
		}
		c.handleMessage(ctx, msg.Value)
	}
}

func (c *Consumer) handleMessage(ctx context.Context, value []byte) {
	var summary anticheat.SessionSummary
	if err := json.Unmarshal(value, &summary); err != nil {
		c.logger.Warn("dropping malformed session summary", zap.Error(err))
		return
	}

	result, err := c.svc.IngestSession(ctx, &summary)
	if err != nil {
		c.logger.Error("session ingest failed",
			zap.String("player_id", summary.PlayerID.String()),
			zap.Error(err))
		return
	}

	c.logger.Debug("session ingested",
		zap.String("player_id", summary.PlayerID.String()),
		zap.String("risk_level", string(result.RiskLevel)))
}
