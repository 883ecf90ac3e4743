// internal/workflow/consumer.go
package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/common/validation"
	"moderation-workers/internal/models"
)

// ConsumerConfig names the stream and consumer-group identity this
// process reads under.
type ConsumerConfig struct {
	Stream        string
	ConsumerGroup string
	ConsumerName  string
}

// Consumer reads status-change events off a Redis stream and hands each
// one to the dispatcher. Delivery is at-least-once: an event is acked
// after the dispatcher returns, so a crash mid-run redelivers it and the
// step log absorbs the replay.
type Consumer struct {
	client     *redis.Client
	dispatcher *Dispatcher
	config     ConsumerConfig
	logger     logger.Logger
}

func NewConsumer(client *redis.Client, dispatcher *Dispatcher, config ConsumerConfig, lg logger.Logger) *Consumer {
	return &Consumer{
		client:     client,
		dispatcher: dispatcher,
		config:     config,
		logger:     lg.WithFields(map[string]interface{}{"stream": config.Stream, "group": config.ConsumerGroup}),
	}
}

// Run blocks reading the stream until the context is cancelled. It first
// claims any messages left pending by a previous incarnation of this
// consumer, then tails new entries.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	// "0" drains our own pending entries first; ">" then tails the stream.
	cursor := "0"
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.config.ConsumerGroup,
			Consumer: c.config.ConsumerName,
			Streams:  []string{c.config.Stream, cursor},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if errors.Is(err, redis.Nil) {
			cursor = ">"
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("stream read failed", map[string]interface{}{"error": err.Error()})
			time.Sleep(time.Second)
			continue
		}

		delivered := 0
		for _, stream := range streams {
			for _, msg := range stream.Messages {
				c.handleMessage(ctx, msg)
				delivered++
			}
		}
		if cursor == "0" && delivered == 0 {
			cursor = ">"
		}
	}
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.config.Stream, c.config.ConsumerGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// handleMessage validates, dispatches and acks one stream entry. A
// malformed entry is acked and dropped so it cannot wedge the group; a
// handler failure is still acked, since the dispatcher has already spent
// that handler's full retry budget.
func (c *Consumer) handleMessage(ctx context.Context, msg redis.XMessage) {
	defer c.ack(ctx, msg.ID)

	raw, ok := msg.Values["event"].(string)
	if !ok {
		c.logger.Error("stream entry has no event field", map[string]interface{}{"messageId": msg.ID})
		return
	}

	if err := validation.ValidateStatusChangeEvent([]byte(raw)); err != nil {
		c.logger.Error("rejecting malformed event", map[string]interface{}{
			"messageId": msg.ID,
			"error":     err.Error(),
		})
		return
	}

	var event models.StatusChangeEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		c.logger.Error("rejecting undecodable event", map[string]interface{}{
			"messageId": msg.ID,
			"error":     err.Error(),
		})
		return
	}

	c.dispatcher.Dispatch(ctx, &event)
}

func (c *Consumer) ack(ctx context.Context, messageID string) {
	if err := c.client.XAck(ctx, c.config.Stream, c.config.ConsumerGroup, messageID).Err(); err != nil {
		c.logger.Error("failed to ack stream entry", map[string]interface{}{
			"messageId": messageID,
			"error":     err.Error(),
		})
	}
}
