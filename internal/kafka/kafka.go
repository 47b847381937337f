// Package kafka provides readiness probing of the broker and creation of the face-event topic
package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/zlog"
)

// ErrBrokerUnavailable - брокер так и не ответил за отведенные попытки
var ErrBrokerUnavailable = errors.New("kafka broker is unavailable")

// TopicCreator - контракт клиента kafka-go, нужен для подмены в тестах
type TopicCreator interface {
	CreateTopics(ctx context.Context, req *kafkago.CreateTopicsRequest) (*kafkago.CreateTopicsResponse, error)
}

// NewTopicClient - клиент для административных запросов к брокеру
func NewTopicClient(brokerAddr string) *kafkago.Client {
	return &kafkago.Client{
		Addr:    kafkago.TCP(brokerAddr),
		Timeout: 10 * time.Second,
	}
}

// EnsureTopics creates the given topics with one partition each, treating already existing topics as success.
func EnsureTopics(ctx context.Context, client TopicCreator, attempts int, delay time.Duration, topics ...string) error {
	req := kafkago.CreateTopicsRequest{
		Topics: make([]kafkago.TopicConfig, 0, len(topics)),
	}
	for _, t := range topics {
		req.Topics = append(req.Topics, kafkago.TopicConfig{
			Topic:             t,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := client.CreateTopics(ctx, &req)
		if err != nil {
			lastErr = err
			zlog.Logger.Warn().Err(err).Int("attempt", i+1).Dur("retry_in", delay).Msg("Failed to run topics creation request")
			continue
		}

		lastErr = topicErrors(resp)
		if lastErr == nil {
			zlog.Logger.Info().Strs("topics", topics).Msg("Kafka topics are ready")
			return nil
		}
		zlog.Logger.Warn().Err(lastErr).Int("attempt", i+1).Msg("Some topics were not created")
	}

	return fmt.Errorf("failed to create topics %v: %w", topics, lastErr)
}

func topicErrors(resp *kafkago.CreateTopicsResponse) error {
	var errs []error
	for topic, err := range resp.Errors {
		if err == nil || errors.Is(err, kafkago.TopicAlreadyExists) {
			continue
		}
		errs = append(errs, fmt.Errorf("topic %q: %w", topic, err))
	}
	return errors.Join(errs...)
}

// WaitKafkaReady dials the broker until it answers or attempts run out.
func WaitKafkaReady(ctx context.Context, brokerAddr string, attempts int, delay time.Duration) error {
	dialer := &kafkago.Dialer{Timeout: 5 * time.Second}

	for i := 0; i < attempts; i++ {
		conn, err := dialer.DialContext(ctx, "tcp", brokerAddr)
		if err == nil {
			if errConn := conn.Close(); errConn != nil {
				zlog.Logger.Warn().Err(errConn).Msg("Failed to close connection after probing Kafka")
			}
			zlog.Logger.Info().Str("broker", brokerAddr).Msg("Kafka is ready")
			return nil
		}

		zlog.Logger.Warn().Err(err).Int("attempt", i+1).Dur("retry_in", delay).Msg("Kafka not ready")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return ErrBrokerUnavailable
}
