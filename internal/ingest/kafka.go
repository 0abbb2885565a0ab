package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/twmb/franz-go/pkg/kgo"

	"valxml/internal/platform/config"
)

// KafkaDispatcher produces processing requests to the worker topic. Keys are
// file paths so retried submissions of the same file land in one partition.
type KafkaDispatcher struct {
	client *kgo.Client
	topic  string
}

func NewKafkaDispatcher(cfg config.KafkaConfig) (*KafkaDispatcher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return &KafkaDispatcher{client: client, topic: cfg.Topic}, nil
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, path string) error {
	payload, err := json.Marshal(Task{Path: path})
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	record := &kgo.Record{Topic: d.topic, Key: []byte(path), Value: payload}
	if err := d.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce task for %s: %w", path, err)
	}
	return nil
}

func (d *KafkaDispatcher) Close() {
	d.client.Close()
}

// HandleFunc processes one dispatched file path.
type HandleFunc func(ctx context.Context, path string)

// KafkaConsumer polls the worker group and runs the handler for every task.
type KafkaConsumer struct {
	client *kgo.Client
	handle HandleFunc
	log    *log.Logger
}

func NewKafkaConsumer(cfg config.KafkaConfig, handle HandleFunc, logger *log.Logger) (*KafkaConsumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return &KafkaConsumer{client: client, handle: handle, log: logger}, nil
}

// Run polls until ctx is cancelled. Malformed records are logged and skipped;
// they would never become valid on redelivery.
func (c *KafkaConsumer) Run(ctx context.Context) error {
	defer c.client.Close()
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.log.Printf("fetch %s/%d: %v", topic, partition, err)
		})
		fetches.EachRecord(func(record *kgo.Record) {
			var task Task
			if err := json.Unmarshal(record.Value, &task); err != nil {
				c.log.Printf("skip malformed task record: %v", err)
				return
			}
			c.handle(ctx, task.Path)
		})
	}
}
