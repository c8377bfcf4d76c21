package kafka

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is a single record to produce.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

func (m Message) record() *kgo.Record {
	record := &kgo.Record{
		Topic: m.Topic,
		Key:   m.Key,
		Value: m.Value,
	}
	for k, v := range m.Headers {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	return record
}

// KafkaClient defines the producing side of Kafka used by the service
type KafkaClient interface {
	Produce(ctx context.Context, msg Message) error
	// ProduceAsync buffers msg and reports the delivery result to onDone, which may be nil.
	ProduceAsync(ctx context.Context, msg Message, onDone func(error))
	Flush(ctx context.Context) error
	Close() error
}

// Client wraps a franz-go client
type Client struct {
	client *kgo.Client
}

// New creates a new Kafka client with the provided options. Brokers are contacted lazily.
func New(opts ...kgo.Opt) (KafkaClient, error) {
	kafkaClient, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{client: kafkaClient}, nil
}

// Produce sends a message and waits for the broker acknowledgement
func (k *Client) Produce(ctx context.Context, msg Message) error {
	return k.client.ProduceSync(ctx, msg.record()).FirstErr()
}

func (k *Client) ProduceAsync(ctx context.Context, msg Message, onDone func(error)) {
	k.client.Produce(ctx, msg.record(), func(_ *kgo.Record, err error) {
		if onDone != nil {
			onDone(err)
		}
	})
}

// Flush waits until every buffered record has been delivered or failed
func (k *Client) Flush(ctx context.Context) error {
	return k.client.Flush(ctx)
}

// Close flushes nothing; call Flush first to drain buffered records
func (k *Client) Close() error {
	if k.client != nil {
		k.client.Close()
	}
	return nil
}
