package kafka

import (
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Config holds producer configuration
type Config struct {
	Brokers                []string      `mapstructure:"brokers"`
	ClientID               string        `mapstructure:"client_id"`
	AllowAutoTopicCreation bool          `mapstructure:"allow_auto_topic_creation"`
	RequestRetries         int           `mapstructure:"request_retries"`
	DialTimeout            time.Duration `mapstructure:"dial_timeout"`
	DeliveryTimeout        time.Duration `mapstructure:"delivery_timeout"`
}

// Options converts the config into franz-go client options. Zero values are skipped.
func (c Config) Options() []kgo.Opt {
	opts := []kgo.Opt{kgo.SeedBrokers(c.Brokers...)}

	if c.ClientID != "" {
		opts = append(opts, kgo.ClientID(c.ClientID))
	}
	if c.AllowAutoTopicCreation {
		opts = append(opts, kgo.AllowAutoTopicCreation())
	}
	if c.RequestRetries > 0 {
		opts = append(opts, kgo.RequestRetries(c.RequestRetries))
	}
	if c.DialTimeout > 0 {
		opts = append(opts, kgo.DialTimeout(c.DialTimeout))
	}
	if c.DeliveryTimeout > 0 {
		opts = append(opts, kgo.RecordDeliveryTimeout(c.DeliveryTimeout))
	}
	return opts
}

// NewWithConfig creates a new Kafka producer from a config struct
func NewWithConfig(config Config) (KafkaClient, error) {
	return New(config.Options()...)
}
