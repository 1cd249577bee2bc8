package publisher

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	config "github.com/thirdweb-dev/blob-indexer/configs"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
	"github.com/thirdweb-dev/blob-indexer/internal/metrics"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
)

const (
	DEFAULT_TOPIC        = "blobs.stored"
	MessageTypeStored    = "blob_stored"
	MessageSchemaVersion = "1"
)

// ErrPublisherClosed is returned by PublishBlobs after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// IPublisher announces blobs that are durably stored.
type IPublisher interface {
	PublishBlobs(ctx context.Context, records []common.BlobRecord) error
	Close() error
}

// BlobStoredMessage is the record value. The payload itself is never published.
type BlobStoredMessage struct {
	ContentID string    `json:"content_id"`
	Height    uint64    `json:"height"`
	Index     int       `json:"index"`
	Size      int       `json:"size"`
	Timestamp time.Time `json:"timestamp"`
}

type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Publisher struct {
	client  producer
	topic   string
	nowFunc func() time.Time
	mu      sync.RWMutex
}

func NewPublisher(cfg *config.PublisherConfig) (*Publisher, error) {
	if cfg.Brokers == "" {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	brokers := strings.Split(cfg.Brokers, ",")
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ClientID("blob-indexer"),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.MetadataMaxAge(60 * time.Second),
		kgo.DialTimeout(10 * time.Second),
	}

	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts, kgo.SASL(plain.Auth{
			User: cfg.Username,
			Pass: cfg.Password,
		}.AsMechanism()))
	}

	if cfg.EnableTLS {
		tlsDialer := &tls.Dialer{NetDialer: &net.Dialer{Timeout: 10 * time.Second}}
		opts = append(opts, kgo.Dialer(tlsDialer.DialContext))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Kafka: %v", err)
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DEFAULT_TOPIC
	}
	log.Info().Strs("brokers", brokers).Str("topic", topic).Msg("Kafka publisher connected")
	return newPublisherWithClient(client, topic), nil
}

func newPublisherWithClient(client producer, topic string) *Publisher {
	return &Publisher{client: client, topic: topic, nowFunc: time.Now}
}

// PublishBlobs produces one record per blob and waits for every ack.
func (p *Publisher) PublishBlobs(ctx context.Context, records []common.BlobRecord) error {
	if len(records) == 0 {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.client == nil {
		return ErrPublisherClosed
	}

	publishStart := time.Now()
	timestamp := p.nowFunc().UTC()

	messages := make([]*kgo.Record, 0, len(records))
	for _, record := range records {
		msg, err := p.createRecord(record, timestamp)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	if err := p.client.ProduceSync(ctx, messages...).FirstErr(); err != nil {
		return fmt.Errorf("failed to publish %d blob messages: %w", len(messages), err)
	}

	metrics.PublishedBlobs.Add(float64(len(messages)))
	metrics.PublishDuration.Observe(time.Since(publishStart).Seconds())
	log.Debug().Int("count", len(messages)).Uint64("height", records[0].Height).Msg("Published blob messages")
	return nil
}

func (p *Publisher) createRecord(record common.BlobRecord, timestamp time.Time) (*kgo.Record, error) {
	id, err := common.NormalizeContentID(record.ContentID)
	if err != nil {
		return nil, err
	}

	value, err := json.Marshal(BlobStoredMessage{
		ContentID: id,
		Height:    record.Height,
		Index:     record.Index,
		Size:      len(record.Payload),
		Timestamp: timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal blob message: %v", err)
	}

	return &kgo.Record{
		Topic: p.topic,
		Key:   []byte(id),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "height", Value: []byte(strconv.FormatUint(record.Height, 10))},
			{Key: "type", Value: []byte(MessageTypeStored)},
			{Key: "schema_version", Value: []byte(MessageSchemaVersion)},
		},
	}, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		p.client.Close()
		p.client = nil
		log.Debug().Msg("Publisher client closed")
	}
	return nil
}
