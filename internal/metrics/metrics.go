package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Poller Metrics
var (
	CursorHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "poller_cursor_height",
		Help: "The next block height the poller will fetch",
	})

	SuccessfulCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poller_successful_cycles_total",
		Help: "The total number of heights fully ingested",
	})

	FailedCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "poller_failed_cycles_total",
		Help: "The total number of cycles that ended in backoff, by cause",
	}, []string{"cause"})

	BackoffActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "poller_backoff_active",
		Help: "1 while the poller is sleeping before retrying a height",
	})
)

// Decoder Metrics
var (
	TransactionsSeen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "decoder_transactions_seen_total",
		Help: "The total number of raw transactions handed to the decoder",
	})

	TransactionsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "decoder_transactions_skipped_total",
		Help: "The total number of transactions dropped because they could not be decoded",
	}, []string{"reason"})

	BlobsDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "decoder_blobs_decoded_total",
		Help: "The total number of blob transactions decoded",
	})
)

// Storage Metrics
var (
	BlobsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storage_blobs_stored_total",
		Help: "The total number of blob writes, rewrites included",
	})

	BlobBytesStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storage_blob_bytes_stored_total",
		Help: "The total number of payload bytes written",
	})
)

// Publisher Metrics
var (
	PublishedBlobs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "publisher_blobs_published_total",
		Help: "The total number of blob notifications published",
	})
)

// Operation Duration Metrics
var (
	RPCRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rpc_block_request_duration_seconds",
		Help:    "Time taken to fetch a block from the remote endpoint",
		Buckets: prometheus.DefBuckets,
	})

	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "poller_cycle_duration_seconds",
		Help:    "Time taken to fully ingest one height",
		Buckets: prometheus.DefBuckets,
	})

	BlobWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storage_blob_write_duration_seconds",
		Help:    "Time taken to write one blob to every configured store",
		Buckets: prometheus.DefBuckets,
	})

	PublishDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "publish_duration_seconds",
		Help:    "Time taken to publish the blobs of one height to Kafka",
		Buckets: prometheus.DefBuckets,
	})
)
