package cmd

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	configs "github.com/thirdweb-dev/blob-indexer/configs"
	"github.com/thirdweb-dev/blob-indexer/internal/env"
	customLogger "github.com/thirdweb-dev/blob-indexer/internal/log"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "blob-indexer",
		Short: "Ingest blob transactions into a content addressed store",
		Long: "blob-indexer walks a chain height by height, extracts the payload of every blob " +
			"transaction and stores it under its sha256 content id. Without a subcommand it runs " +
			"the ingestion loop together with the status API.",
		Run: func(cmd *cobra.Command, args []string) {
			RunIndexer(cmd, args)
		},
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yml)")
	rootCmd.PersistentFlags().String("rpc-url", "", "Base URL of the node serving /block?height=")
	rootCmd.PersistentFlags().Int("rpc-timeout", 0, "Per request timeout in milliseconds")
	rootCmd.PersistentFlags().String("log-level", "", "Log level to use for the application")
	rootCmd.PersistentFlags().Bool("log-prettify", false, "Whether to prettify the log output")
	rootCmd.PersistentFlags().String("decoder-mode", "", "Blob payload encoding, gzip or raw")
	rootCmd.PersistentFlags().Int("poller-backoff-interval", 0, "Milliseconds to wait before retrying a failed height")
	rootCmd.PersistentFlags().Uint64("poller-until-height", 0, "Stop after ingesting this height, 0 runs forever")
	rootCmd.PersistentFlags().String("storage-root", "", "Directory holding the cursor and the blob shards")
	rootCmd.PersistentFlags().String("storage-catalog-path", "", "Pebble directory for the blob catalog, empty disables it")
	rootCmd.PersistentFlags().String("storage-cursor-redis-addr", "", "Keep the cursor in Redis at this address instead of {root}/index")
	rootCmd.PersistentFlags().String("storage-cursor-redis-password", "", "Redis password")
	rootCmd.PersistentFlags().Int("storage-cursor-redis-db", 0, "Redis database")
	rootCmd.PersistentFlags().String("storage-cursor-redis-key", "", "Redis key holding the cursor")
	rootCmd.PersistentFlags().String("storage-s3-bucket", "", "Mirror blobs to this S3 bucket")
	rootCmd.PersistentFlags().String("storage-s3-region", "", "S3 region")
	rootCmd.PersistentFlags().String("storage-s3-endpoint", "", "Custom S3 endpoint, e.g. minio")
	rootCmd.PersistentFlags().String("storage-s3-prefix", "", "Key prefix inside the bucket")
	rootCmd.PersistentFlags().String("storage-s3-accessKeyId", "", "S3 access key id")
	rootCmd.PersistentFlags().String("storage-s3-secretAccessKey", "", "S3 secret access key")
	rootCmd.PersistentFlags().Bool("publisher-enabled", false, "Announce stored blobs on Kafka")
	rootCmd.PersistentFlags().String("publisher-brokers", "", "Comma separated Kafka brokers")
	rootCmd.PersistentFlags().String("publisher-topic", "", "Kafka topic for blob notifications")
	rootCmd.PersistentFlags().String("publisher-username", "", "Kafka SASL username")
	rootCmd.PersistentFlags().String("publisher-password", "", "Kafka SASL password")
	rootCmd.PersistentFlags().Bool("publisher-enableTLS", false, "Dial Kafka over TLS")
	rootCmd.PersistentFlags().Bool("api-enabled", true, "Serve the status API next to the poller")
	rootCmd.PersistentFlags().String("api-host", "", "Address the status API listens on")
	rootCmd.PersistentFlags().String("api-basicAuth-username", "", "Basic auth username for the status API")
	rootCmd.PersistentFlags().String("api-basicAuth-password", "", "Basic auth password for the status API")
	viper.BindPFlag("rpc.url", rootCmd.PersistentFlags().Lookup("rpc-url"))
	viper.BindPFlag("rpc.timeout", rootCmd.PersistentFlags().Lookup("rpc-timeout"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.prettify", rootCmd.PersistentFlags().Lookup("log-prettify"))
	viper.BindPFlag("decoder.mode", rootCmd.PersistentFlags().Lookup("decoder-mode"))
	viper.BindPFlag("poller.backoffInterval", rootCmd.PersistentFlags().Lookup("poller-backoff-interval"))
	viper.BindPFlag("poller.untilHeight", rootCmd.PersistentFlags().Lookup("poller-until-height"))
	viper.BindPFlag("storage.root", rootCmd.PersistentFlags().Lookup("storage-root"))
	viper.BindPFlag("storage.catalog.path", rootCmd.PersistentFlags().Lookup("storage-catalog-path"))
	viper.BindPFlag("storage.cursor.redis.addr", rootCmd.PersistentFlags().Lookup("storage-cursor-redis-addr"))
	viper.BindPFlag("storage.cursor.redis.password", rootCmd.PersistentFlags().Lookup("storage-cursor-redis-password"))
	viper.BindPFlag("storage.cursor.redis.db", rootCmd.PersistentFlags().Lookup("storage-cursor-redis-db"))
	viper.BindPFlag("storage.cursor.redis.key", rootCmd.PersistentFlags().Lookup("storage-cursor-redis-key"))
	viper.BindPFlag("storage.s3.bucket", rootCmd.PersistentFlags().Lookup("storage-s3-bucket"))
	viper.BindPFlag("storage.s3.region", rootCmd.PersistentFlags().Lookup("storage-s3-region"))
	viper.BindPFlag("storage.s3.endpoint", rootCmd.PersistentFlags().Lookup("storage-s3-endpoint"))
	viper.BindPFlag("storage.s3.prefix", rootCmd.PersistentFlags().Lookup("storage-s3-prefix"))
	viper.BindPFlag("storage.s3.accessKeyId", rootCmd.PersistentFlags().Lookup("storage-s3-accessKeyId"))
	viper.BindPFlag("storage.s3.secretAccessKey", rootCmd.PersistentFlags().Lookup("storage-s3-secretAccessKey"))
	viper.BindPFlag("publisher.enabled", rootCmd.PersistentFlags().Lookup("publisher-enabled"))
	viper.BindPFlag("publisher.brokers", rootCmd.PersistentFlags().Lookup("publisher-brokers"))
	viper.BindPFlag("publisher.topic", rootCmd.PersistentFlags().Lookup("publisher-topic"))
	viper.BindPFlag("publisher.username", rootCmd.PersistentFlags().Lookup("publisher-username"))
	viper.BindPFlag("publisher.password", rootCmd.PersistentFlags().Lookup("publisher-password"))
	viper.BindPFlag("publisher.enableTLS", rootCmd.PersistentFlags().Lookup("publisher-enableTLS"))
	viper.BindPFlag("api.enabled", rootCmd.PersistentFlags().Lookup("api-enabled"))
	viper.BindPFlag("api.host", rootCmd.PersistentFlags().Lookup("api-host"))
	viper.BindPFlag("api.basicAuth.username", rootCmd.PersistentFlags().Lookup("api-basicAuth-username"))
	viper.BindPFlag("api.basicAuth.password", rootCmd.PersistentFlags().Lookup("api-basicAuth-password"))
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(statusCmd)
}

func initConfig() {
	env.Load()
	if err := configs.LoadConfig(cfgFile); err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	customLogger.InitLogger()
}
