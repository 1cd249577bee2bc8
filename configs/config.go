package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Prettify bool   `mapstructure:"prettify"`
}

type RPCConfig struct {
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"`
}

type DecoderConfig struct {
	Mode string `mapstructure:"mode"`
}

type PollerConfig struct {
	BackoffInterval int    `mapstructure:"backoffInterval"`
	UntilHeight     uint64 `mapstructure:"untilHeight"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type CursorConfig struct {
	Redis *RedisConfig `mapstructure:"redis"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	Prefix          string `mapstructure:"prefix"`
	AccessKeyID     string `mapstructure:"accessKeyId"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
}

type StorageConfig struct {
	Root    string        `mapstructure:"root"`
	Cursor  CursorConfig  `mapstructure:"cursor"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	S3      *S3Config     `mapstructure:"s3"`
}

type PublisherConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Brokers   string `mapstructure:"brokers"`
	Topic     string `mapstructure:"topic"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	EnableTLS bool   `mapstructure:"enableTLS"`
}

type BasicAuthConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type APIConfig struct {
	Enabled   bool             `mapstructure:"enabled"`
	Host      string           `mapstructure:"host"`
	BasicAuth *BasicAuthConfig `mapstructure:"basicAuth"`
}

type Config struct {
	RPC       RPCConfig       `mapstructure:"rpc"`
	Log       LogConfig       `mapstructure:"log"`
	Decoder   DecoderConfig   `mapstructure:"decoder"`
	Poller    PollerConfig    `mapstructure:"poller"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Publisher PublisherConfig `mapstructure:"publisher"`
	API       APIConfig       `mapstructure:"api"`
}

var Cfg Config

func LoadConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file, %s", err)
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./configs")

		// a missing config file is fine, flags and env can carry everything
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("error reading config file, %s", err)
			}
		}
	}

	// sets e.g. RPC_URL to rpc.url
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv()

	err := viper.Unmarshal(&Cfg)
	if err != nil {
		return fmt.Errorf("error unmarshalling config: %v", err)
	}

	return nil
}
