package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
rpc:
  url: http://node:26657
  timeout: 5000
decoder:
  mode: raw
poller:
  backoffInterval: 250
  untilHeight: 100
storage:
  root: /var/lib/blobs
  cursor:
    redis:
      addr: redis:6379
      key: cursor
  s3:
    bucket: blobs
    region: eu-west-1
    accessKeyId: AKIA
publisher:
  enabled: true
  brokers: kafka-1:9092,kafka-2:9092
api:
  host: ":8080"
  basicAuth:
    username: reader
    password: s3cret
`

func loadTestConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	originalConfig := Cfg
	t.Cleanup(func() {
		Cfg = originalConfig
		viper.Reset()
	})

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	require.NoError(t, LoadConfig(path))
}

func TestLoadConfig(t *testing.T) {
	loadTestConfig(t)

	assert.Equal(t, RPCConfig{URL: "http://node:26657", Timeout: 5000}, Cfg.RPC)
	assert.Equal(t, "raw", Cfg.Decoder.Mode)
	assert.Equal(t, PollerConfig{BackoffInterval: 250, UntilHeight: 100}, Cfg.Poller)
	assert.Equal(t, "/var/lib/blobs", Cfg.Storage.Root)
	require.NotNil(t, Cfg.Storage.Cursor.Redis)
	assert.Equal(t, "redis:6379", Cfg.Storage.Cursor.Redis.Addr)
	assert.Equal(t, "cursor", Cfg.Storage.Cursor.Redis.Key)
	require.NotNil(t, Cfg.Storage.S3)
	assert.Equal(t, S3Config{Bucket: "blobs", Region: "eu-west-1", AccessKeyID: "AKIA"}, *Cfg.Storage.S3)
	assert.True(t, Cfg.Publisher.Enabled)
	assert.Equal(t, "kafka-1:9092,kafka-2:9092", Cfg.Publisher.Brokers)
	assert.Equal(t, ":8080", Cfg.API.Host)
	require.NotNil(t, Cfg.API.BasicAuth)
	assert.Equal(t, "reader", Cfg.API.BasicAuth.Username)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("RPC_URL", "http://other-node:26657")
	t.Setenv("STORAGE_ROOT", "/mnt/blobs")
	loadTestConfig(t)

	assert.Equal(t, "http://other-node:26657", Cfg.RPC.URL)
	assert.Equal(t, "/mnt/blobs", Cfg.Storage.Root)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
