package decoder

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
)

func gzipHex(t *testing.T, payload string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return hex.EncodeToString(buf.Bytes())
}

func envelope(t *testing.T, doc map[string]interface{}) ([]byte, string) {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return raw, base64.StdEncoding.EncodeToString(raw)
}

func TestDecodeBlobTransaction(t *testing.T) {
	envelopeBytes, tx := envelope(t, map[string]interface{}{
		"type": "blob",
		"body": map[string]interface{}{"data": gzipHex(t, "hello")},
	})

	record, err := NewDecoder(ModeGzip).Decode(tx)
	require.NoError(t, err)
	require.NotNil(t, record)

	sum := sha256.Sum256(envelopeBytes)
	assert.Equal(t, hex.EncodeToString(sum[:]), record.ContentID)
	assert.Equal(t, []byte("hello"), record.Payload)
}

func TestDecodeIsDeterministic(t *testing.T) {
	_, tx := envelope(t, map[string]interface{}{
		"type": "blob",
		"body": map[string]interface{}{"data": gzipHex(t, "same bytes")},
	})

	d := NewDecoder(ModeGzip)
	first, err := d.Decode(tx)
	require.NoError(t, err)
	second, err := d.Decode(tx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeNonBlobReturnsNil(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{
			name: "transfer type",
			raw:  base64.StdEncoding.EncodeToString([]byte(`{"type":"transfer","body":{"data":"00"}}`)),
		},
		{
			name: "missing type",
			raw:  base64.StdEncoding.EncodeToString([]byte(`{"body":{"data":"00"}}`)),
		},
		{
			name: "type with different case",
			raw:  base64.StdEncoding.EncodeToString([]byte(`{"type":"Blob","body":{"data":"00"}}`)),
		},
		{
			name: "non object document",
			raw:  base64.StdEncoding.EncodeToString([]byte(`["blob"]`)),
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NewDecoder(ModeGzip).Decode(tt.raw)
			assert.NoError(t, err)
			assert.Nil(t, record)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{
			name:    "malformed base64",
			raw:     "not base64 !!",
			wantErr: common.ErrDecode,
		},
		{
			name:    "malformed json",
			raw:     base64.StdEncoding.EncodeToString([]byte(`{"type":`)),
			wantErr: common.ErrDecode,
		},
		{
			name:    "missing body",
			raw:     base64.StdEncoding.EncodeToString([]byte(`{"type":"blob"}`)),
			wantErr: common.ErrMissingField,
		},
		{
			name:    "data is not a string",
			raw:     base64.StdEncoding.EncodeToString([]byte(`{"type":"blob","body":{"data":42}}`)),
			wantErr: common.ErrMissingField,
		},
		{
			name:    "data is not hex",
			raw:     base64.StdEncoding.EncodeToString([]byte(`{"type":"blob","body":{"data":"zz"}}`)),
			wantErr: common.ErrDecode,
		},
		{
			name:    "data is not gzip",
			raw:     base64.StdEncoding.EncodeToString([]byte(`{"type":"blob","body":{"data":"deadbeef"}}`)),
			wantErr: common.ErrDecode,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NewDecoder(ModeGzip).Decode(tt.raw)
			assert.Nil(t, record)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, common.IsSkippable(err))
		})
	}
}

func TestDecodeRawModeKeepsDataVerbatim(t *testing.T) {
	envelopeBytes, tx := envelope(t, map[string]interface{}{
		"type": "blob",
		"body": map[string]interface{}{"data": "0xdeadbeef"},
	})

	record, err := NewDecoder(ModeRaw).Decode(tx)
	require.NoError(t, err)
	require.NotNil(t, record)

	sum := sha256.Sum256(envelopeBytes)
	assert.Equal(t, hex.EncodeToString(sum[:]), record.ContentID)
	assert.Equal(t, []byte("0xdeadbeef"), record.Payload)
}

func TestDecodeBlockMixed(t *testing.T) {
	_, blob := envelope(t, map[string]interface{}{
		"type": "blob",
		"body": map[string]interface{}{"data": gzipHex(t, "hello")},
	})
	_, transfer := envelope(t, map[string]interface{}{
		"type": "transfer",
		"body": map[string]interface{}{"to": "someone"},
	})

	records, skipped := NewDecoder(ModeGzip).DecodeBlock(10, []string{transfer, "%%%not-base64%%%", blob})

	require.Len(t, records, 1)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, []byte("hello"), records[0].Payload)
	assert.Equal(t, uint64(10), records[0].Height)
	assert.Equal(t, 2, records[0].Index)
}

func TestDecodeBlockEmpty(t *testing.T) {
	records, skipped := NewDecoder(ModeGzip).DecodeBlock(5, []string{})
	assert.Empty(t, records)
	assert.Zero(t, skipped)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeGzip, mode)

	mode, err = ParseMode("raw")
	require.NoError(t, err)
	assert.Equal(t, ModeRaw, mode)

	_, err = ParseMode("zstd")
	assert.Error(t, err)
}

func TestDecodeRejectsOversizedPayload(t *testing.T) {
	_, tx := envelope(t, map[string]interface{}{
		"type": "blob",
		"body": map[string]interface{}{"data": gzipHex(t, string(bytes.Repeat([]byte{0}, 1<<16)))},
	})

	d := NewDecoder(ModeGzip)
	d.maxPayloadSize = 1 << 10

	record, err := d.Decode(tx)
	assert.ErrorIs(t, err, common.ErrDecode)
	assert.ErrorContains(t, err, "exceeds 1024 bytes")
	assert.Nil(t, record)
}

func TestDecodePayloadAtSizeLimit(t *testing.T) {
	payload := string(bytes.Repeat([]byte("a"), 1<<10))
	_, tx := envelope(t, map[string]interface{}{
		"type": "blob",
		"body": map[string]interface{}{"data": gzipHex(t, payload)},
	})

	d := NewDecoder(ModeGzip)
	d.maxPayloadSize = 1 << 10

	record, err := d.Decode(tx)
	require.NoError(t, err)
	assert.Equal(t, []byte(payload), record.Payload)
}
