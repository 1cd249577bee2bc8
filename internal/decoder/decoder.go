package decoder

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
	"github.com/thirdweb-dev/blob-indexer/internal/metrics"
)

const BlobTransactionType = "blob"

// DEFAULT_MAX_PAYLOAD_SIZE caps a decompressed gzip payload.
const DEFAULT_MAX_PAYLOAD_SIZE = 64 << 20

type Mode string

const (
	// ModeGzip hex-decodes and gunzips body.data.
	ModeGzip Mode = "gzip"
	// ModeRaw stores body.data verbatim. Kept for deployments that still write
	// uncompressed hex payloads.
	ModeRaw Mode = "raw"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeGzip:
		return ModeGzip, nil
	case ModeRaw:
		return ModeRaw, nil
	default:
		return "", fmt.Errorf("unknown decoder mode %q", s)
	}
}

type Decoder struct {
	mode           Mode
	maxPayloadSize int64
}

func NewDecoder(mode Mode) *Decoder {
	if mode == "" {
		mode = ModeGzip
	}
	return &Decoder{mode: mode, maxPayloadSize: DEFAULT_MAX_PAYLOAD_SIZE}
}

func (d *Decoder) Mode() Mode {
	return d.mode
}

// Decode turns one raw transaction into a blob record. It returns nil, nil for
// well-formed transactions that are not blobs.
func (d *Decoder) Decode(raw string) (*common.BlobRecord, error) {
	envelope, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", common.ErrDecode, err)
	}

	var doc interface{}
	if err := json.Unmarshal(envelope, &doc); err != nil {
		return nil, fmt.Errorf("%w: envelope json: %v", common.ErrDecode, err)
	}

	obj, ok := doc.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	if txType, _ := obj["type"].(string); txType != BlobTransactionType {
		return nil, nil
	}

	body, _ := obj["body"].(map[string]interface{})
	data, ok := body["data"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: body.data", common.ErrMissingField)
	}

	payload, err := d.decodePayload(data)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(envelope)
	return &common.BlobRecord{
		ContentID: hex.EncodeToString(sum[:]),
		Payload:   payload,
	}, nil
}

func (d *Decoder) decodePayload(data string) ([]byte, error) {
	if d.mode == ModeRaw {
		return []byte(data), nil
	}

	compressed, err := hex.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: body.data hex: %v", common.ErrDecode, err)
	}
	return gunzip(compressed, d.maxPayloadSize)
}

func gunzip(compressed []byte, maxSize int64) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip header: %v", common.ErrDecode, err)
	}
	defer zr.Close()

	payload, err := io.ReadAll(io.LimitReader(zr, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip stream: %v", common.ErrDecode, err)
	}
	if int64(len(payload)) > maxSize {
		return nil, fmt.Errorf("%w: gzip payload exceeds %d bytes", common.ErrDecode, maxSize)
	}
	return payload, nil
}

// DecodeBlock decodes every transaction of a block in order. Transactions that fail
// to decode are logged and counted, never returned as an error.
func (d *Decoder) DecodeBlock(height uint64, txs []string) (records []common.BlobRecord, skipped int) {
	records = make([]common.BlobRecord, 0, len(txs))
	for i, tx := range txs {
		metrics.TransactionsSeen.Inc()
		record, err := d.Decode(tx)
		if err != nil {
			skipped++
			metrics.TransactionsSkipped.WithLabelValues(skipReason(err)).Inc()
			log.Warn().Err(err).Uint64("height", height).Int("tx_index", i).Msg("Skipping undecodable transaction")
			continue
		}
		if record == nil {
			continue
		}
		record.Height = height
		record.Index = i
		records = append(records, *record)
		metrics.BlobsDecoded.Inc()
	}
	return records, skipped
}

func skipReason(err error) string {
	if errors.Is(err, common.ErrMissingField) {
		return "missing_field"
	}
	return "decode"
}
