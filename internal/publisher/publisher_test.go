package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
	"github.com/twmb/franz-go/pkg/kgo"
)

const testContentID = "c0ffee00c0ffee00c0ffee00c0ffee00c0ffee00c0ffee00c0ffee00c0ffee00"

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	args := m.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (m *mockProducer) Close() {
	m.Called()
}

func fixedTime() time.Time {
	return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
}

func headerMap(record *kgo.Record) map[string]string {
	headers := map[string]string{}
	for _, h := range record.Headers {
		headers[h.Key] = string(h.Value)
	}
	return headers
}

func TestCreateRecord(t *testing.T) {
	p := newPublisherWithClient(nil, "blobs")

	record, err := p.createRecord(common.BlobRecord{
		ContentID: "0x" + testContentID,
		Payload:   []byte("hello world"),
		Height:    77,
		Index:     4,
	}, fixedTime())
	require.NoError(t, err)

	assert.Equal(t, "blobs", record.Topic)
	assert.Equal(t, testContentID, string(record.Key))
	assert.Equal(t, map[string]string{
		"height":         "77",
		"type":           MessageTypeStored,
		"schema_version": MessageSchemaVersion,
	}, headerMap(record))

	var msg BlobStoredMessage
	require.NoError(t, json.Unmarshal(record.Value, &msg))
	assert.Equal(t, BlobStoredMessage{
		ContentID: testContentID,
		Height:    77,
		Index:     4,
		Size:      11,
		Timestamp: fixedTime(),
	}, msg)
}

func TestCreateRecordInvalidID(t *testing.T) {
	p := newPublisherWithClient(nil, "blobs")

	_, err := p.createRecord(common.BlobRecord{ContentID: "nothex!"}, fixedTime())
	assert.ErrorIs(t, err, common.ErrInvalidContentID)
}

func TestPublishBlobs(t *testing.T) {
	ctx := context.Background()
	client := &mockProducer{}
	p := newPublisherWithClient(client, "blobs")
	p.nowFunc = fixedTime

	records := []common.BlobRecord{
		{ContentID: testContentID, Payload: []byte("a"), Height: 3, Index: 0},
		{ContentID: "abcd" + testContentID[4:], Payload: []byte("bb"), Height: 3, Index: 5},
	}

	client.On("ProduceSync", ctx, mock.MatchedBy(func(rs []*kgo.Record) bool {
		return len(rs) == 2 && string(rs[0].Key) == testContentID && string(rs[1].Key) == "abcd"+testContentID[4:]
	})).Return(kgo.ProduceResults{{}, {}}).Once()

	require.NoError(t, p.PublishBlobs(ctx, records))
	client.AssertExpectations(t)
}

func TestPublishBlobsFailure(t *testing.T) {
	ctx := context.Background()
	client := &mockProducer{}
	p := newPublisherWithClient(client, "blobs")

	client.On("ProduceSync", ctx, mock.Anything).
		Return(kgo.ProduceResults{{Err: errors.New("broker down")}})

	err := p.PublishBlobs(ctx, []common.BlobRecord{{ContentID: testContentID, Height: 1}})
	assert.ErrorContains(t, err, "broker down")
}

func TestPublishBlobsEmpty(t *testing.T) {
	client := &mockProducer{}
	p := newPublisherWithClient(client, "blobs")

	require.NoError(t, p.PublishBlobs(context.Background(), nil))
	client.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
}

func TestCloseIsIdempotent(t *testing.T) {
	client := &mockProducer{}
	client.On("Close").Return().Once()
	p := newPublisherWithClient(client, "blobs")

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	client.AssertExpectations(t)

	err := p.PublishBlobs(context.Background(), []common.BlobRecord{{ContentID: testContentID}})
	assert.ErrorIs(t, err, ErrPublisherClosed)
	client.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
}
