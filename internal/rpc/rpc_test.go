package rpc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, chan string) {
	t.Helper()
	requests := make(chan string, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, requests
}

func TestGetBlockTransactions(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":-1,"result":{"block":{"header":{"height":"17"},"data":{"txs":["YQ==","Yg=="]}}}}`)

	client := NewClient(srv.URL+"/", time.Second)
	txs, err := client.GetBlockTransactions(context.Background(), 17)
	require.NoError(t, err)

	assert.Equal(t, []string{"YQ==", "Yg=="}, txs)
	assert.Equal(t, "/block?height=17", <-requests)
	assert.Equal(t, srv.URL, client.GetURL())
}

func TestGetBlockTransactionsEmptyBlock(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"result":{"block":{"data":{"txs":[]}}}}`)

	txs, err := NewClient(srv.URL, time.Second).GetBlockTransactions(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.NotNil(t, txs)
}

func TestGetBlockTransactionsStatusErrors(t *testing.T) {
	t.Run("plain 5xx", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusBadGateway, `bad gateway`)

		_, err := NewClient(srv.URL, time.Second).GetBlockTransactions(context.Background(), 1)
		assert.ErrorIs(t, err, common.ErrNetwork)
		assert.ErrorContains(t, err, "unexpected status 502")
	})

	t.Run("5xx with rpc error", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusInternalServerError,
			`{"jsonrpc":"2.0","id":-1,"error":{"code":-32603,"message":"Internal error","data":"height 99 must be less than or equal to the current blockchain height 98"}}`)

		_, err := NewClient(srv.URL, time.Second).GetBlockTransactions(context.Background(), 99)
		assert.ErrorIs(t, err, common.ErrNetwork)

		var rpcErr *RPCError
		require.True(t, errors.As(err, &rpcErr))
		assert.Equal(t, -32603, rpcErr.Code)
		assert.Contains(t, rpcErr.Data, "current blockchain height 98")
	})
}

func TestGetBlockTransactionsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).GetBlockTransactions(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrNetwork)
}

func TestGetBlockTransactionsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	defer close(release)

	_, err := NewClient(srv.URL, 50*time.Millisecond).GetBlockTransactions(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrNetwork)
}

func TestSerializeBlockTransactions(t *testing.T) {
	testCases := []struct {
		name      string
		body      string
		want      []string
		wantError bool
	}{
		{name: "txs", body: `{"result":{"block":{"data":{"txs":["a","b"]}}}}`, want: []string{"a", "b"}},
		{name: "empty", body: `{"result":{"block":{"data":{"txs":[]}}}}`, want: []string{}},
		{name: "not json", body: `<html>`, wantError: true},
		{name: "no result", body: `{}`, wantError: true},
		{name: "no block", body: `{"result":{}}`, wantError: true},
		{name: "no data", body: `{"result":{"block":{}}}`, wantError: true},
		{name: "no txs", body: `{"result":{"block":{"data":{}}}}`, wantError: true},
		{name: "null txs", body: `{"result":{"block":{"data":{"txs":null}}}}`, wantError: true},
		{name: "txs object", body: `{"result":{"block":{"data":{"txs":{"0":"a"}}}}}`, wantError: true},
		{name: "non string tx", body: `{"result":{"block":{"data":{"txs":["a",1]}}}}`, wantError: true},
		{name: "rpc error", body: `{"error":{"code":-32603,"message":"Internal error"}}`, wantError: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := SerializeBlockTransactions(5, []byte(tt.body))
			if tt.wantError {
				assert.ErrorIs(t, err, common.ErrMalformedResponse)
				assert.Nil(t, txs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, txs)
		})
	}
}

func TestRPCErrorMessage(t *testing.T) {
	assert.Equal(t, "RPC error -32603: Internal error", (&RPCError{Code: -32603, Message: "Internal error"}).Error())
	assert.Equal(t, "RPC error 1: m (d)", (&RPCError{Code: 1, Message: "m", Data: "d"}).Error())
}
