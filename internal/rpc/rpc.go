package rpc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	config "github.com/thirdweb-dev/blob-indexer/configs"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
	"github.com/thirdweb-dev/blob-indexer/internal/metrics"
)

const DEFAULT_RPC_TIMEOUT = 30000

// maxResponseBytes bounds a single /block response body.
const maxResponseBytes = 256 << 20

type IRPCClient interface {
	// GetBlockTransactions returns the raw transactions of the block at height, in the
	// order the node returned them. It never retries.
	GetBlockTransactions(ctx context.Context, height uint64) ([]string, error)
	GetURL() string
	Close()
}

type Client struct {
	httpClient *http.Client
	url        string
}

func Initialize() (IRPCClient, error) {
	rpcUrl := config.Cfg.RPC.URL
	if rpcUrl == "" {
		return nil, fmt.Errorf("RPC_URL environment variable is not set")
	}
	timeout := config.Cfg.RPC.Timeout
	if timeout == 0 {
		timeout = DEFAULT_RPC_TIMEOUT
	}
	log.Debug().Str("url", rpcUrl).Int("timeout_ms", timeout).Msg("Initializing RPC")
	return NewClient(rpcUrl, time.Duration(timeout)*time.Millisecond), nil
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        strings.TrimRight(url, "/"),
	}
}

func (rpc *Client) GetURL() string {
	return rpc.url
}

func (rpc *Client) Close() {
	rpc.httpClient.CloseIdleConnections()
}

func (rpc *Client) GetBlockTransactions(ctx context.Context, height uint64) ([]string, error) {
	startTime := time.Now()
	defer func() {
		metrics.RPCRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	reqUrl := rpc.url + blockPath + "?" + GetBlockParams(height).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: block %d: building request: %v", common.ErrNetwork, height, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := rpc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: block %d: %v", common.ErrNetwork, height, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: block %d: reading body: %v", common.ErrNetwork, height, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// nodes answer "height not available" with a JSON-RPC error and a 5xx
		if rpcErr := extractRPCError(body); rpcErr != nil {
			return nil, fmt.Errorf("%w: block %d: status %d: %w", common.ErrNetwork, height, resp.StatusCode, rpcErr)
		}
		return nil, fmt.Errorf("%w: block %d: unexpected status %d", common.ErrNetwork, height, resp.StatusCode)
	}

	return SerializeBlockTransactions(height, body)
}
