package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/thirdweb-dev/blob-indexer/internal/common"
)

type rawBlockResponse struct {
	Result *struct {
		Block *struct {
			Data *struct {
				Txs json.RawMessage `json:"txs"`
			} `json:"data"`
		} `json:"block"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// SerializeBlockTransactions extracts result.block.data.txs from a /block response body.
// An empty array is a valid empty block; anything that is not an array of strings is malformed.
func SerializeBlockTransactions(height uint64, body []byte) ([]string, error) {
	var resp rawBlockResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: block %d: invalid json: %v", common.ErrMalformedResponse, height, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: block %d: %w", common.ErrMalformedResponse, height, resp.Error)
	}
	if resp.Result == nil || resp.Result.Block == nil || resp.Result.Block.Data == nil || len(resp.Result.Block.Data.Txs) == 0 {
		return nil, fmt.Errorf("%w: block %d: result.block.data.txs not found", common.ErrMalformedResponse, height)
	}

	var rawTxs []interface{}
	if err := json.Unmarshal(resp.Result.Block.Data.Txs, &rawTxs); err != nil {
		return nil, fmt.Errorf("%w: block %d: txs is not an array: %v", common.ErrMalformedResponse, height, err)
	}
	if rawTxs == nil {
		return nil, fmt.Errorf("%w: block %d: txs is null", common.ErrMalformedResponse, height)
	}

	txs := make([]string, 0, len(rawTxs))
	for i, rawTx := range rawTxs {
		tx, ok := rawTx.(string)
		if !ok {
			return nil, fmt.Errorf("%w: block %d: tx %d is %T, not a string", common.ErrMalformedResponse, height, i, rawTx)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func extractRPCError(body []byte) *RPCError {
	var resp rawBlockResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}
	return resp.Error
}
