package rpc

import (
	"net/url"
	"strconv"
)

const blockPath = "/block"

func GetBlockParams(height uint64) url.Values {
	return url.Values{"height": []string{strconv.FormatUint(height, 10)}}
}
