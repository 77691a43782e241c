package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

// RPCClient is a JSON-RPC 1.0 client for a node. The beacon only needs the
// chain tip and block hashes, both built on Call.
type RPCClient struct {
	url    string
	user   string
	pass   string
	client *http.Client
	nextID atomic.Int64
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Compile-time interface check.
var _ BlockSource = (*RPCClient)(nil)

// NewRPCClient creates a client for cfg. Basic Auth is sent when User is set.
func NewRPCClient(cfg RPCConfig) *RPCClient {
	return &RPCClient{
		url:  cfg.URL,
		user: cfg.User,
		pass: cfg.Password,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        4,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 4,
			},
		},
	}
}

// Call invokes method and decodes the result into result, which may be nil.
//
// Transport failures and non-2xx statuses wrap ErrConnectionFailed; undecodable
// bodies wrap ErrInvalidResponse. RPC-level errors carry the node's message.
func (c *RPCClient) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	reqBody := rpcRequest{
		JSONRPC: "1.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("network: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("network: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: HTTP %d: %s", ErrConnectionFailed, resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrInvalidResponse, err)
	}
	if rpcResp.ID != reqBody.ID {
		return fmt.Errorf("%w: response id %d, want %d", ErrInvalidResponse, rpcResp.ID, reqBody.ID)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("network: rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("%w: unmarshal result: %w", ErrInvalidResponse, err)
		}
	}
	return nil
}

// GetBestBlockHeight calls getblockcount.
func (c *RPCClient) GetBestBlockHeight(ctx context.Context) (uint64, error) {
	var height uint64
	if err := c.Call(ctx, "getblockcount", nil, &height); err != nil {
		return 0, err
	}
	return height, nil
}

// GetBlockHash calls getblockhash for the block at height.
func (c *RPCClient) GetBlockHash(ctx context.Context, height uint64) (*chainhash.Hash, error) {
	var hashHex string
	if err := c.Call(ctx, "getblockhash", []interface{}{height}, &hashHex); err != nil {
		return nil, err
	}
	hash, err := chainhash.NewHashFromHex(hashHex)
	if err != nil {
		return nil, fmt.Errorf("%w: block hash %q: %w", ErrInvalidResponse, hashHex, err)
	}
	return hash, nil
}
