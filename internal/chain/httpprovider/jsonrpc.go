package httpprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/synnergy-network/walletd/internal/errs"
)

// JSONRPCClient is a minimal JSON-RPC 2.0 client over an EndpointPool, shared
// by the EVM, Cosmos, Solana, Sui, Ton and Tron Provider implementations.
type JSONRPCClient struct {
	pool *EndpointPool
}

// NewJSONRPCClient wraps pool for JSON-RPC calls.
func NewJSONRPCClient(pool *EndpointPool) *JSONRPCClient {
	return &JSONRPCClient{pool: pool}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID int `json:"id"`
	Method string `json:"method"`
	Params any `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code int `json:"code"`
	Message string `json:"message"`
}

// Call invokes method with params against the pool's next eligible endpoint
// and unmarshals the result into out. Cancel-safe: a canceled ctx aborts the
// underlying HTTP round trip.
func (c *JSONRPCClient) Call(ctx context.Context, method string, params any, out any) error {
	url, client, ok := c.pool.Acquire()
	if !ok {
		return fmt.Errorf("jsonrpc: no eligible endpoint: %w", errs.ErrTransientRPC)
	}

	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("jsonrpc: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("jsonrpc: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		c.pool.ReportFailure(url)
		return fmt.Errorf("jsonrpc: %s: %w: %v", method, errs.ErrTransientRPC, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.pool.ReportFailure(url)
		return fmt.Errorf("jsonrpc: read response: %w: %v", errs.ErrTransientRPC, err)
	}

	if resp.StatusCode >= 500 {
		c.pool.ReportFailure(url)
		return fmt.Errorf("jsonrpc: %s: http %d: %w", method, resp.StatusCode, errs.ErrTransientRPC)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("jsonrpc: unmarshal envelope: %w", errs.ErrProtocolDecode)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("jsonrpc: %s: %s: %w", method, rpcResp.Error.Message, errs.ErrTransientRPC)
	}

	c.pool.ReportSuccess(url)

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("jsonrpc: unmarshal result: %w", errs.ErrProtocolDecode)
	}
	return nil
}
