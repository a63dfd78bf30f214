// Package solana is the upstream collector: a thin JSON-RPC client that
// fetches transaction history for a scan target. All network concerns
// (pagination, retry, backoff) live here, strictly outside the detector
// core, which only ever sees the normalized Context.
package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	defaultEndpoint = "https://api.mainnet-beta.solana.com"
	maxRetries      = 3
	initialBackoff  = 500 * time.Millisecond
	pageSize        = 100
)

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client speaks Solana JSON-RPC 2.0 over HTTP POST.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// call performs one JSON-RPC request with bounded retry and exponential
// backoff. Context cancellation aborts between attempts.
func (c *Client) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal rpc request: %w", err)
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		lastErr = c.doOnce(ctx, payload, out)
		if lastErr == nil {
			return nil
		}
		log.Printf("[solana] %s attempt %d/%d failed: %v", method, attempt+1, maxRetries+1, lastErr)
	}
	return fmt.Errorf("%s failed after %d attempts: %w", method, maxRetries+1, lastErr)
}

func (c *Client) doOnce(ctx context.Context, payload []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("rate limited (429)")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("decode rpc envelope: %w", err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("decode rpc result: %w", err)
		}
	}
	return nil
}

// GetHealth reports whether the RPC node considers itself healthy.
func (c *Client) GetHealth(ctx context.Context) error {
	var status string
	if err := c.call(ctx, "getHealth", nil, &status); err != nil {
		return err
	}
	if status != "ok" {
		return fmt.Errorf("node unhealthy: %s", status)
	}
	return nil
}

// GetSignaturesForAddress pages through signature history for an address,
// newest first, up to limit entries.
func (c *Client) GetSignaturesForAddress(ctx context.Context, address string, limit int) ([]SignatureInfo, error) {
	var all []SignatureInfo
	before := ""
	for len(all) < limit {
		want := limit - len(all)
		if want > pageSize {
			want = pageSize
		}
		opts := map[string]interface{}{"limit": want}
		if before != "" {
			opts["before"] = before
		}

		var page []SignatureInfo
		if err := c.call(ctx, "getSignaturesForAddress", []interface{}{address, opts}, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < want {
			break
		}
		before = page[len(page)-1].Signature
	}
	return all, nil
}

// GetTransaction fetches one transaction with parsed instruction encoding.
func (c *Client) GetTransaction(ctx context.Context, signature string) (*TransactionResult, error) {
	opts := map[string]interface{}{
		"encoding":                       "jsonParsed",
		"maxSupportedTransactionVersion": 0,
	}
	var result *TransactionResult
	if err := c.call(ctx, "getTransaction", []interface{}{signature, opts}, &result); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("transaction %s not found", signature)
	}
	return result, nil
}
