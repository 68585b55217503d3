package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the ledger service
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a ledger client for the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Transactions fetches the transaction list, optionally filtered by group.
// An empty group fetches everything.
func (c *Client) Transactions(ctx context.Context, group string) ([]Transaction, error) {
	endpoint := c.baseURL + "/transactions"
	if group != "" {
		endpoint += "?group=" + url.QueryEscape(group)
	}

	var txs []Transaction
	if err := c.getJSON(ctx, endpoint, &txs); err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	return txs, nil
}

// Groups fetches the list of transaction groups
func (c *Client) Groups(ctx context.Context) ([]string, error) {
	var groups []string
	if err := c.getJSON(ctx, c.baseURL+"/groups", &groups); err != nil {
		return nil, fmt.Errorf("fetch groups: %w", err)
	}
	return groups, nil
}

// DeleteTransaction removes a transaction by ID
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/transactions/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("delete transaction %s: server returned %s", id, resp.Status)
	}
	return nil
}

// UpdateTransaction replaces a transaction's fields on the server
func (c *Client) UpdateTransaction(ctx context.Context, tx Transaction) error {
	body, err := json.Marshal(tx)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + "/transactions/" + url.PathEscape(tx.ID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", tx.ID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("update transaction %s: server returned %s", tx.ID, resp.Status)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
