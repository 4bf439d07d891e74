// Package cli implements an interactive REPL front end: a line-oriented
// client that prompts for each command's fields and calls the HTTP API.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tradingplatform/internal/accounts"
	"tradingplatform/internal/matching"
)

// Client talks to a trading platform's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client targeting baseURL (e.g. "http://localhost:8080").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type apiError struct {
	Code    uint16 `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if jsonErr := json.Unmarshal(payload, &apiErr); jsonErr == nil && apiErr.Message != "" {
			return fmt.Errorf("%s (code %d)", apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("request failed: %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(payload, out)
}

// Balance fetches signer's current balance.
func (c *Client) Balance(signer string) (uint64, error) {
	var balance uint64
	err := c.do(http.MethodGet, "/account", map[string]string{"signer": signer}, &balance)
	return balance, err
}

// Deposit deposits amount into signer's account.
func (c *Client) Deposit(signer string, amount uint64) (accounts.Tx, error) {
	var tx accounts.Tx
	err := c.do(http.MethodPost, "/account/deposit", map[string]any{"signer": signer, "amount": amount}, &tx)
	return tx, err
}

// Withdraw withdraws amount from signer's account.
func (c *Client) Withdraw(signer string, amount uint64) (accounts.Tx, error) {
	var tx accounts.Tx
	err := c.do(http.MethodPost, "/account/withdraw", map[string]any{"signer": signer, "amount": amount}, &tx)
	return tx, err
}

// Send transfers amount from sender to recipient.
func (c *Client) Send(sender, recipient string, amount uint64) ([2]accounts.Tx, error) {
	var txes [2]accounts.Tx
	err := c.do(http.MethodPost, "/account/send", map[string]any{
		"sender": sender, "recipient": recipient, "amount": amount,
	}, &txes)
	return txes, err
}

// Order submits an order and returns its receipt.
func (c *Client) Order(order matching.Order) (matching.Receipt, error) {
	var receipt matching.Receipt
	err := c.do(http.MethodPost, "/order", order, &receipt)
	return receipt, err
}

// Orderbook fetches the current order book.
func (c *Client) Orderbook() ([]matching.PartialOrder, error) {
	var book []matching.PartialOrder
	err := c.do(http.MethodGet, "/orderbook", nil, &book)
	return book, err
}

// History fetches the full receipt history.
func (c *Client) History() ([]matching.Receipt, error) {
	var history []matching.Receipt
	err := c.do(http.MethodGet, "/order/history", nil, &history)
	return history, err
}
