package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

// ApiClient talks to the QR Menu backend over HTTP and keeps the websocket
// feed alive.
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("QRMENU_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

// apiResponse is the common envelope of the order endpoints.
type apiResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Order   *Order  `json:"order"`
	Orders  []Order `json:"orders"`
}

// FetchOrders fetches the full order list over HTTP.
func (c *ApiClient) FetchOrders() ([]Order, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/api/orders")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, fmt.Errorf("fetch orders failed: %s", body.Message)
	}
	return body.Orders, nil
}

// AdvanceOrder asks the server to move the order to its next status.
func (c *ApiClient) AdvanceOrder(orderID int) (*Order, error) {
	url := fmt.Sprintf("%s/api/orders/%d/transition", c.BaseURL, orderID)
	resp, err := c.httpClient.Post(url, "application/json", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, fmt.Errorf("advance order #%d: %s", orderID, body.Message)
	}
	return body.Order, nil
}

// DeleteOrder removes an order (clearing a completed one, or cancelling).
func (c *ApiClient) DeleteOrder(orderID int) error {
	url := fmt.Sprintf("%s/api/orders/%d", c.BaseURL, orderID)
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	if !body.Success {
		return fmt.Errorf("delete order #%d: %s", orderID, body.Message)
	}
	return nil
}

// Login exchanges the staff credentials for a session token.
func (c *ApiClient) Login(username, password string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := c.httpClient.Post(c.BaseURL+"/api/staff/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if !body.Success {
		return "", fmt.Errorf("login failed: %s", body.Message)
	}
	return body.Token, nil
}

// Websocket feed messages delivered to the TUI.

type connectedMsg struct{}

type disconnectedMsg struct{ err error }

type orderEventMsg struct {
	Event string
	Data  json.RawMessage
}

type actionErrMsg struct{ err error }

// wsURL derives the websocket endpoint from the HTTP base URL.
func (c *ApiClient) wsURL() string {
	url := strings.Replace(c.BaseURL, "https://", "wss://", 1)
	url = strings.Replace(url, "http://", "ws://", 1)
	return url + "/ws"
}

// Listen keeps the websocket feed connected, forwarding every event to the
// TUI program. On connection loss it retries with capped exponential backoff;
// the mirror keeps its last rendered state until the next snapshot arrives.
func (c *ApiClient) Listen(program *tea.Program) {
	backoff := time.Second
	for {
		conn, _, err := websocket.DefaultDialer.Dial(c.wsURL(), nil)
		if err != nil {
			program.Send(disconnectedMsg{err: err})
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()

		backoff = time.Second
		program.Send(connectedMsg{})

		for {
			var msg orderEventMsg
			if err := conn.ReadJSON(&msg); err != nil {
				break
			}
			program.Send(msg)
		}

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
		program.Send(disconnectedMsg{})
	}
}

// RequestOrders asks the server for a fresh snapshot over the feed.
func (c *ApiClient) RequestOrders() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("feed not connected")
	}
	return c.conn.WriteJSON(map[string]string{"event": "requestOrders"})
}
