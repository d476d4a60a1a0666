package agent

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

	"github.com/charmbracelet/log"

	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
)

const (
	EndpointCreateAgent = "/api_tools/create-agent"
	EndpointChat        = "/api_tools/chat"
	EndpointInputData   = "/api_tools/input_data"
	EndpointReturnData  = "/api_tools/return_data/"
	EndpointObjects     = "/api_tools/objects/"

	DataTypeStrings = "strings"

	maxResponseBytes = 1 << 20
)

type reqCreateAgent struct {
	Instructions string `json:"instructions"`
	AgentName    string `json:"agent_name"`
}

type respCreateAgent struct {
	AgentId string `json:"agent_id"`
}

type reqChat struct {
	AgentId string `json:"agent_id"`
	Message string `json:"message"`
}

type respChat struct {
	Response string `json:"response"`
}

type reqInputData struct {
	CreatedObjectName string   `json:"created_object_name"`
	DataType          string   `json:"data_type"`
	InputData         []string `json:"input_data"`
}

type respReturnData struct {
	TextValue string `json:"text_value"`
}

// Client talks to the conversational agent service. It is safe for
// concurrent use.
type Client struct {
	baseUrl    string
	token      string
	httpClient *http.Client
	recorder   Recorder
}

type Option func(*Client)

func WithHttpClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(c *Client) {
		c.recorder = recorder
	}
}

func NewClient(baseUrl, token string, opts ...Option) *Client {
	c := &Client{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: time.Second * 30},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CreateAgent(ctx context.Context, instructions, name string) (string, error) {
	var resp respCreateAgent
	if err := c.do(ctx, http.MethodPost, EndpointCreateAgent, reqCreateAgent{Instructions: instructions, AgentName: name}, &resp); err != nil {
		return "", err
	}
	if resp.AgentId == "" {
		return "", cerr.ErrNoAgent(name)
	}
	return resp.AgentId, nil
}

func (c *Client) Chat(ctx context.Context, agentId, message string) (string, error) {
	var resp respChat
	if err := c.do(ctx, http.MethodPost, EndpointChat, reqChat{AgentId: agentId, Message: message}, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

func (c *Client) StoreData(ctx context.Context, name string, values []string) error {
	req := reqInputData{CreatedObjectName: name, DataType: DataTypeStrings, InputData: values}
	return c.do(ctx, http.MethodPost, EndpointInputData, req, nil)
}

func (c *Client) ReturnData(ctx context.Context, name string) (string, error) {
	var resp respReturnData
	if err := c.do(ctx, http.MethodGet, EndpointReturnData+url.PathEscape(name), nil, &resp); err != nil {
		return "", err
	}
	return resp.TextValue, nil
}

func (c *Client) DeleteObject(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, EndpointObjects+url.PathEscape(name), nil, nil)
}

// do sends one request and decodes the JSON answer into out when out is
// not nil. Every call is reported to the recorder, failed or not.
func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) (err error) {
	call := Call{Timestamp: time.Now(), Method: method, Endpoint: endpoint}
	defer func() {
		call.Err = err
		c.record(ctx, call)
	}()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		call.Request = string(raw)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}
	call.Response = string(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return cerr.ErrAgentStatus(endpoint, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) record(ctx context.Context, call Call) {
	if call.Err != nil {
		log.Warn("agent call failed", "method", call.Method, "endpoint", call.Endpoint, "err", call.Err)
	} else {
		log.Debug("agent call", "method", call.Method, "endpoint", call.Endpoint)
	}
	if c.recorder != nil {
		c.recorder.Record(ctx, call)
	}
}
