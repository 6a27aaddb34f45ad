package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spendwell/spendwell/internal/config"
	"github.com/spendwell/spendwell/pkg/expense"
	"github.com/spendwell/spendwell/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/clientcredentials"
)

// Client talks to the remote expense records API. Payloads stay raw maps so
// the normalizer sees upstream data exactly as it arrived.
type Client interface {
	FetchRecords(ctx context.Context) ([]expense.RawRecord, error)
	CreateRecord(ctx context.Context, record expense.RawRecord) (expense.RawRecord, error)
	UpdateRecord(ctx context.Context, id string, record expense.RawRecord) (expense.RawRecord, error)
	DeleteRecord(ctx context.Context, id string) error
}

type ClientImpl struct {
	baseUrl    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client from configuration. When an OAuth2 token URL is
// configured the client authenticates with client credentials; otherwise an
// optional static API key header is sent.
func NewClient(cfg config.Upstream) *ClientImpl {
	httpClient := &http.Client{Timeout: 15 * time.Second}
	if cfg.Auth.TokenUrl != "" {
		ccConfig := clientcredentials.Config{
			ClientID:     cfg.Auth.ClientId,
			ClientSecret: cfg.Auth.ClientSecret,
			TokenURL:     cfg.Auth.TokenUrl,
		}
		httpClient = ccConfig.Client(context.Background())
		httpClient.Timeout = 15 * time.Second
	}
	return &ClientImpl{
		baseUrl:    cfg.BaseUrl,
		apiKey:     cfg.ApiKey,
		httpClient: httpClient,
	}
}

// FetchRecords retrieves all expense records of the current user.
func (c *ClientImpl) FetchRecords(ctx context.Context) ([]expense.RawRecord, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	requestUrl := fmt.Sprintf("%s/expenses?userId=%s", c.baseUrl, url.QueryEscape(currentUser.Uid))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("expense API returned non-OK status: %d", resp.StatusCode)
		log.Error(err)
		return nil, err
	}

	var records []expense.RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return nil, err
	}
	return records, nil
}

func (c *ClientImpl) CreateRecord(ctx context.Context, record expense.RawRecord) (expense.RawRecord, error) {
	return c.sendRecord(ctx, http.MethodPost, c.baseUrl+"/expenses", record, http.StatusCreated, http.StatusOK)
}

func (c *ClientImpl) UpdateRecord(ctx context.Context, id string, record expense.RawRecord) (expense.RawRecord, error) {
	requestUrl := fmt.Sprintf("%s/expenses/%s", c.baseUrl, url.PathEscape(id))
	return c.sendRecord(ctx, http.MethodPut, requestUrl, record, http.StatusOK)
}

func (c *ClientImpl) DeleteRecord(ctx context.Context, id string) error {
	requestUrl := fmt.Sprintf("%s/expenses/%s", c.baseUrl, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, requestUrl, nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		err := fmt.Errorf("expense API returned non-OK status: %d", resp.StatusCode)
		log.Error(err)
		return err
	}
	return nil
}

func (c *ClientImpl) sendRecord(ctx context.Context, method string, requestUrl string, record expense.RawRecord, okStatuses ...int) (expense.RawRecord, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, requestUrl, bytes.NewReader(body))
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	statusOk := false
	for _, status := range okStatuses {
		if resp.StatusCode == status {
			statusOk = true
		}
	}
	if !statusOk {
		err := fmt.Errorf("expense API returned non-OK status: %d", resp.StatusCode)
		log.Error(err)
		return nil, err
	}

	var result expense.RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return nil, err
	}
	return result, nil
}

func (c *ClientImpl) do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return nil, err
	}
	return resp, nil
}
