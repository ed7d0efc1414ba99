package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"astraldraw/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// LedgerHTTPClient talks to the external ledger service over its JSON API
type LedgerHTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewLedgerHTTPClient creates a ledger client against baseURL with the given request timeout
func NewLedgerHTTPClient(baseURL string, timeout time.Duration) *LedgerHTTPClient {
	return &LedgerHTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type createAccountResponse struct {
	AccountID  string `json:"account_id"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

type associateTokenRequest struct {
	AccountID  string `json:"account_id"`
	PrivateKey string `json:"private_key"`
}

// CreateAccount provisions a new ledger account and returns its keys
func (c *LedgerHTTPClient) CreateAccount(ctx context.Context) (*interfaces.LedgerAccount, error) {
	var resp createAccountResponse
	if err := c.post(ctx, "/accounts", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to create ledger account: %w", err)
	}

	if resp.AccountID == "" || resp.PublicKey == "" || resp.PrivateKey == "" {
		return nil, fmt.Errorf("ledger returned incomplete account material for account %q", resp.AccountID)
	}

	log.WithField("accountId", resp.AccountID).Debug("Provisioned ledger account")

	return &interfaces.LedgerAccount{
		AccountID:  resp.AccountID,
		PublicKey:  resp.PublicKey,
		PrivateKey: resp.PrivateKey,
	}, nil
}

// AssociateToken associates the platform token with accountID
func (c *LedgerHTTPClient) AssociateToken(ctx context.Context, accountID, privateKey string) error {
	req := associateTokenRequest{
		AccountID:  accountID,
		PrivateKey: privateKey,
	}

	if err := c.post(ctx, "/accounts/associate-token", req, nil); err != nil {
		return fmt.Errorf("failed to associate token for account %s: %w", accountID, err)
	}

	log.WithField("accountId", accountID).Debug("Associated platform token with ledger account")
	return nil
}

// post issues a JSON POST and decodes the response body into out when non-nil
func (c *LedgerHTTPClient) post(ctx context.Context, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("ledger returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

var _ interfaces.LedgerClient = (*LedgerHTTPClient)(nil)
