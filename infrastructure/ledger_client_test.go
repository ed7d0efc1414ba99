package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerHTTPClient_CreateAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/accounts", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"account_id":  "0.0.12345",
			"public_key":  "302a300506",
			"private_key": "302e020100",
		})
	}))
	defer server.Close()

	client := NewLedgerHTTPClient(server.URL, 5*time.Second)

	account, err := client.CreateAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.0.12345", account.AccountID)
	assert.Equal(t, "302a300506", account.PublicKey)
	assert.Equal(t, "302e020100", account.PrivateKey)
}

func TestLedgerHTTPClient_CreateAccountIncompleteMaterial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"account_id": "0.0.12345",
		})
	}))
	defer server.Close()

	client := NewLedgerHTTPClient(server.URL, 5*time.Second)

	_, err := client.CreateAccount(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete account material")
}

func TestLedgerHTTPClient_AssociateToken(t *testing.T) {
	var received associateTokenRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/associate-token", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewLedgerHTTPClient(server.URL, 5*time.Second)

	err := client.AssociateToken(context.Background(), "0.0.12345", "302e020100")
	require.NoError(t, err)
	assert.Equal(t, "0.0.12345", received.AccountID)
	assert.Equal(t, "302e020100", received.PrivateKey)
}

func TestLedgerHTTPClient_ErrorStatusSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "account quota exceeded", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewLedgerHTTPClient(server.URL, 5*time.Second)

	_, err := client.CreateAccount(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "account quota exceeded")
}
