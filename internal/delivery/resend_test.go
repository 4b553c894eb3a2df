package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kindle-digest/internal/digest"
)

func testClient(baseURL string) *ResendClient {
	return &ResendClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		apiKey:     "re_test_key",
		from:       DefaultFrom,
	}
}

func TestResendClient_Send(t *testing.T) {
	var received sendRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer re_test_key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sendResponse{ID: "email_123"})
	}))
	defer server.Close()

	client := testClient(server.URL)
	id, err := client.Send(context.Background(), "reader@example.com", digest.Document{
		Subject: "Digest",
		HTML:    "<html></html>",
	})

	require.NoError(t, err)
	assert.Equal(t, "email_123", id)
	assert.Equal(t, []string{"reader@example.com"}, received.To)
	assert.Equal(t, DefaultFrom, received.From)
	assert.Equal(t, "Digest", received.Subject)
}

func TestResendClient_Send_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Send(context.Background(), "reader@example.com", digest.Document{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestResendClient_Send_MissingAPIKey(t *testing.T) {
	client := NewResendClient("", "")

	_, err := client.Send(context.Background(), "reader@example.com", digest.Document{})

	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestResendClient_Send_MissingRecipient(t *testing.T) {
	client := NewResendClient("re_test_key", "")

	_, err := client.Send(context.Background(), "", digest.Document{})

	assert.ErrorIs(t, err, ErrMissingRecipient)
}

func TestNewResendClient_DefaultSender(t *testing.T) {
	client := NewResendClient("re_test_key", "")
	assert.Equal(t, DefaultFrom, client.from)

	custom := NewResendClient("re_test_key", "Me <digest@example.com>")
	assert.Equal(t, "Me <digest@example.com>", custom.from)
}
