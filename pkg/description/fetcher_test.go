package description_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfwd/upnp-go/pkg/description"
)

func TestClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte("<root/>"))
	}))
	defer server.Close()

	client := description.NewClient(description.ClientConfig{})

	data, err := client.Fetch(context.Background(), server.URL+"/rootDesc.xml")
	require.NoError(t, err)
	assert.Equal(t, []byte("<root/>"), data)
}

func TestClientFetchNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := description.NewClient(description.ClientConfig{})

	_, err := client.Fetch(context.Background(), server.URL+"/missing.xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, description.ErrHTTPStatus))
}

func TestClientFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := description.NewClient(description.ClientConfig{Timeout: time.Second})

	_, err := client.Fetch(context.Background(), url)
	require.Error(t, err)
}

func TestClientFetchContextCancelled(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client := description.NewClient(description.ClientConfig{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Fetch(ctx, server.URL)
	require.Error(t, err)
}
