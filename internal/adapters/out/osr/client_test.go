package osr_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osrorders/internal/adapters/out/osr"
	"osrorders/internal/core/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*osr.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := osr.NewClient(server.URL, 2*time.Second, testLogger())
	require.NoError(t, err)
	return client, server
}

func TestNewClient(t *testing.T) {
	_, err := osr.NewClient("not a url", 0, testLogger())
	assert.Error(t, err)

	_, err = osr.NewClient("/relative/path", 0, testLogger())
	assert.Error(t, err)

	client, err := osr.NewClient("http://osr.local:8080/", 0, testLogger())
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestClientSend(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		var gotBody string
		var gotContentType string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/orders", r.URL.Path)
			gotContentType = r.Header.Get("Content-Type")
			payload, _ := io.ReadAll(r.Body)
			gotBody = string(payload)
			_, _ = w.Write([]byte("osr-42\n"))
		})

		ref, err := client.Send(context.Background(), "<host2osr></host2osr>")
		require.NoError(t, err)
		assert.Equal(t, ports.RemoteReference("osr-42"), ref)
		assert.Equal(t, "application/xml", gotContentType)
		assert.Equal(t, "<host2osr></host2osr>", gotBody)
	})

	t.Run("server error is transient", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		})

		_, err := client.Send(context.Background(), "<host2osr></host2osr>")
		require.Error(t, err)
		assert.True(t, ports.IsTransient(err))
	})

	t.Run("rejection is permanent", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "schema validation failed", http.StatusUnprocessableEntity)
		})

		_, err := client.Send(context.Background(), "<host2osr></host2osr>")
		require.Error(t, err)
		assert.True(t, ports.IsPermanent(err))
		assert.Contains(t, err.Error(), "schema validation failed")
	})

	t.Run("connection failure is transient", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		client, err := osr.NewClient(server.URL, time.Second, testLogger())
		require.NoError(t, err)

		_, err = client.Send(context.Background(), "<host2osr></host2osr>")
		require.Error(t, err)
		assert.True(t, ports.IsTransient(err))
	})

	t.Run("empty reference is permanent", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("  \n"))
		})

		_, err := client.Send(context.Background(), "<host2osr></host2osr>")
		require.Error(t, err)
		assert.True(t, ports.IsPermanent(err))
	})
}

func TestClientCancel(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/orders/osr-42/cancel", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		})

		require.NoError(t, client.Cancel(context.Background(), "osr-42"))
	})

	t.Run("conflict is permanent", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "processing already started", http.StatusConflict)
		})

		err := client.Cancel(context.Background(), "osr-42")
		require.Error(t, err)
		assert.True(t, ports.IsPermanent(err))
	})
}

func TestClientQueryStatus(t *testing.T) {
	tests := []struct {
		body string
		want ports.RemoteStatus
	}{
		{"processing", ports.RemoteStatusProcessing},
		{"pending", ports.RemoteStatusProcessing},
		{"Completed\n", ports.RemoteStatusCompleted},
		{"cancelled", ports.RemoteStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/orders/osr-42/status", r.URL.Path)
				require.Equal(t, http.MethodGet, r.Method)
				_, _ = w.Write([]byte(tt.body))
			})

			status, err := client.QueryStatus(context.Background(), "osr-42")
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}

	t.Run("unparsable status is permanent", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("exploded"))
		})

		_, err := client.QueryStatus(context.Background(), "osr-42")
		require.Error(t, err)
		assert.True(t, ports.IsPermanent(err))
	})

	t.Run("timeout is transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(500 * time.Millisecond)
			_, _ = w.Write([]byte("processing"))
		}))
		t.Cleanup(server.Close)

		client, err := osr.NewClient(server.URL, 50*time.Millisecond, testLogger())
		require.NoError(t, err)

		_, err = client.QueryStatus(context.Background(), "osr-42")
		require.Error(t, err)
		assert.True(t, ports.IsTransient(err))
	})
}
