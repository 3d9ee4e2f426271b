package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homekeepapp/go-home-keeper/models"
)

// newSyncServer runs a minimal in-process sync endpoint that records the last
// request it saw and answers with canned responses.
type syncServer struct {
	*httptest.Server

	lastAuth     string
	lastDeviceID string
	lastPull     models.PullRequest
	lastPush     models.PushRequest

	pullStatus int
	pushStatus int
	pullResp   models.PullResponse
	pushResp   models.PushResponse
}

func newSyncServer(t *testing.T) *syncServer {
	t.Helper()
	s := &syncServer{pullStatus: http.StatusOK, pushStatus: http.StatusOK}

	r := chi.NewRouter()
	r.Use(middleware.AllowContentType("application/json"))
	r.Post("/api/sync/pull", func(w http.ResponseWriter, req *http.Request) {
		s.lastAuth = req.Header.Get("Authorization")
		s.lastDeviceID = req.Header.Get("X-Device-ID")
		require.NoError(t, json.NewDecoder(req.Body).Decode(&s.lastPull))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.pullStatus)
		require.NoError(t, json.NewEncoder(w).Encode(s.pullResp))
	})
	r.Post("/api/sync/push", func(w http.ResponseWriter, req *http.Request) {
		s.lastAuth = req.Header.Get("Authorization")
		s.lastDeviceID = req.Header.Get("X-Device-ID")
		require.NoError(t, json.NewDecoder(req.Body).Decode(&s.lastPush))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.pushStatus)
		require.NoError(t, json.NewEncoder(w).Encode(s.pushResp))
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func newTestTransport(t *testing.T, srv *syncServer) SyncTransport {
	t.Helper()
	return NewHTTPSyncTransport(HTTPClientConfig{
		BaseURL:  srv.URL,
		DeviceID: "device-1",
		Timeout:  time.Second,
	})
}

func TestHTTPSyncTransport_Pull(t *testing.T) {
	srv := newSyncServer(t)
	serverTS := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	srv.pullResp = models.PullResponse{
		Entities: []models.ServerEntity{{
			ID:        "item-1",
			Version:   3,
			UpdatedAt: serverTS,
			Data:      map[string]any{"name": "Drill"},
		}},
		DeletedIDs:      []string{"item-2"},
		Checkpoint:      9,
		ServerTimestamp: serverTS,
	}

	transport := newTestTransport(t, srv)
	resp, err := transport.Pull(context.Background(), models.PullRequest{
		EntityType:     models.EntityTypeItem,
		HomeID:         "home-1",
		Checkpoint:     4,
		IncludeDeleted: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "device-1", srv.lastDeviceID)
	assert.Equal(t, "device-1", srv.lastPull.DeviceID)
	assert.Equal(t, models.EntityTypeItem, srv.lastPull.EntityType)
	assert.EqualValues(t, 4, srv.lastPull.Checkpoint)
	assert.True(t, srv.lastPull.IncludeDeleted)

	require.Len(t, resp.Entities, 1)
	assert.Equal(t, "item-1", resp.Entities[0].ID)
	assert.Equal(t, []string{"item-2"}, resp.DeletedIDs)
	assert.EqualValues(t, 9, resp.Checkpoint)
	assert.True(t, resp.ServerTimestamp.Equal(serverTS))
}

func TestHTTPSyncTransport_Push(t *testing.T) {
	srv := newSyncServer(t)
	srv.pushResp = models.PushResponse{
		Results:    []models.PushResult{{ID: "item-1", Status: models.PushStatusCreated, ServerVersion: 5}},
		Checkpoint: 11,
	}

	transport := newTestTransport(t, srv)
	resp, err := transport.Push(context.Background(), models.PushRequest{
		EntityType: models.EntityTypeItem,
		HomeID:     "home-1",
		Entities:   []models.ServerEntity{{ID: "item-1", Version: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "device-1", srv.lastPush.DeviceID)
	require.Len(t, srv.lastPush.Entities, 1)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, models.PushStatusCreated, resp.Results[0].Status)
	assert.EqualValues(t, 5, resp.Results[0].ServerVersion)
}

func TestHTTPSyncTransport_BearerToken(t *testing.T) {
	srv := newSyncServer(t)
	transport := newTestTransport(t, srv)

	_, err := transport.Pull(context.Background(), models.PullRequest{EntityType: models.EntityTypeItem})
	require.NoError(t, err)
	assert.Empty(t, srv.lastAuth)

	transport.(*httpSyncTransport).SetToken("  secret-token  ")
	_, err = transport.Pull(context.Background(), models.PullRequest{EntityType: models.EntityTypeItem})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", srv.lastAuth)
}

func TestHTTPSyncTransport_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "version conflict", status: http.StatusConflict, wantErr: ErrVersionConflict},
		{name: "server error", status: http.StatusInternalServerError, wantErr: ErrServerUnavailable},
		{name: "bad gateway", status: http.StatusBadGateway, wantErr: ErrServerUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newSyncServer(t)
			srv.pullStatus = tt.status
			transport := newTestTransport(t, srv)

			_, err := transport.Pull(context.Background(), models.PullRequest{EntityType: models.EntityTypeItem})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
