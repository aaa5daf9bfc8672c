package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/strata3d/strata/internal/devserver"
	"github.com/strata3d/strata/pkg/client"
	"github.com/strata3d/strata/pkg/resources"
)

const testKey = "alice//0123456789abcdef0123456789abcdef0123"

func testServer(t *testing.T) (*httptest.Server, *client.Session) {
	t.Helper()
	srv := httptest.NewServer(devserver.New(zap.NewNop()).Router())
	t.Cleanup(srv.Close)

	session, err := client.NewSession(
		client.WithEndpoint(srv.URL+"/"),
		client.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return srv, session
}

func testLine(t *testing.T) *resources.Line {
	t.Helper()
	l := resources.NewLine()
	require.NoError(t, l.SetTitle("survey"))
	require.NoError(t, l.Mesh().SetTitle("drillhole mesh"))
	require.NoError(t, l.Mesh().SetVertices([][]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}))
	require.NoError(t, l.Mesh().SetSegments([][]int64{{0, 1}, {1, 2}}))

	data := resources.NewDataArray()
	require.NoError(t, data.SetTitle("depth"))
	require.NoError(t, data.SetValues([]float64{10, 20}))
	binder, err := resources.NewLineBinder("CC", data)
	require.NoError(t, err)
	require.NoError(t, l.AddData(binder))
	return l
}

func TestIsKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{testKey, true},
		{"alice//short", false},
		{"no-separator", false},
		{"//0123456789abcdef0123456789abcdef0123", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := client.IsKey(tt.key); got != tt.want {
			t.Errorf("IsKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestSession_Endpoint(t *testing.T) {
	_, err := client.NewSession(client.WithEndpoint("http://app.strata3d.com/"))
	assert.Error(t, err, "live endpoints require HTTPS")

	s, err := client.NewSession(client.WithEndpoint("http://localhost:8080"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/", s.Endpoint(), "bare URLs get a trailing slash")
}

func TestSession_Login(t *testing.T) {
	_, session := testServer(t)

	err := session.Login(context.Background(), "not-a-key")
	assert.Error(t, err)
	assert.False(t, session.LoggedIn())

	require.NoError(t, session.Login(context.Background(), testKey))
	assert.True(t, session.LoggedIn())
	assert.Equal(t, "alice", session.Username())

	session.Logout()
	assert.False(t, session.LoggedIn())
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	_, session := testServer(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, testKey))

	line := testLine(t)
	uid, err := session.UploadLine(ctx, line, false)
	require.NoError(t, err)
	require.NotEmpty(t, uid)
	assert.Equal(t, uid, line.UID())
	assert.False(t, line.HasChanges(), "confirmed upload clears dirty state")

	got, err := session.DownloadLine(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "survey", got.Title())
	assert.Equal(t, "drillhole mesh", got.Mesh().Title(), "mesh metadata survives the round trip")
	assert.Equal(t, line.Mesh().Vertices().Floats(), got.Mesh().Vertices().Floats())
	assert.Equal(t, line.Mesh().Segments().Ints(), got.Mesh().Segments().Ints())
	require.Len(t, got.Data(), 1)
	assert.Equal(t, []float64{10, 20}, got.Data()[0].Data().Array().Floats())
	assert.False(t, got.HasChanges(), "downloaded resources start synced")
}

func TestUploadLine_PartialUpdate(t *testing.T) {
	_, session := testServer(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, testKey))

	line := testLine(t)
	uid, err := session.UploadLine(ctx, line, false)
	require.NoError(t, err)

	// change only the bound data; the mesh arrays stay on the server
	require.NoError(t, line.Data()[0].Data().SetValues([]float64{30, 40}))
	files, err := line.DirtyFiles(false)
	require.NoError(t, err)
	require.Len(t, files, 1)

	updated, err := session.UploadLine(ctx, line, false)
	require.NoError(t, err)
	assert.Equal(t, uid, updated)

	got, err := session.DownloadLine(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 40}, got.Data()[0].Data().Array().Floats())
	assert.Equal(t, line.Mesh().Vertices().Floats(), got.Mesh().Vertices().Floats())
}

func TestUploadLine_RequiresLogin(t *testing.T) {
	_, session := testServer(t)
	_, err := session.UploadLine(context.Background(), testLine(t), false)
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
}

func TestUploadLine_ValidationBlocksNetwork(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"username": "alice"})
	}))
	defer srv.Close()

	session, err := client.NewSession(client.WithEndpoint(srv.URL + "/"))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, testKey))
	requests = 0

	line := testLine(t)
	require.NoError(t, line.Mesh().SetSegments([][]int64{{0, 7}})) // out of range

	_, err = session.UploadLine(ctx, line, false)
	var connErr *resources.InvalidConnectivityError
	require.ErrorAs(t, err, &connErr)
	assert.Zero(t, requests, "validation failures must not reach the network")
}

func TestUploadLine_FailureLeavesDirtyIntact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/me" {
			json.NewEncoder(w).Encode(map[string]string{"username": "alice"})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"reason": "storage offline"})
	}))
	defer srv.Close()

	session, err := client.NewSession(client.WithEndpoint(srv.URL + "/"))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, testKey))

	line := testLine(t)
	_, err = session.UploadLine(ctx, line, false)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "storage offline", apiErr.Message)

	assert.True(t, line.HasChanges(), "failed upload must leave the dirty-file set unchanged")
	assert.Empty(t, line.UID())

	files, err := line.DirtyFiles(false)
	require.NoError(t, err)
	assert.Len(t, files, 3, "the whole dirty-file set remains retryable")
}
