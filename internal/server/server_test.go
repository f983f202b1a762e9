package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/jsuvanto/pyrl/internal/engine"
	"github.com/jsuvanto/pyrl/internal/network"
	"github.com/jsuvanto/pyrl/internal/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	lvl, err := domain.ParseLevel([]string{
		"#######",
		"#.....#",
		"#..#..#",
		"#.....#",
		"#######",
	})
	require.NoError(t, err)

	inst := engine.NewInstance(lvl, systems.ShadowCast{})
	require.NoError(t, inst.Spawn(&domain.Actor{
		ID: "hero", Kind: domain.ActorKindPlayer, Pos: domain.At(1, 1), Sight: 4, HP: 10,
		Energy: domain.Energy{Speed: domain.DefaultSpeed},
	}, nil))
	require.NoError(t, inst.Spawn(&domain.Actor{
		ID: "rat", Kind: domain.ActorKindNPC, Pos: domain.At(3, 5), Sight: 3, HP: 2,
		Energy: domain.Energy{Speed: domain.DefaultSpeed, Readiness: 10},
	}, nil))

	srv := New(inst, network.NewBroadcaster(8), "")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	_, ts := setupServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestDebugQueue(t *testing.T) {
	_, ts := setupServer(t)

	var view struct {
		Round int `json:"round"`
		Items []struct {
			Actor string  `json:"actor"`
			Key   float64 `json:"key"`
		} `json:"items"`
	}
	resp := getJSON(t, ts.URL+"/debug/queue", &view)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, view.Round)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "hero", view.Items[0].Actor)
	assert.Equal(t, "rat", view.Items[1].Actor)
	assert.Equal(t, 10.0, view.Items[1].Key)
}

func TestDebugActors(t *testing.T) {
	_, ts := setupServer(t)

	var actors []domain.Actor
	getJSON(t, ts.URL+"/debug/actors", &actors)
	require.Len(t, actors, 2)
	assert.Equal(t, domain.ActorID("hero"), actors[0].ID)
	assert.Equal(t, domain.At(3, 5), actors[1].Pos)
}

func TestDebugFOV(t *testing.T) {
	srv, ts := setupServer(t)

	type fovView struct {
		Cached bool           `json:"cached"`
		Cells  []domain.Coord `json:"cells"`
	}

	// До первого хода поле зрения считается на лету
	var fresh fovView
	resp := getJSON(t, ts.URL+"/debug/fov?actor=hero", &fresh)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, fresh.Cached)
	assert.Contains(t, fresh.Cells, domain.At(1, 1))

	_, err := srv.Instance.Step()
	require.NoError(t, err)

	var cached fovView
	getJSON(t, ts.URL+"/debug/fov?actor=hero", &cached)
	assert.True(t, cached.Cached)
	assert.Equal(t, fresh.Cells, cached.Cells, "hero has not moved")

	resp = getJSON(t, ts.URL+"/debug/fov?actor=ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = getJSON(t, ts.URL+"/debug/fov", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebsocketStreamsTurnEvents(t *testing.T) {
	srv, ts := setupServer(t)
	srv.Instance.Subscribe(srv.Hub.Broadcast)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil {
		defer resp.Body.Close()
	}
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	})

	require.Eventually(t, func() bool { return srv.Hub.SubscriberCount() == 1 },
		2*time.Second, 10*time.Millisecond, "client registers in the hub")

	ev, err := srv.Instance.Step()
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got struct {
		Actor  string `json:"actor"`
		Action string `json:"action"`
		Round  int    `json:"round"`
	}
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, string(ev.Actor), got.Actor)
	assert.Equal(t, "WAIT", got.Action)
	assert.Equal(t, 1, got.Round)
}
