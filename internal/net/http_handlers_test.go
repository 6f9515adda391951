package net

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	server "grove-and-grain/server"
	"grove-and-grain/server/internal/sim"
)

func newTestServer(t *testing.T) (*httptest.Server, *server.Hub) {
	t.Helper()
	world := sim.NewWorld(3, 3, sim.DefaultConfig(), nil)
	scheduler := sim.NewScheduler()
	world.SetBackgroundAt(sim.Point{X: 1, Y: 1}, sim.Background{ID: "water"})
	world.AddEntity(sim.NewHouse("house-1", sim.Point{X: 0, Y: 0}))

	hub := server.NewHub("net-test", world, scheduler, server.DefaultHubConfig())
	ts := httptest.NewServer(NewHTTPHandler(hub, HTTPHandlerConfig{}))
	t.Cleanup(ts.Close)
	return ts, hub
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := nethttp.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Fatalf("expected ok body, got %q", body)
	}
}

func TestDiagnosticsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := nethttp.Get(ts.URL + "/diagnostics")
	if err != nil {
		t.Fatalf("diagnostics request: %v", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Status string `json:"status"`
		World  struct {
			Name     string `json:"name"`
			Entities int    `json:"entities"`
		} `json:"world"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode diagnostics: %v", err)
	}
	if payload.Status != "ok" {
		t.Fatalf("expected ok status, got %q", payload.Status)
	}
	if payload.World.Name != "net-test" {
		t.Fatalf("expected world name, got %q", payload.World.Name)
	}
	if payload.World.Entities != 1 {
		t.Fatalf("expected 1 entity, got %d", payload.World.Entities)
	}
}

func TestSpectatorReceivesWelcome(t *testing.T) {
	ts, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var welcome struct {
		Type     string     `json:"type"`
		Name     string     `json:"name"`
		Rows     int        `json:"rows"`
		Cols     int        `json:"cols"`
		Tiles    [][]string `json:"tiles"`
		Entities []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"entities"`
	}
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}

	if welcome.Type != "welcome" {
		t.Fatalf("expected welcome message, got %q", welcome.Type)
	}
	if welcome.Rows != 3 || welcome.Cols != 3 {
		t.Fatalf("expected 3x3 grid, got %dx%d", welcome.Rows, welcome.Cols)
	}
	if welcome.Tiles[1][1] != "water" {
		t.Fatalf("expected water tile at (1,1), got %q", welcome.Tiles[1][1])
	}
	if len(welcome.Entities) != 1 || welcome.Entities[0].ID != "house-1" {
		t.Fatalf("expected house-1 in welcome, got %v", welcome.Entities)
	}
}

func TestSpectatorReceivesStateBroadcasts(t *testing.T) {
	ts, hub := newTestServer(t)

	stop := make(chan struct{})
	defer close(stop)
	go hub.RunSimulation(stop)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var msg struct {
		Type    string  `json:"type"`
		Tick    uint64  `json:"t"`
		SimTime float64 `json:"simTime"`
	}
	// First message is the welcome; the loop then delivers states.
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read state: %v", err)
	}
	if msg.Type != "state" {
		t.Fatalf("expected state message, got %q", msg.Type)
	}
	if msg.Tick == 0 {
		t.Fatalf("expected a positive tick")
	}
}
