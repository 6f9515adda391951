package server

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"grove-and-grain/server/internal/sim"
)

// HubConfig controls the pacing of the simulation loop.
type HubConfig struct {
	// TickRate is the number of advance/broadcast cycles per second.
	TickRate int
	// TimeScale converts wall seconds into simulated seconds.
	TimeScale float64
	// WriteWait bounds each subscriber write.
	WriteWait time.Duration
}

// DefaultHubConfig returns the production pacing.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		TickRate:  10,
		TimeScale: 1.0,
		WriteWait: 5 * time.Second,
	}
}

func (cfg HubConfig) normalized() HubConfig {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultHubConfig().TickRate
	}
	if cfg.TimeScale <= 0 {
		cfg.TimeScale = DefaultHubConfig().TimeScale
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = DefaultHubConfig().WriteWait
	}
	return cfg
}

// Hub owns the world and scheduler and fans snapshots out to
// spectator subscribers. All world access goes through its mutex.
type Hub struct {
	mu          sync.Mutex
	world       *sim.World
	scheduler   *sim.Scheduler
	driver      *sim.Driver
	subscribers map[string]*subscriber
	nextID      atomic.Uint64
	tick        uint64

	name  string
	tiles [][]string
	cfg   HubConfig
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewHub wraps an already-built world. The background tile snapshot is
// taken once; backgrounds are immutable after construction.
func NewHub(name string, world *sim.World, scheduler *sim.Scheduler, cfg HubConfig) *Hub {
	return &Hub{
		world:       world,
		scheduler:   scheduler,
		driver:      sim.NewDriver(scheduler),
		subscribers: make(map[string]*subscriber),
		name:        name,
		tiles:       world.BackgroundSnapshot(),
		cfg:         cfg.normalized(),
	}
}

// RunSimulation advances simulated time in lockstep with wall time and
// broadcasts a snapshot after every advance. It returns when stop
// closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(h.cfg.TickRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = 1.0 / float64(h.cfg.TickRate)
			}
			last = now

			snapshot := h.Advance(dt * h.cfg.TimeScale)
			h.broadcastState(snapshot)
		}
	}
}

// Advance runs the simulation forward by dt simulated seconds and
// returns the entity snapshot taken immediately afterwards.
func (h *Hub) Advance(dt float64) stateMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.driver.RunUntil(h.driver.Now() + dt)
	h.tick++
	return h.snapshotLocked()
}

func (h *Hub) snapshotLocked() stateMessage {
	return stateMessage{
		Ver:        protocolVersion,
		Type:       "state",
		Tick:       h.tick,
		SimTime:    h.driver.Now(),
		Entities:   h.world.Snapshot(),
		ServerTime: time.Now().UnixMilli(),
	}
}

// Subscribe registers a spectator connection and returns its id along
// with the welcome payload the caller must deliver first.
func (h *Hub) Subscribe(conn *websocket.Conn) (string, *subscriber, welcomeMessage) {
	id := fmt.Sprintf("spectator-%d", h.nextID.Add(1))
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	h.subscribers[id] = sub
	welcome := welcomeMessage{
		Ver:        protocolVersion,
		Type:       "welcome",
		Name:       h.name,
		Rows:       h.world.Rows(),
		Cols:       h.world.Cols(),
		Tiles:      h.tiles,
		Entities:   h.world.Snapshot(),
		SimTime:    h.driver.Now(),
		ServerTime: time.Now().UnixMilli(),
	}
	h.mu.Unlock()

	return id, sub, welcome
}

// Disconnect drops a subscriber and closes its connection.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
	}
}

// DiagnosticsSnapshot exposes loop counters for the diagnostics
// endpoint.
func (h *Hub) DiagnosticsSnapshot() diagnosticsSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	return diagnosticsSnapshot{
		Ver:           protocolVersion,
		Name:          h.name,
		Rows:          h.world.Rows(),
		Cols:          h.world.Cols(),
		Tick:          h.tick,
		SimTime:       h.driver.Now(),
		Entities:      h.world.Count(),
		PendingEvents: h.scheduler.Len(),
		EventsFired:   h.driver.EventsFired(),
		Subscribers:   len(h.subscribers),
	}
}

// broadcastState sends the snapshot to every subscriber, dropping any
// whose write fails.
func (h *Hub) broadcastState(msg stateMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal state message: %v", err)
		return
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.send(data, h.cfg.WriteWait); err != nil {
			log.Printf("failed to send update to %s: %v", id, err)
			h.Disconnect(id)
		}
	}
}

// SendWelcome delivers the welcome payload over the subscriber's
// connection.
func (h *Hub) SendWelcome(sub *subscriber, welcome welcomeMessage) error {
	data, err := json.Marshal(welcome)
	if err != nil {
		return fmt.Errorf("marshal welcome: %w", err)
	}
	return sub.send(data, h.cfg.WriteWait)
}

func (s *subscriber) send(data []byte, writeWait time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}
