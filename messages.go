package server

import "grove-and-grain/server/internal/sim"

const protocolVersion = 1

// welcomeMessage is sent once per subscription. Background tiles never
// change, so they only travel here.
type welcomeMessage struct {
	Ver        int                  `json:"ver"`
	Type       string               `json:"type"`
	Name       string               `json:"name"`
	Rows       int                  `json:"rows"`
	Cols       int                  `json:"cols"`
	Tiles      [][]string           `json:"tiles"`
	Entities   []sim.EntitySnapshot `json:"entities"`
	SimTime    float64              `json:"simTime"`
	ServerTime int64                `json:"serverTime"`
}

type stateMessage struct {
	Ver        int                  `json:"ver"`
	Type       string               `json:"type"`
	Tick       uint64               `json:"t"`
	SimTime    float64              `json:"simTime"`
	Entities   []sim.EntitySnapshot `json:"entities"`
	ServerTime int64                `json:"serverTime"`
}

type diagnosticsSnapshot struct {
	Ver           int     `json:"ver"`
	Name          string  `json:"name"`
	Rows          int     `json:"rows"`
	Cols          int     `json:"cols"`
	Tick          uint64  `json:"t"`
	SimTime       float64 `json:"simTime"`
	Entities      int     `json:"entities"`
	PendingEvents int     `json:"pendingEvents"`
	EventsFired   uint64  `json:"eventsFired"`
	Subscribers   int     `json:"subscribers"`
}
