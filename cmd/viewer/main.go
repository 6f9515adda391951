// Command viewer renders a live world stream in the terminal. It is a
// pure spectator: it connects to a running server's /ws endpoint and
// draws whatever arrives.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"
)

type serverMessage struct {
	Ver      int        `json:"ver"`
	Type     string     `json:"type"`
	Name     string     `json:"name"`
	Rows     int        `json:"rows"`
	Cols     int        `json:"cols"`
	Tiles    [][]string `json:"tiles"`
	Entities []entity   `json:"entities"`
	SimTime  float64    `json:"simTime"`
	Tick     uint64     `json:"t"`
}

type entity struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Frame         int    `json:"frame"`
	Health        int    `json:"health"`
	ResourceCount int    `json:"resourceCount"`
}

type viewer struct {
	screen tcell.Screen

	name    string
	rows    int
	cols    int
	tiles   [][]string
	latest  []entity
	simTime float64
	tick    uint64
}

var tileStyles = map[string]tcell.Style{
	"grass":   tcell.StyleDefault.Foreground(tcell.ColorGreen),
	"flowers": tcell.StyleDefault.Foreground(tcell.ColorPink),
	"water":   tcell.StyleDefault.Foreground(tcell.ColorBlue),
	"rock":    tcell.StyleDefault.Foreground(tcell.ColorGray),
}

var tileRunes = map[string]rune{
	"grass":   '.',
	"flowers": ',',
	"water":   '~',
	"rock":    '#',
}

type glyph struct {
	r     rune
	style tcell.Style
}

var kindGlyphs = map[string]glyph{
	"house":         {'H', tcell.StyleDefault.Foreground(tcell.ColorYellow)},
	"obstacle":      {'#', tcell.StyleDefault.Foreground(tcell.ColorGray).Bold(true)},
	"tree":          {'T', tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)},
	"stump":         {'t', tcell.StyleDefault.Foreground(tcell.ColorOlive)},
	"sapling":       {'s', tcell.StyleDefault.Foreground(tcell.ColorLightGreen)},
	"fairy":         {'*', tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)},
	"dude_not_full": {'d', tcell.StyleDefault.Foreground(tcell.ColorWhite)},
	"dude_full":     {'D', tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)},
}

func main() {
	addr := flag.String("addr", "ws://localhost:8080/ws", "server websocket endpoint")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*addr, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("init screen: %v", err)
	}
	defer screen.Fini()

	v := &viewer{screen: screen}

	messages := make(chan serverMessage, 8)
	readErr := make(chan error, 1)
	go func() {
		for {
			var msg serverMessage
			if err := conn.ReadJSON(&msg); err != nil {
				readErr <- err
				return
			}
			messages <- msg
		}
	}()

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			events <- screen.PollEvent()
		}
	}()

	for {
		select {
		case msg := <-messages:
			v.apply(msg)
			v.draw()
		case err := <-readErr:
			screen.Fini()
			fmt.Fprintf(os.Stderr, "connection lost: %v\n", err)
			os.Exit(1)
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				v.draw()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return
				}
			}
		}
	}
}

func (v *viewer) apply(msg serverMessage) {
	switch msg.Type {
	case "welcome":
		v.name = msg.Name
		v.rows = msg.Rows
		v.cols = msg.Cols
		v.tiles = msg.Tiles
		v.latest = msg.Entities
		v.simTime = msg.SimTime
	case "state":
		v.latest = msg.Entities
		v.simTime = msg.SimTime
		v.tick = msg.Tick
	}
}

func (v *viewer) draw() {
	v.screen.Clear()

	for y := 0; y < v.rows && y < len(v.tiles); y++ {
		for x := 0; x < v.cols && x < len(v.tiles[y]); x++ {
			id := v.tiles[y][x]
			r, ok := tileRunes[id]
			if !ok {
				r = '.'
			}
			style, ok := tileStyles[id]
			if !ok {
				style = tcell.StyleDefault
			}
			v.screen.SetContent(x, y, r, nil, style.Dim(true))
		}
	}

	for _, e := range v.latest {
		g, ok := kindGlyphs[e.Kind]
		if !ok {
			g = glyph{'?', tcell.StyleDefault}
		}
		style := g.style
		if e.Frame%2 == 1 {
			style = style.Reverse(true)
		}
		v.screen.SetContent(e.X, e.Y, g.r, nil, style)
	}

	status := fmt.Sprintf(" %s  t=%.1f tick=%d entities=%d  [q to quit] ", v.name, v.simTime, v.tick, len(v.latest))
	drawText(v.screen, 0, v.rows+1, tcell.StyleDefault.Reverse(true), status)

	v.screen.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}
