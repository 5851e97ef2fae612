// Package render is the thin rendering glue: it streams derived UI
// snapshots to attached clients over WebSocket and feeds taps back
// into the engine. It contributes no decision logic.
package render

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/callscreen/internal/app"
	"github.com/dkeye/callscreen/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type wsConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(b []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- b:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// Controller implements core.StatePublisher and owns the set of
// attached render clients.
type Controller struct {
	loop *core.RunLoop

	mu      sync.RWMutex
	screen  *app.CallScreenController
	conns   map[*wsConn]struct{}
	last    core.UIStateSnapshot
	hasLast bool
}

func NewController(loop *core.RunLoop) *Controller {
	return &Controller{
		loop:  loop,
		conns: make(map[*wsConn]struct{}),
	}
}

// SetScreen attaches the engine once it is constructed. Input events
// arriving before that are dropped.
func (ctl *Controller) SetScreen(screen *app.CallScreenController) {
	ctl.mu.Lock()
	ctl.screen = screen
	ctl.mu.Unlock()
}

// Publish fans the snapshot out to every attached client. Slow
// clients are dropped rather than allowed to stall the engine.
func (ctl *Controller) Publish(snap core.UIStateSnapshot) {
	b, err := json.Marshal(snap)
	if err != nil {
		log.Error().Err(err).Str("module", "render").Msg("marshal snapshot")
		return
	}

	ctl.mu.Lock()
	ctl.last = snap
	ctl.hasLast = true
	var dropped []*wsConn
	for c := range ctl.conns {
		if err := c.TrySend(b); err != nil {
			dropped = append(dropped, c)
		}
	}
	for _, c := range dropped {
		delete(ctl.conns, c)
	}
	ctl.mu.Unlock()

	for _, c := range dropped {
		log.Warn().Str("module", "render").Msg("dropping slow render client")
		c.Close()
	}
}

// LastState returns the most recently published snapshot.
func (ctl *Controller) LastState() (core.UIStateSnapshot, bool) {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	return ctl.last, ctl.hasLast
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleUI upgrades the request and starts the pumps for one client.
func (ctl *Controller) HandleUI(c *gin.Context) {
	sid := c.GetString("client_token")
	log.Info().Str("module", "render").Str("sid", sid).Msg("new render client")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "render").Msg("ws upgrade")
		return
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan []byte, 32),
	}

	ctl.mu.Lock()
	ctl.conns[conn] = struct{}{}
	snap, has := ctl.last, ctl.hasLast
	ctl.mu.Unlock()

	// New clients immediately see the current state.
	if has {
		if b, err := json.Marshal(snap); err == nil {
			_ = conn.TrySend(b)
		}
	}

	go ctl.writePump(conn)
	go ctl.readPump(sid, conn)
}

func (ctl *Controller) writePump(c *wsConn) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Error().Err(err).Str("module", "render").Msg("writePump write error")
			return
		}
	}
}

func (ctl *Controller) readPump(sid string, c *wsConn) {
	defer func() {
		log.Info().Str("module", "render").Str("sid", sid).Msg("readPump closing")
		ctl.mu.Lock()
		delete(ctl.conns, c)
		ctl.mu.Unlock()
		c.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		ctl.handleInput(data)
	}
}

// handleInput routes a client event onto the UI loop. The render side
// never touches engine state directly.
func (ctl *Controller) handleInput(data []byte) {
	var env struct {
		Type       string `json:"type"`
		Descriptor string `json:"descriptor"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "render").Msg("bad json")
		return
	}

	ctl.mu.RLock()
	screen := ctl.screen
	ctl.mu.RUnlock()
	if screen == nil {
		log.Warn().Str("module", "render").Str("type", env.Type).Msg("input before screen attach")
		return
	}

	switch env.Type {
	case "tap":
		ctl.loop.Post(screen.ScreenTapped)
	case "foreground":
		ctl.loop.Post(screen.AppForegrounded)
	case "speakerphone":
		ctl.loop.Post(screen.ToggleSpeakerphone)
	case "dismiss_nag":
		ctl.loop.Post(screen.DismissNag)
	case "select_source":
		descriptor := env.Descriptor
		ctl.loop.Post(func() {
			for _, src := range screen.Routes().AppropriateSources(false) {
				if src.Descriptor == descriptor {
					screen.SelectAudioSource(src)
					return
				}
			}
			log.Warn().Str("module", "render").Str("descriptor", descriptor).Msg("unknown audio source")
		})
	default:
		log.Warn().Str("module", "render").Str("type", env.Type).Msg("unknown input")
	}
}
