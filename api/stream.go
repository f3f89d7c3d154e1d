package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/hoshinonyaruko/snake-grid/render"
	"github.com/hoshinonyaruko/snake-grid/session"
	"github.com/hoshinonyaruko/snake-grid/structs"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServerMessage is pushed to websocket clients.
type ServerMessage struct {
	Type  string            `json:"type"` // "state" or "error"
	State *structs.Snapshot `json:"state,omitempty"`
	Error string            `json:"error,omitempty"`
}

// ClientMessage is read from websocket clients. Action is a direction or
// "restart".
type ClientMessage struct {
	Action string `json:"action"`
}

// StreamHandler upgrades to a websocket, pushes every frame and applies the
// actions the client sends.
func StreamHandler(loop *session.Loop, latest *render.Latest, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		frames, unsubscribe := latest.Subscribe()
		defer unsubscribe()

		// 只有这一个goroutine写连接
		errs := make(chan string, 1)
		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-errs:
					if err := conn.WriteJSON(ServerMessage{Type: "error", Error: msg}); err != nil {
						conn.Close()
						return
					}
				case snap := <-frames:
					if err := conn.WriteJSON(ServerMessage{Type: "state", State: &snap}); err != nil {
						conn.Close()
						return
					}
				}
			}
		}()

		for {
			var msg ClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				break
			}
			if err := applyAction(ctx, loop, msg.Action); err != nil {
				select {
				case errs <- err.Error():
				default:
				}
			}
		}
		cancel()
		<-writerDone
	}
}

func applyAction(ctx context.Context, loop *session.Loop, action string) error {
	if action == "restart" {
		return loop.Restart(ctx)
	}
	h, err := structs.ParseHeading(action)
	if err != nil {
		return err
	}
	_, err = loop.Press(ctx, h)
	return err
}
