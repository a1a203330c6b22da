// internal/server/websocket.go
package server

import (
	"go-tower-defense-sim/internal/app"
	"go-tower-defense-sim/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HandleWebsocket streams the session's presenter hooks. The first frame is
// the full state; client messages are only read to detect the disconnect.
func HandleWebsocket() gin.HandlerFunc {
	log := logger.Component("ws")
	return func(c *gin.Context) {
		s := session(c)
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.WithError(err).Warn("WS upgrade error")
			return
		}
		hub := s.Hub()
		hub.Register(conn)

		var snap *app.Snapshot
		s.Do(func(g *app.Game) { snap = g.Snapshot() })
		if err := hub.Send(conn, Message{Type: "snapshot", Data: snap}); err != nil {
			log.WithError(err).Debug("Initial send error")
			hub.Unregister(conn)
			return
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Unregister(conn)
				return
			}
		}
	}
}
