// internal/server/server.go
package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go-tower-defense-sim/internal/app"
	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/internal/system"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type CreateRequest struct {
	Map  string `json:"map"`
	Seed int64  `json:"seed"`
}

type BuildRequest struct {
	Kind string `json:"kind" binding:"required"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

type SaveRequest struct {
	Name string `json:"name" binding:"required"`
}

type SpeedRequest struct {
	Index int `json:"index"`
}

// ResultResponse mirrors system.Result for clients.
type ResultResponse struct {
	OK     bool           `json:"ok"`
	Reason string         `json:"reason,omitempty"`
	ID     types.EntityID `json:"id,omitempty"`
}

// StateResponse is the polled summary of a session.
type StateResponse struct {
	ID          string                      `json:"id"`
	Map         string                      `json:"map"`
	State       string                      `json:"state"`
	GameTime    float64                     `json:"game_time"`
	Gold        int                         `json:"gold"`
	Lives       int                         `json:"lives"`
	Wave        int                         `json:"wave"`
	TotalWaves  int                         `json:"total_waves"`
	Countdown   float64                     `json:"countdown"`
	Paused      bool                        `json:"paused"`
	Speed       float64                     `json:"speed"`
	Towers      []interfaces.TowerView      `json:"towers"`
	Mobs        []interfaces.MobView        `json:"mobs"`
	Projectiles []interfaces.ProjectileView `json:"projectiles"`
}

// SetupRouter wires the session routes onto a gin engine.
func SetupRouter(m *Manager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.POST("/sessions", createHandler(m))
	r.POST("/sessions/restore", restoreHandler(m))

	s := r.Group("/sessions/:id", sessionMiddleware(m))
	s.GET("", stateHandler())
	s.DELETE("", closeHandler(m))
	s.GET("/snapshot", snapshotHandler())
	s.POST("/save", saveHandler(m))
	s.POST("/towers", buildHandler())
	s.POST("/towers/:tower/upgrade", towerHandler((*app.Game).UpgradeTower))
	s.POST("/towers/:tower/sell", towerHandler((*app.Game).SellTower))
	s.POST("/towers/:tower/lock", towerHandler((*app.Game).LockTower))
	s.POST("/towers/:tower/fire", towerHandler((*app.Game).FireTower))
	s.POST("/next-wave", nextWaveHandler())
	s.POST("/pause", pauseHandler())
	s.POST("/speed", speedHandler())
	s.GET("/ws", HandleWebsocket())

	return r
}

func requestLogger() gin.HandlerFunc {
	log := logger.Component("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("Request")
	}
}

func sessionMiddleware(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.Get(c.Param("id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.Set("session", s)
		c.Next()
	}
}

func session(c *gin.Context) *Session {
	return c.MustGet("session").(*Session)
}

// statusFor maps a refusal onto an HTTP status.
func statusFor(res system.Result) int {
	switch {
	case res.OK:
		return http.StatusOK
	case errors.Is(res.Err(), system.ErrUnknownTower):
		return http.StatusNotFound
	case errors.Is(res.Err(), system.ErrInvalidCell):
		return http.StatusBadRequest
	}
	return http.StatusConflict
}

func writeResult(c *gin.Context, res system.Result, id types.EntityID) {
	resp := ResultResponse{OK: res.OK, ID: id}
	if !res.OK {
		resp.Reason = res.Reason.String()
	}
	c.JSON(statusFor(res), resp)
}

func createHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		s, err := m.Create(req.Map, req.Seed)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": s.ID, "map": s.MapName})
	}
}

func restoreHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s, err := m.Restore(req.Name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": s.ID, "map": s.MapName})
	}
}

func closeHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.Close(session(c).ID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func stateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session(c)
		var resp StateResponse
		s.Do(func(g *app.Game) {
			resp = StateResponse{
				ID:          s.ID,
				Map:         s.MapName,
				State:       g.State().String(),
				GameTime:    g.GameTime(),
				Gold:        g.Gold(),
				Lives:       g.Lives(),
				Wave:        g.WaveNumber(),
				TotalWaves:  g.TotalWaves(),
				Countdown:   g.Countdown(),
				Paused:      g.Paused(),
				Speed:       g.SpeedMultiplier,
				Towers:      g.Towers(),
				Mobs:        g.Mobs(),
				Projectiles: g.Projectiles(),
			}
		})
		c.JSON(http.StatusOK, resp)
	}
}

func snapshotHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var snap *app.Snapshot
		session(c).Do(func(g *app.Game) { snap = g.Snapshot() })
		c.JSON(http.StatusOK, snap)
	}
}

func saveHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		path, err := m.Save(session(c), req.Name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"path": path})
	}
}

func buildHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BuildRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var (
			id  types.EntityID
			res system.Result
		)
		session(c).Do(func(g *app.Game) { id, res = g.BuildTower(req.Kind, req.Row, req.Col) })
		writeResult(c, res, id)
	}
}

func towerHandler(op func(*app.Game, types.EntityID) system.Result) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := strconv.Atoi(c.Param("tower"))
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tower id"})
			return
		}
		id := types.EntityID(n)
		var res system.Result
		session(c).Do(func(g *app.Game) { res = op(g, id) })
		writeResult(c, res, id)
	}
}

func nextWaveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var res system.Result
		session(c).Do(func(g *app.Game) { res = g.CallNextWave() })
		writeResult(c, res, types.None)
	}
}

func pauseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var paused bool
		session(c).Do(func(g *app.Game) {
			g.TogglePause()
			paused = g.Paused()
		})
		c.JSON(http.StatusOK, gin.H{"paused": paused})
	}
}

func speedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SpeedRequest
		hasBody := c.Request.ContentLength > 0
		if hasBody {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		var speed float64
		session(c).Do(func(g *app.Game) {
			if hasBody {
				g.SetSpeedIndex(req.Index)
			} else {
				g.CycleSpeed()
			}
			speed = g.SpeedMultiplier
		})
		c.JSON(http.StatusOK, gin.H{"speed": speed})
	}
}
