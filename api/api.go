package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hoshinonyaruko/snake-grid/render"
	"github.com/hoshinonyaruko/snake-grid/session"
	"github.com/hoshinonyaruko/snake-grid/structs"
)

// History lists finished games, newest first.
type History interface {
	Recent(ctx context.Context, limit int) ([]structs.Outcome, error)
}

// Deps are the collaborators the handlers talk to. History may be nil.
type Deps struct {
	Loop      *session.Loop
	Frames    *render.PNG
	Latest    *render.Latest
	History   History
	SelfPath  string // host[:port] used in image_url
	StaticDir string // served under /static when set
	Logger    zerolog.Logger
}

// NewRouter registers every route.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(d.Logger))

	router.GET("/state", StateHandler(d.Loop))
	// 处理玩家改变方向
	router.POST("/direction", UpdateDirection(d.Loop))
	router.GET("/update-direction", UpdateDirection(d.Loop))
	router.POST("/restart", RestartHandler(d.Loop))
	router.GET("/board.png", BoardHandler(d.Frames))
	// 渲染函数 返回静态地址
	router.GET("/render", RenderMapHandler(d.Frames, d.SelfPath))
	router.GET("/history", HistoryHandler(d.History))
	router.GET("/ws", StreamHandler(d.Loop, d.Latest, d.Logger))
	if d.StaticDir != "" {
		router.Static("/static", d.StaticDir) // 静态文件服务
	}
	return router
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

func StateHandler(loop *session.Loop) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := loop.Snapshot(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game loop is not running"})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func UpdateDirection(loop *session.Loop) gin.HandlerFunc {
	return func(c *gin.Context) {
		newDirection := c.Query("direction")

		// 验证是否提供了必要的查询参数
		if newDirection == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: direction"})
			return
		}
		h, err := structs.ParseHeading(newDirection)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		changed, err := loop.Press(c.Request.Context(), h)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game loop is not running"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"changed": changed, "direction": h})
	}
}

func RestartHandler(loop *session.Loop) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := loop.Restart(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game loop is not running"})
			return
		}
		snap, err := loop.Snapshot(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game loop is not running"})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func BoardHandler(frames *render.PNG) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := frames.Frame()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "nothing rendered yet"})
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "image/png", data)
	}
}

func RenderMapHandler(frames *render.PNG, selfPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := frames.Frame(); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "nothing rendered yet"})
			return
		}
		imageUrl := fmt.Sprintf("http://%s/static/%s", selfPath, BoardFile)
		c.JSON(http.StatusOK, gin.H{"image_url": imageUrl})
	}
}

// BoardFile is the name of the frame file inside the static directory.
const BoardFile = "board.png"

func HistoryHandler(history History) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil || limit < 1 || limit > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		if history == nil {
			c.JSON(http.StatusOK, []structs.Outcome{})
			return
		}
		outcomes, err := history.Recent(c.Request.Context(), limit)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read history"})
			return
		}
		c.JSON(http.StatusOK, outcomes)
	}
}
