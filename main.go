package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hoshinonyaruko/snake-grid/api"
	"github.com/hoshinonyaruko/snake-grid/config"
	"github.com/hoshinonyaruko/snake-grid/memimg"
	"github.com/hoshinonyaruko/snake-grid/render"
	"github.com/hoshinonyaruko/snake-grid/session"
	"github.com/hoshinonyaruko/snake-grid/sqlite"
)

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		log.Fatal().Err(err).Msg("failed to load .env")
	}
	// Initialize the configuration
	cfg, err := config.LoadConfig("./config.json")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	EnsureFoldersExist(cfg.OutputDir, cfg.SpritesDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 获取blockSize
	blockSize := config.GetConfigValue("blocksize").(int)
	// 载入贴图到内存
	sprites := memimg.New(blockSize, log.Logger)
	if err := sprites.Load(cfg.SpritesDir); err != nil {
		log.Warn().Err(err).Msg("failed to load sprites, drawing plain blocks")
	}
	// 检测并热更新到内存 加速绘图
	go func() {
		if err := sprites.Watch(ctx, cfg.SpritesDir); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("sprite watcher stopped")
		}
	}()

	var history api.History
	var journal session.Journal
	if cfg.DBPath != "" {
		j, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open journal")
		}
		defer j.Close()
		history, journal = j, j
	}

	frames := render.NewPNG(sprites, blockSize, filepath.Join(cfg.OutputDir, api.BoardFile), log.Logger)
	latest := render.NewLatest()
	gameLog := log.With().Str("component", "session").Logger()
	s, err := session.New(session.Options{
		Rows:    cfg.Rows,
		Cols:    cfg.Cols,
		Period:  cfg.TickPeriod(),
		Journal: journal,
		Logger:  &gameLog,
	}, render.Multi{frames, latest})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create game")
	}
	loop := session.NewLoop(s)
	go loop.Run(ctx)

	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Loop:      loop,
		Frames:    frames,
		Latest:    latest,
		History:   history,
		SelfPath:  config.GetConfigValue("selfpath").(string),
		StaticDir: cfg.OutputDir,
		Logger:    log.Logger,
	})

	// 从配置单例读取端口 监听
	srv := &http.Server{
		Addr:    ":" + config.GetConfigValue("port").(string),
		Handler: router,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Int("rows", cfg.Rows).Int("cols", cfg.Cols).Dur("tick", cfg.TickPeriod()).Msg("starting snake server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	<-loop.Done()
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist(folders ...string) {
	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			err := os.MkdirAll(folder, 0755)
			if err != nil {
				log.Fatal().Err(err).Str("folder", folder).Msg("failed to create directory")
			}
			log.Info().Str("folder", folder).Msg("created directory")
		} else {
			log.Debug().Str("folder", folder).Msg("directory already exists")
		}
	}
}
