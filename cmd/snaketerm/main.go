// snaketerm plays the game in a terminal: arrows or WASD to steer, r to
// restart, q to quit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hoshinonyaruko/snake-grid/config"
	"github.com/hoshinonyaruko/snake-grid/input"
	"github.com/hoshinonyaruko/snake-grid/render"
	"github.com/hoshinonyaruko/snake-grid/session"
	"github.com/hoshinonyaruko/snake-grid/sqlite"
)

func main() {
	configPath := flag.String("config", "./config.json", "path to the JSON config file")
	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	if err := run(*configPath, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, "snaketerm:", err)
		os.Exit(1)
	}
}

func run(configPath, logPath string) error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	// 终端被画面占用，日志只能写文件
	logger := zerolog.Nop()
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = zerolog.New(f).With().Timestamp().Logger()
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			logger = logger.Level(lvl)
		}
	}
	log.Logger = logger

	var journal session.Journal
	if cfg.DBPath != "" {
		j, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer j.Close()
		journal = j
	}

	keys := input.NewKeyboardHandler()
	if err := keys.Start(); err != nil {
		return fmt.Errorf("open keyboard: %w", err)
	}
	defer keys.Stop()

	fmt.Print("\033[?25l")
	defer fmt.Print("\033[?25h")

	s, err := session.New(session.Options{
		Rows:    cfg.Rows,
		Cols:    cfg.Cols,
		Period:  cfg.TickPeriod(),
		Journal: journal,
		Logger:  &logger,
	}, render.NewText(os.Stdout, true))
	if err != nil {
		return err
	}
	loop := session.NewLoop(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- loop.Run(ctx) }()

	for {
		select {
		case err := <-errc:
			return err
		case ev, ok := <-keys.Events():
			if !ok {
				cancel()
				<-errc
				return nil
			}
			cmd, h := input.Parse(ev)
			switch cmd {
			case input.CommandQuit:
				cancel()
				if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				fmt.Print("\r\nbye\r\n")
				return nil
			case input.CommandRestart:
				if err := loop.Restart(ctx); err != nil {
					return err
				}
			case input.CommandMove:
				if _, err := loop.Press(ctx, h); err != nil {
					return err
				}
			}
		}
	}
}
