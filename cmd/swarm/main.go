// cmd/swarm/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/brick-codes/palace-bot/internal/config"
	"github.com/brick-codes/palace-bot/internal/journal"
	"github.com/brick-codes/palace-bot/internal/swarm"
	"github.com/brick-codes/palace-bot/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var jrnl journal.Journal = journal.Nop{}
	if cfg.RedisAddr != "" {
		rj, err := journal.NewRedis(cfg.RedisAddr, cfg.RedisDB, cfg.JournalQueue, logger)
		if err != nil {
			logger.Fatalf("failed to open action journal: %v", err)
		}
		defer rj.Close()
		jrnl = rj
	}

	s := swarm.New(cfg, transport.WebsocketDialer{}, jrnl, logger)
	if err := s.Run(ctx); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
