// internal/swarm/swarm.go

// Package swarm spawns a fixed number of bots against one server, sharing a
// single lobby arbiter so exactly one of them creates the lobby, and waits
// for all of them to finish.
package swarm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/brick-codes/palace-bot/internal/arbiter"
	"github.com/brick-codes/palace-bot/internal/bot"
	"github.com/brick-codes/palace-bot/internal/config"
	"github.com/brick-codes/palace-bot/internal/journal"
	"github.com/brick-codes/palace-bot/internal/transport"
)

// Swarm runs N bots to completion.
type Swarm struct {
	cfg     *config.Config
	dialer  transport.Dialer
	journal journal.Journal
	logger  *logrus.Logger
}

// New wires a swarm. A nil journal disables recording; a nil logger uses
// the logrus default.
func New(cfg *config.Config, dialer transport.Dialer, jrnl journal.Journal, logger *logrus.Logger) *Swarm {
	if jrnl == nil {
		jrnl = journal.Nop{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Swarm{
		cfg:     cfg,
		dialer:  dialer,
		journal: jrnl,
		logger:  logger,
	}
}

// Run spawns the bots and blocks until every one of them has terminated.
// Individual bot failures are logged and tallied, never propagated between
// bots. The run as a whole fails only if the lobby election never resolved:
// a swarm that created its lobby did its job even if some members fell over
// afterwards.
func (s *Swarm) Run(ctx context.Context) error {
	runID := uuid.New()
	arb := arbiter.New()
	log := s.logger.WithField("run_id", runID)

	log.WithFields(logrus.Fields{
		"bots":   s.cfg.SwarmSize,
		"server": s.cfg.ServerURL,
		"lobby":  s.cfg.LobbyName,
	}).Info("starting swarm")

	botErrs := make([]error, s.cfg.SwarmSize)
	g := new(errgroup.Group)
	for i := 0; i < s.cfg.SwarmSize; i++ {
		i := i
		name := fmt.Sprintf("%s-%d", s.cfg.PlayerNamePrefix, i)
		b := bot.New(bot.Config{
			ServerURL:       s.cfg.ServerURL,
			PlayerName:      name,
			LobbyName:       s.cfg.LobbyName,
			LobbyPassword:   s.cfg.LobbyPassword,
			LobbyMaxPlayers: s.cfg.LobbyMaxPlayers,
			SetupTimeout:    s.cfg.SetupTimeout,
		}, bot.Deps{
			Arbiter:  arb,
			Dialer:   s.dialer,
			Strategy: bot.NewRandomStrategy(time.Now().UnixNano() + int64(i)),
			Journal:  s.journal,
			Logger:   s.logger,
			RunID:    runID,
		})
		g.Go(func() error {
			if err := b.Run(ctx); err != nil {
				botErrs[i] = err
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("not every bot finished cleanly")
	}

	failed := 0
	for i, err := range botErrs {
		if err == nil {
			continue
		}
		failed++
		log.WithField("bot", fmt.Sprintf("%s-%d", s.cfg.PlayerNamePrefix, i)).Errorf("bot terminated: %v", err)
	}

	lobbyID, resolved := arb.Resolved()
	if !resolved {
		return errors.New("swarm failed: no bot resolved the lobby election")
	}

	log.WithFields(logrus.Fields{
		"lobby":     lobbyID,
		"completed": s.cfg.SwarmSize - failed,
		"failed":    failed,
	}).Info("swarm finished")
	return nil
}
