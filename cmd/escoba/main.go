// cmd/escoba/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatraveneta/escoba/engine"
	"github.com/anatraveneta/escoba/internal/assistant"
	"github.com/anatraveneta/escoba/internal/cache"
	"github.com/anatraveneta/escoba/internal/config"
	"github.com/anatraveneta/escoba/internal/journal"
	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		handSize  = flag.Uint("hand", 3, "cards dealt to each player per deal")
		tableSize = flag.Uint("table", 4, "cards laid on the table before the first deal")
		history   = flag.Int("history", 5, "past rounds listed on start (0 disables)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}
	log := cfg.NewLogger()

	if *handSize == 0 || *handSize > engine.DeckSize || *tableSize > engine.DeckSize {
		log.Errorf("invalid deal sizes: hand %d, table %d", *handSize, *tableSize)
		return 2
	}
	rules := engine.HouseRules{CardsPerHand: uint8(*handSize), InitialTable: uint8(*tableSize)}
	if err := rules.Validate(); err != nil {
		log.WithError(err).Error("invalid house rules")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing journal or cache only costs history and speed.
	openCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	store, err := journal.Open(openCtx, cfg, log)
	if err != nil {
		log.WithError(err).Warn("journal disabled")
		store = journal.Nop{}
	}
	defer store.Close()

	opts := assistant.Options{Rules: rules, Logger: log, Journal: store}
	if cfg.RedisURL != "" {
		suggestions, err := cache.New(openCtx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.WithError(err).Warn("suggestion cache disabled")
		} else {
			defer suggestions.Close()
			opts.Cache = suggestions
		}
	}
	cancel()

	s := assistant.NewSession(opts)
	console := assistant.NewConsole(s, os.Stdin, os.Stdout, assistant.ConsoleOptions{
		UserStarts: cfg.UserStarts,
		Color:      !cfg.NoColor,
		History:    *history,
	})

	// The console blocks on stdin; closing it unblocks the read on interrupt.
	go func() {
		<-ctx.Done()
		os.Stdin.Close()
	}()

	out, err := console.Run(ctx)
	switch {
	case ctx.Err() != nil:
		fmt.Fprintln(os.Stdout)
		log.Info("interrupted")
		return 130
	case err == nil:
		log.WithFields(logrus.Fields{
			"session":  s.ID,
			"user":     out.Result.Sides[engine.User].Total,
			"opponent": out.Result.Sides[engine.Opponent].Total,
		}).Debug("round finished")
		return 0
	case errors.Is(err, io.ErrUnexpectedEOF):
		log.Warn("input closed before the round ended")
		return 1
	default:
		log.WithError(err).Error("round aborted")
		return 1
	}
}
