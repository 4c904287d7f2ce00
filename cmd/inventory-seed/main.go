// Command inventory-seed fills a store with demonstration categories and
// items.
//
// Usage:
//
//	inventory-seed <connection-string>
//
// mongodb:// and mongodb+srv:// strings open MongoDB; anything else is a
// SQLite path.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/artpar/inventory/internal/shell/seed"
	"github.com/artpar/inventory/internal/shell/store"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: inventory-seed <connection-string>")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fixture, err := seed.DefaultFixture()
	if err != nil {
		logger.Error("failed to load fixture", "error", err)
		return 1
	}

	logger.Info("connecting", "mongo", store.IsMongoDSN(args[0]))
	s, err := store.Open(ctx, args[0])
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return 2
	}
	defer s.Close()

	res, err := seed.Populate(ctx, s, fixture, logger)
	if err != nil {
		logger.Error("seeding failed", "error", err)
		return 1
	}

	logger.Info("seeding complete",
		"categories", len(res.Categories),
		"items", len(res.Items),
	)
	return 0
}
