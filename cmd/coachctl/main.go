package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/2beens/fitcoach/internal/coach"
	"github.com/2beens/fitcoach/internal/coach/store"
	"github.com/2beens/fitcoach/internal/coachcli"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
)

func main() {
	var cli coachcli.CLI
	kctx := kong.Parse(&cli,
		kong.Name("coachctl"),
		kong.Description("Fitness coach from the command line, on a local database or against a running service."),
		kong.UsageOnError(),
	)

	log.SetLevel(log.WarnLevel)

	if err := run(kctx, &cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(kctx *kong.Context, cli *coachcli.CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	appCtx := &coachcli.Context{
		Ctx:    ctx,
		UserID: cli.User,
		Out:    os.Stdout,
	}

	if cli.Server != "" {
		appCtx.Coach = coachcli.NewRemoteClient(cli.Server, nil)
	} else {
		sqliteStore, err := store.OpenSQLiteStore(ctx, cli.DB)
		if err != nil {
			return err
		}
		defer func() {
			if err := sqliteStore.Close(); err != nil {
				log.Errorf("close sqlite store: %s", err)
			}
		}()
		appCtx.Coach = coach.NewService(sqliteStore, nil)
	}

	return kctx.Run(appCtx)
}
