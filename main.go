package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"learnassist/app/client/tui"
	"learnassist/app/config"
	"learnassist/app/service/agent"
	"learnassist/app/service/engine"
	"learnassist/app/service/explorer"
	"learnassist/app/service/graph"
	"learnassist/app/service/queue"
	"learnassist/app/service/store"
	"learnassist/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	logFile, err := mylog.Init(cfg)
	if err != nil {
		log.Fatalf("logging init failed: %v", err)
	}
	defer logFile.Close()

	do.Provide(di, newGraph)
	do.Provide(di, store.New)
	do.Provide(di, agent.New)
	do.Provide(di, queue.New)
	do.Provide(di, explorer.New)
	do.Provide(di, tui.New)
	do.Provide(di, engine.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	client := do.MustInvoke[*tui.Client](di)
	engineSvc := do.MustInvoke[*engine.Service](di)

	group, ctx := errgroup.WithContext(appCtx)

	group.Go(func() error {
		defer client.Quit()
		return engineSvc.Run(ctx)
	})

	group.Go(func() error {
		defer cancel()
		return client.Run()
	})

	if err = group.Wait(); err != nil {
		slog.Error("Session ended with error", "error", err)
	}
}

func newGraph(di *do.Injector) (*graph.Graph, error) {
	cfg := do.MustInvoke[*config.Config](di)

	var opts []graph.Option
	if cfg.Explorer.StrictEdges {
		opts = append(opts, graph.WithStrictEdges())
	}

	return graph.New(opts...), nil
}
