package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/acervohq/acervo/cmd/config"
	"github.com/acervohq/acervo/internal/catalog"
	"github.com/acervohq/acervo/internal/eventbus"
	"github.com/acervohq/acervo/internal/handler"
	"github.com/acervohq/acervo/internal/server"
	"github.com/acervohq/acervo/internal/store"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	db, err := sql.Open("sqlite", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	st := store.NewSQLiteStore(db)
	if err := st.CreateTables(ctx); err != nil {
		log.Fatalf("creating tables: %v", err)
	}

	bus := eventbus.New(cfg.EventBus.Buffer)
	live := handler.NewLiveHub()
	bus.Subscribe("log", eventbus.NewLogConsumer())
	bus.Subscribe("live", live)
	bus.Start(ctx)

	svc := catalog.New(st, bus)
	if err := svc.Load(ctx); err != nil {
		log.Fatalf("loading catalog: %v", err)
	}

	if cfg.General.SeedDemo && len(svc.Records()) == 0 {
		catalog.SeedDemo(ctx, svc)
		log.Println("seeded demo catalog")
	}

	if err := server.Run(ctx, server.Config{
		Port:    cfg.Server.Port,
		Catalog: svc,
		Live:    live,
	}); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}

	stop()
	bus.Wait()
}
