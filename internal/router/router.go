package router

import (
	"context"
	"database/sql"
	"net/http"

	ledgermem "critter-market/internal/adapters/ledger/memory"
	"critter-market/internal/adapters/beacon/chain"
	wsfeed "critter-market/internal/adapters/notify/ws"
	storemem "critter-market/internal/adapters/storage/memory"
	pg "critter-market/internal/adapters/storage/postgres"
	"critter-market/internal/domain/creatures"
	"critter-market/internal/domain/market"
	"critter-market/internal/genesis"
	"critter-market/internal/middleware"
	"critter-market/internal/platform/config"
	"critter-market/internal/platform/logger"
	"critter-market/internal/ports/auth"

	_ "critter-market/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Cfg    config.Config
	Logger logger.Logger

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, decide por Cfg.DBDSN y
	// cae a in-memory.
	DB *sql.DB
}

// NewRouter arma todo el grafo del servicio: store (memory o postgres),
// ledger y beacon, servicios de dominio, génesis y rutas.
func NewRouter(ctx context.Context, opts Options) (http.Handler, error) {
	cfg := opts.Cfg
	lg := opts.Logger
	if lg == nil {
		lg = logger.New(logger.Options{Level: logger.ParseLevel(cfg.LogLevel), Format: logger.ParseFormat(cfg.LogFormat), App: cfg.AppName})
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Store: postgres si hay DB/DSN, si no in-memory
	var store creatures.Store
	db := opts.DB
	if db == nil && cfg.DBDSN != "" {
		opened, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		db = opened
	}
	if db != nil {
		if err := pg.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		store = pg.NewCreatureStore(db, cfg.MaxOwned)
	} else {
		store = storemem.NewCreatureStore(cfg.MaxOwned)
	}

	// Colaboradores externos (implementaciones dev in-process)
	led := ledgermem.NewLedger(cfg.LedgerExistentialMin)
	beaconSrc := chain.New(cfg.BeaconSeed)

	// Notificaciones: feed websocket + log
	hub := wsfeed.NewHub(lg)
	notifier := creatures.Fanout(hub, creatures.NotifierFunc(func(ev creatures.Event) {
		lg.Debug("event emitted", map[string]any{"type": ev.Type, "creature": ev.CreatureID, "seq": ev.Seq})
	}))

	creaturesSvc := creatures.NewService(creatures.Options{
		Store:            store,
		Ledger:           led,
		Beacon:           beaconSrc,
		Notifier:         notifier,
		Logger:           lg,
		StakePerCreature: cfg.StakePerCreature,
	})
	marketSvc := market.NewService(market.Options{
		Store:     store,
		Ledger:    led,
		Creatures: creaturesSvc,
		Beacon:    beaconSrc,
		Logger:    lg,
		Policy:    market.ParsePolicy(cfg.PricePolicy),
	})

	// Bootstrap de génesis en la altura 0; el tráfico corre desde la 1.
	if cfg.GenesisFile != "" {
		gf, err := genesis.Load(cfg.GenesisFile)
		if err != nil {
			return nil, err
		}
		if err := genesis.Apply(ctx, gf, led, creaturesSvc); err != nil {
			return nil, err
		}
	}
	beaconSrc.AdvanceHeight()

	creatures.RegisterRoutes(r, creaturesSvc)
	market.RegisterRoutes(r, marketSvc)

	r.Get("/ws/events", hub.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r, nil
}
