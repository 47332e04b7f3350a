// Package app wires the registry daemon together: repositories, ledger,
// entropy, processor, persistence, and the HTTP API. The factory
// encapsulates all component setup so cmd stays thin.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tkaster/curio/internal/api"
	"github.com/tkaster/curio/internal/bank"
	"github.com/tkaster/curio/internal/config"
	"github.com/tkaster/curio/internal/entropy"
	"github.com/tkaster/curio/internal/infrastructure/sqlite"
	"github.com/tkaster/curio/internal/log"
	"github.com/tkaster/curio/internal/pubsub"
	"github.com/tkaster/curio/internal/registry"
	"github.com/tkaster/curio/internal/registry/command"
	"github.com/tkaster/curio/internal/registry/handler"
	"github.com/tkaster/curio/internal/registry/processor"
	"github.com/tkaster/curio/internal/registry/repository"
	"github.com/tkaster/curio/internal/tracing"
)

// eventBusAdapter adapts pubsub.Broker to the processor.EventPublisher
// interface, which uses a plain string event type.
type eventBusAdapter struct {
	broker *pubsub.Broker[any]
}

// Publish implements processor.EventPublisher.
func (a *eventBusAdapter) Publish(eventType string, payload any) {
	a.broker.Publish(pubsub.EventType(eventType), payload)
}

// App holds all daemon components.
type App struct {
	cfg config.Config

	DB        *sqlite.DB
	State     *repository.MemoryStateRepository
	Ledger    *bank.MemoryLedger
	Sequence  *entropy.Sequence
	Processor *processor.Processor
	EventBus  *pubsub.Broker[any]
	Tracing   *tracing.Provider
	Server    *api.Server
}

// New creates and wires all daemon components. The returned App must be
// started with Run.
func New(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var (
		db  *sqlite.DB
		err error
	)
	if cfg.DBPath == "" {
		db, err = sqlite.NewMemoryDB()
	} else {
		db, err = sqlite.NewDB(cfg.DBPath)
	}
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	state := repository.NewMemoryStateRepository()

	// Rebuild registry state from the last snapshot. The owner collections
	// and count are derived from the collectible rows.
	snapshot, err := db.Snapshot().Load()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if len(snapshot) > 0 {
		if err := state.Restore(snapshot); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("restoring snapshot: %w", err)
		}
		log.Info(log.CatStore, "snapshot restored", "collectibles", len(snapshot))
	}

	ledger := bank.NewMemoryLedger()
	for account, balance := range cfg.Bank.Accounts {
		if err := ledger.Deposit(registry.AccountID(account), registry.Amount(balance)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seeding account %s: %w", account, err)
		}
	}

	// The journal's last sequence number seeds the height so identifiers
	// never repeat an (opIndex, height) pair across restarts.
	lastSeq, err := db.Journal().LastSeq()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	sequence := entropy.NewSequence(uint64(lastSeq) + 1) //nolint:gosec // G115: journal sequences are non-negative

	tracingProvider, err := tracing.NewProvider(cfg.Tracing.ToTracing())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	eventBus := pubsub.NewBroker[any]()

	dedup := processor.NewDeduplicationMiddleware(cfg.Processor.DedupWindow)
	proc := processor.New(
		processor.WithQueueCapacity(cfg.Processor.QueueCapacity),
		processor.WithEventBus(eventBus),
		processor.WithMiddleware(
			tracing.NewMiddleware(tracingProvider.Tracer()),
			processor.NewLoggingMiddleware(),
			dedup.Middleware(),
			processor.NewCommandLogMiddleware(&eventBusAdapter{broker: eventBus}),
			newSequenceMiddleware(sequence),
		),
	)

	maxOwned := cfg.Registry.MaximumOwned
	proc.Register(command.OpMint, handler.NewMintHandler(state, entropy.CryptoSource{}, sequence, maxOwned))
	proc.Register(command.OpDestroy, handler.NewDestroyHandler(state))
	proc.Register(command.OpTransfer, handler.NewTransferHandler(state, maxOwned))
	proc.Register(command.OpSetPrice, handler.NewSetPriceHandler(state))
	proc.Register(command.OpDelist, handler.NewDelistHandler(state))
	proc.Register(command.OpBuy, handler.NewBuyHandler(state, ledger, maxOwned))

	server := api.NewServer(proc, state, ledger, eventBus)

	return &App{
		cfg:       cfg,
		DB:        db,
		State:     state,
		Ledger:    ledger,
		Sequence:  sequence,
		Processor: proc,
		EventBus:  eventBus,
		Tracing:   tracingProvider,
		Server:    server,
	}, nil
}

// newSequenceMiddleware advances the op index after every applied command so
// consecutive mints never see the same (opIndex, height) pair.
func newSequenceMiddleware(seq *entropy.Sequence) processor.Middleware {
	return func(next processor.Handler) processor.Handler {
		return processor.HandlerFunc(func(ctx context.Context, cmd command.Command) (*command.Result, error) {
			defer seq.Tick()
			return next.Handle(ctx, cmd)
		})
	}
}

// Run starts the processor, the journal subscriber, and the HTTP server, and
// blocks until ctx is cancelled. Shutdown drains the queue, saves a snapshot,
// and closes the database.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Processor.Run(runCtx)
	if err := a.Processor.WaitForReady(runCtx); err != nil {
		return fmt.Errorf("processor failed to start: %w", err)
	}

	journalDone := a.startJournalSubscriber(runCtx)

	httpServer := &http.Server{
		Addr:              a.cfg.Listen,
		Handler:           a.Server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(log.CatAPI, "listening", "addr", a.cfg.Listen)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(log.CatProc, "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.ErrorErr(log.CatAPI, "http shutdown failed", err)
	}

	a.Processor.Drain()
	a.Processor.Stop()

	// Stop the journal subscriber before closing the bus so the final events
	// are persisted.
	cancel()
	select {
	case <-journalDone:
	case <-time.After(5 * time.Second):
		log.Warn(log.CatJournal, "journal subscriber did not stop in time")
	}
	a.EventBus.Close()

	if err := a.DB.Snapshot().Save(a.State.All()); err != nil {
		log.ErrorErr(log.CatStore, "snapshot save failed", err)
	} else {
		log.Info(log.CatStore, "snapshot saved", "collectibles", a.State.Count())
	}

	if err := a.Tracing.Shutdown(shutdownCtx); err != nil {
		log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
	}

	return a.DB.Close()
}

// startJournalSubscriber persists every outcome record published on the bus.
func (a *App) startJournalSubscriber(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	events := a.EventBus.Subscribe(ctx)
	journal := a.DB.Journal()

	go func() {
		defer close(done)
		for busEvent := range events {
			record, ok := busEvent.Payload.(registry.Event)
			if !ok {
				continue
			}
			seq, err := journal.Append(record)
			if err != nil {
				log.ErrorErr(log.CatJournal, "failed to append journal entry", err,
					"event_type", record.EventType())
				continue
			}
			log.Debug(log.CatJournal, "journal entry appended",
				"seq", seq, "event_type", record.EventType())
		}
	}()

	return done
}
