package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tkaster/curio/internal/infrastructure/sqlite"
	"github.com/tkaster/curio/internal/registry"
	"github.com/tkaster/curio/internal/watcher"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Read the operation journal",
	Long: `Prints the journal of operation outcomes recorded by the daemon.
With --follow the command watches the database and prints new entries as
the daemon appends them.`,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().Bool("follow", false, "wait for and print new entries")
	eventsCmd.Flags().String("type", "", "only entries of this event type")
	eventsCmd.Flags().Int("limit", 0, "maximum number of entries to print")
	eventsCmd.Flags().Int64("after", 0, "only entries with a higher sequence number")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, _ []string) error {
	if cfg.DBPath == "" {
		return fmt.Errorf("no db_path configured; the journal of an in-memory daemon cannot be read")
	}

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	eventType, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")
	after, _ := cmd.Flags().GetInt64("after")
	follow, _ := cmd.Flags().GetBool("follow")

	filter := sqlite.ListFilter{
		EventType: registry.EventType(eventType),
		AfterSeq:  after,
		Limit:     limit,
	}

	lastSeq, err := printEntries(cmd, db.Journal(), filter)
	if err != nil {
		return err
	}
	if !follow {
		return nil
	}

	w, err := watcher.New(watcher.DefaultConfig(cfg.DBPath))
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-onChange:
			filter.AfterSeq = lastSeq
			filter.Limit = 0
			lastSeq, err = printEntries(cmd, db.Journal(), filter)
			if err != nil {
				return err
			}
		case <-sig:
			return nil
		}
	}
}

// printEntries prints matching entries and returns the last printed sequence
// number (or the given AfterSeq if nothing matched).
func printEntries(cmd *cobra.Command, journal *sqlite.JournalRepository, filter sqlite.ListFilter) (int64, error) {
	entries, err := journal.List(filter)
	if err != nil {
		return 0, fmt.Errorf("reading journal: %w", err)
	}

	lastSeq := filter.AfterSeq
	for _, entry := range entries {
		cmd.Printf("%6d  %s  %-25s  %s\n",
			entry.Seq,
			entry.RecordedAt.Format("2006-01-02T15:04:05"),
			entry.EventType,
			string(entry.Payload),
		)
		lastSeq = entry.Seq
	}
	return lastSeq, nil
}
