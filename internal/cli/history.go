package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/robopost/internal/config"
	"github.com/roach88/robopost/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Session  string // optional - filter to one session
	Program  string // optional - filter to one program
	Limit    int
}

// HistoryEntry is one recorded save.
type HistoryEntry struct {
	Session   string `json:"session"`
	Seq       int64  `json:"seq"`
	Post      string `json:"post"`
	Robot     string `json:"robot,omitempty"`
	Program   string `json:"program"`
	Path      string `json:"path"`
	Lines     int    `json:"lines"`
	Size      int    `json:"size"`
	Digest    string `json:"digest"`
	Log       string `json:"log,omitempty"`
	CreatedAt string `json:"created_at"`
}

// HistoryResult holds the history output.
type HistoryResult struct {
	Saves []HistoryEntry `json:"saves"`
	Total int            `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded program saves",
		Long: `List the saves recorded in the catalog database, oldest first.

Each generate or replay run is a session; its saves share a session id and
are numbered in order. The digest is the SHA-256 of the saved bytes.

Examples:
  robopost history
  robopost history --program Sample --limit 5
  robopost history --session 0190b4c2-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "save catalog database (default $ROBOPOST_DB or robopost.db)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "filter to one session id")
	cmd.Flags().StringVar(&opts.Program, "program", "", "filter to one program name")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "show only the most recent N saves")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = config.FromEnv().DBPath
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("catalog database not found: %s", dbPath))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", fmt.Errorf("%w: %w", errCatalog, err))
	}
	defer st.Close()

	saves, err := st.ListSaves(ctx, store.Filter{
		SessionID: opts.Session,
		Program:   opts.Program,
		Limit:     opts.Limit,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list saves", fmt.Errorf("%w: %w", errCatalog, err))
	}

	result := HistoryResult{Saves: make([]HistoryEntry, 0, len(saves)), Total: len(saves)}
	for _, sv := range saves {
		result.Saves = append(result.Saves, HistoryEntry{
			Session:   sv.SessionID,
			Seq:       sv.Seq,
			Post:      sv.Post,
			Robot:     sv.Robot,
			Program:   sv.Program,
			Path:      sv.Path,
			Lines:     sv.Lines,
			Size:      sv.Size,
			Digest:    sv.Digest,
			Log:       sv.Log,
			CreatedAt: sv.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return f.Success(result)
	}
	return outputHistoryText(cmd, result, opts.Verbose)
}

func outputHistoryText(cmd *cobra.Command, result HistoryResult, verbose bool) error {
	w := cmd.OutOrStdout()

	if result.Total == 0 {
		fmt.Fprintln(w, "No saves recorded.")
		return nil
	}

	for _, e := range result.Saves {
		fmt.Fprintf(w, "%s  %-8s %-12s %s (%d lines)\n", e.CreatedAt, e.Post, e.Program, e.Path, e.Lines)
		if verbose {
			fmt.Fprintf(w, "    session %s #%d  sha256 %s\n", truncateID(e.Session), e.Seq, truncateID(e.Digest))
			if e.Log != "" {
				fmt.Fprint(w, indentLines(e.Log, "    | "))
			}
		}
	}
	fmt.Fprintf(w, "\n%d save(s)\n", result.Total)
	return nil
}

// truncateID shortens long identifiers for display.
func truncateID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12] + "..."
}
