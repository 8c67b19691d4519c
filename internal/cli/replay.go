package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/robopost/internal/config"
	"github.com/roach88/robopost/internal/post"
	"github.com/roach88/robopost/internal/replay"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database  string
	NoCatalog bool

	// Settings overrides the environment (for testing).
	Settings *config.Settings
}

// ReplayPostResult describes one backend the script constructed.
type ReplayPostResult struct {
	Post    string `json:"post"`
	Robot   string `json:"robot,omitempty"`
	Pending int    `json:"pending_lines"`
	Log     string `json:"log,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Script  string             `json:"script"`
	Session string             `json:"session,omitempty"`
	Posts   []ReplayPostResult `json:"posts"`
	Files   []SavedFile        `json:"files"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	return newReplayCommand(&ReplayOptions{RootOptions: rootOpts})
}

func newReplayCommand(opts *ReplayOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <script.star>",
		Short: "Run a recorded replay script",
		Long: `Execute a replay script written by 'robopost generate --record'.

The script constructs the recorded robot dialect and repeats every call, so
the files it saves are identical to those of a direct run. Scripts may be
edited by hand; print() output goes to stdout.

Exit codes:
  0 - Script completed
  1 - Script failed (error in the script, failed save)
  2 - Command error (script not found, etc.)

Examples:
  robopost replay Sample.star
  robopost replay Sample.star --no-catalog
  robopost replay Sample.star --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "save catalog database (default $ROBOPOST_DB or robopost.db)")
	cmd.Flags().BoolVar(&opts.NoCatalog, "no-catalog", false, "do not record saves")

	return cmd
}

func runReplay(opts *ReplayOptions, scriptPath string, cmd *cobra.Command) error {
	settings := config.FromEnv()
	if opts.Settings != nil {
		settings = *opts.Settings
	}

	if _, err := os.Stat(scriptPath); err != nil {
		return WrapExitError(ExitCommandError, "script not found", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	ctx, stop := commandContext(cmd)
	defer stop()

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = settings.DBPath
	}
	if opts.NoCatalog {
		dbPath = ""
	}
	cat, err := openCatalog(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open catalog", err)
	}
	defer func() {
		if closeErr := cat.Close(); closeErr != nil {
			slog.Error("error closing catalog", "error", closeErr)
		}
	}()

	result := ReplayResult{
		Script:  scriptPath,
		Session: cat.sessionID(),
		Posts:   []ReplayPostResult{},
		Files:   []SavedFile{},
	}
	env := newEnv(ctx, settings, cat, func(ev post.SaveEvent) {
		result.Files = append(result.Files, SavedFile{
			Program: ev.Program,
			Path:    ev.Path,
			Lines:   ev.Lines,
			Size:    ev.Size,
			Digest:  ev.Digest,
		})
	})

	res, err := replay.RunFile(ctx, scriptPath, replay.RunOptions{
		Env:    env,
		Viewer: settings.Viewer,
		Stdout: cmd.OutOrStdout(),
	})
	if err != nil {
		if bt := backtrace(err); bt != "" {
			out.VerboseLog("%s", bt)
		}
		return WrapExitError(ExitFailure, "replay failed", err)
	}

	for _, p := range res.Posts {
		cfg := p.Config()
		result.Posts = append(result.Posts, ReplayPostResult{
			Post:    cfg.Post,
			Robot:   cfg.Name,
			Pending: len(p.Lines()),
			Log:     p.Log(),
		})
	}

	if opts.Format == "json" {
		return out.Success(result)
	}
	return outputReplayText(cmd, result)
}

func backtrace(err error) string {
	var se *replay.ScriptError
	if errors.As(err, &se) {
		return se.Backtrace()
	}
	return ""
}

func outputReplayText(cmd *cobra.Command, result ReplayResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replayed %s\n", result.Script)
	for _, f := range result.Files {
		fmt.Fprintf(w, "  ✓ %s (%d lines, %d bytes)\n", f.Path, f.Lines, f.Size)
	}
	for _, p := range result.Posts {
		if p.Pending > 0 {
			fmt.Fprintf(w, "  %s: %d lines not saved\n", p.Post, p.Pending)
		}
		if p.Log != "" {
			fmt.Fprintf(w, "  %s log:\n", p.Post)
			fmt.Fprint(w, indentLines(p.Log, "    "))
		}
	}
	if len(result.Files) == 0 {
		fmt.Fprintln(w, "  No files saved.")
	}
	return nil
}
