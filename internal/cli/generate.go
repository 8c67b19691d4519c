package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/robopost/internal/config"
	"github.com/roach88/robopost/internal/harness"
	"github.com/roach88/robopost/internal/post"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Backend BackendFlags

	OutDir    string
	Database  string
	NoCatalog bool
	Show      bool

	// Upload target. Files are sent after the program runs when Host is set.
	Host       string
	RemotePath string

	// Settings overrides the environment (for testing).
	Settings *config.Settings
}

// SavedFile describes one file written by a run.
type SavedFile struct {
	Program string `json:"program"`
	Path    string `json:"path"`
	Lines   int    `json:"lines"`
	Size    int    `json:"size"`
	Digest  string `json:"digest"`
}

// GenerateResult is the output of the generate command.
type GenerateResult struct {
	Program string      `json:"program"`
	Post    string      `json:"post"`
	Robot   string      `json:"robot,omitempty"`
	Session string      `json:"session,omitempty"`
	Files   []SavedFile `json:"files"`
	Pending int         `json:"pending_lines"`
	Log     string      `json:"log,omitempty"`
	Sent    bool        `json:"sent,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	return newGenerateCommand(&GenerateOptions{RootOptions: rootOpts})
}

func newGenerateCommand(opts *GenerateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <program.yaml>",
		Short: "Generate controller code from an instruction program",
		Long: `Drive an instruction program into a robot dialect and save the result.

The dialect is chosen by the program's robot section, a config file, the
ROBOPOST_* environment, or flags (flags win). With --record the run writes a
replay script (.star) that regenerates the same files with 'robopost replay'.

Every save is recorded in the catalog database unless --no-catalog is set.

Exit codes:
  0 - Program generated
  1 - A step, assertion, save or upload failed
  2 - Command error (bad flags, unreadable program or config)

Examples:
  robopost generate pick.yaml
  robopost generate pick.yaml --post Precise --out ./programs
  robopost generate pick.yaml --config cell.cue --record
  robopost generate pick.yaml --host 192.168.0.10 --remote-path /programs`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	opts.Backend.register(cmd)
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "base folder for saved programs (default $ROBOPOST_OUT or .)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "save catalog database (default $ROBOPOST_DB or robopost.db)")
	cmd.Flags().BoolVar(&opts.NoCatalog, "no-catalog", false, "do not record saves")
	cmd.Flags().BoolVar(&opts.Show, "show", false, "open every saved file")
	cmd.Flags().StringVar(&opts.Host, "host", "", "controller address to upload saved files to")
	cmd.Flags().StringVar(&opts.RemotePath, "remote-path", "", "destination folder on the controller")

	return cmd
}

func runGenerate(opts *GenerateOptions, programPath string, cmd *cobra.Command) error {
	settings := config.FromEnv()
	if opts.Settings != nil {
		settings = *opts.Settings
	}

	prog, err := harness.LoadProgram(programPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load program", fmt.Errorf("%w: %w", errProgram, err))
	}

	cfg, err := resolveConfig(opts.Backend, prog.Robot)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid backend configuration", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	out.VerboseLog("backend %s, robot %q, %d axes, options %v", cfg.Post, cfg.Name, cfg.Axes, cfg.SortedExtraKeys())

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

	result := GenerateResult{
		Program: prog.Name,
		Post:    cfg.Post,
		Robot:   cfg.Name,
		Session: cat.sessionID(),
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

	p, err := post.New(cfg, env)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create backend", err)
	}
	slog.Info("generating", "program", prog.Name, "post", cfg.Post, "robot", cfg.Name)

	outDir := opts.OutDir
	if outDir == "" {
		outDir = settings.OutDir
	}
	runResult, err := harness.Run(prog, p, harness.Options{
		OutDir:     outDir,
		ShowResult: opts.Show,
		Viewer:     settings.Viewer,
	})
	if runResult != nil {
		result.Log = runResult.Log
	}
	result.Pending = len(p.Lines())
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("program %s failed", prog.Name), err)
	}

	if opts.Host != "" {
		if err := p.ProgSendRobot(ctx, opts.Host, opts.RemotePath, settings.User, settings.Pass); err != nil {
			return WrapExitError(ExitFailure, "upload failed", err)
		}
		result.Sent = true
	}

	if opts.Format == "json" {
		return out.Success(result)
	}
	return outputGenerateText(cmd, result)
}

func outputGenerateText(cmd *cobra.Command, result GenerateResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Program %s (%s", result.Program, result.Post)
	if result.Robot != "" {
		fmt.Fprintf(w, ", %s", result.Robot)
	}
	fmt.Fprintln(w, ")")

	if len(result.Files) == 0 {
		fmt.Fprintln(w, "  No files saved.")
	}
	for _, f := range result.Files {
		fmt.Fprintf(w, "  ✓ %s (%d lines, %d bytes)\n", f.Path, f.Lines, f.Size)
	}
	if result.Pending > 0 {
		fmt.Fprintf(w, "  %d lines not saved (program has no ProgSave step)\n", result.Pending)
	}
	if result.Sent {
		fmt.Fprintln(w, "  Uploaded to controller.")
	}
	if result.Log != "" {
		fmt.Fprintln(w, "\nGeneration log:")
		fmt.Fprint(w, indentLines(result.Log, "  "))
	}
	return nil
}

// commandContext returns the command's context, cancelled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
