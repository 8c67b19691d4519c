package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/robopost/internal/config"
	"github.com/roach88/robopost/internal/sink"
)

// SendOptions holds flags for the send command.
type SendOptions struct {
	*RootOptions
	Command    string
	RemotePath string
	User       string

	// Settings overrides the environment (for testing).
	Settings *config.Settings
}

// NewSendCommand creates the send command.
func NewSendCommand(rootOpts *RootOptions) *cobra.Command {
	return newSendCommand(&SendOptions{RootOptions: rootOpts})
}

func newSendCommand(opts *SendOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <host> <file>...",
		Short: "Upload saved programs to a robot controller",
		Long: `Upload program files to a controller through an external command.

The command is run as
  <upload-command> <host> <remote-path> <file>...
with ROBOPOST_USER and ROBOPOST_PASS set in its environment. The password
is only ever read from $ROBOPOST_PASS.

Examples:
  robopost send 192.168.0.10 programs/Sample.txt --upload-cmd ./ftp-put
  ROBOPOST_UPLOAD=./ftp-put robopost send 192.168.0.10 a.txt b.txt --remote-path /md`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Command, "upload-cmd", "", "upload command (default $ROBOPOST_UPLOAD)")
	cmd.Flags().StringVar(&opts.RemotePath, "remote-path", "", "destination folder on the controller")
	cmd.Flags().StringVar(&opts.User, "user", "", "controller user (default $ROBOPOST_USER)")

	return cmd
}

func runSend(opts *SendOptions, host string, files []string, cmd *cobra.Command) error {
	settings := config.FromEnv()
	if opts.Settings != nil {
		settings = *opts.Settings
	}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return WrapExitError(ExitCommandError, "file not found", err)
		}
	}

	command := opts.Command
	if command == "" {
		command = settings.UploadCommand
	}
	user := opts.User
	if user == "" {
		user = settings.User
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	uploader := sink.CommandUploader{Command: command}
	if err := uploader.Upload(ctx, files, host, opts.RemotePath, user, settings.Pass); err != nil {
		return WrapExitError(ExitFailure, "upload failed", err)
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return f.Success(map[string]any{"host": host, "files": files})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Sent %d file(s) to %s\n", len(files), host)
	return nil
}
