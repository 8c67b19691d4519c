package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/robopost/internal/post"
)

// NewPostsCommand creates the posts command.
func NewPostsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "List the available robot dialects",
		Long: `List the robot dialects that can be selected with --post or robot_post.

Examples:
  robopost posts
  robopost posts --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := post.Names()
			if rootOpts.Format == "json" {
				f := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
				return f.Success(map[string]any{"posts": names})
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
