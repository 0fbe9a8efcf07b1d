package cmd

import (
	"fmt"
	"strings"

	"github.com/abhishekbhonde/new-portfolio/internal/input"
	"github.com/abhishekbhonde/new-portfolio/internal/models"
	"github.com/abhishekbhonde/new-portfolio/internal/output"
	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:     "comment",
	Aliases: []string{"comments"},
	Short:   "List, add, edit, delete and like comments",
	GroupID: "write",
}

var commentListCmd = &cobra.Command{
	Use:   "list <postId>",
	Short: "List a post's comments, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, ident, err := restore(ctx)
		if err != nil {
			return fail(cmd, err)
		}
		thread, err := a.blog.ListComments(ctx, ident, models.ClassifyPostID(args[0]))
		if err != nil {
			return fail(cmd, err)
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			out := map[string]any{"comments": thread.Comments}
			if thread.Err != nil {
				out["error"] = thread.Err.Error()
			}
			return output.JSON(out)
		}
		if thread.Err != nil {
			output.Warning("could not load comments: %v", thread.Err)
			return nil
		}
		fmt.Println(output.FormatComments(thread.Comments))
		return nil
	},
}

var commentAddCmd = &cobra.Command{
	Use:   "add <postId> <text>",
	Short: "Comment on a post",
	Long:  `Comment on a post. Text may be "-" to read stdin or @path to read a file.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, ident, err := requireLogin(ctx)
		if err != nil {
			return fail(cmd, err)
		}
		text, err := commentText(args[1:])
		if err != nil {
			return fail(cmd, err)
		}
		c, err := a.blog.AddComment(ctx, ident, models.ClassifyPostID(args[0]), text)
		if err != nil {
			return fail(cmd, err)
		}
		output.Success("Comment added (%s)", c.ID)
		return nil
	},
}

var commentEditCmd = &cobra.Command{
	Use:   "edit <commentId> <text>",
	Short: "Edit a comment",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, ident, err := requireLogin(ctx)
		if err != nil {
			return fail(cmd, err)
		}
		text, err := commentText(args[1:])
		if err != nil {
			return fail(cmd, err)
		}
		c, err := a.blog.UpdateComment(ctx, ident, models.ParseCommentRef(args[0]), text)
		if err != nil {
			return fail(cmd, err)
		}
		output.Success("Comment %s updated", c.ID)
		return nil
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <commentId>",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, ident, err := requireLogin(ctx)
		if err != nil {
			return fail(cmd, err)
		}
		if err := a.blog.DeleteComment(ctx, ident, models.ParseCommentRef(args[0])); err != nil {
			return fail(cmd, err)
		}
		output.Success("Comment %s deleted", args[0])
		return nil
	},
}

var commentLikeCmd = &cobra.Command{
	Use:   "like <commentId>",
	Short: "Like or unlike a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, ident, err := requireLogin(ctx)
		if err != nil {
			return fail(cmd, err)
		}
		state, err := a.blog.ToggleCommentLike(ctx, ident, models.ParseCommentRef(args[0]))
		if err != nil {
			return fail(cmd, err)
		}
		output.Success("%s", output.FormatLikes(state.Count, state.Liked))
		return nil
	},
}

// commentText joins the text arguments, expanding a lone - or @path.
func commentText(args []string) (string, error) {
	if len(args) == 1 {
		return input.ReadValue(args[0])
	}
	return strings.Join(args, " "), nil
}

func init() {
	commentListCmd.Flags().Bool("json", false, "JSON output")

	commentCmd.AddCommand(commentListCmd, commentAddCmd, commentEditCmd, commentDeleteCmd, commentLikeCmd)
	rootCmd.AddCommand(commentCmd)
}
