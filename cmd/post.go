package cmd

import (
	"fmt"
	"strings"

	"github.com/abhishekbhonde/new-portfolio/internal/input"
	"github.com/abhishekbhonde/new-portfolio/internal/models"
	"github.com/abhishekbhonde/new-portfolio/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var postCmd = &cobra.Command{
	Use:     "post",
	Short:   "Read, write and like single posts",
	GroupID: "write",
}

var postShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a post with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, ident, err := restore(ctx)
		if err != nil {
			return fail(cmd, err)
		}
		ref := models.ClassifyPostID(args[0])

		post, err := a.blog.GetPost(ctx, ident, ref)
		if err != nil {
			return fail(cmd, err)
		}
		thread, err := a.blog.ListComments(ctx, ident, ref)
		if err != nil {
			return fail(cmd, err)
		}
		post.Comments = thread.Comments

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(post)
		}

		body := post.Content
		if raw, _ := cmd.Flags().GetBool("raw"); !raw {
			body = output.RenderPostBody(post.Content)
		}
		fmt.Print(output.FormatPostLong(post, body))
		fmt.Print(output.SectionHeader("comments"))
		if thread.Err != nil {
			output.Warning("could not load comments: %v", thread.Err)
			return nil
		}
		fmt.Println(output.FormatComments(thread.Comments))
		return nil
	},
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new post",
	Example: `  folio post create --title "Hello" --file post.md --tag go --tag cli
  folio post create            # opens the editor form`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, ident, err := requireLogin(ctx)
		if err != nil {
			return fail(cmd, err)
		}

		draft, err := draftFromFlags(cmd.Flags(), models.PostDraft{}, "New post")
		if err != nil {
			return fail(cmd, err)
		}
		post, err := a.blog.CreatePost(ctx, ident, draft)
		if err != nil {
			return fail(cmd, err)
		}
		output.Success("Published %s (%s)", post.Title, post.ID)
		return nil
	},
}

var postEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, ident, err := requireLogin(ctx)
		if err != nil {
			return fail(cmd, err)
		}
		ref := models.ClassifyPostID(args[0])
		if ref.Source == models.SourceSeed {
			return fail(cmd, models.ErrReadOnly)
		}

		existing, err := a.blog.GetPost(ctx, ident, ref)
		if err != nil {
			return fail(cmd, err)
		}
		base := models.PostDraft{
			Title:      existing.Title,
			Content:    existing.Content,
			Preview:    existing.Preview,
			Tags:       existing.Tags,
			CoverImage: existing.CoverImage,
		}
		draft, err := draftFromFlags(cmd.Flags(), base, "Edit post "+ref.ID)
		if err != nil {
			return fail(cmd, err)
		}
		post, err := a.blog.UpdatePost(ctx, ident, ref, draft)
		if err != nil {
			return fail(cmd, err)
		}
		output.Success("Updated %s", post.ID)
		return nil
	},
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, ident, err := requireLogin(ctx)
		if err != nil {
			return fail(cmd, err)
		}
		ref := models.ClassifyPostID(args[0])

		if yes, _ := cmd.Flags().GetBool("yes"); !yes && ref.Source == models.SourceRemote {
			ok, err := input.Confirm(fmt.Sprintf("Delete post %s?", ref.ID))
			if err != nil {
				return fail(cmd, fmt.Errorf("confirm delete (pass --yes to skip): %w", err))
			}
			if !ok {
				output.Info("Cancelled")
				return nil
			}
		}
		if err := a.blog.DeletePost(ctx, ident, ref); err != nil {
			return fail(cmd, err)
		}
		output.Success("Deleted %s", ref.ID)
		return nil
	},
}

var postLikeCmd = &cobra.Command{
	Use:   "like <id>",
	Short: "Like or unlike a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, ident, err := requireLogin(ctx)
		if err != nil {
			return fail(cmd, err)
		}
		state, err := a.blog.ToggleLike(ctx, ident, models.ClassifyPostID(args[0]))
		if err != nil {
			return fail(cmd, err)
		}
		verb := "Unliked"
		if state.Liked {
			verb = "Liked"
		}
		output.Success("%s %s  %s", verb, args[0], output.FormatLikes(state.Count, state.Liked))
		return nil
	},
}

// addDraftFlags registers the flags shared by create and edit.
func addDraftFlags(fs *pflag.FlagSet) {
	fs.String("title", "", "post title")
	fs.String("content", "", "markdown body; - reads stdin, @path reads a file")
	fs.StringP("file", "f", "", "read the markdown body from a file")
	fs.String("preview", "", "one line summary")
	fs.StringSlice("tag", nil, "tag (repeatable or comma separated)")
	fs.String("cover", "", "cover image URL")
	fs.String("cover-file", "", "upload a local cover image")
}

// draftFromFlags overlays set flags on base. When neither title nor content
// came from flags the editor form is opened instead.
func draftFromFlags(fs *pflag.FlagSet, base models.PostDraft, heading string) (models.PostDraft, error) {
	d := base
	if fs.Changed("title") {
		d.Title, _ = fs.GetString("title")
	}
	if fs.Changed("content") {
		v, _ := fs.GetString("content")
		content, err := input.ReadValue(v)
		if err != nil {
			return d, err
		}
		d.Content = content
	}
	if fs.Changed("file") {
		path, _ := fs.GetString("file")
		content, err := input.ReadValue("@" + path)
		if err != nil {
			return d, err
		}
		d.Content = content
	}
	if fs.Changed("preview") {
		d.Preview, _ = fs.GetString("preview")
	}
	if fs.Changed("tag") {
		raw, _ := fs.GetStringSlice("tag")
		d.Tags = input.SplitTags(strings.Join(raw, ","))
	}
	if fs.Changed("cover") {
		d.CoverImage, _ = fs.GetString("cover")
	}
	if fs.Changed("cover-file") {
		d.CoverFile, _ = fs.GetString("cover-file")
	}

	fromFlags := fs.Changed("title") || fs.Changed("content") || fs.Changed("file")
	if fromFlags || !input.CanPrompt() {
		return d, nil
	}

	form := input.Draft{
		Title:   d.Title,
		Content: d.Content,
		Preview: d.Preview,
		Tags:    strings.Join(d.Tags, ", "),
		Cover:   d.CoverImage,
	}
	if err := input.EditDraft(heading, &form); err != nil {
		return d, err
	}
	d.Title, d.Content, d.Preview = form.Title, form.Content, form.Preview
	d.Tags = input.SplitTags(form.Tags)
	d.CoverImage = form.Cover
	return d, nil
}

func init() {
	postShowCmd.Flags().Bool("json", false, "JSON output")
	postShowCmd.Flags().Bool("raw", false, "print markdown without rendering")

	addDraftFlags(postCreateCmd.Flags())
	addDraftFlags(postEditCmd.Flags())

	postDeleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation")

	postCmd.AddCommand(postShowCmd, postCreateCmd, postEditCmd, postDeleteCmd, postLikeCmd)
	rootCmd.AddCommand(postCmd)
}
