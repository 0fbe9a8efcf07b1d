package cmd

import (
	"fmt"

	"github.com/abhishekbhonde/new-portfolio/internal/gateway"
	"github.com/abhishekbhonde/new-portfolio/internal/models"
	"github.com/abhishekbhonde/new-portfolio/internal/output"
	"github.com/spf13/cobra"
)

var postsCmd = &cobra.Command{
	Use:     "posts",
	Aliases: []string{"ls", "list"},
	Short:   "List blog posts",
	Long: `List blog posts, newest first. The default posts are shown at the top of
the first page. When the backend is unreachable only the default posts are
listed and a warning is printed.`,
	GroupID: "read",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		page, _ := cmd.Flags().GetInt("page")
		pages, _ := cmd.Flags().GetInt("pages")
		limit, _ := cmd.Flags().GetInt("limit")
		popular, _ := cmd.Flags().GetBool("popular")
		mine, _ := cmd.Flags().GetBool("mine")
		jsonOut, _ := cmd.Flags().GetBool("json")

		if defaults, _ := cmd.Flags().GetBool("defaults"); defaults {
			return listDefaults(cmd, jsonOut)
		}

		filter := models.ListFilter{Sort: models.SortLatest, Mine: mine}
		if popular {
			filter.Sort = models.SortPopular
		}
		if pages < 1 {
			pages = 1
		}

		a, ident, err := restore(ctx)
		if err != nil {
			return fail(cmd, err)
		}
		if limit <= 0 {
			limit = a.settings.PageSize
		}

		feed := a.blog.NewFeed(ident, limit, filter).From(page)
		for i := 0; i < pages && feed.HasMore(); i++ {
			if _, err := feed.Next(ctx); err != nil {
				return fail(cmd, err)
			}
		}
		posts, hasMore, last, degrade := feed.Posts(), feed.HasMore(), feed.Page(), feed.Err()

		if jsonOut {
			out := map[string]any{"posts": posts, "page": last, "has_more": hasMore}
			if degrade != nil {
				out["error"] = degrade.Error()
			}
			return output.JSON(out)
		}

		switch {
		case degrade == nil:
		case gateway.IsUnreachable(degrade):
			output.Warning("backend at %s is unreachable; showing default posts", a.settings.APIURL)
		default:
			output.Warning("could not load posts from the server (%v); showing default posts", degrade)
		}
		if len(posts) == 0 {
			if mine {
				output.Info("You have not written any posts yet.")
			} else {
				output.Info("No posts found.")
			}
			return nil
		}
		for i := range posts {
			fmt.Println(output.FormatPostShort(&posts[i]))
		}
		if hasMore {
			output.Info("\nMore posts: folio posts --page %d", last+1)
		}
		return nil
	},
}

// listDefaults prints the bundled posts without contacting the backend.
func listDefaults(cmd *cobra.Command, jsonOut bool) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return fail(cmd, err)
	}
	posts, err := a.blog.Seeds(cmd.Context())
	if err != nil {
		return fail(cmd, err)
	}
	if jsonOut {
		return output.JSON(map[string]any{"posts": posts})
	}
	for i := range posts {
		fmt.Println(output.FormatPostShort(&posts[i]))
	}
	return nil
}

func init() {
	postsCmd.Flags().Int("page", 1, "first page to load")
	postsCmd.Flags().Int("pages", 1, "number of pages to load")
	postsCmd.Flags().IntP("limit", "n", 0, "posts per page (default from config)")
	postsCmd.Flags().Bool("popular", false, "order by likes")
	postsCmd.Flags().Bool("mine", false, "only my posts (requires login)")
	postsCmd.Flags().Bool("defaults", false, "only the bundled default posts, offline")
	postsCmd.Flags().Bool("json", false, "JSON output")
	rootCmd.AddCommand(postsCmd)
}
