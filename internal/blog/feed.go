package blog

import (
	"context"

	"github.com/abhishekbhonde/new-portfolio/internal/models"
	"github.com/abhishekbhonde/new-portfolio/internal/session"
)

// Feed accumulates pages of one listing, the way a "load more" view does.
type Feed struct {
	svc      *Service
	ident    *session.Identity
	pageSize int
	filter   models.ListFilter

	next    int
	posts   []models.Post
	hasMore bool
	err     error
}

// NewFeed starts an empty feed positioned before page 1.
func (s *Service) NewFeed(ident *session.Identity, pageSize int, filter models.ListFilter) *Feed {
	return &Feed{
		svc:      s,
		ident:    ident,
		pageSize: pageSize,
		filter:   filter,
		next:     1,
		hasMore:  true,
	}
}

// From positions the feed so the next call loads page.
func (f *Feed) From(page int) *Feed {
	if page > 1 {
		f.next = page
	}
	return f
}

// Next loads the following page and appends it. It returns the loaded page;
// a degraded page stops the feed and is reported by Err.
func (f *Feed) Next(ctx context.Context) (*Page, error) {
	page, err := f.svc.ListPosts(ctx, f.ident, f.next, f.pageSize, f.filter)
	if err != nil {
		return nil, err
	}
	f.posts = append(f.posts, page.Posts...)
	f.hasMore = page.HasMore && page.Err == nil
	f.err = page.Err
	f.next++
	return page, nil
}

// Page returns the number of the last loaded page, 0 before the first.
func (f *Feed) Page() int { return f.next - 1 }

// Posts returns everything loaded so far.
func (f *Feed) Posts() []models.Post {
	if f.posts == nil {
		return []models.Post{}
	}
	return f.posts
}

// HasMore reports whether another page may exist.
func (f *Feed) HasMore() bool { return f.hasMore }

// Err returns the backend failure of the last page, if any.
func (f *Feed) Err() error { return f.err }
