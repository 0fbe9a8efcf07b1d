// Package blog routes every post, like and comment operation to the store
// that owns it: bundled seed posts keep their engagement state in the local
// store, everything else goes through the backend gateway. Callers never
// need to know which source a post came from.
package blog

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/abhishekbhonde/new-portfolio/internal/gateway"
	"github.com/abhishekbhonde/new-portfolio/internal/localstore"
	"github.com/abhishekbhonde/new-portfolio/internal/models"
	"github.com/abhishekbhonde/new-portfolio/internal/session"
)

// Remote is the backend surface the service needs. *gateway.Client
// implements it.
type Remote interface {
	ListBlogs(ctx context.Context, token string, q gateway.ListQuery) (*gateway.BlogList, error)
	GetBlog(ctx context.Context, token, id string) (*models.Post, error)
	CreateBlog(ctx context.Context, token string, draft models.PostDraft) (*models.Post, error)
	UpdateBlog(ctx context.Context, token, id string, draft models.PostDraft) (*models.Post, error)
	DeleteBlog(ctx context.Context, token, id string) error
	LikeBlog(ctx context.Context, token, id string) (models.LikeState, error)
	ListComments(ctx context.Context, token, postID string) ([]models.Comment, error)
	AddComment(ctx context.Context, token, postID, content string, author models.Author) (*models.Comment, error)
	UpdateComment(ctx context.Context, token, commentID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, token, commentID string) error
	LikeComment(ctx context.Context, token, commentID string) (models.LikeState, error)
}

var _ Remote = (*gateway.Client)(nil)

// Service is the content synchronization policy.
type Service struct {
	remote Remote
	local  *localstore.Store
	seeds  []models.Post
	now    func() time.Time
	log    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now, which stamps seed comments.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger used for degraded reads.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithSeeds replaces the bundled seed posts.
func WithSeeds(posts []models.Post) Option {
	return func(s *Service) { s.seeds = posts }
}

// NewService wires the gateway and local store together.
func NewService(remote Remote, local *localstore.Store, opts ...Option) *Service {
	s := &Service{
		remote: remote,
		local:  local,
		seeds:  DefaultSeeds(),
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Page is one page of a listing. When the backend fails, Err is set and
// Posts holds the fallback content instead of an error being returned.
type Page struct {
	Number  int
	Posts   []models.Post
	HasMore bool
	Total   int
	Err     error
}

// Thread is the comment list of a post, newest first. Err is set when the
// backend failed and Comments is empty as a result.
type Thread struct {
	Comments []models.Comment
	Err      error
}

// ListPosts fetches page number page. Page 1 of any listing except "mine"
// starts with the seed posts; seed posts never count toward HasMore.
func (s *Service) ListPosts(ctx context.Context, ident *session.Identity, page, pageSize int, filter models.ListFilter) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return nil, models.Invalid("limit", "page size must be positive")
	}
	if filter.Mine && ident == nil {
		return nil, models.ErrUnauthenticated
	}
	if filter.Mine && ident.User.ID == "" {
		return nil, fmt.Errorf("list own posts: session has no user id: %w", models.ErrUnauthenticated)
	}

	q := gateway.ListQuery{Page: page, Limit: pageSize}
	if filter.Sort == models.SortPopular {
		q.Sort = "-likes"
	}
	if filter.Mine {
		q.Author = ident.User.ID
	}
	withSeeds := page == 1 && !filter.Mine

	res, err := s.remote.ListBlogs(ctx, tokenOf(ident), q)
	if err != nil {
		s.log.Warn("blog: listing degraded", "page", page, "err", err)
		out := &Page{Number: page, Posts: []models.Post{}, Err: err}
		if withSeeds {
			seeds, serr := s.seedPosts(ctx)
			if serr != nil {
				return nil, serr
			}
			out.Posts = seeds
		}
		return out, nil
	}

	out := &Page{
		Number:  page,
		HasMore: len(res.Posts) == pageSize,
		Total:   res.Total,
	}
	if withSeeds {
		seeds, err := s.seedPosts(ctx)
		if err != nil {
			return nil, err
		}
		out.Posts = append(out.Posts, seeds...)
	}
	out.Posts = append(out.Posts, res.Posts...)
	if out.Posts == nil {
		out.Posts = []models.Post{}
	}
	return out, nil
}

// GetPost returns a single post. Seed posts carry their local like state and
// comments; remote failures propagate unchanged.
func (s *Service) GetPost(ctx context.Context, ident *session.Identity, ref models.PostRef) (*models.Post, error) {
	if ref.Source == models.SourceRemote {
		return s.remote.GetBlog(ctx, tokenOf(ident), ref.ID)
	}

	p, err := s.seed(ref.ID)
	if err != nil {
		return nil, err
	}
	if err := s.withLocalState(ctx, p); err != nil {
		return nil, err
	}
	comments, err := s.local.Comments(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Comments = comments
	return p, nil
}

// CreatePost publishes a new post on the backend.
func (s *Service) CreatePost(ctx context.Context, ident *session.Identity, draft models.PostDraft) (*models.Post, error) {
	if ident == nil {
		return nil, models.ErrUnauthenticated
	}
	draft, err := cleanDraft(draft)
	if err != nil {
		return nil, err
	}
	return s.remote.CreateBlog(ctx, ident.Token, draft)
}

// UpdatePost replaces the editable fields of a remote post.
func (s *Service) UpdatePost(ctx context.Context, ident *session.Identity, ref models.PostRef, draft models.PostDraft) (*models.Post, error) {
	if ident == nil {
		return nil, models.ErrUnauthenticated
	}
	if ref.Source == models.SourceSeed {
		return nil, models.ErrReadOnly
	}
	draft, err := cleanDraft(draft)
	if err != nil {
		return nil, err
	}
	return s.remote.UpdateBlog(ctx, ident.Token, ref.ID, draft)
}

// DeletePost removes a remote post.
func (s *Service) DeletePost(ctx context.Context, ident *session.Identity, ref models.PostRef) error {
	if ident == nil {
		return models.ErrUnauthenticated
	}
	if ref.Source == models.SourceSeed {
		return models.ErrReadOnly
	}
	return s.remote.DeleteBlog(ctx, ident.Token, ref.ID)
}

// ToggleLike flips the viewer's like on a post.
func (s *Service) ToggleLike(ctx context.Context, ident *session.Identity, ref models.PostRef) (models.LikeState, error) {
	if ident == nil {
		return models.LikeState{}, models.ErrUnauthenticated
	}
	if ref.Source == models.SourceRemote {
		return s.remote.LikeBlog(ctx, ident.Token, ref.ID)
	}
	if _, err := s.seed(ref.ID); err != nil {
		return models.LikeState{}, err
	}
	return s.local.TogglePostLike(ctx, ref.ID)
}

// ListComments returns a post's comments. A backend failure degrades to an
// empty thread with Err set.
func (s *Service) ListComments(ctx context.Context, ident *session.Identity, ref models.PostRef) (*Thread, error) {
	if ref.Source == models.SourceSeed {
		comments, err := s.local.Comments(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &Thread{Comments: comments}, nil
	}

	comments, err := s.remote.ListComments(ctx, tokenOf(ident), ref.ID)
	if err != nil {
		s.log.Warn("blog: comments degraded", "post", ref.ID, "err", err)
		return &Thread{Comments: []models.Comment{}, Err: err}, nil
	}
	return &Thread{Comments: comments}, nil
}

// AddComment posts a comment attributed to the viewer.
func (s *Service) AddComment(ctx context.Context, ident *session.Identity, ref models.PostRef, content string) (*models.Comment, error) {
	if ident == nil {
		return nil, models.ErrUnauthenticated
	}
	content, err := cleanComment(content)
	if err != nil {
		return nil, err
	}
	author := commentAuthor(ident.User)

	if ref.Source == models.SourceRemote {
		return s.remote.AddComment(ctx, ident.Token, ref.ID, content, author)
	}
	if _, err := s.seed(ref.ID); err != nil {
		return nil, err
	}
	c, err := s.local.AddComment(ctx, ref.ID, content, author, s.now())
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateComment edits the text of a comment.
func (s *Service) UpdateComment(ctx context.Context, ident *session.Identity, ref models.CommentRef, content string) (*models.Comment, error) {
	if ident == nil {
		return nil, models.ErrUnauthenticated
	}
	content, err := cleanComment(content)
	if err != nil {
		return nil, err
	}
	if ref.Source == models.SourceRemote {
		return s.remote.UpdateComment(ctx, ident.Token, ref.ID, content)
	}
	c, err := s.local.UpdateComment(ctx, ref, content)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes a comment. Seed comments are removed from their
// owning post's list only.
func (s *Service) DeleteComment(ctx context.Context, ident *session.Identity, ref models.CommentRef) error {
	if ident == nil {
		return models.ErrUnauthenticated
	}
	if ref.Source == models.SourceRemote {
		return s.remote.DeleteComment(ctx, ident.Token, ref.ID)
	}
	return s.local.DeleteComment(ctx, ref)
}

// ToggleCommentLike flips the viewer's like on a comment.
func (s *Service) ToggleCommentLike(ctx context.Context, ident *session.Identity, ref models.CommentRef) (models.LikeState, error) {
	if ident == nil {
		return models.LikeState{}, models.ErrUnauthenticated
	}
	if ref.Source == models.SourceRemote {
		return s.remote.LikeComment(ctx, ident.Token, ref.ID)
	}
	return s.local.ToggleCommentLike(ctx, ref)
}

// Seeds returns the seed posts with their local like state. It never
// touches the network.
func (s *Service) Seeds(ctx context.Context) ([]models.Post, error) {
	return s.seedPosts(ctx)
}

func (s *Service) seed(id string) (*models.Post, error) {
	i := slices.IndexFunc(s.seeds, func(p models.Post) bool { return p.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("post %s: %w", id, models.ErrNotFound)
	}
	p := s.seeds[i]
	p.Tags = slices.Clone(p.Tags)
	return &p, nil
}

func (s *Service) seedPosts(ctx context.Context) ([]models.Post, error) {
	out := make([]models.Post, 0, len(s.seeds))
	for _, seed := range s.seeds {
		p := seed
		p.Tags = slices.Clone(seed.Tags)
		if err := s.withLocalState(ctx, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) withLocalState(ctx context.Context, p *models.Post) error {
	state, err := s.local.PostLikes(ctx, p.ID)
	if err != nil {
		return err
	}
	p.LikeCount = state.Count
	p.LikedByViewer = state.Liked
	return nil
}

func tokenOf(ident *session.Identity) string {
	if ident == nil {
		return ""
	}
	return ident.Token
}

// commentAuthor fills in the guest defaults for incomplete profiles.
func commentAuthor(u models.Author) models.Author {
	if u.ID == "" {
		u.ID = "guest"
	}
	if u.Name == "" {
		u.Name = "Guest"
	}
	if u.AvatarURL == "" {
		u.AvatarURL = "https://ui-avatars.com/api/?name=" + url.QueryEscape(u.Name)
	}
	return u
}

func cleanComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.Invalid("content", "comment cannot be empty")
	}
	return content, nil
}

// cleanDraft trims the draft, drops empty and duplicate tags and rejects
// drafts without a title or body.
func cleanDraft(d models.PostDraft) (models.PostDraft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.Preview = strings.TrimSpace(d.Preview)
	d.CoverImage = strings.TrimSpace(d.CoverImage)
	if d.Title == "" || d.Content == "" {
		return d, models.Invalid("", "title and content are required")
	}
	if d.CoverFile != "" {
		if _, err := os.Stat(d.CoverFile); err != nil {
			return d, models.Invalid("cover", fmt.Sprintf("cannot read %s", d.CoverFile))
		}
	}

	tags := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	d.Tags = tags
	return d, nil
}
