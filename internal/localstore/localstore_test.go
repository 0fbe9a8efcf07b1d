package localstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhishekbhonde/new-portfolio/internal/kv"
	"github.com/abhishekbhonde/new-portfolio/internal/models"
)

var testAuthor = models.Author{ID: "u1", Name: "Ada", AvatarURL: "https://example.com/ada.png"}

func newTestStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	return New(mem), mem
}

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t)

	tok, err := s.Token(ctx)
	if err != nil || tok != "" {
		t.Fatalf("empty store token: %q, %v", tok, err)
	}
	if err := s.SaveToken(ctx, "abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mem.Has("token") {
		t.Fatal("token not stored under the token key")
	}
	if tok, _ := s.Token(ctx); tok != "abc" {
		t.Fatalf("token: got %q, want abc", tok)
	}
	if err := s.ClearToken(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mem.Has("token") {
		t.Fatal("token still stored after clear")
	}
}

func TestPostLikesDefaultToZero(t *testing.T) {
	s, _ := newTestStore(t)
	state, err := s.PostLikes(context.Background(), "default-1")
	if err != nil {
		t.Fatalf("likes: %v", err)
	}
	if state.Count != 0 || state.Liked {
		t.Fatalf("got %+v, want zero state", state)
	}
}

func TestTogglePostLikeRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	before, _ := s.PostLikes(ctx, "default-1")

	first, err := s.TogglePostLike(ctx, "default-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if first.Count != before.Count+1 || !first.Liked {
		t.Fatalf("first toggle: got %+v", first)
	}

	second, err := s.TogglePostLike(ctx, "default-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if second != before {
		t.Fatalf("second toggle: got %+v, want %+v", second, before)
	}

	after, _ := s.PostLikes(ctx, "default-1")
	if after != before {
		t.Fatalf("persisted state: got %+v, want %+v", after, before)
	}
}

func TestTogglePostLikeKeepsOtherPostsLiked(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.TogglePostLike(ctx, "default-1")
	s.TogglePostLike(ctx, "default-2")
	s.TogglePostLike(ctx, "default-1")

	one, _ := s.PostLikes(ctx, "default-1")
	two, _ := s.PostLikes(ctx, "default-2")
	if one.Liked || !two.Liked {
		t.Fatalf("liked set: default-1=%v default-2=%v", one.Liked, two.Liked)
	}
}

func TestUnlikeNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t)

	// Liked set says liked, but the counter was lost
	mem.Set(ctx, "likedBlogs", []string{"default-1"})

	state, err := s.TogglePostLike(ctx, "default-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if state.Count != 0 || state.Liked {
		t.Fatalf("got %+v, want {0 false}", state)
	}
}

func TestAddCommentPrependsWithEncodedID(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	t0 := time.UnixMilli(1_700_000_000_000)

	if _, err := s.AddComment(ctx, "default-1", "first", testAuthor, t0); err != nil {
		t.Fatalf("add: %v", err)
	}
	c, err := s.AddComment(ctx, "default-1", "second", testAuthor, t0.Add(time.Second))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.HasPrefix(c.ID, "default-1-comment-") {
		t.Fatalf("comment id %q lacks post prefix", c.ID)
	}
	if c.Source != models.SourceSeed || c.PostID != "default-1" || c.LikeCount != 0 {
		t.Fatalf("new comment: %+v", c)
	}

	list, err := s.Comments(ctx, "default-1")
	if err != nil {
		t.Fatalf("comments: %v", err)
	}
	if len(list) != 2 || list[0].ID != c.ID || list[1].Content != "first" {
		t.Fatalf("order: %+v", list)
	}
}

func TestDeleteCommentOnlyTouchesOwningPost(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	t0 := time.UnixMilli(1_700_000_000_000)

	c1, _ := s.AddComment(ctx, "default-1", "on one", testAuthor, t0)
	s.AddComment(ctx, "default-2", "on two", testAuthor, t0)

	if err := s.DeleteComment(ctx, models.ParseCommentRef(c1.ID)); err != nil {
		t.Fatalf("delete: %v", err)
	}

	one, _ := s.Comments(ctx, "default-1")
	two, _ := s.Comments(ctx, "default-2")
	if len(one) != 0 {
		t.Fatalf("default-1 comments: %+v", one)
	}
	if len(two) != 1 || two[0].Content != "on two" {
		t.Fatalf("default-2 comments changed: %+v", two)
	}
}

func TestDeleteUnknownComment(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.DeleteComment(context.Background(), models.ParseCommentRef("default-1-comment-1"))
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestToggleCommentLike(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	c, _ := s.AddComment(ctx, "default-1", "hi", testAuthor, time.Now())
	ref := c.Ref()

	state, err := s.ToggleCommentLike(ctx, ref)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if state.Count != 1 || !state.Liked {
		t.Fatalf("like: %+v", state)
	}
	state, _ = s.ToggleCommentLike(ctx, ref)
	if state.Count != 0 || state.Liked {
		t.Fatalf("unlike: %+v", state)
	}

	list, _ := s.Comments(ctx, "default-1")
	if list[0].LikeCount != 0 || list[0].LikedByViewer {
		t.Fatalf("persisted: %+v", list[0])
	}
}

func TestUpdateComment(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	c, _ := s.AddComment(ctx, "default-2", "draft", testAuthor, time.Now())

	updated, err := s.UpdateComment(ctx, c.Ref(), "final")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "final" || updated.ID != c.ID {
		t.Fatalf("updated: %+v", updated)
	}
	list, _ := s.Comments(ctx, "default-2")
	if list[0].Content != "final" {
		t.Fatalf("persisted content: %q", list[0].Content)
	}
}
