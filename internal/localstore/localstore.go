// Package localstore holds the engagement state of seed posts (likes, the
// viewer's liked set and comments) and the persisted session token, laid
// out over a kv.Store with the same keys the web client used:
//
//	token               session credential
//	likedBlogs          ids of seed posts the viewer liked
//	<postId>_likes      like count of a seed post
//	<postId>_comments   comments of a seed post, newest first
package localstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/abhishekbhonde/new-portfolio/internal/kv"
	"github.com/abhishekbhonde/new-portfolio/internal/models"
)

const (
	tokenKey      = "token"
	likedPostsKey = "likedBlogs"
)

func likesKey(postID string) string    { return postID + "_likes" }
func commentsKey(postID string) string { return postID + "_comments" }

// Store serializes read-modify-write cycles within this process. Writers in
// other processes are not coordinated; the last write wins.
type Store struct {
	kv kv.Store
	mu sync.Mutex
}

// New wraps a kv.Store.
func New(s kv.Store) *Store {
	return &Store{kv: s}
}

// Token returns the persisted session token, or "" when none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	var tok string
	if _, err := s.kv.Get(ctx, tokenKey, &tok); err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return tok, nil
}

// SaveToken persists the session token.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if err := s.kv.Set(ctx, tokenKey, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// ClearToken removes the session token.
func (s *Store) ClearToken(ctx context.Context) error {
	if err := s.kv.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// PostLikes returns the like state of a seed post; absent keys read as 0/false.
func (s *Store) PostLikes(ctx context.Context, postID string) (models.LikeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count, liked, err := s.loadPostLikes(ctx, postID)
	if err != nil {
		return models.LikeState{}, err
	}
	return models.LikeState{Count: count, Liked: slices.Contains(liked, postID)}, nil
}

// TogglePostLike flips the viewer's like on a seed post and writes the count
// and liked set back in one batch.
func (s *Store) TogglePostLike(ctx context.Context, postID string) (models.LikeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, liked, err := s.loadPostLikes(ctx, postID)
	if err != nil {
		return models.LikeState{}, err
	}

	var state models.LikeState
	if i := slices.Index(liked, postID); i >= 0 {
		liked = slices.Delete(liked, i, i+1)
		state = models.LikeState{Count: max(count-1, 0), Liked: false}
	} else {
		liked = append(liked, postID)
		state = models.LikeState{Count: count + 1, Liked: true}
	}

	err = s.kv.SetMany(ctx, map[string]any{
		likesKey(postID): state.Count,
		likedPostsKey:    liked,
	})
	if err != nil {
		return models.LikeState{}, fmt.Errorf("save likes: %w", err)
	}
	return state, nil
}

func (s *Store) loadPostLikes(ctx context.Context, postID string) (int, []string, error) {
	var count int
	if _, err := s.kv.Get(ctx, likesKey(postID), &count); err != nil {
		return 0, nil, fmt.Errorf("load likes: %w", err)
	}
	liked := []string{}
	if _, err := s.kv.Get(ctx, likedPostsKey, &liked); err != nil {
		return 0, nil, fmt.Errorf("load liked posts: %w", err)
	}
	return count, liked, nil
}

// Comments returns the stored comments of a seed post, newest first.
func (s *Store) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, err := s.loadComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	return toModels(postID, stored), nil
}

// AddComment prepends a new comment to a seed post's list. The id is
// <postId>-comment-<at in epoch millis>; two comments added in the same
// millisecond share an id.
func (s *Store) AddComment(ctx context.Context, postID, content string, author models.Author, at time.Time) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.loadComments(ctx, postID)
	if err != nil {
		return models.Comment{}, err
	}
	c := storedComment{
		ID:        models.SeedCommentID(postID, at),
		Content:   content,
		Author:    fromAuthor(author),
		CreatedAt: at.UTC(),
	}
	stored = append([]storedComment{c}, stored...)
	if err := s.saveComments(ctx, postID, stored); err != nil {
		return models.Comment{}, err
	}
	return c.toModel(postID), nil
}

// UpdateComment replaces the content of a stored comment.
func (s *Store) UpdateComment(ctx context.Context, ref models.CommentRef, content string) (models.Comment, error) {
	var updated models.Comment
	err := s.mutateComment(ctx, ref, func(stored []storedComment, i int) []storedComment {
		stored[i].Content = content
		updated = stored[i].toModel(ref.PostID)
		return stored
	})
	return updated, err
}

// DeleteComment removes a comment from its owning post's list only.
func (s *Store) DeleteComment(ctx context.Context, ref models.CommentRef) error {
	return s.mutateComment(ctx, ref, func(stored []storedComment, i int) []storedComment {
		return slices.Delete(stored, i, i+1)
	})
}

// ToggleCommentLike flips the like flag of a stored comment and moves its
// count by one in the same write.
func (s *Store) ToggleCommentLike(ctx context.Context, ref models.CommentRef) (models.LikeState, error) {
	var state models.LikeState
	err := s.mutateComment(ctx, ref, func(stored []storedComment, i int) []storedComment {
		c := &stored[i]
		if c.Liked {
			c.Likes = max(c.Likes-1, 0)
		} else {
			c.Likes++
		}
		c.Liked = !c.Liked
		state = models.LikeState{Count: c.Likes, Liked: c.Liked}
		return stored
	})
	return state, err
}

func (s *Store) mutateComment(ctx context.Context, ref models.CommentRef, fn func([]storedComment, int) []storedComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.loadComments(ctx, ref.PostID)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(stored, func(c storedComment) bool { return c.ID == ref.ID })
	if i < 0 {
		return fmt.Errorf("comment %s: %w", ref.ID, models.ErrNotFound)
	}
	return s.saveComments(ctx, ref.PostID, fn(stored, i))
}

func (s *Store) loadComments(ctx context.Context, postID string) ([]storedComment, error) {
	var stored []storedComment
	if _, err := s.kv.Get(ctx, commentsKey(postID), &stored); err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	return stored, nil
}

func (s *Store) saveComments(ctx context.Context, postID string, stored []storedComment) error {
	if stored == nil {
		stored = []storedComment{}
	}
	if err := s.kv.Set(ctx, commentsKey(postID), stored); err != nil {
		return fmt.Errorf("save comments: %w", err)
	}
	return nil
}
