package models

import (
	"strconv"
	"strings"
	"time"
)

// Source says where a post or comment lives and therefore which store owns
// its engagement state.
type Source int

const (
	// SourceRemote content is resident on the backend.
	SourceRemote Source = iota
	// SourceSeed content is bundled with the client; likes and comments for
	// it live in the local store only.
	SourceSeed
)

func (s Source) String() string {
	if s == SourceSeed {
		return "seed"
	}
	return "remote"
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Source) UnmarshalText(b []byte) error {
	if string(b) == "seed" {
		*s = SourceSeed
	} else {
		*s = SourceRemote
	}
	return nil
}

const (
	// SeedIDPrefix marks a post id as seed content.
	SeedIDPrefix = "default-"
	// commentIDSeparator joins the owning post id and the timestamp in a
	// seed comment id: <postId>-comment-<epochMillis>.
	commentIDSeparator = "-comment-"
)

// Author is an embedded profile snapshot, not a live reference.
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Post is a blog entry.
type Post struct {
	ID            string    `json:"id"`
	Source        Source    `json:"source"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Preview       string    `json:"preview,omitempty"`
	CoverImage    string    `json:"cover_image,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Author        Author    `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	LikeCount     int       `json:"like_count"`
	LikedByViewer bool      `json:"liked_by_viewer"`
	Comments      []Comment `json:"comments,omitempty"`
}

// Ref returns the routing handle for the post.
func (p *Post) Ref() PostRef {
	return PostRef{ID: p.ID, Source: p.Source}
}

// IsSeed reports whether the post is bundled seed content.
func (p *Post) IsSeed() bool {
	return p.Source == SourceSeed
}

// Comment is a reply on a post. Comments are ordered newest first.
type Comment struct {
	ID            string    `json:"id"`
	PostID        string    `json:"post_id,omitempty"`
	Source        Source    `json:"source"`
	Content       string    `json:"content"`
	Author        Author    `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	LikeCount     int       `json:"like_count"`
	LikedByViewer bool      `json:"liked_by_viewer"`
}

// Ref returns the routing handle for the comment.
func (c *Comment) Ref() CommentRef {
	return CommentRef{ID: c.ID, PostID: c.PostID, Source: c.Source}
}

// LikeState is the viewer-relative like state returned by a toggle.
type LikeState struct {
	Count int  `json:"likes"`
	Liked bool `json:"liked"`
}

// PostRef identifies a post together with its resolved source.
type PostRef struct {
	ID     string
	Source Source
}

// CommentRef identifies a comment, its owning post and its resolved source.
// PostID may be empty for remote comments; the backend resolves ownership.
type CommentRef struct {
	ID     string
	PostID string
	Source Source
}

// ClassifyPostID resolves the source of a raw post id.
func ClassifyPostID(id string) PostRef {
	if strings.HasPrefix(id, SeedIDPrefix) {
		return PostRef{ID: id, Source: SourceSeed}
	}
	return PostRef{ID: id, Source: SourceRemote}
}

// ParseCommentRef resolves a raw comment id. Seed comment ids embed the
// owning post id; anything else is treated as a remote comment.
func ParseCommentRef(id string) CommentRef {
	if i := strings.Index(id, commentIDSeparator); i > 0 {
		postID := id[:i]
		if strings.HasPrefix(postID, SeedIDPrefix) {
			return CommentRef{ID: id, PostID: postID, Source: SourceSeed}
		}
	}
	return CommentRef{ID: id, Source: SourceRemote}
}

// SeedCommentID builds the id for a locally stored comment on a seed post.
func SeedCommentID(postID string, at time.Time) string {
	return postID + commentIDSeparator + strconv.FormatInt(at.UnixMilli(), 10)
}

// SortOrder selects the listing order.
type SortOrder string

const (
	SortLatest  SortOrder = "latest"
	SortPopular SortOrder = "popular"
)

// ListFilter narrows a post listing.
type ListFilter struct {
	Sort SortOrder
	// Mine restricts the listing to the viewer's own posts. Seed posts are
	// never part of such a listing.
	Mine bool
}

// PostDraft is the editable part of a post used for create and update.
type PostDraft struct {
	Title      string
	Content    string
	Preview    string
	Tags       []string
	CoverImage string // URL
	CoverFile  string // local path uploaded as the coverImage part
}
