package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/abhishekbhonde/new-portfolio/internal/models"
)

// Wire types mirror the backend's JSON; they never leave this package.

type userDTO struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

func (u userDTO) toModel() models.Author {
	return models.Author{ID: u.ID, Name: u.Name, AvatarURL: u.Avatar}
}

func fromAuthor(a models.Author) userDTO {
	return userDTO{ID: a.ID, Name: a.Name, Avatar: a.AvatarURL}
}

type authResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

func (r authResponse) toResult() *AuthResult {
	return &AuthResult{Token: r.Token, User: r.User.toModel()}
}

// likeCount accepts either a number or the array of liker ids some backend
// versions return.
type likeCount int

func (n *likeCount) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		var ids []json.RawMessage
		if err := json.Unmarshal(b, &ids); err != nil {
			return err
		}
		*n = likeCount(len(ids))
		return nil
	}
	if string(b) == "null" {
		*n = 0
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = likeCount(v)
	return nil
}

type blogDTO struct {
	ID         string       `json:"_id"`
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	Preview    string       `json:"preview"`
	CoverImage string       `json:"coverImage"`
	Tags       []string     `json:"tags"`
	Author     userDTO      `json:"author"`
	CreatedAt  time.Time    `json:"createdAt"`
	Likes      likeCount    `json:"likes"`
	IsLiked    bool         `json:"isLiked"`
	Comments   []commentDTO `json:"comments"`
}

func (b blogDTO) toModel() models.Post {
	p := models.Post{
		ID:            b.ID,
		Source:        models.SourceRemote,
		Title:         b.Title,
		Content:       b.Content,
		Preview:       b.Preview,
		CoverImage:    b.CoverImage,
		Tags:          b.Tags,
		Author:        b.Author.toModel(),
		CreatedAt:     b.CreatedAt,
		LikeCount:     int(b.Likes),
		LikedByViewer: b.IsLiked,
	}
	for _, c := range b.Comments {
		p.Comments = append(p.Comments, c.toModel(b.ID))
	}
	return p
}

type blogListResponse struct {
	Blogs   []blogDTO `json:"blogs"`
	Total   int       `json:"total"`
	HasMore bool      `json:"hasMore"`
}

type commentDTO struct {
	ID        string    `json:"_id"`
	Blog      string    `json:"blog,omitempty"`
	Content   string    `json:"content"`
	Author    userDTO   `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     likeCount `json:"likes"`
	IsLiked   bool      `json:"isLiked"`
}

func (c commentDTO) toModel(postID string) models.Comment {
	if postID == "" {
		postID = c.Blog
	}
	return models.Comment{
		ID:            c.ID,
		PostID:        postID,
		Source:        models.SourceRemote,
		Content:       c.Content,
		Author:        c.Author.toModel(),
		CreatedAt:     c.CreatedAt,
		LikeCount:     int(c.Likes),
		LikedByViewer: c.IsLiked,
	}
}

type likeResponse struct {
	Likes   likeCount `json:"likes"`
	IsLiked bool      `json:"isLiked"`
}

func (r likeResponse) toModel() models.LikeState {
	return models.LikeState{Count: int(r.Likes), Liked: r.IsLiked}
}

// encodeDraft builds the multipart body of POST/PUT /blogs. Tags travel as
// a JSON array in a single field; the cover is either a file part or a URL.
func encodeDraft(d models.PostDraft) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, "", fmt.Errorf("encode tags: %w", err)
	}

	fields := []struct{ name, value string }{
		{"title", d.Title},
		{"content", d.Content},
		{"preview", d.Preview},
		{"tags", string(tagsJSON)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	switch {
	case d.CoverFile != "":
		if err := writeFilePart(w, "coverImage", d.CoverFile); err != nil {
			return nil, "", err
		}
	case d.CoverImage != "":
		if err := w.WriteField("coverImage", d.CoverImage); err != nil {
			return nil, "", fmt.Errorf("write coverImage: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open cover: %w", err)
	}
	defer f.Close()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create cover part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy cover: %w", err)
	}
	return nil
}
