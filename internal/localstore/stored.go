package localstore

import (
	"time"

	"github.com/abhishekbhonde/new-portfolio/internal/models"
)

// storedComment is the persisted layout, shared with the web client.
type storedComment struct {
	ID        string       `json:"_id"`
	Content   string       `json:"content"`
	Author    storedAuthor `json:"author"`
	CreatedAt time.Time    `json:"createdAt"`
	Likes     int          `json:"likes"`
	Liked     bool         `json:"isLiked"`
}

type storedAuthor struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func fromAuthor(a models.Author) storedAuthor {
	return storedAuthor{ID: a.ID, Name: a.Name, Avatar: a.AvatarURL}
}

func (c storedComment) toModel(postID string) models.Comment {
	return models.Comment{
		ID:            c.ID,
		PostID:        postID,
		Source:        models.SourceSeed,
		Content:       c.Content,
		Author:        models.Author{ID: c.Author.ID, Name: c.Author.Name, AvatarURL: c.Author.Avatar},
		CreatedAt:     c.CreatedAt,
		LikeCount:     c.Likes,
		LikedByViewer: c.Liked,
	}
}

func toModels(postID string, stored []storedComment) []models.Comment {
	out := make([]models.Comment, 0, len(stored))
	for _, c := range stored {
		out = append(out, c.toModel(postID))
	}
	return out
}
