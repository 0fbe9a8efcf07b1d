package blog

import (
	"embed"
	"fmt"
	"time"

	"github.com/abhishekbhonde/new-portfolio/internal/models"
)

//go:embed seed/*.md
var seedFS embed.FS

var seedAuthor = models.Author{
	ID:        "default-author",
	Name:      "Abhishek Bhonde",
	AvatarURL: "https://github.com/abhishekbhonde.png",
}

type seedEntry struct {
	id, title, preview, cover string
	tags                      []string
	created                   time.Time
}

var seedEntries = []seedEntry{
	{
		id:      "default-1",
		title:   "Getting Started with Web Development",
		preview: "The three core technologies, the tools around them and a six month learning path.",
		cover:   "https://source.unsplash.com/random/800x400?coding",
		tags:    []string{"Web Development", "Programming", "Beginners", "HTML", "CSS", "JavaScript"},
		created: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	},
	{
		id:      "default-2",
		title:   "Understanding Modern JavaScript Features",
		preview: "Arrow functions, destructuring, async/await and the habits that keep modern JS readable.",
		cover:   "https://source.unsplash.com/random/800x400?javascript",
		tags:    []string{"JavaScript", "ES6", "Programming", "Web Development", "Modern JS"},
		created: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	},
}

// DefaultSeeds returns the bundled seed posts without engagement state.
func DefaultSeeds() []models.Post {
	posts := make([]models.Post, 0, len(seedEntries))
	for _, s := range seedEntries {
		body, err := seedFS.ReadFile("seed/" + s.id + ".md")
		if err != nil {
			panic(fmt.Sprintf("seed %s: %v", s.id, err))
		}
		posts = append(posts, models.Post{
			ID:         s.id,
			Source:     models.SourceSeed,
			Title:      s.title,
			Content:    string(body),
			Preview:    s.preview,
			CoverImage: s.cover,
			Tags:       append([]string(nil), s.tags...),
			Author:     seedAuthor,
			CreatedAt:  s.created,
		})
	}
	return posts
}
