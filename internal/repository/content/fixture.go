package content

import (
	"context"
	"fmt"

	"github.com/forumlab/forumsearch/internal/domain"
)

// Seed fills a store with a small development corpus: one author, two
// categories, three posts, and a few comments.
func Seed(ctx context.Context, s *MemoryStore) error {
	user, err := s.CreateUser(ctx, domain.User{Name: "Ada Dev", Username: "ada"})
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	prog, err := s.CreateCategory(ctx, domain.Category{
		Name:        "Programming",
		Description: "Languages, tools, and code review",
		Slug:        "programming",
	})
	if err != nil {
		return fmt.Errorf("seed category: %w", err)
	}
	gear, err := s.CreateCategory(ctx, domain.Category{
		Name:        "Hardware",
		Description: "Keyboards, homelabs, and desk setups",
		Slug:        "hardware",
	})
	if err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	posts := []domain.Post{
		{
			Title:      "Go concurrency patterns",
			Content:    "Worker pools, fan-out, and when to reach for channels.",
			UserID:     user.ID,
			CategoryID: prog.ID,
		},
		{
			Title:      "Vector search in practice",
			Content:    "Cosine similarity gets you surprisingly far with good embeddings.",
			UserID:     user.ID,
			CategoryID: prog.ID,
		},
		{
			Title:      "Quiet mechanical keyboards",
			Content:    "Dampened switches that will not wake the household.",
			UserID:     user.ID,
			CategoryID: gear.ID,
		},
	}

	comments := []string{
		"sync.WaitGroup covers most of these without extra deps.",
		"Pre-filtering by payload keeps recall reasonable at scale.",
	}

	for i, p := range posts {
		created, err := s.CreatePost(ctx, p)
		if err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
		if i < len(comments) {
			if _, err := s.CreateComment(ctx, domain.Comment{
				Content: comments[i],
				UserID:  user.ID,
				PostID:  created.ID,
			}); err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
		}
	}

	return nil
}
