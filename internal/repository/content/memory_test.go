package content

import (
	"context"
	"errors"
	"testing"

	"github.com/forumlab/forumsearch/internal/domain"
)

func seedStore(t *testing.T) (*MemoryStore, domain.User, domain.Category) {
	t.Helper()
	s := NewMemoryStore()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, domain.User{Name: "Grace Hopper", Username: "grace"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	cat, err := s.CreateCategory(ctx, domain.Category{Name: "Programming", Description: "Code talk", Slug: "programming"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	return s, user, cat
}

func TestMemoryStore_PostLifecycle(t *testing.T) {
	s, user, cat := seedStore(t)
	ctx := context.Background()

	p, err := s.CreatePost(ctx, domain.Post{
		Title:      "Go concurrency",
		Content:    "Channels and goroutines",
		UserID:     user.ID,
		CategoryID: cat.ID,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected generated post id")
	}
	if p.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	got, err := s.GetPost(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.User.Username != "grace" {
		t.Errorf("joined username = %q, want grace", got.User.Username)
	}
	if got.Category.Name != "Programming" {
		t.Errorf("joined category = %q, want Programming", got.Category.Name)
	}

	p.Title = "Go concurrency patterns"
	p.CreatedAt = got.CreatedAt
	updated, err := s.UpdatePost(ctx, p)
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if updated.Title != "Go concurrency patterns" {
		t.Errorf("title not updated: %q", updated.Title)
	}

	if err := s.DeletePost(ctx, p.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if _, err := s.GetPost(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStore_UpdateMissing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.UpdatePost(ctx, domain.Post{ID: "nope"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("UpdatePost missing: got %v", err)
	}
	if _, err := s.UpdateComment(ctx, domain.Comment{ID: "nope"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("UpdateComment missing: got %v", err)
	}
	if _, err := s.UpdateCategory(ctx, domain.Category{ID: "nope"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("UpdateCategory missing: got %v", err)
	}
	if err := s.DeleteComment(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteComment missing: got %v", err)
	}
}

func TestMemoryStore_CommentJoins(t *testing.T) {
	s, user, cat := seedStore(t)
	ctx := context.Background()

	p, _ := s.CreatePost(ctx, domain.Post{Title: "Parent post", Content: "body", UserID: user.ID, CategoryID: cat.ID})
	c, err := s.CreateComment(ctx, domain.Comment{Content: "Nice write-up", UserID: user.ID, PostID: p.ID})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	got, err := s.GetComment(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetComment: %v", err)
	}
	if got.Post.Title != "Parent post" {
		t.Errorf("joined post title = %q", got.Post.Title)
	}
	if got.User.Name != "Grace Hopper" {
		t.Errorf("joined user name = %q", got.User.Name)
	}
}

func TestMemoryStore_Search(t *testing.T) {
	s, user, cat := seedStore(t)
	ctx := context.Background()

	_, _ = s.CreatePost(ctx, domain.Post{Title: "Intro to Golang", Content: "basics", UserID: user.ID, CategoryID: cat.ID})
	_, _ = s.CreatePost(ctx, domain.Post{Title: "Cooking", Content: "golang is also in the body", UserID: user.ID, CategoryID: cat.ID})
	_, _ = s.CreatePost(ctx, domain.Post{Title: "Gardening", Content: "tomatoes", UserID: user.ID, CategoryID: cat.ID})

	posts, err := s.SearchPosts(ctx, "GOLANG", 10)
	if err != nil {
		t.Fatalf("SearchPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(posts))
	}
	if posts[0].Title != "Intro to Golang" {
		t.Errorf("expected insertion order, first match = %q", posts[0].Title)
	}

	limited, _ := s.SearchPosts(ctx, "golang", 1)
	if len(limited) != 1 {
		t.Errorf("limit not applied: got %d", len(limited))
	}

	cats, err := s.SearchCategories(ctx, "code", 10)
	if err != nil {
		t.Fatalf("SearchCategories: %v", err)
	}
	if len(cats) != 1 {
		t.Fatalf("expected description match, got %d", len(cats))
	}

	p := posts[0]
	_, _ = s.CreateComment(ctx, domain.Comment{Content: "golang rocks", UserID: user.ID, PostID: p.ID})
	comments, err := s.SearchComments(ctx, "rocks", 10)
	if err != nil {
		t.Fatalf("SearchComments: %v", err)
	}
	if len(comments) != 1 || comments[0].Post.Title != "Intro to Golang" {
		t.Errorf("comment search join broken: %+v", comments)
	}
}

func TestMemoryStore_Listing(t *testing.T) {
	s, user, cat := seedStore(t)
	ctx := context.Background()

	p1, _ := s.CreatePost(ctx, domain.Post{Title: "first", UserID: user.ID, CategoryID: cat.ID})
	p2, _ := s.CreatePost(ctx, domain.Post{Title: "second", UserID: user.ID, CategoryID: cat.ID})
	_, _ = s.CreateComment(ctx, domain.Comment{Content: "on first", UserID: user.ID, PostID: p1.ID})

	posts, err := s.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != p1.ID || posts[1].ID != p2.ID {
		t.Errorf("list order wrong: %+v", posts)
	}

	cats, _ := s.ListCategories(ctx)
	if len(cats) != 1 {
		t.Errorf("expected 1 category, got %d", len(cats))
	}

	comments, _ := s.ListComments(ctx)
	if len(comments) != 1 || comments[0].Post.ID != p1.ID {
		t.Errorf("comment listing join broken: %+v", comments)
	}
}
