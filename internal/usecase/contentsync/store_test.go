package contentsync

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/forumlab/forumsearch/internal/domain"
)

// --- Mocks ---

type mockContentStore struct {
	posts      map[string]domain.PostWithRelations
	comments   map[string]domain.CommentWithRelations
	categories map[string]domain.Category
	writeErr   error
}

func newMockContentStore() *mockContentStore {
	return &mockContentStore{
		posts:      make(map[string]domain.PostWithRelations),
		comments:   make(map[string]domain.CommentWithRelations),
		categories: make(map[string]domain.Category),
	}
}

func (m *mockContentStore) CreatePost(_ context.Context, p domain.Post) (domain.Post, error) {
	if m.writeErr != nil {
		return domain.Post{}, m.writeErr
	}
	if p.ID == "" {
		p.ID = "p1"
	}
	m.posts[p.ID] = domain.PostWithRelations{Post: p, User: domain.User{Username: "grace"}}
	return p, nil
}

func (m *mockContentStore) UpdatePost(_ context.Context, p domain.Post) (domain.Post, error) {
	if m.writeErr != nil {
		return domain.Post{}, m.writeErr
	}
	m.posts[p.ID] = domain.PostWithRelations{Post: p, User: domain.User{Username: "grace"}}
	return p, nil
}

func (m *mockContentStore) DeletePost(_ context.Context, id string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *mockContentStore) GetPost(_ context.Context, id string) (domain.PostWithRelations, error) {
	p, ok := m.posts[id]
	if !ok {
		return domain.PostWithRelations{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockContentStore) CreateComment(_ context.Context, c domain.Comment) (domain.Comment, error) {
	if c.ID == "" {
		c.ID = "cm1"
	}
	m.comments[c.ID] = domain.CommentWithRelations{Comment: c}
	return c, nil
}

func (m *mockContentStore) UpdateComment(_ context.Context, c domain.Comment) (domain.Comment, error) {
	m.comments[c.ID] = domain.CommentWithRelations{Comment: c}
	return c, nil
}

func (m *mockContentStore) DeleteComment(_ context.Context, id string) error {
	delete(m.comments, id)
	return nil
}

func (m *mockContentStore) GetComment(_ context.Context, id string) (domain.CommentWithRelations, error) {
	c, ok := m.comments[id]
	if !ok {
		return domain.CommentWithRelations{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockContentStore) CreateCategory(_ context.Context, c domain.Category) (domain.Category, error) {
	if c.ID == "" {
		c.ID = "c1"
	}
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockContentStore) UpdateCategory(_ context.Context, c domain.Category) (domain.Category, error) {
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockContentStore) DeleteCategory(_ context.Context, id string) error {
	delete(m.categories, id)
	return nil
}

func (m *mockContentStore) GetCategory(_ context.Context, id string) (domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	return c, nil
}

type mockIndexer struct {
	indexedPosts    []domain.PostWithRelations
	indexedComments []domain.CommentWithRelations
	indexedCats     []domain.Category
	deleted         map[string]domain.DocType
	err             error
}

func newMockIndexer() *mockIndexer {
	return &mockIndexer{deleted: make(map[string]domain.DocType)}
}

func (m *mockIndexer) IndexPost(_ context.Context, p domain.PostWithRelations) error {
	if m.err != nil {
		return m.err
	}
	m.indexedPosts = append(m.indexedPosts, p)
	return nil
}

func (m *mockIndexer) IndexComment(_ context.Context, c domain.CommentWithRelations) error {
	if m.err != nil {
		return m.err
	}
	m.indexedComments = append(m.indexedComments, c)
	return nil
}

func (m *mockIndexer) IndexCategory(_ context.Context, c domain.Category) error {
	if m.err != nil {
		return m.err
	}
	m.indexedCats = append(m.indexedCats, c)
	return nil
}

func (m *mockIndexer) DeleteDocument(_ context.Context, id string, t domain.DocType) error {
	if m.err != nil {
		return m.err
	}
	m.deleted[id] = t
	return nil
}

// --- Tests ---

func TestCreatePost_IndexesWithJoins(t *testing.T) {
	inner := newMockContentStore()
	idx := newMockIndexer()
	store := New(inner, idx, zap.NewNop())

	created, err := store.CreatePost(context.Background(), domain.Post{Title: "Go tips"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if len(idx.indexedPosts) != 1 {
		t.Fatalf("indexed %d posts, want 1", len(idx.indexedPosts))
	}
	// The indexed document carries the re-fetched joins, not the bare input.
	if idx.indexedPosts[0].User.Username != "grace" {
		t.Errorf("indexed post missing joined user: %+v", idx.indexedPosts[0])
	}
	if idx.indexedPosts[0].ID != created.ID {
		t.Errorf("indexed id %s, want %s", idx.indexedPosts[0].ID, created.ID)
	}
}

func TestCreatePost_IndexFailureDoesNotFailWrite(t *testing.T) {
	inner := newMockContentStore()
	idx := newMockIndexer()
	idx.err = errors.New("qdrant down")
	store := New(inner, idx, zap.NewNop())

	created, err := store.CreatePost(context.Background(), domain.Post{Title: "Go tips"})
	if err != nil {
		t.Fatalf("content write must survive index failure, got %v", err)
	}
	if _, ok := inner.posts[created.ID]; !ok {
		t.Error("post not persisted")
	}
}

func TestCreatePost_WriteFailureSkipsIndex(t *testing.T) {
	inner := newMockContentStore()
	inner.writeErr = errors.New("db down")
	idx := newMockIndexer()
	store := New(inner, idx, zap.NewNop())

	if _, err := store.CreatePost(context.Background(), domain.Post{Title: "x"}); err == nil {
		t.Fatal("expected write error to surface")
	}
	if len(idx.indexedPosts) != 0 {
		t.Error("indexed despite failed write")
	}
}

func TestUpdatePost_Reindexes(t *testing.T) {
	inner := newMockContentStore()
	idx := newMockIndexer()
	store := New(inner, idx, zap.NewNop())

	created, _ := store.CreatePost(context.Background(), domain.Post{Title: "v1"})
	created.Title = "v2"
	if _, err := store.UpdatePost(context.Background(), created); err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if len(idx.indexedPosts) != 2 || idx.indexedPosts[1].Title != "v2" {
		t.Errorf("update not re-indexed: %+v", idx.indexedPosts)
	}
}

func TestDeletePost_RemovesDocument(t *testing.T) {
	inner := newMockContentStore()
	idx := newMockIndexer()
	store := New(inner, idx, zap.NewNop())

	created, _ := store.CreatePost(context.Background(), domain.Post{Title: "x"})
	if err := store.DeletePost(context.Background(), created.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if idx.deleted[created.ID] != domain.DocTypePost {
		t.Errorf("index delete missing: %v", idx.deleted)
	}
}

func TestDeletePost_MissingRowSkipsIndex(t *testing.T) {
	inner := newMockContentStore()
	idx := newMockIndexer()
	store := New(inner, idx, zap.NewNop())

	if err := store.DeletePost(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(idx.deleted) != 0 {
		t.Error("index touched for a row that was never deleted")
	}
}

func TestCommentLifecycle(t *testing.T) {
	inner := newMockContentStore()
	idx := newMockIndexer()
	store := New(inner, idx, zap.NewNop())

	created, err := store.CreateComment(context.Background(), domain.Comment{Content: "nice"})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if len(idx.indexedComments) != 1 {
		t.Fatalf("comment not indexed")
	}

	if err := store.DeleteComment(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	if idx.deleted[created.ID] != domain.DocTypeComment {
		t.Errorf("comment index delete missing: %v", idx.deleted)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	inner := newMockContentStore()
	idx := newMockIndexer()
	store := New(inner, idx, zap.NewNop())

	created, err := store.CreateCategory(context.Background(), domain.Category{Name: "Programming"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if len(idx.indexedCats) != 1 || idx.indexedCats[0].Name != "Programming" {
		t.Fatalf("category not indexed: %+v", idx.indexedCats)
	}

	created.Name = "Programming & CS"
	if _, err := store.UpdateCategory(context.Background(), created); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if len(idx.indexedCats) != 2 {
		t.Error("category update not re-indexed")
	}

	if err := store.DeleteCategory(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if idx.deleted[created.ID] != domain.DocTypeCategory {
		t.Errorf("category index delete missing: %v", idx.deleted)
	}
}
