// Package content provides the in-memory implementation of the content
// store contracts. The relational forum database is an external system;
// this store backs local development and tests with the exact query
// surface the pipeline needs: fetch-with-joins, substring search, full
// listing, and CRUD.
package content

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/forumlab/forumsearch/internal/domain"
)

// MemoryStore holds forum content in process memory.
// Insertion order is preserved so substring search results are deterministic.
type MemoryStore struct {
	mu sync.RWMutex

	users      map[string]domain.User
	categories map[string]domain.Category
	posts      map[string]domain.Post
	comments   map[string]domain.Comment

	categoryOrder []string
	postOrder     []string
	commentOrder  []string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]domain.User),
		categories: make(map[string]domain.Category),
		posts:      make(map[string]domain.Post),
		comments:   make(map[string]domain.Comment),
	}
}

// CreateUser stores a user, assigning an id if empty.
func (s *MemoryStore) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.ID] = u
	return u, nil
}

// CreateCategory stores a category, assigning an id if empty.
func (s *MemoryStore) CreateCategory(_ context.Context, c domain.Category) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.categories[c.ID] = c
	s.categoryOrder = append(s.categoryOrder, c.ID)
	return c, nil
}

// UpdateCategory overwrites an existing category.
func (s *MemoryStore) UpdateCategory(_ context.Context, c domain.Category) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[c.ID]; !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	s.categories[c.ID] = c
	return c, nil
}

// DeleteCategory removes a category by id.
func (s *MemoryStore) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.categories, id)
	s.categoryOrder = removeID(s.categoryOrder, id)
	return nil
}

// GetCategory fetches a category by id.
func (s *MemoryStore) GetCategory(_ context.Context, id string) (domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	return c, nil
}

// CreatePost stores a post, assigning id and creation time if unset.
func (s *MemoryStore) CreatePost(_ context.Context, p domain.Post) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.posts[p.ID] = p
	s.postOrder = append(s.postOrder, p.ID)
	return p, nil
}

// UpdatePost overwrites an existing post.
func (s *MemoryStore) UpdatePost(_ context.Context, p domain.Post) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[p.ID]
	if !ok {
		return domain.Post{}, domain.ErrNotFound
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = existing.CreatedAt
	}
	s.posts[p.ID] = p
	return p, nil
}

// DeletePost removes a post by id.
func (s *MemoryStore) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.posts, id)
	s.postOrder = removeID(s.postOrder, id)
	return nil
}

// GetPost fetches a post joined with its author and category.
func (s *MemoryStore) GetPost(_ context.Context, id string) (domain.PostWithRelations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return domain.PostWithRelations{}, domain.ErrNotFound
	}
	return s.joinPost(p), nil
}

// CreateComment stores a comment, assigning id and creation time if unset.
func (s *MemoryStore) CreateComment(_ context.Context, c domain.Comment) (domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.comments[c.ID] = c
	s.commentOrder = append(s.commentOrder, c.ID)
	return c, nil
}

// UpdateComment overwrites an existing comment.
func (s *MemoryStore) UpdateComment(_ context.Context, c domain.Comment) (domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.comments[c.ID]
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = existing.CreatedAt
	}
	s.comments[c.ID] = c
	return c, nil
}

// DeleteComment removes a comment by id.
func (s *MemoryStore) DeleteComment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.comments, id)
	s.commentOrder = removeID(s.commentOrder, id)
	return nil
}

// GetComment fetches a comment joined with its author and parent post.
func (s *MemoryStore) GetComment(_ context.Context, id string) (domain.CommentWithRelations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return domain.CommentWithRelations{}, domain.ErrNotFound
	}
	return s.joinComment(c), nil
}

// ListCategories returns all categories in insertion order.
func (s *MemoryStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Category, 0, len(s.categoryOrder))
	for _, id := range s.categoryOrder {
		out = append(out, s.categories[id])
	}
	return out, nil
}

// ListPosts returns all posts with their joins in insertion order.
func (s *MemoryStore) ListPosts(_ context.Context) ([]domain.PostWithRelations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PostWithRelations, 0, len(s.postOrder))
	for _, id := range s.postOrder {
		out = append(out, s.joinPost(s.posts[id]))
	}
	return out, nil
}

// ListComments returns all comments with their joins in insertion order.
func (s *MemoryStore) ListComments(_ context.Context) ([]domain.CommentWithRelations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CommentWithRelations, 0, len(s.commentOrder))
	for _, id := range s.commentOrder {
		out = append(out, s.joinComment(s.comments[id]))
	}
	return out, nil
}

// SearchPosts returns posts whose title or content contains the query,
// case-insensitive, bounded by limit.
func (s *MemoryStore) SearchPosts(_ context.Context, query string, limit int) ([]domain.PostWithRelations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var out []domain.PostWithRelations
	for _, id := range s.postOrder {
		if len(out) >= limit {
			break
		}
		p := s.posts[id]
		if containsFold(p.Title, q) || containsFold(p.Content, q) {
			out = append(out, s.joinPost(p))
		}
	}
	return out, nil
}

// SearchComments returns comments whose content contains the query.
func (s *MemoryStore) SearchComments(_ context.Context, query string, limit int) ([]domain.CommentWithRelations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var out []domain.CommentWithRelations
	for _, id := range s.commentOrder {
		if len(out) >= limit {
			break
		}
		c := s.comments[id]
		if containsFold(c.Content, q) {
			out = append(out, s.joinComment(c))
		}
	}
	return out, nil
}

// SearchCategories returns categories whose name or description contains the query.
func (s *MemoryStore) SearchCategories(_ context.Context, query string, limit int) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var out []domain.Category
	for _, id := range s.categoryOrder {
		if len(out) >= limit {
			break
		}
		c := s.categories[id]
		if containsFold(c.Name, q) || containsFold(c.Description, q) {
			out = append(out, c)
		}
	}
	return out, nil
}

// joinPost attaches user and category. Missing relations stay zero-valued,
// mirroring a left join.
func (s *MemoryStore) joinPost(p domain.Post) domain.PostWithRelations {
	return domain.PostWithRelations{
		Post:     p,
		User:     s.users[p.UserID],
		Category: s.categories[p.CategoryID],
	}
}

func (s *MemoryStore) joinComment(c domain.Comment) domain.CommentWithRelations {
	return domain.CommentWithRelations{
		Comment: c,
		User:    s.users[c.UserID],
		Post:    s.posts[c.PostID],
	}
}

// containsFold reports whether s contains the already-lowercased query.
func containsFold(s, loweredQuery string) bool {
	return strings.Contains(strings.ToLower(s), loweredQuery)
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
