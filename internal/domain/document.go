package domain

import (
	"fmt"
	"strings"
	"time"
)

// DocType discriminates what kind of entity a vector point mirrors.
type DocType string

// Document types stored in the vector index.
const (
	DocTypePost     DocType = "post"
	DocTypeComment  DocType = "comment"
	DocTypeCategory DocType = "category"
)

// Vector index collection names, one per entity type.
const (
	CollectionPosts      = "posts"
	CollectionComments   = "comments"
	CollectionCategories = "categories"
	// CollectionUsers is bootstrapped but has no indexer yet.
	CollectionUsers = "users"
)

// AllCollections is the fixed set the bootstrapper must ensure.
var AllCollections = []string{
	CollectionPosts,
	CollectionComments,
	CollectionCategories,
	CollectionUsers,
}

// SearchCollections is the subset queried by cross-collection search.
var SearchCollections = []string{
	CollectionPosts,
	CollectionComments,
	CollectionCategories,
}

// DefaultDimensions is the embedding dimension of text-embedding-3-small.
const DefaultDimensions = 1536

// CollectionFor maps a document type to its collection.
// An unknown type is a caller bug, not a runtime condition.
func CollectionFor(t DocType) (string, error) {
	switch t {
	case DocTypePost:
		return CollectionPosts, nil
	case DocTypeComment:
		return CollectionComments, nil
	case DocTypeCategory:
		return CollectionCategories, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDocType, t)
	}
}

// Document is a point mirrored into the vector index: the source entity's
// id, its embedding, and the denormalized payload a result card needs.
type Document struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// SearchResult is one ranked hit, uniform across collections and across
// the semantic and keyword paths.
type SearchResult struct {
	ID      string
	Score   float32
	Payload map[string]any
}

// Flatten merges the score into the payload, producing the wire shape
// {type, score, ...payload}.
func (r SearchResult) Flatten() map[string]any {
	out := make(map[string]any, len(r.Payload)+1)
	for k, v := range r.Payload {
		out[k] = v
	}
	out["score"] = r.Score
	return out
}

// EmbedText concatenates the fields that describe a post for embedding.
func (p PostWithRelations) EmbedText() string {
	return strings.Join([]string{p.Title, p.Content, p.User.Username, p.Category.Name}, " ")
}

// IndexPayload returns the denormalized post fields stored alongside the vector.
func (p PostWithRelations) IndexPayload() map[string]any {
	return map[string]any{
		"id":           p.ID,
		"title":        p.Title,
		"content":      p.Content,
		"createdAt":    p.CreatedAt.Format(time.RFC3339),
		"userId":       p.UserID,
		"username":     p.User.Username,
		"userName":     p.User.Name,
		"categoryId":   p.CategoryID,
		"categoryName": p.Category.Name,
		"type":         string(DocTypePost),
	}
}

// EmbedText concatenates the fields that describe a comment for embedding.
func (c CommentWithRelations) EmbedText() string {
	return fmt.Sprintf("%s %s comment on post: %s", c.Content, c.User.Username, c.Post.Title)
}

// IndexPayload returns the denormalized comment fields stored alongside the vector.
func (c CommentWithRelations) IndexPayload() map[string]any {
	return map[string]any{
		"id":        c.ID,
		"content":   c.Content,
		"createdAt": c.CreatedAt.Format(time.RFC3339),
		"userId":    c.UserID,
		"username":  c.User.Username,
		"userName":  c.User.Name,
		"postId":    c.PostID,
		"postTitle": c.Post.Title,
		"type":      string(DocTypeComment),
	}
}

// EmbedText concatenates the fields that describe a category for embedding.
func (c Category) EmbedText() string {
	return strings.TrimSpace(c.Name + " " + c.Description)
}

// IndexPayload returns the category fields stored alongside the vector.
func (c Category) IndexPayload() map[string]any {
	return map[string]any{
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
		"slug":        c.Slug,
		"type":        string(DocTypeCategory),
	}
}
