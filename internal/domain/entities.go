package domain

import "time"

// User is the author identity attached to posts and comments.
type User struct {
	ID       string
	Name     string
	Username string
}

// Category groups posts under a named topic.
type Category struct {
	ID          string
	Name        string
	Description string
	Slug        string
}

// Post is a forum post row.
type Post struct {
	ID         string
	Title      string
	Content    string
	CreatedAt  time.Time
	UserID     string
	CategoryID string
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        string
	Content   string
	CreatedAt time.Time
	UserID    string
	PostID    string
}

// PostWithRelations is a post joined with its author and category,
// the shape required to index it or render a result card.
type PostWithRelations struct {
	Post
	User     User
	Category Category
}

// CommentWithRelations is a comment joined with its author and parent post.
type CommentWithRelations struct {
	Comment
	User User
	Post Post
}
