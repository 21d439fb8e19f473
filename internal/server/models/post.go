package models

import "time"

// Post is a blog entry. AuthorID is fixed at creation; Author carries the
// public fields of the owner when a read joins them.
type Post struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	AuthorID  string      `json:"-"`
	Author    *PostAuthor `json:"author"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// PostAuthor is the public projection of a User embedded in post payloads.
type PostAuthor struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// PostPatch is a partial update. A nil field is left untouched; a non-nil
// field is applied even when it points to an empty string.
type PostPatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Apply copies the present fields of the patch onto p.
func (pp PostPatch) Apply(p *Post) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Content != nil {
		p.Content = *pp.Content
	}
}

// PageRef points to a neighbouring page of a listing.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination holds the neighbours of the current page; absent ones are nil.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// PostPage is one page of the public post listing.
type PostPage struct {
	Posts      []*Post
	Total      int
	Page       int
	Limit      int
	Pages      int
	Pagination Pagination
}
