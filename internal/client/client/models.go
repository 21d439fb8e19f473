package client

import "time"

// Session is returned by Register and Login.
type Session struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    *Author   `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// PostList is one page of GET /api/posts.
type PostList struct {
	Count      int  `json:"count"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Pages      int  `json:"pages"`
	Pagination struct {
		Next *PageRef `json:"next,omitempty"`
		Prev *PageRef `json:"prev,omitempty"`
	} `json:"pagination"`
	Data []Post `json:"data"`
}
