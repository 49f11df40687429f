package models

import "time"

type Profile struct {
	ID        int64   `json:"-"`
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

type Article struct {
	ID          int64
	Slug        string
	Title       string
	Description *string
	Body        *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	AuthorID    int64

	// Viewer-relative state, filled in by core before the article
	// reaches the projection layer.
	TagList        []string
	Favorited      bool
	FavoritesCount int64
	Author         *Profile
}

type Comment struct {
	ID        int64
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
	AuthorID  int64
	ArticleID int64
	Author    *Profile
}

type Tag struct {
	ID   int64
	Name string
}
