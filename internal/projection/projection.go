// Package projection converts domain entities into the response records the
// boundary serializes. Every function is a pure transform of already-loaded
// state: no persistence access, no mutation of the entities it reads. The
// viewer-relative parts (following, favorited, counts) are carried on the
// entities themselves, populated by core relative to the requesting user.
package projection

import (
	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/models"
)

type ProfileResponse struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

// UserResponse is the current user's own projection: the profile fields plus
// email and the session token supplied by the caller.
type UserResponse struct {
	Email    string  `json:"email"`
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

type ArticleResponse struct {
	Slug           string          `json:"slug"`
	Title          string          `json:"title"`
	Description    *string         `json:"description"`
	Body           *string         `json:"body"`
	TagList        []string        `json:"tagList"`
	CreatedAt      Timestamp       `json:"createdAt"`
	UpdatedAt      Timestamp       `json:"updatedAt"`
	Favorited      bool            `json:"favorited"`
	FavoritesCount int64           `json:"favoritesCount"`
	Author         ProfileResponse `json:"author"`
}

type ArticleListResponse struct {
	Articles      []ArticleResponse `json:"articles"`
	ArticlesCount int               `json:"articlesCount"`
}

type CommentResponse struct {
	ID        int64           `json:"id"`
	CreatedAt Timestamp       `json:"createdAt"`
	UpdatedAt Timestamp       `json:"updatedAt"`
	Body      string          `json:"body"`
	Author    ProfileResponse `json:"author"`
}

func Profile(profile *models.Profile) ProfileResponse {
	return ProfileResponse{
		Username:  profile.Username,
		Bio:       profile.Bio,
		Image:     profile.Image,
		Following: profile.Following,
	}
}

func User(user *auth.User, token string) UserResponse {
	return UserResponse{
		Email:    user.Email,
		Token:    token,
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
	}
}

func Article(article *models.Article) ArticleResponse {
	tagList := article.TagList
	if tagList == nil {
		tagList = []string{}
	}

	var author ProfileResponse
	if article.Author != nil {
		author = Profile(article.Author)
	}

	return ArticleResponse{
		Slug:           article.Slug,
		Title:          article.Title,
		Description:    article.Description,
		Body:           article.Body,
		TagList:        tagList,
		CreatedAt:      Timestamp(article.CreatedAt),
		UpdatedAt:      Timestamp(article.UpdatedAt),
		Favorited:      article.Favorited,
		FavoritesCount: article.FavoritesCount,
		Author:         author,
	}
}

func Articles(articles []*models.Article) ArticleListResponse {
	responses := make([]ArticleResponse, 0, len(articles))
	for _, article := range articles {
		responses = append(responses, Article(article))
	}

	return ArticleListResponse{
		Articles:      responses,
		ArticlesCount: len(responses),
	}
}

func Comment(comment *models.Comment) CommentResponse {
	var author ProfileResponse
	if comment.Author != nil {
		author = Profile(comment.Author)
	}

	return CommentResponse{
		ID:        comment.ID,
		CreatedAt: Timestamp(comment.CreatedAt),
		UpdatedAt: Timestamp(comment.UpdatedAt),
		Body:      comment.Body,
		Author:    author,
	}
}

func Comments(comments []*models.Comment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, Comment(comment))
	}
	return responses
}
