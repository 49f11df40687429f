package projection

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/models"
)

func strPtr(s string) *string {
	return &s
}

func sampleArticle() *models.Article {
	return &models.Article{
		ID:          1,
		Slug:        "how-to-train-your-dragon-9f8e7d6c",
		Title:       "How to train your dragon",
		Description: strPtr("Ever wonder how?"),
		Body:        strPtr("It takes a Jacobian"),
		CreatedAt:   time.Date(2016, 2, 18, 3, 22, 56, 637_000_000, time.UTC),
		UpdatedAt:   time.Date(2016, 2, 18, 3, 48, 35, 824_000_000, time.UTC),
		AuthorID:    7,
		TagList:     []string{"dragons", "training"},
		Favorited:   false,
		Author: &models.Profile{
			ID:       7,
			Username: "jake",
			Bio:      strPtr("I work at statefarm"),
		},
	}
}

func TestArticleProjection(t *testing.T) {
	article := sampleArticle()
	article.Favorited = true
	article.FavoritesCount = 3
	article.Author.Following = true

	got := Article(article)

	if got.Slug != article.Slug {
		t.Errorf("slug = %q, want %q", got.Slug, article.Slug)
	}
	if !got.Favorited {
		t.Error("expected favorited = true")
	}
	if got.FavoritesCount != 3 {
		t.Errorf("favoritesCount = %d, want 3", got.FavoritesCount)
	}
	if !got.Author.Following {
		t.Error("expected author.following = true")
	}
	if diff := cmp.Diff([]string{"dragons", "training"}, got.TagList); diff != "" {
		t.Errorf("tagList mismatch (-want +got):\n%s", diff)
	}
}

func TestArticleProjectionForUnauthenticatedViewer(t *testing.T) {
	// Core leaves the viewer-relative flags at their zero value when there
	// is no viewer, the projection must pass them through unchanged.
	got := Article(sampleArticle())

	if got.Favorited {
		t.Error("expected favorited = false for unauthenticated viewer")
	}
	if got.FavoritesCount != 0 {
		t.Errorf("favoritesCount = %d, want 0", got.FavoritesCount)
	}
	if got.Author.Following {
		t.Error("expected author.following = false for unauthenticated viewer")
	}
}

func TestArticleProjectionDoesNotMutateInput(t *testing.T) {
	article := sampleArticle()
	before := *article
	beforeAuthor := *article.Author

	_ = Article(article)

	if !cmp.Equal(before, *article) || !cmp.Equal(beforeAuthor, *article.Author) {
		t.Error("projection mutated its input")
	}
}

func TestArticleProjectionNilTagList(t *testing.T) {
	article := sampleArticle()
	article.TagList = nil

	got := Article(article)
	if got.TagList == nil {
		t.Fatal("expected empty tagList, got nil")
	}
	if len(got.TagList) != 0 {
		t.Errorf("tagList = %v, want empty", got.TagList)
	}
}

func TestArticlesProjectionCount(t *testing.T) {
	articles := []*models.Article{sampleArticle(), sampleArticle(), sampleArticle()}

	got := Articles(articles)
	if got.ArticlesCount != 3 {
		t.Errorf("articlesCount = %d, want 3", got.ArticlesCount)
	}
	if len(got.Articles) != got.ArticlesCount {
		t.Errorf("articlesCount = %d but %d articles", got.ArticlesCount, len(got.Articles))
	}
}

func TestArticlesProjectionEmpty(t *testing.T) {
	got := Articles(nil)
	if got.Articles == nil {
		t.Fatal("expected empty articles slice, got nil")
	}
	if got.ArticlesCount != 0 {
		t.Errorf("articlesCount = %d, want 0", got.ArticlesCount)
	}
}

func TestUserProjectionCarriesTokenAndEmail(t *testing.T) {
	user := &auth.User{
		Email:    "jake@jake.jake",
		Username: "jake",
		Bio:      strPtr("I work at statefarm"),
	}

	got := User(user, "token-from-caller")
	if got.Token != "token-from-caller" {
		t.Errorf("token = %q, want caller-supplied token", got.Token)
	}
	if got.Email != "jake@jake.jake" {
		t.Errorf("email = %q, want jake@jake.jake", got.Email)
	}
}

func TestCommentProjection(t *testing.T) {
	comment := &models.Comment{
		ID:        9,
		Body:      "It takes a Jacobian",
		CreatedAt: time.Date(2016, 2, 18, 3, 22, 56, 637_000_000, time.UTC),
		UpdatedAt: time.Date(2016, 2, 18, 3, 22, 56, 637_000_000, time.UTC),
		Author:    &models.Profile{Username: "jake"},
	}

	got := Comment(comment)
	if got.ID != 9 || got.Body != "It takes a Jacobian" || got.Author.Username != "jake" {
		t.Errorf("unexpected comment projection: %+v", got)
	}
}

func TestTimestampFormat(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want string
	}{
		{
			"utc with milliseconds",
			time.Date(2016, 2, 18, 3, 22, 56, 637_000_000, time.UTC),
			`"2016-02-18T03:22:56.637Z"`,
		},
		{
			"non-utc zone rendered as utc",
			time.Date(2016, 2, 18, 4, 22, 56, 637_000_000, time.FixedZone("CET", 3600)),
			`"2016-02-18T03:22:56.637Z"`,
		},
		{
			"zero fraction keeps three digits",
			time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
			`"2020-01-02T03:04:05.000Z"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(Timestamp(tt.time))
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("marshalled timestamp = %s, want %s", got, tt.want)
			}
		})
	}
}
