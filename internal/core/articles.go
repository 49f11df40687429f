package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/filter"
	"github.com/siahsang/conduit/internal/utils/collectionutils"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
	"github.com/siahsang/conduit/internal/utils/functional"
	"github.com/siahsang/conduit/internal/utils/stringutils"
	"github.com/siahsang/conduit/models"
)

var (
	ErrDuplicatedSlug  = xerrors.Message("Duplicate slug")
	ErrArticleNotFound = xerrors.Message("Article not found")
)

const articleColumns = `id, slug, title, description, body, created_at, updated_at, author_id`

// CreateArticle inserts the article and attaches the given (already interned)
// tags. Callers run it inside a transaction so that publishing is atomic with
// article creation.
func (c *Core) CreateArticle(ctx context.Context, article *models.Article, tags []*models.Tag) (*models.Article, error) {
	const insertSQL = `
		INSERT INTO articles (slug, title, description, body, created_at, updated_at, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + articleColumns

	now := time.Now()
	createdArticle, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, scanArticle,
		article.Slug, article.Title, article.Description, article.Body, now, now, article.AuthorID)

	if err != nil {
		switch {
		case strings.Contains(err.Error(), `duplicate key value violates unique constraint`):
			return nil, xerrors.New(ErrDuplicatedSlug)
		default:
			return nil, xerrors.New(err)
		}
	}

	for _, tag := range tags {
		const attachSQL = `
			INSERT INTO article_tags (article_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT (article_id, tag_id) DO NOTHING
		`
		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, attachSQL, createdArticle.ID, tag.ID); err != nil {
			return nil, xerrors.New(err)
		}
	}

	return createdArticle, nil
}

func (c *Core) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	const query = `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE slug = $1
	`

	article, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanArticle, slug)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(ErrArticleNotFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return article, nil
}

// UpdateArticle persists title/description/body changes and bumps updated_at.
// The slug passed on the article is stored as-is: the caller decides whether a
// title edit regenerates it.
func (c *Core) UpdateArticle(ctx context.Context, article *models.Article) (*models.Article, error) {
	const query = `
		UPDATE articles
		SET slug = $1, title = $2, description = $3, body = $4, updated_at = $5
		WHERE id = $6
		RETURNING ` + articleColumns

	updatedArticle, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanArticle,
		article.Slug, article.Title, article.Description, article.Body, time.Now(), article.ID)

	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(ErrArticleNotFound)
		case strings.Contains(err.Error(), `duplicate key value violates unique constraint`):
			return nil, xerrors.New(ErrDuplicatedSlug)
		default:
			return nil, xerrors.New(err)
		}
	}

	return updatedArticle, nil
}

// DeleteArticle retracts an article: every comment attached to it is removed
// first (comments cannot outlive their article), then the favorite and tag
// relations, then the article row itself. Callers run it inside a transaction.
func (c *Core) DeleteArticle(ctx context.Context, articleID int64) error {
	statements := []string{
		`DELETE FROM comments WHERE article_id = $1`,
		`DELETE FROM favourite_articles WHERE article_id = $1`,
		`DELETE FROM article_tags WHERE article_id = $1`,
		`DELETE FROM articles WHERE id = $1`,
	}

	for _, statement := range statements {
		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, statement, articleID); err != nil {
			return xerrors.New(err)
		}
	}

	return nil
}

// FavouriteArticle records the user's favorite. Favoriting twice leaves a
// single relation row.
func (c *Core) FavouriteArticle(ctx context.Context, articleID int64, userID int64) error {
	const insertSQL = `
		INSERT INTO favourite_articles (user_id, article_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, article_id) DO NOTHING
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, insertSQL, userID, articleID); err != nil {
		return xerrors.New(err)
	}
	return nil
}

// UnfavouriteArticle removes the user's favorite; removing an absent favorite
// is a no-op.
func (c *Core) UnfavouriteArticle(ctx context.Context, articleID int64, userID int64) error {
	const deleteSQL = `
		DELETE FROM favourite_articles
		WHERE user_id = $1 AND article_id = $2
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, deleteSQL, userID, articleID); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func (c *Core) IsFavouriteArticleByUser(ctx context.Context, articleID int64, user *auth.User) (bool, error) {
	if user == nil {
		return false, nil
	}

	const selectSQL = `
		SELECT EXISTS(
			SELECT 1 FROM favourite_articles WHERE user_id = $1 AND article_id = $2
		)
	`

	isFavourite, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, selectSQL, func(rows *sql.Rows) (bool, error) {
		var favourite bool
		if err := rows.Scan(&favourite); err != nil {
			return false, xerrors.New(err)
		}
		return favourite, nil
	}, user.ID, articleID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, xerrors.New(err)
	}
	return isFavourite, nil
}

func (c *Core) FavouriteArticleCount(ctx context.Context, articleID int64) (int64, error) {
	const selectSQL = `
		SELECT COUNT(*) FROM favourite_articles WHERE article_id = $1
	`

	count, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, selectSQL, func(rows *sql.Rows) (int64, error) {
		var favouriteArticleCount int64
		if err := rows.Scan(&favouriteArticleCount); err != nil {
			return 0, xerrors.New(err)
		}
		return favouriteArticleCount, nil
	}, articleID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, xerrors.New(err)
	}
	return count, nil
}

// FavouriteArticleByArticleId reports, per article id, whether the given user
// has favorited it. A nil user favorites nothing.
func (c *Core) FavouriteArticleByArticleId(ctx context.Context, articleIDs []int64, user *auth.User) (map[int64]bool, error) {
	result := make(map[int64]bool, len(articleIDs))
	if user == nil || len(articleIDs) == 0 {
		return result, nil
	}

	placeholders, args := stringutils.INClause(articleIDs, 2)
	query := fmt.Sprintf(`
		SELECT article_id
		FROM favourite_articles
		WHERE user_id = $1 AND article_id IN (%s)
	`, strings.Join(placeholders, ", "))

	favouritedIDs, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (int64, error) {
		var articleID int64
		if err := rows.Scan(&articleID); err != nil {
			return 0, xerrors.New(err)
		}
		return articleID, nil
	}, append([]any{user.ID}, args...)...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	for _, id := range favouritedIDs {
		result[id] = true
	}
	return result, nil
}

func (c *Core) FavouriteCountByArticleId(ctx context.Context, articleIDs []int64) (map[int64]int64, error) {
	result := make(map[int64]int64, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	placeholders, args := stringutils.INClause(articleIDs, 1)
	query := fmt.Sprintf(`
		SELECT article_id, COUNT(*)
		FROM favourite_articles
		WHERE article_id IN (%s)
		GROUP BY article_id
	`, strings.Join(placeholders, ", "))

	type articleCount struct {
		articleID int64
		count     int64
	}

	counts, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (articleCount, error) {
		var ac articleCount
		if err := rows.Scan(&ac.articleID, &ac.count); err != nil {
			return articleCount{}, xerrors.New(err)
		}
		return ac, nil
	}, args...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	for _, ac := range counts {
		result[ac.articleID] = ac.count
	}
	return result, nil
}

// GetArticles lists articles newest first. Filters combine with AND; an empty
// filter value is pass-through. No match yields an empty slice.
func (c *Core) GetArticles(ctx context.Context, filters filter.Filter, tag, author, favorited string) ([]*models.Article, error) {
	const query = `
		SELECT DISTINCT a.id, a.slug, a.title, a.description, a.body, a.created_at, a.updated_at, a.author_id
		FROM articles a
		JOIN users au ON au.id = a.author_id
		LEFT JOIN article_tags atg ON atg.article_id = a.id
		LEFT JOIN tags t ON t.id = atg.tag_id
		LEFT JOIN favourite_articles fa ON fa.article_id = a.id
		LEFT JOIN users fu ON fu.id = fa.user_id
		WHERE ($1 = '' OR t.name = $1)
		  AND ($2 = '' OR au.username = $2)
		  AND ($3 = '' OR fu.username = $3)
		ORDER BY a.created_at DESC
		LIMIT $4 OFFSET $5
	`

	articles, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanArticle,
		tag, author, favorited, filters.Limit, filters.Offset)

	if err != nil {
		return nil, xerrors.New(err)
	}

	return articles, nil
}

// GetFeed lists articles authored by profiles the viewer follows, newest
// first. An empty following set yields an empty slice.
func (c *Core) GetFeed(ctx context.Context, viewer *auth.User, filters filter.Filter) ([]*models.Article, error) {
	const query = `
		SELECT a.id, a.slug, a.title, a.description, a.body, a.created_at, a.updated_at, a.author_id
		FROM articles a
		JOIN followers f ON f.followee_id = a.author_id
		WHERE f.follower_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3
	`

	articles, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanArticle,
		viewer.ID, filters.Limit, filters.Offset)

	if err != nil {
		return nil, xerrors.New(err)
	}

	return articles, nil
}

// HydrateArticles fills in the viewer-relative state of every article in
// place: tag list, favorited flag, favorites count and the author profile
// with its following flag. Batch queries keep it to one round trip per
// concern regardless of list size.
func (c *Core) HydrateArticles(ctx context.Context, articles []*models.Article, viewer *auth.User) error {
	if len(articles) == 0 {
		return nil
	}

	articleIDs := functional.Map(articles, func(a *models.Article) int64 {
		return a.ID
	})

	tagsByArticleID, err := c.GetTagsByArticleId(ctx, articleIDs)
	if err != nil {
		return xerrors.New(err)
	}

	favouritedByArticleID, err := c.FavouriteArticleByArticleId(ctx, articleIDs, viewer)
	if err != nil {
		return xerrors.New(err)
	}

	favouriteCountByArticleID, err := c.FavouriteCountByArticleId(ctx, articleIDs)
	if err != nil {
		return xerrors.New(err)
	}

	authorIDs := functional.Map(articles, func(a *models.Article) int64 {
		return a.AuthorID
	})
	authors, err := c.GetUsersByIdList(ctx, authorIDs)
	if err != nil {
		return xerrors.New(err)
	}
	authorByID := collectionutils.Associate(authors, func(user *auth.User) (int64, *auth.User) {
		return user.ID, user
	})

	followingByUserID := map[int64]bool{}
	if viewer != nil {
		followingUserList, err := c.GetFollowingUserList(ctx, viewer.ID)
		if err != nil {
			return xerrors.New(err)
		}
		followingByUserID = collectionutils.Associate(followingUserList, func(user *auth.User) (int64, bool) {
			return user.ID, true
		})
	}

	for _, article := range articles {
		tags := collectionutils.GetOrDefault(tagsByArticleID, article.ID, []models.Tag{})
		article.TagList = functional.Map(tags, func(t models.Tag) string { return t.Name })
		article.Favorited = favouritedByArticleID[article.ID]
		article.FavoritesCount = favouriteCountByArticleID[article.ID]

		author, found := authorByID[article.AuthorID]
		if !found {
			return xerrors.Newf("author %d not found for article %d", article.AuthorID, article.ID)
		}
		article.Author = &models.Profile{
			ID:        author.ID,
			Username:  author.Username,
			Bio:       author.Bio,
			Image:     author.Image,
			Following: collectionutils.GetOrDefault(followingByUserID, author.ID, false),
		}
	}

	return nil
}

// HydrateArticle is the single-article variant of HydrateArticles.
func (c *Core) HydrateArticle(ctx context.Context, article *models.Article, viewer *auth.User) error {
	return c.HydrateArticles(ctx, []*models.Article{article}, viewer)
}

func scanArticle(rows *sql.Rows) (*models.Article, error) {
	var article = &models.Article{}

	if err := rows.Scan(
		&article.ID,
		&article.Slug,
		&article.Title,
		&article.Description,
		&article.Body,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.AuthorID,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return article, nil
}
