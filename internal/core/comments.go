package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
	"github.com/siahsang/conduit/models"
)

var (
	ErrCommentNotFound     = xerrors.Message("Comment not found")
	ErrCommentNotInArticle = xerrors.Message("Comment does not belong to article")
)

func (c *Core) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	const insertSQL = `
		INSERT INTO comments (body, created_at, updated_at, author_id, article_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, body, created_at, updated_at, author_id, article_id
	`

	newComment, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, scanComment,
		comment.Body, comment.CreatedAt, comment.UpdatedAt, comment.AuthorID, comment.ArticleID)

	if err != nil {
		return nil, xerrors.New(err)
	}

	return newComment, nil
}

func (c *Core) GetCommentById(ctx context.Context, commentID int64) (*models.Comment, error) {
	const query = `
		SELECT id, body, created_at, updated_at, author_id, article_id
		FROM comments
		WHERE id = $1
	`

	comment, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanComment, commentID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(ErrCommentNotFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return comment, nil
}

func (c *Core) GetCommentsByArticleId(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	const query = `
		SELECT id, body, created_at, updated_at, author_id, article_id
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at ASC
	`

	comments, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanComment, articleID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return comments, nil
}

// DeleteComment removes a comment addressed through a specific article. A
// comment that exists but belongs to a different article is a conflict, not a
// deletion.
func (c *Core) DeleteComment(ctx context.Context, articleID int64, commentID int64) error {
	comment, err := c.GetCommentById(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.ArticleID != articleID {
		return xerrors.New(ErrCommentNotInArticle)
	}

	const deleteSQL = `
		DELETE FROM comments
		WHERE id = $1
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, deleteSQL, commentID); err != nil {
		return xerrors.New(err)
	}

	return nil
}

// HydrateComments fills in each comment's author profile relative to the
// viewer.
func (c *Core) HydrateComments(ctx context.Context, comments []*models.Comment, viewer *auth.User) error {
	for _, comment := range comments {
		profile, err := c.GetProfileByUserId(ctx, comment.AuthorID, viewer)
		if err != nil {
			return xerrors.New(err)
		}
		comment.Author = profile
	}

	return nil
}

func scanComment(rows *sql.Rows) (*models.Comment, error) {
	var comment models.Comment
	if err := rows.Scan(&comment.ID, &comment.Body, &comment.CreatedAt, &comment.UpdatedAt, &comment.AuthorID, &comment.ArticleID); err != nil {
		return nil, xerrors.New(err)
	}
	return &comment, nil
}
