package core

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
	"github.com/siahsang/conduit/internal/utils/stringutils"
	"github.com/siahsang/conduit/models"
)

// CreateTag interns the given tag names: every name ends up with exactly one
// row in the tags table, whether it existed before or not. The single
// INSERT ... ON CONFLICT ... RETURNING statement is atomic, so two concurrent
// creations of the same new tag both resolve to the same row instead of
// racing a read-then-write. A tag list is a set: a name repeated in the input
// collapses to one row and one result entry.
func (c *Core) CreateTag(ctx context.Context, tags []*models.Tag) ([]*models.Tag, error) {
	if len(tags) == 0 {
		return []*models.Tag{}, nil
	}

	// Repeating a name in a single multi-row upsert would make Postgres
	// reject the statement for touching the same row twice, so duplicates
	// are dropped before the statement is built.
	uniqueTags := make([]*models.Tag, 0, len(tags))
	seenNames := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if seenNames[tag.Name] {
			continue
		}
		seenNames[tag.Name] = true
		uniqueTags = append(uniqueTags, tag)
	}

	// The statement will look like: INSERT INTO tags (name) VALUES ($1), ($2), ...
	valueStrings := make([]string, 0, len(uniqueTags))
	valueArgs := make([]any, 0, len(uniqueTags))

	for i, tag := range uniqueTags {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d)", i+1))
		valueArgs = append(valueArgs, tag.Name)
	}

	insertSQL := fmt.Sprintf(`
		INSERT INTO tags (name)
		VALUES %s
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`, strings.Join(valueStrings, ", "))

	returnedTags, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, insertSQL, scanTag, valueArgs...)
	if err != nil {
		return nil, xerrors.New(err)
	}

	// Match the returned rows back to the input by name, the order of
	// RETURNING rows is not guaranteed to follow the input order.
	returnedTagsByName := make(map[string]*models.Tag, len(returnedTags))
	for _, tag := range returnedTags {
		returnedTagsByName[tag.Name] = tag
	}

	resultTags := make([]*models.Tag, 0, len(uniqueTags))
	for _, tag := range uniqueTags {
		existingTag, exists := returnedTagsByName[tag.Name]
		if !exists {
			return nil, xerrors.Newf("tag %s not found in database", tag.Name)
		}
		tag.ID = existingTag.ID
		resultTags = append(resultTags, existingTag)
	}

	return resultTags, nil
}

func (c *Core) GetAllTags(ctx context.Context) ([]string, error) {
	const query = `
		SELECT name FROM tags ORDER BY name
	`

	tags, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (string, error) {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", xerrors.New(err)
		}
		return name, nil
	})

	if err != nil {
		return nil, xerrors.New(err)
	}

	return tags, nil
}

// GetTagsByArticleId returns the tags of every given article, keyed by
// article id. Articles without tags are simply absent from the map.
func (c *Core) GetTagsByArticleId(ctx context.Context, articleIDs []int64) (map[int64][]models.Tag, error) {
	result := make(map[int64][]models.Tag, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	placeholders, args := stringutils.INClause(articleIDs, 1)
	query := fmt.Sprintf(`
		SELECT atg.article_id, t.id, t.name
		FROM article_tags atg JOIN tags t ON t.id = atg.tag_id
		WHERE atg.article_id IN (%s)
		ORDER BY t.name
	`, strings.Join(placeholders, ", "))

	type articleTag struct {
		articleID int64
		tag       models.Tag
	}

	rows, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (articleTag, error) {
		var at articleTag
		if err := rows.Scan(&at.articleID, &at.tag.ID, &at.tag.Name); err != nil {
			return articleTag{}, xerrors.New(err)
		}
		return at, nil
	}, args...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	for _, at := range rows {
		result[at.articleID] = append(result[at.articleID], at.tag)
	}

	return result, nil
}

func scanTag(rows *sql.Rows) (*models.Tag, error) {
	var tag models.Tag
	if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
		return nil, xerrors.New(err)
	}
	return &tag, nil
}
