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

// GetProfile resolves a profile relative to the viewer: Following reports
// whether the viewer follows the profile. A nil viewer always sees
// following=false.
func (c *Core) GetProfile(ctx context.Context, username string, viewer *auth.User) (*models.Profile, error) {
	user, err := c.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return c.profileForUser(ctx, user, viewer)
}

func (c *Core) GetProfileByUserId(ctx context.Context, userID int64, viewer *auth.User) (*models.Profile, error) {
	users, err := c.GetUsersByIdList(ctx, []int64{userID})
	if err != nil {
		return nil, xerrors.New(err)
	}
	if len(users) == 0 {
		return nil, xerrors.New(NoRecordFound)
	}

	return c.profileForUser(ctx, users[0], viewer)
}

func (c *Core) profileForUser(ctx context.Context, user *auth.User, viewer *auth.User) (*models.Profile, error) {
	profile := &models.Profile{
		ID:       user.ID,
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
	}

	if viewer == nil {
		return profile, nil
	}

	following, err := c.IsFollowing(ctx, viewer.ID, user.ID)
	if err != nil {
		return nil, xerrors.New(err)
	}
	profile.Following = following

	return profile, nil
}

func (c *Core) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM followers WHERE follower_id = $1 AND followee_id = $2
		)
	`

	isFollowing, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (bool, error) {
		var following bool
		if err := rows.Scan(&following); err != nil {
			return false, xerrors.New(err)
		}
		return following, nil
	}, followerID, followeeID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, xerrors.New(err)
	}

	return isFollowing, nil
}

// FollowUser makes the viewer follow the named profile. Following an already
// followed profile is a no-op, retries converge to the same state.
func (c *Core) FollowUser(ctx context.Context, viewer *auth.User, followeeUsername string) (*models.Profile, error) {
	followeeUser, err := c.GetUserByUsername(ctx, followeeUsername)
	if err != nil {
		return nil, xerrors.New(err)
	}

	const insertSQL = `
		INSERT INTO followers (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, insertSQL, viewer.ID, followeeUser.ID); err != nil {
		return nil, xerrors.New(err)
	}

	return c.profileForUser(ctx, followeeUser, viewer)
}

// UnfollowUser removes the follow relation. Unfollowing a profile that is not
// followed is a no-op.
func (c *Core) UnfollowUser(ctx context.Context, viewer *auth.User, followeeUsername string) (*models.Profile, error) {
	followeeUser, err := c.GetUserByUsername(ctx, followeeUsername)
	if err != nil {
		return nil, xerrors.New(err)
	}

	const deleteSQL = `
		DELETE FROM followers
		WHERE follower_id = $1 AND followee_id = $2
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, deleteSQL, viewer.ID, followeeUser.ID); err != nil {
		return nil, xerrors.New(err)
	}

	return c.profileForUser(ctx, followeeUser, viewer)
}

// GetFollowingUserList returns every user the given user follows.
func (c *Core) GetFollowingUserList(ctx context.Context, followerID int64) ([]*auth.User, error) {
	const query = `
		SELECT u.id, u.email, u.username, u.password, u.bio, u.image
		FROM users AS u JOIN followers f ON u.id = f.followee_id
		WHERE f.follower_id = $1
	`

	queryResultList, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanUser, followerID)

	if err != nil {
		return nil, xerrors.New(err)
	}

	return queryResultList, nil
}
