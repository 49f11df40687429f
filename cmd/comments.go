package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/siahsang/conduit/internal/core"
	"github.com/siahsang/conduit/internal/projection"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
	"github.com/siahsang/conduit/internal/validator"
	"github.com/siahsang/conduit/models"
)

func (app *application) createComment(w http.ResponseWriter, r *http.Request) {
	type CreateCommentPayload struct {
		Body string `json:"body"`
	}

	type CreateCommentRequest struct {
		CreateCommentPayload `json:"comment"`
	}

	var createCommentRequest CreateCommentRequest

	if err := app.readJSON(w, r, &createCommentRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(createCommentRequest.Body, "body", "must be provided")

	if !v.IsValid() {
		app.unprocessableEntityResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	params := httprouter.ParamsFromContext(r.Context())
	slug := params.ByName("slug")

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	newComment, err := databaseutils.DoTransactionally(r.Context(), app.session, func(txCtx context.Context) (*models.Comment, error) {
		articleBySlug, err := app.core.GetArticleBySlug(txCtx, slug)
		if err != nil {
			return nil, err
		}
		comment, err := app.core.CreateComment(txCtx, &models.Comment{
			Body:      createCommentRequest.Body,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
			ArticleID: articleBySlug.ID,
			AuthorID:  user.ID,
		})
		if err != nil {
			return nil, err
		}

		return comment, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, core.ErrArticleNotFound):
			app.notFoundResponse(w, r)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	if err := app.core.HydrateComments(r.Context(), []*models.Comment{newComment}, user); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"comment": projection.Comment(newComment)}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getComments(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	slug := params.ByName("slug")

	article, err := app.core.GetArticleBySlug(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrArticleNotFound):
			app.notFoundResponse(w, r)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	comments, err := app.core.GetCommentsByArticleId(r.Context(), article.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	viewer, _ := app.auth.GetAuthenticatedUser(r)
	if err := app.core.HydrateComments(r.Context(), comments, viewer); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"comments": projection.Comments(comments)}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteComment(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	slug := params.ByName("slug")

	commentID, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: "Comment id must be an integer",
		})
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	err = app.session.DoTransactionally(r.Context(), func(txCtx context.Context) error {
		article, err := app.core.GetArticleBySlug(txCtx, slug)
		if err != nil {
			return err
		}

		comment, err := app.core.GetCommentById(txCtx, commentID)
		if err != nil {
			return err
		}

		if comment.AuthorID != user.ID {
			return errNotCommentAuthor
		}

		return app.core.DeleteComment(txCtx, article.ID, commentID)
	})

	if err != nil {
		switch {
		case errors.Is(err, core.ErrArticleNotFound), errors.Is(err, core.ErrCommentNotFound):
			app.notFoundResponse(w, r)
			return
		case errors.Is(err, core.ErrCommentNotInArticle):
			app.unprocessableEntityResponse(w, r, &AppError{
				ErrorMessage: "The comment does not belong to the given article",
				ErrorStack:   err,
			})
			return
		case errors.Is(err, errNotCommentAuthor):
			app.forbiddenResponse(w, r)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

var errNotCommentAuthor = errors.New("not the author of the comment")
