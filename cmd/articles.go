package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/core"
	"github.com/siahsang/conduit/internal/filter"
	"github.com/siahsang/conduit/internal/projection"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
	"github.com/siahsang/conduit/internal/validator"
	"github.com/siahsang/conduit/models"
)

func (app *application) createArticle(w http.ResponseWriter, r *http.Request) {
	type input struct {
		Title       string    `json:"title"`
		Description *string   `json:"description"`
		Body        *string   `json:"body"`
		TagList     *[]string `json:"tagList"`
	}

	type CreateArticleRequest struct {
		input `json:"article"`
	}

	var requestPayload CreateArticleRequest

	if err := app.readJSON(w, r, &requestPayload); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(requestPayload.Title, "title", "must be provided")

	var tagModels []*models.Tag
	if requestPayload.TagList != nil {
		for _, tag := range *requestPayload.TagList {
			v.CheckNotBlank(tag, "tag", "must not be blank")
			tagModels = append(tagModels, &models.Tag{Name: strings.TrimSpace(tag)})
		}
	}

	if !v.IsValid() {
		app.unprocessableEntityResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	// Tag interning and article creation happen in one transaction so that
	// publishing is atomic.
	article, err := databaseutils.DoTransactionally(r.Context(), app.session, func(txCtx context.Context) (*models.Article, error) {
		createdTags, err := app.core.CreateTag(txCtx, tagModels)
		if err != nil {
			return nil, err
		}

		return app.core.CreateArticle(txCtx, &models.Article{
			Title:       requestPayload.Title,
			Description: requestPayload.Description,
			Body:        requestPayload.Body,
			Slug:        core.Slugify(requestPayload.Title),
			AuthorID:    user.ID,
		}, createdTags)
	})

	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicatedSlug):
			v.AddError("slug", "Slug already exists")
			app.unprocessableEntityResponse(w, r, &AppError{ErrorDetails: v.Errors, ErrorStack: err})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	app.writeArticleResponse(w, r, article, user, http.StatusCreated)
}

func (app *application) getArticles(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	query := r.URL.Query()
	tagQ := app.readString(query, "tag", "")
	authorQ := app.readString(query, "author", "")
	favoritedQ := app.readString(query, "favorited", "")

	limit := app.readInt(query, "limit", filter.DefaultLimit, v)
	offset := app.readInt(query, "offset", filter.DefaultOffset, v)

	filters := filter.NewFilter(limit, offset)

	filter.ValidateFilters(filters, v)
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	articles, err := app.core.GetArticles(r.Context(), filters, tagQ, authorQ, favoritedQ)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	viewer, _ := app.auth.GetAuthenticatedUser(r)
	if err := app.core.HydrateArticles(r.Context(), articles, viewer); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, multiArticleResponse(articles), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getArticle(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	slug := params.ByName("slug")

	// /api/articles/feed shares this route, the router cannot split a static
	// segment off the :slug wildcard.
	if slug == "feed" {
		app.requireAuthenticatedUser(app.feedArticles)(w, r)
		return
	}

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

	viewer, _ := app.auth.GetAuthenticatedUser(r)
	app.writeArticleResponse(w, r, article, viewer, http.StatusOK)
}

func (app *application) feedArticles(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	query := r.URL.Query()

	limit := app.readInt(query, "limit", filter.DefaultLimit, v)
	offset := app.readInt(query, "offset", filter.DefaultOffset, v)

	filters := filter.NewFilter(limit, offset)

	filter.ValidateFilters(filters, v)
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	viewer, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	articles, err := app.core.GetFeed(r.Context(), viewer, filters)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.core.HydrateArticles(r.Context(), articles, viewer); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, multiArticleResponse(articles), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) updateArticle(w http.ResponseWriter, r *http.Request) {
	type input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Body        *string `json:"body"`
	}

	type UpdateArticleRequest struct {
		input `json:"article"`
	}

	var requestPayload UpdateArticleRequest

	if err := app.readJSON(w, r, &requestPayload); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	params := httprouter.ParamsFromContext(r.Context())
	slug := params.ByName("slug")

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	article, err := databaseutils.DoTransactionally(r.Context(), app.session, func(txCtx context.Context) (*models.Article, error) {
		article, err := app.core.GetArticleBySlug(txCtx, slug)
		if err != nil {
			return nil, err
		}

		if article.AuthorID != user.ID {
			return nil, errNotArticleAuthor
		}

		if requestPayload.Title != nil && *requestPayload.Title != "" {
			article.Title = *requestPayload.Title
			// A title edit regenerates the slug, the article changes its
			// external identity just like the hashcode-suffixed original.
			article.Slug = core.Slugify(article.Title)
		}
		if requestPayload.Description != nil && *requestPayload.Description != "" {
			article.Description = requestPayload.Description
		}
		if requestPayload.Body != nil && *requestPayload.Body != "" {
			article.Body = requestPayload.Body
		}

		return app.core.UpdateArticle(txCtx, article)
	})

	if err != nil {
		switch {
		case errors.Is(err, core.ErrArticleNotFound):
			app.notFoundResponse(w, r)
			return
		case errors.Is(err, errNotArticleAuthor):
			app.forbiddenResponse(w, r)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	app.writeArticleResponse(w, r, article, user, http.StatusOK)
}

func (app *application) deleteArticle(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	slug := params.ByName("slug")

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

		if article.AuthorID != user.ID {
			return errNotArticleAuthor
		}

		return app.core.DeleteArticle(txCtx, article.ID)
	})

	if err != nil {
		switch {
		case errors.Is(err, core.ErrArticleNotFound):
			app.notFoundResponse(w, r)
			return
		case errors.Is(err, errNotArticleAuthor):
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

func (app *application) favoriteArticle(w http.ResponseWriter, r *http.Request) {
	app.setArticleFavorite(w, r, true)
}

func (app *application) unfavoriteArticle(w http.ResponseWriter, r *http.Request) {
	app.setArticleFavorite(w, r, false)
}

func (app *application) setArticleFavorite(w http.ResponseWriter, r *http.Request, favorite bool) {
	params := httprouter.ParamsFromContext(r.Context())
	slug := params.ByName("slug")

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

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

	if favorite {
		err = app.core.FavouriteArticle(r.Context(), article.ID, user.ID)
	} else {
		err = app.core.UnfavouriteArticle(r.Context(), article.ID, user.ID)
	}
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.writeArticleResponse(w, r, article, user, http.StatusOK)
}

var errNotArticleAuthor = errors.New("not the author of the article")

func (app *application) writeArticleResponse(w http.ResponseWriter, r *http.Request, article *models.Article, viewer *auth.User, status int) {
	if err := app.core.HydrateArticle(r.Context(), article, viewer); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, status, singleArticleResponse(article), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func singleArticleResponse(article *models.Article) envelope {
	return envelope{"article": projection.Article(article)}
}

func multiArticleResponse(articles []*models.Article) envelope {
	response := projection.Articles(articles)
	return envelope{
		"articles":      response.Articles,
		"articlesCount": response.ArticlesCount,
	}
}
