package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
)

// Client-facing messages returned by PostService.
const (
	MsgPostFieldsRequired = "Please provide title and content"
	MsgPostNotFound       = "Post not found"
	MsgNotAuthorUpdate    = "Not authorized to update this post"
	MsgNotAuthorDelete    = "Not authorized to delete this post"
)

// PostService implements post CRUD. Reads are public; writes take the
// authenticated requester and modify only posts it authored.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager) *PostService {
	return &PostService{db: db, repomanager: m}
}

// Create stores a new post authored by requester. Any author supplied by
// the client is ignored by construction.
func (s *PostService) Create(ctx context.Context, requester *models.User, title, content string) (*models.Post, error) {
	if requester == nil {
		return nil, common.NewError(common.ErrorUnauthorized, MsgNotAuthorized)
	}
	if title == "" || content == "" {
		return nil, common.NewError(common.ErrValidation, MsgPostFieldsRequired)
	}

	post, err := s.repomanager.Posts(s.db).Create(ctx, &models.Post{
		Title:    title,
		Content:  content,
		AuthorID: requester.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	post.Author = &models.PostAuthor{ID: requester.ID, Name: requester.Name, Email: requester.Email}
	return post, nil
}

// Get returns a single post with its author.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repomanager.Posts(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "error loading post")
	}
	return post, nil
}

// List returns one page of posts, newest first.
func (s *PostService) List(ctx context.Context, page, limit int) (*models.PostPage, error) {
	page, limit = NormalizePage(page, limit)
	repo := s.repomanager.Posts(s.db)

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting posts: %w", err)
	}

	offset, pages, pagination := Paginate(total, page, limit)

	items, err := repo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	if items == nil {
		items = []*models.Post{}
	}

	return &models.PostPage{
		Posts:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		Pages:      pages,
		Pagination: pagination,
	}, nil
}

// Update applies patch to the post if requester owns it. The row is locked
// from the ownership check until the write commits.
func (s *PostService) Update(ctx context.Context, requester *models.User, id string, patch models.PostPatch) (*models.Post, error) {
	if requester == nil {
		return nil, common.NewError(common.ErrorUnauthorized, MsgNotAuthorized)
	}

	var updated *models.Post
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)

		post, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, "error loading post")
		}
		if post.AuthorID != requester.ID {
			return common.NewError(common.ErrForbidden, MsgNotAuthorUpdate)
		}

		patch.Apply(post)
		if _, err := repo.Update(ctx, post); err != nil {
			return notFoundOr(err, "error updating post")
		}

		updated, err = repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("error reloading post: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete permanently removes the post if requester owns it.
func (s *PostService) Delete(ctx context.Context, requester *models.User, id string) error {
	if requester == nil {
		return common.NewError(common.ErrorUnauthorized, MsgNotAuthorized)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)

		post, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, "error loading post")
		}
		if post.AuthorID != requester.ID {
			return common.NewError(common.ErrForbidden, MsgNotAuthorDelete)
		}

		if err := repo.Delete(ctx, id); err != nil {
			return notFoundOr(err, "error deleting post")
		}
		return nil
	})
}

// notFoundOr turns a repository ErrorNotFound into the client-facing
// "Post not found" error and wraps anything else with context.
func notFoundOr(err error, op string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewError(common.ErrorNotFound, MsgPostNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
