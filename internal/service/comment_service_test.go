package service

import (
	"context"
	"strings"
	"testing"

	"devhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]models.Comment, error)
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByPostFn: func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

func TestAddCommentValidation(t *testing.T) {
	svc := NewCommentService(noopCommentRepo(), noopPostRepo(), stubUserRepo(&models.User{ID: 1}))
	ctx := context.Background()

	_, err := svc.AddComment(ctx, AddCommentInput{UserID: 1, PostID: 1, Text: ""})
	assertValidationError(t, err)

	_, err = svc.AddComment(ctx, AddCommentInput{UserID: 1, PostID: 1, Text: "  "})
	assertValidationError(t, err)

	_, err = svc.AddComment(ctx, AddCommentInput{
		UserID: 1, PostID: 1, Text: strings.Repeat("x", 10001),
	})
	assertValidationError(t, err)
}

func TestAddCommentMissingPost(t *testing.T) {
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}

	svc := NewCommentService(noopCommentRepo(), postRepo, stubUserRepo(&models.User{ID: 1}))

	_, err := svc.AddComment(context.Background(), AddCommentInput{UserID: 1, PostID: 9, Text: "hi"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestAddCommentSnapshotsAuthor(t *testing.T) {
	user := &models.User{ID: 4, Name: "Grace Hopper", Avatar: "https://example.com/g.png"}

	var captured *models.Comment
	commentRepo := noopCommentRepo()
	commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
		captured = c
		return nil
	}
	commentRepo.listByPostFn = func(_ context.Context, postID uint) ([]models.Comment, error) {
		return []models.Comment{*captured}, nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo(), stubUserRepo(user))

	comments, err := svc.AddComment(context.Background(), AddCommentInput{
		UserID: 4, PostID: 2, Text: "nice post",
	})
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Grace Hopper", comments[0].AuthorName)
	assert.Equal(t, uint(2), comments[0].PostID)
}

func TestDeleteCommentWrongPost(t *testing.T) {
	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: 5, UserID: 1}, nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo(), stubUserRepo(&models.User{ID: 1}))

	_, err := svc.DeleteComment(context.Background(), DeleteCommentInput{
		UserID: 1, PostID: 6, CommentID: 3,
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestDeleteCommentOwnership(t *testing.T) {
	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: 5, UserID: 2}, nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo(), stubUserRepo(&models.User{ID: 1}))

	_, err := svc.DeleteComment(context.Background(), DeleteCommentInput{
		UserID: 1, PostID: 5, CommentID: 3,
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
}

func TestDeleteCommentSuccess(t *testing.T) {
	deleted := false
	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: 5, UserID: 1}, nil
	}
	commentRepo.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}
	commentRepo.listByPostFn = func(_ context.Context, _ uint) ([]models.Comment, error) {
		return []models.Comment{}, nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo(), stubUserRepo(&models.User{ID: 1}))

	comments, err := svc.DeleteComment(context.Background(), DeleteCommentInput{
		UserID: 1, PostID: 5, CommentID: 3,
	})
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, comments)
}
