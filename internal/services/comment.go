package services

import (
	"context"
	"strings"

	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/pkg/errors"
)

const maxCommentLength = 1000

type CommentService struct {
	store *repository.Store
}

func NewCommentService(store *repository.Store) *CommentService {
	return &CommentService{store: store}
}

func (s *CommentService) ListComments(ctx context.Context, matchID uint, page repository.Page) ([]models.Comment, int64, error) {
	comments, total, err := s.store.Comments.ListByMatch(ctx, matchID, page)
	if err != nil {
		return nil, 0, errors.Internal("failed to list comments", err)
	}
	return comments, total, nil
}

func (s *CommentService) AddComment(ctx context.Context, userID, matchID uint, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.InvalidArgument("comment body is required")
	}
	if len([]rune(body)) > maxCommentLength {
		return nil, errors.InvalidArgument("comment is too long")
	}

	match, err := s.store.Matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, errors.Internal("failed to load match", err)
	}
	if match == nil {
		return nil, errors.NotFound("match not found")
	}

	comment := &models.Comment{MatchID: matchID, UserID: userID, Body: body}
	if err := s.store.Comments.Create(ctx, comment); err != nil {
		return nil, errors.Internal("failed to create comment", err)
	}
	return comment, nil
}

// DeleteComment lets authors remove their own comments and admins remove any.
func (s *CommentService) DeleteComment(ctx context.Context, caller Identity, commentID uint) error {
	comment, err := s.store.Comments.GetByID(ctx, commentID)
	if err != nil {
		return errors.Internal("failed to load comment", err)
	}
	if comment == nil {
		return errors.NotFound("comment not found")
	}
	if comment.UserID != caller.UserID && !caller.IsAdmin() {
		return errors.Forbidden("only the author or an admin can delete this comment")
	}

	if err := s.store.Comments.Delete(ctx, comment.ID); err != nil {
		return errors.Internal("failed to delete comment", err)
	}
	return nil
}
