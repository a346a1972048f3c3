package server

import (
	"devhub/internal/models"
	"devhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type addCommentRequest struct {
	Text string `json:"text"`
}

// AddComment adds a comment to a post and returns the updated comment list
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return s.respondError(c, err)
	}

	var req addCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	comments, err := s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		UserID: currentUserID(c),
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}

// DeleteComment removes a comment the caller owns and returns the remaining
// comment list
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		return s.respondError(c, err)
	}
	commentID, err := parseIDParam(c, "comment_id")
	if err != nil {
		return s.respondError(c, err)
	}

	comments, err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    currentUserID(c),
		PostID:    postID,
		CommentID: commentID,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}
