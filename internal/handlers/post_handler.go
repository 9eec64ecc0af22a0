package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devconnector/internal/models"
	"github.com/joshua-takyi/devconnector/internal/services"
)

type textRequest struct {
	Text string `json:"text" binding:"required"`
}

func CreatePost(ps *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req textRequest
		if !bindJSON(c, &req) {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		post, err := ps.CreatePost(ctx, userID, req.Text)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(post, "Post created"))
	}
}

// ListPosts returns every post, newest first.
func ListPosts(ps *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		posts, err := ps.ListPosts(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		if posts == nil {
			posts = []*models.Post{}
		}
		c.JSON(http.StatusOK, models.SuccessResponse(posts, ""))
	}
}

func GetPost(ps *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		post, err := ps.GetPost(ctx, c.Param("post_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(post, ""))
	}
}

func DeletePost(ps *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		if err := ps.DeletePost(ctx, userID, c.Param("post_id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Post removed"))
	}
}

func LikePost(ps *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		likes, err := ps.LikePost(ctx, userID, c.Param("post_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(likes, ""))
	}
}

func UnlikePost(ps *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		likes, err := ps.UnlikePost(ctx, userID, c.Param("post_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if likes == nil {
			likes = []models.Like{}
		}
		c.JSON(http.StatusOK, models.SuccessResponse(likes, ""))
	}
}

func AddComment(ps *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req textRequest
		if !bindJSON(c, &req) {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		comments, err := ps.AddComment(ctx, userID, c.Param("post_id"), req.Text)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(comments, ""))
	}
}

func DeleteComment(ps *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		comments, err := ps.DeleteComment(ctx, userID, c.Param("post_id"), c.Param("comment_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if comments == nil {
			comments = []models.Comment{}
		}
		c.JSON(http.StatusOK, models.SuccessResponse(comments, ""))
	}
}
