package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	postUC "github.com/allandacasin/devconnector-api/internal/application/usecase/post"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
)

type PostHandler struct {
	createPostUseCase  *postUC.CreatePostUseCase
	listPostsUseCase   *postUC.ListPostsUseCase
	getPostUseCase     *postUC.GetPostUseCase
	deletePostUseCase  *postUC.DeletePostUseCase
	likePostUseCase    *postUC.LikePostUseCase
	commentPostUseCase *postUC.CommentPostUseCase
}

func NewPostHandler(
	createUC *postUC.CreatePostUseCase,
	listUC *postUC.ListPostsUseCase,
	getUC *postUC.GetPostUseCase,
	deleteUC *postUC.DeletePostUseCase,
	likeUC *postUC.LikePostUseCase,
	commentUC *postUC.CommentPostUseCase,
) *PostHandler {
	return &PostHandler{
		createPostUseCase:  createUC,
		listPostsUseCase:   listUC,
		getPostUseCase:     getUC,
		deletePostUseCase:  deleteUC,
		likePostUseCase:    likeUC,
		commentPostUseCase: commentUC,
	}
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewValidation(apperror.FieldError{Msg: "Invalid request body", Param: "body"}))
		return
	}

	p, err := h.createPostUseCase.Execute(c.Request.Context(), postUC.CreatePostInput{
		UserID: userID,
		Text:   req.Text,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// List handles GET /api/posts.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.listPostsUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// Get handles GET /api/posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.getPostUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /api/posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	if err := h.deletePostUseCase.Execute(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Post removed"})
}

// Like handles PUT /api/posts/like/:id.
func (h *PostHandler) Like(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	p, err := h.likePostUseCase.ExecuteLike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, p.Likes)
}

// Unlike handles PUT /api/posts/unlike/:id.
func (h *PostHandler) Unlike(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	p, err := h.likePostUseCase.ExecuteUnlike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, p.Likes)
}

// AddComment handles POST /api/posts/comment/:id.
func (h *PostHandler) AddComment(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewValidation(apperror.FieldError{Msg: "Invalid request body", Param: "body"}))
		return
	}

	p, err := h.commentPostUseCase.ExecuteAdd(c.Request.Context(), postUC.AddCommentInput{
		CallerID: userID,
		PostID:   c.Param("id"),
		Text:     req.Text,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, p.Comments)
}

// RemoveComment handles DELETE /api/posts/comment/:id/:commentId.
func (h *PostHandler) RemoveComment(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	p, err := h.commentPostUseCase.ExecuteRemove(c.Request.Context(), userID, c.Param("id"), c.Param("commentId"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, p.Comments)
}
