package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	authUC "github.com/allandacasin/devconnector-api/internal/application/usecase/auth"
	postUC "github.com/allandacasin/devconnector-api/internal/application/usecase/post"
	profileUC "github.com/allandacasin/devconnector-api/internal/application/usecase/profile"
	"github.com/allandacasin/devconnector-api/internal/domain/post"
	"github.com/allandacasin/devconnector-api/internal/domain/profile"
	"github.com/allandacasin/devconnector-api/internal/domain/user"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
	"github.com/allandacasin/devconnector-api/pkg/auth"
	"github.com/allandacasin/devconnector-api/pkg/logger"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...zap.Field)        {}
func (nopLogger) Info(string, ...zap.Field)         {}
func (nopLogger) Warn(string, ...zap.Field)         {}
func (nopLogger) Error(string, error, ...zap.Field) {}
func (nopLogger) Fatal(string, error, ...zap.Field) {}
func (l nopLogger) With(...zap.Field) logger.Logger { return l }

type memUserRepo struct {
	users map[primitive.ObjectID]*user.User
}

func (r *memUserRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperror.NewConflict("User already exists")
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Date = time.Now().UTC()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("user not found")
}

func (r *memUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NewNotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.users, id)
	return nil
}

type memProfileRepo struct {
	byUser map[primitive.ObjectID]*profile.Profile
}

func (r *memProfileRepo) Upsert(_ context.Context, userID primitive.ObjectID, fields profile.Fields) (*profile.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		p = &profile.Profile{
			ID:         primitive.NewObjectID(),
			UserID:     userID,
			Experience: []profile.Experience{},
			Education:  []profile.Education{},
			Date:       time.Now().UTC(),
		}
		r.byUser[userID] = p
	}
	if fields.Status != "" {
		p.Status = fields.Status
	}
	if fields.Skills != nil {
		p.Skills = fields.Skills
	}
	if fields.Company != "" {
		p.Company = fields.Company
	}
	cp := *p
	return &cp, nil
}

func (r *memProfileRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*profile.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProfileRepo) List(_ context.Context) ([]profile.Profile, error) {
	out := []profile.Profile{}
	for _, p := range r.byUser {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memProfileRepo) AddExperience(_ context.Context, userID primitive.ObjectID, entry profile.Experience) (*profile.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	p.Experience = append([]profile.Experience{entry}, p.Experience...)
	cp := *p
	return &cp, nil
}

func (r *memProfileRepo) AddEducation(_ context.Context, userID primitive.ObjectID, entry profile.Education) (*profile.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	p.Education = append([]profile.Education{entry}, p.Education...)
	cp := *p
	return &cp, nil
}

func (r *memProfileRepo) RemoveExperience(_ context.Context, userID, entryID primitive.ObjectID) (*profile.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	kept := p.Experience[:0]
	for _, e := range p.Experience {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	p.Experience = kept
	cp := *p
	return &cp, nil
}

func (r *memProfileRepo) RemoveEducation(_ context.Context, userID, entryID primitive.ObjectID) (*profile.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	kept := p.Education[:0]
	for _, e := range p.Education {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	p.Education = kept
	cp := *p
	return &cp, nil
}

func (r *memProfileRepo) DeleteByUserID(_ context.Context, userID primitive.ObjectID) error {
	delete(r.byUser, userID)
	return nil
}

type memPostRepo struct {
	posts map[primitive.ObjectID]*post.Post
}

func (r *memPostRepo) Save(_ context.Context, p *post.Post) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	cp := *p
	r.posts[p.ID] = &cp
	return nil
}

func (r *memPostRepo) FindByID(_ context.Context, id primitive.ObjectID) (*post.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPostRepo) List(_ context.Context) ([]post.Post, error) {
	out := []post.Post{}
	for _, p := range r.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPostRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.posts, id)
	return nil
}

func (r *memPostRepo) DeleteByAuthor(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var n int64
	for id, p := range r.posts {
		if p.User == userID {
			delete(r.posts, id)
			n++
		}
	}
	return n, nil
}

func (r *memPostRepo) AddLike(_ context.Context, postID primitive.ObjectID, like post.Like) (*post.Post, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	p.Likes = append([]post.Like{like}, p.Likes...)
	cp := *p
	return &cp, nil
}

func (r *memPostRepo) RemoveLike(_ context.Context, postID, userID primitive.ObjectID) (*post.Post, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	kept := p.Likes[:0]
	for _, l := range p.Likes {
		if l.User != userID {
			kept = append(kept, l)
		}
	}
	p.Likes = kept
	cp := *p
	return &cp, nil
}

func (r *memPostRepo) AddComment(_ context.Context, postID primitive.ObjectID, comment post.Comment) (*post.Post, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	p.Comments = append([]post.Comment{comment}, p.Comments...)
	cp := *p
	return &cp, nil
}

func (r *memPostRepo) RemoveComment(_ context.Context, postID, commentID primitive.ObjectID) (*post.Post, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	kept := p.Comments[:0]
	for _, c := range p.Comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	p.Comments = kept
	cp := *p
	return &cp, nil
}

// APITestSuite drives the full router with in-memory stores, checking
// the exact response shapes the SPA depends on.
type APITestSuite struct {
	suite.Suite
	router   *gin.Engine
	userRepo *memUserRepo
	postRepo *memPostRepo
}

func (s *APITestSuite) SetupTest() {
	s.userRepo = &memUserRepo{users: make(map[primitive.ObjectID]*user.User)}
	s.postRepo = &memPostRepo{posts: make(map[primitive.ObjectID]*post.Post)}
	profileRepo := &memProfileRepo{byUser: make(map[primitive.ObjectID]*profile.Profile)}

	appLogger := nopLogger{}
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)

	registerUseCase := authUC.NewRegisterUseCase(s.userRepo, jwtSvc, appLogger)
	loginUseCase := authUC.NewLoginUseCase(s.userRepo, jwtSvc, appLogger)
	currentUserUseCase := authUC.NewCurrentUserUseCase(s.userRepo)
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, s.postRepo, s.userRepo, nil, appLogger)
	createPostUseCase := postUC.NewCreatePostUseCase(s.postRepo, s.userRepo, nil, appLogger)
	listPostsUseCase := postUC.NewListPostsUseCase(s.postRepo)
	getPostUseCase := postUC.NewGetPostUseCase(s.postRepo)
	deletePostUseCase := postUC.NewDeletePostUseCase(s.postRepo)
	likePostUseCase := postUC.NewLikePostUseCase(s.postRepo)
	commentPostUseCase := postUC.NewCommentPostUseCase(s.postRepo, s.userRepo)

	authHandler := NewAuthHandler(registerUseCase, loginUseCase, currentUserUseCase)
	profileHandler := NewProfileHandler(profileUseCase)
	postHandler := NewPostHandler(
		createPostUseCase,
		listPostsUseCase,
		getPostUseCase,
		deletePostUseCase,
		likePostUseCase,
		commentPostUseCase,
	)

	authMiddleware := AuthMiddleware(jwtSvc)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware(appLogger))
	router.Use(ErrorMiddleware(appLogger))

	api := router.Group("/api")
	{
		api.POST("/users", authHandler.Register)
		api.POST("/auth", authHandler.Login)
		api.GET("/auth", authMiddleware, authHandler.CurrentUser)

		profileRoutes := api.Group("/profile")
		{
			profileRoutes.GET("", profileHandler.List)
			profileRoutes.GET("/user/:userId", profileHandler.ByUser)
			profileRoutes.GET("/me", authMiddleware, profileHandler.Me)
			profileRoutes.POST("", authMiddleware, profileHandler.Upsert)
			profileRoutes.DELETE("", authMiddleware, profileHandler.DeleteAccount)
			profileRoutes.PUT("/experience", authMiddleware, profileHandler.AddExperience)
			profileRoutes.DELETE("/experience/:id", authMiddleware, profileHandler.RemoveExperience)
			profileRoutes.PUT("/education", authMiddleware, profileHandler.AddEducation)
			profileRoutes.DELETE("/education/:id", authMiddleware, profileHandler.RemoveEducation)
		}

		postRoutes := api.Group("/posts")
		postRoutes.Use(authMiddleware)
		{
			postRoutes.POST("", postHandler.Create)
			postRoutes.GET("", postHandler.List)
			postRoutes.GET("/:id", postHandler.Get)
			postRoutes.DELETE("/:id", postHandler.Delete)
			postRoutes.PUT("/like/:id", postHandler.Like)
			postRoutes.PUT("/unlike/:id", postHandler.Unlike)
			postRoutes.POST("/comment/:id", postHandler.AddComment)
			postRoutes.DELETE("/comment/:id/:commentId", postHandler.RemoveComment)
		}
	}

	s.router = router
}

func TestAPI(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *APITestSuite) register() string {
	rr := s.do(http.MethodPost, "/api/users", "", gin.H{
		"name": "John Doe", "email": "john@example.com", "password": "secret123",
	})
	require.Equal(s.T(), http.StatusOK, rr.Code, rr.Body.String())

	var resp map[string]string
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(s.T(), resp["token"])
	return resp["token"]
}

func (s *APITestSuite) Test_Register_ReturnsTokenAndRejectsDuplicates() {
	s.register()

	rr := s.do(http.MethodPost, "/api/users", "", gin.H{
		"name": "John Doe", "email": "john@example.com", "password": "secret123",
	})
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
	assert.JSONEq(s.T(), `{"errors":[{"msg":"User already exists","param":"email"}]}`, rr.Body.String())
}

func (s *APITestSuite) Test_Register_ValidationShape() {
	rr := s.do(http.MethodPost, "/api/users", "", gin.H{"email": "bad", "password": "x"})
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)

	var resp struct {
		Errors []struct {
			Msg   string `json:"msg"`
			Param string `json:"param"`
		} `json:"errors"`
	}
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(s.T(), resp.Errors, 3)
	assert.Equal(s.T(), "Name is required", resp.Errors[0].Msg)
	assert.Equal(s.T(), "name", resp.Errors[0].Param)
}

func (s *APITestSuite) Test_Login_BadCredentials() {
	s.register()

	rr := s.do(http.MethodPost, "/api/auth", "", gin.H{
		"email": "john@example.com", "password": "wrong-password",
	})
	assert.Equal(s.T(), http.StatusUnauthorized, rr.Code)
	assert.JSONEq(s.T(), `{"msg":"Invalid Credentials"}`, rr.Body.String())
}

func (s *APITestSuite) Test_CurrentUser_RequiresToken() {
	rr := s.do(http.MethodGet, "/api/auth", "", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, rr.Code)
	assert.JSONEq(s.T(), `{"msg":"No token, authorization denied"}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/auth", "garbage-token", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, rr.Code)
	assert.JSONEq(s.T(), `{"msg":"Token is not valid"}`, rr.Body.String())
}

func (s *APITestSuite) Test_CurrentUser_NeverLeaksPasswordHash() {
	token := s.register()

	rr := s.do(http.MethodGet, "/api/auth", token, nil)
	require.Equal(s.T(), http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(s.T(), "john@example.com", resp["email"])
	assert.NotContains(s.T(), resp, "password")
	assert.Contains(s.T(), resp, "avatar")
}

func (s *APITestSuite) Test_ProfileMe_MissingProfileIs400() {
	token := s.register()

	rr := s.do(http.MethodGet, "/api/profile/me", token, nil)
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
	assert.JSONEq(s.T(), `{"msg":"There is no profile for this user."}`, rr.Body.String())
}

func (s *APITestSuite) Test_ProfileUpsert_ValidatesAndStores() {
	token := s.register()

	rr := s.do(http.MethodPost, "/api/profile", token, gin.H{})
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
	assert.JSONEq(s.T(), `{"errors":[{"msg":"Status is required.","param":"status"},{"msg":"Skills is required","param":"skills"}]}`, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/profile", token, gin.H{
		"status": "Developer", "skills": "JS, Node ,CSS",
	})
	require.Equal(s.T(), http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(s.T(), []any{"JS", "Node", "CSS"}, resp["skills"])
}

func (s *APITestSuite) Test_ProfileByUser_MalformedIDIs400() {
	rr := s.do(http.MethodGet, "/api/profile/user/not-an-id", "", nil)
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
	assert.JSONEq(s.T(), `{"msg":"Profile not found."}`, rr.Body.String())
}

func (s *APITestSuite) Test_ProfileList_EmptyArray() {
	rr := s.do(http.MethodGet, "/api/profile", "", nil)
	require.Equal(s.T(), http.StatusOK, rr.Code)
	assert.JSONEq(s.T(), `[]`, rr.Body.String())
}

func (s *APITestSuite) Test_DeleteAccount_RemovesEverything() {
	token := s.register()

	rr := s.do(http.MethodPost, "/api/profile", token, gin.H{"status": "Dev", "skills": "JS"})
	require.Equal(s.T(), http.StatusOK, rr.Code)

	rr = s.do(http.MethodPost, "/api/posts", token, gin.H{"text": "hello"})
	require.Equal(s.T(), http.StatusOK, rr.Code)

	rr = s.do(http.MethodDelete, "/api/profile", token, nil)
	require.Equal(s.T(), http.StatusOK, rr.Code)
	assert.Equal(s.T(), "Profile Deleted", rr.Body.String())

	assert.Empty(s.T(), s.userRepo.users)
	assert.Empty(s.T(), s.postRepo.posts)
}

func (s *APITestSuite) Test_Posts_CreateGetLikeComment() {
	token := s.register()

	rr := s.do(http.MethodPost, "/api/posts", token, gin.H{"text": "hello world"})
	require.Equal(s.T(), http.StatusOK, rr.Code)

	var created map[string]any
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &created))
	postID := created["_id"].(string)
	assert.Equal(s.T(), "John Doe", created["name"])

	rr = s.do(http.MethodGet, "/api/posts/"+postID, token, nil)
	assert.Equal(s.T(), http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, "/api/posts/"+primitive.NewObjectID().Hex(), token, nil)
	assert.Equal(s.T(), http.StatusNotFound, rr.Code)
	assert.JSONEq(s.T(), `{"msg":"Post not found."}`, rr.Body.String())

	rr = s.do(http.MethodPut, "/api/posts/like/"+postID, token, nil)
	require.Equal(s.T(), http.StatusOK, rr.Code)
	var likes []map[string]any
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &likes))
	assert.Len(s.T(), likes, 1)

	rr = s.do(http.MethodPut, "/api/posts/like/"+postID, token, nil)
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
	assert.JSONEq(s.T(), `{"msg":"Post already liked"}`, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/posts/comment/"+postID, token, gin.H{"text": "nice"})
	require.Equal(s.T(), http.StatusOK, rr.Code)
	var comments []map[string]any
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &comments))
	require.Len(s.T(), comments, 1)
	assert.Equal(s.T(), "nice", comments[0]["text"])
}

func (s *APITestSuite) Test_Posts_DeleteRequiresOwnership() {
	token := s.register()

	rr := s.do(http.MethodPost, "/api/posts", token, gin.H{"text": "mine"})
	require.Equal(s.T(), http.StatusOK, rr.Code)
	var created map[string]any
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &created))
	postID := created["_id"].(string)

	otherRR := s.do(http.MethodPost, "/api/users", "", gin.H{
		"name": "Jane", "email": "jane@example.com", "password": "secret123",
	})
	require.Equal(s.T(), http.StatusOK, otherRR.Code)
	var otherResp map[string]string
	require.NoError(s.T(), json.Unmarshal(otherRR.Body.Bytes(), &otherResp))

	rr = s.do(http.MethodDelete, "/api/posts/"+postID, otherResp["token"], nil)
	assert.Equal(s.T(), http.StatusUnauthorized, rr.Code)
	assert.JSONEq(s.T(), `{"msg":"User not authorized"}`, rr.Body.String())

	rr = s.do(http.MethodDelete, "/api/posts/"+postID, token, nil)
	assert.Equal(s.T(), http.StatusOK, rr.Code)
	assert.JSONEq(s.T(), `{"msg":"Post removed"}`, rr.Body.String())
}
