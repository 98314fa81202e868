package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	githubUC "github.com/allandacasin/devconnector-api/internal/application/usecase/github"
)

type GithubHandler struct {
	lookupReposUseCase *githubUC.LookupReposUseCase
}

func NewGithubHandler(lookupUC *githubUC.LookupReposUseCase) *GithubHandler {
	return &GithubHandler{lookupReposUseCase: lookupUC}
}

// Repos handles GET /api/profile/github/:username. The upstream payload
// is relayed untouched.
func (h *GithubHandler) Repos(c *gin.Context) {
	body, err := h.lookupReposUseCase.Execute(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
