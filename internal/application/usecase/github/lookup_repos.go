package github

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/allandacasin/devconnector-api/internal/application/service"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
)

type LookupReposUseCase struct {
	repoLister service.RepoLister
}

func NewLookupReposUseCase(lister service.RepoLister) *LookupReposUseCase {
	return &LookupReposUseCase{repoLister: lister}
}

// Execute proxies the lookup to the external platform. The response body
// is returned as-is; only errors are translated.
func (uc *LookupReposUseCase) Execute(ctx context.Context, username string) (json.RawMessage, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.NewNotFound("No Github profile found.")
	}
	return uc.repoLister.ListRepos(ctx, username)
}
