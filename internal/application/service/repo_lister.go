package service

import (
	"context"
	"encoding/json"
)

// RepoLister looks up a user's repositories on an external code-hosting
// platform. The payload is passed through unreshaped, so the result is
// raw JSON rather than a typed list.
type RepoLister interface {
	ListRepos(ctx context.Context, username string) (json.RawMessage, error)
}
