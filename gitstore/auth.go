package gitstore

import (
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// TokenAuth authenticates HTTPS remotes with a personal access token.
type TokenAuth struct {
	Token string
}

// Method returns basic auth with the token as password, the form GitHub
// expects for PAT access over HTTPS.
func (a *TokenAuth) Method(remoteURL string) (transport.AuthMethod, error) {
	if a.Token == "" {
		return nil, ErrAuthRequired
	}
	return &githttp.BasicAuth{Username: "token", Password: a.Token}, nil
}
