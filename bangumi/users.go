package bangumi

import (
	"context"
	"net/http"
)

const (
	opGetUser       = "get user"
	opGetUserAvatar = "get user avatar"
	opGetMe         = "get me"
)

// GetUser retrieves a user by username
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, missingField(opGetUser, "username")
	}
	var out User
	req := &Request{Method: http.MethodGet, Path: userPath(username)}
	if err := c.doJSON(ctx, opGetUser, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserAvatar downloads a user's avatar. Avatars only come in small,
// medium and large.
func (c *Client) GetUserAvatar(ctx context.Context, username string, size ImageType) ([]byte, error) {
	missing := ""
	if username == "" {
		missing = "username"
	}
	req, err := imageRequest(opGetUserAvatar, userPath(username, "avatar"), missing, size, avatarImageTypes)
	if err != nil {
		return nil, err
	}
	return c.doBytes(ctx, opGetUserAvatar, req)
}

// GetMe retrieves the user the access token belongs to
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	if c.token == "" {
		return nil, newError(KindBuilder, opGetMe, ErrTokenRequired)
	}
	var out User
	req := &Request{Method: http.MethodGet, Path: "/v0/me"}
	if err := c.doJSON(ctx, opGetMe, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
