package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nhle/inspection/internal/model"
)

// Login exchanges credentials for a bearer token. The token is returned,
// not stored; the caller decides where it lives.
func (c *Client) Login(ctx context.Context, username, password string) (model.Token, error) {
	form := url.Values{
		"username": []string{username},
		"password": []string{password},
	}
	req := request{
		op:          opLogin,
		method:      http.MethodPost,
		path:        "/auth/token",
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		anonymous:   true,
	}

	var tok model.Token
	if err := c.do(ctx, req, &tok); err != nil {
		return model.Token{}, err
	}
	if tok.AccessToken == "" {
		c.logger.Error("login response carried no access token")
		return model.Token{}, failed(opLogin)
	}
	return tok, nil
}

// Register creates a user account.
func (c *Client) Register(ctx context.Context, reg model.Registration) (model.User, error) {
	req, err := jsonRequest(opRegister, http.MethodPost, "/auth/register", reg)
	if err != nil {
		return model.User{}, failed(opRegister)
	}
	req.anonymous = true

	var user model.User
	if err := c.do(ctx, req, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// CurrentUser returns the profile of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	var user model.User
	err := c.do(ctx, request{
		op:     opCurrentUser,
		method: http.MethodGet,
		path:   "/auth/users/me",
	}, &user)
	return user, err
}
