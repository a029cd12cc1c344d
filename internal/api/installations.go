package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nhle/inspection/internal/model"
)

func installationPath(id string) string {
	return "/installations/" + url.PathEscape(id)
}

// ListInstallations fetches one page of installations.
func (c *Client) ListInstallations(ctx context.Context, opts ListOptions) ([]model.Installation, error) {
	var out []model.Installation
	err := c.do(ctx, request{
		op:     opListInstallations,
		method: http.MethodGet,
		path:   "/installations",
		query:  opts.values(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetInstallation fetches a single installation.
func (c *Client) GetInstallation(ctx context.Context, id string) (model.Installation, error) {
	var out model.Installation
	err := c.do(ctx, request{
		op:     opGetInstallation,
		method: http.MethodGet,
		path:   installationPath(id),
	}, &out)
	return out, err
}

// CreateInstallation creates an installation with a caller-chosen ID.
func (c *Client) CreateInstallation(ctx context.Context, in model.InstallationCreate) (model.Installation, error) {
	req, err := jsonRequest(opCreateInstallation, http.MethodPost, "/installations", in)
	if err != nil {
		return model.Installation{}, failed(opCreateInstallation)
	}
	var out model.Installation
	err = c.do(ctx, req, &out)
	return out, err
}

// UpdateInstallation sends only the fields set in upd.
func (c *Client) UpdateInstallation(ctx context.Context, id string, upd model.InstallationUpdate) (model.Installation, error) {
	req, err := jsonRequest(opUpdateInstallation, http.MethodPut, installationPath(id), upd)
	if err != nil {
		return model.Installation{}, failed(opUpdateInstallation)
	}
	var out model.Installation
	err = c.do(ctx, req, &out)
	return out, err
}

// DeleteInstallation deletes an installation. The server also removes its
// tests.
func (c *Client) DeleteInstallation(ctx context.Context, id string) error {
	return c.do(ctx, request{
		op:     opDeleteInstallation,
		method: http.MethodDelete,
		path:   installationPath(id),
	}, nil)
}
