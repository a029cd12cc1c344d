package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/nhle/inspection/internal/model"
)

func testPath(id int64) string {
	return "/tests/" + strconv.FormatInt(id, 10)
}

// ListTests fetches one page of tests across all installations.
func (c *Client) ListTests(ctx context.Context, opts ListOptions) ([]model.Test, error) {
	var out []model.Test
	err := c.do(ctx, request{
		op:     opListTests,
		method: http.MethodGet,
		path:   "/tests",
		query:  opts.values(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TestsByInstallation fetches the tests recorded against one installation.
func (c *Client) TestsByInstallation(ctx context.Context, installationID string, opts ListOptions) ([]model.Test, error) {
	var out []model.Test
	err := c.do(ctx, request{
		op:     opListTests,
		method: http.MethodGet,
		path:   "/tests/installation/" + url.PathEscape(installationID),
		query:  opts.values(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetTest fetches a single test.
func (c *Client) GetTest(ctx context.Context, id int64) (model.Test, error) {
	var out model.Test
	err := c.do(ctx, request{
		op:     opGetTest,
		method: http.MethodGet,
		path:   testPath(id),
	}, &out)
	return out, err
}

// CreateTest records a test. The server assigns ID, Timestamp and Status.
func (c *Client) CreateTest(ctx context.Context, in model.TestCreate) (model.Test, error) {
	req, err := jsonRequest(opCreateTest, http.MethodPost, "/tests", in)
	if err != nil {
		return model.Test{}, failed(opCreateTest)
	}
	var out model.Test
	err = c.do(ctx, req, &out)
	return out, err
}

// UpdateTest sends only the fields set in upd.
func (c *Client) UpdateTest(ctx context.Context, id int64, upd model.TestUpdate) (model.Test, error) {
	req, err := jsonRequest(opUpdateTest, http.MethodPut, testPath(id), upd)
	if err != nil {
		return model.Test{}, failed(opUpdateTest)
	}
	var out model.Test
	err = c.do(ctx, req, &out)
	return out, err
}

// DeleteTest deletes a test.
func (c *Client) DeleteTest(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		op:     opDeleteTest,
		method: http.MethodDelete,
		path:   testPath(id),
	}, nil)
}

// UploadTestImage uploads a photo for a test and returns the server path to
// store in the test's ImagePath.
func (c *Client) UploadTestImage(ctx context.Context, filename string, r io.Reader) (model.UploadedImage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		c.logger.Error("creating multipart part", zap.Error(err))
		return model.UploadedImage{}, failed(opUploadImage)
	}
	if _, err := io.Copy(part, r); err != nil {
		c.logger.Error("reading image", zap.String("file", filename), zap.Error(err))
		return model.UploadedImage{}, failed(opUploadImage)
	}
	if err := mw.Close(); err != nil {
		c.logger.Error("closing multipart body", zap.Error(err))
		return model.UploadedImage{}, failed(opUploadImage)
	}

	var out model.UploadedImage
	err = c.do(ctx, request{
		op:          opUploadImage,
		method:      http.MethodPost,
		path:        "/tests/upload-image",
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
	}, &out)
	return out, err
}
