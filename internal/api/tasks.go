package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nhle/inspection/internal/model"
)

// TaskListOptions filters the task list server-side.
type TaskListOptions struct {
	ListOptions
	Status         model.TaskStatus
	InstallationID string
	AssignedTo     string
}

func (o TaskListOptions) values() url.Values {
	v := o.ListOptions.values()
	if o.Status != "" {
		v.Set("status", string(o.Status))
	}
	if o.InstallationID != "" {
		v.Set("installation_id", o.InstallationID)
	}
	if o.AssignedTo != "" {
		v.Set("assigned_to", o.AssignedTo)
	}
	return v
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

// ListTasks fetches tasks matching opts.
func (c *Client) ListTasks(ctx context.Context, opts TaskListOptions) ([]model.Task, error) {
	var out []model.Task
	err := c.do(ctx, request{
		op:     opListTasks,
		method: http.MethodGet,
		path:   "/tasks",
		query:  opts.values(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetTask fetches a single task.
func (c *Client) GetTask(ctx context.Context, id string) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, request{
		op:     opGetTask,
		method: http.MethodGet,
		path:   taskPath(id),
	}, &out)
	return out, err
}

// CreateTask creates a task. The server assigns ID and CreatedDate.
func (c *Client) CreateTask(ctx context.Context, in model.TaskCreate) (model.Task, error) {
	req, err := jsonRequest(opCreateTask, http.MethodPost, "/tasks", in)
	if err != nil {
		return model.Task{}, failed(opCreateTask)
	}
	var out model.Task
	err = c.do(ctx, req, &out)
	return out, err
}

// UpdateTask sends only the fields set in upd.
func (c *Client) UpdateTask(ctx context.Context, id string, upd model.TaskUpdate) (model.Task, error) {
	req, err := jsonRequest(opUpdateTask, http.MethodPut, taskPath(id), upd)
	if err != nil {
		return model.Task{}, failed(opUpdateTask)
	}
	var out model.Task
	err = c.do(ctx, req, &out)
	return out, err
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, request{
		op:     opDeleteTask,
		method: http.MethodDelete,
		path:   taskPath(id),
	}, nil)
}
