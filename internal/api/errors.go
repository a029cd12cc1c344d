package api

import (
	"errors"
	"fmt"
)

// AuthenticationError indicates that login was rejected or the API refused
// the bearer token. Callers should clear the session.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error: %s", e.Message)
}

// OperationFailed is the single error surfaced for any failed request other
// than an authentication failure. Message is safe to show to the user; the
// underlying cause is logged, never embedded.
type OperationFailed struct {
	Op      string
	Message string
}

func (e *OperationFailed) Error() string {
	return e.Message
}

// IsAuthError reports whether err (or any error in its chain) is an
// AuthenticationError.
func IsAuthError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsOperationFailed reports whether err (or any error in its chain) is an
// OperationFailed.
func IsOperationFailed(err error) bool {
	var opErr *OperationFailed
	return errors.As(err, &opErr)
}

// Operation names, used for logging and to pick the user-facing message.
const (
	opLogin              = "login"
	opRegister           = "register"
	opCurrentUser        = "current_user"
	opListInstallations  = "list_installations"
	opGetInstallation    = "get_installation"
	opCreateInstallation = "create_installation"
	opUpdateInstallation = "update_installation"
	opDeleteInstallation = "delete_installation"
	opListTasks          = "list_tasks"
	opGetTask            = "get_task"
	opCreateTask         = "create_task"
	opUpdateTask         = "update_task"
	opDeleteTask         = "delete_task"
	opListTests          = "list_tests"
	opGetTest            = "get_test"
	opCreateTest         = "create_test"
	opUpdateTest         = "update_test"
	opDeleteTest         = "delete_test"
	opUploadImage        = "upload_image"
)

const (
	msgNotLoggedIn    = "Not logged in"
	msgSessionExpired = "Session expired, please log in again"
	msgLoginRejected  = "Incorrect username or password"
)

var opMessages = map[string]string{
	opLogin:              "Could not log in",
	opRegister:           "Could not create account",
	opCurrentUser:        "Could not fetch user profile",
	opListInstallations:  "Could not fetch installations",
	opGetInstallation:    "Could not fetch installation",
	opCreateInstallation: "Could not create installation",
	opUpdateInstallation: "Could not update installation",
	opDeleteInstallation: "Could not delete installation",
	opListTasks:          "Could not fetch tasks",
	opGetTask:            "Could not fetch task",
	opCreateTask:         "Could not create task",
	opUpdateTask:         "Could not update task",
	opDeleteTask:         "Could not delete task",
	opListTests:          "Could not fetch tests",
	opGetTest:            "Could not fetch test",
	opCreateTest:         "Could not create test",
	opUpdateTest:         "Could not update test",
	opDeleteTest:         "Could not delete test",
	opUploadImage:        "Could not upload image",
}

func failed(op string) *OperationFailed {
	msg, ok := opMessages[op]
	if !ok {
		msg = "Something went wrong"
	}
	return &OperationFailed{Op: op, Message: msg}
}

// UserMessage returns the text to display for err.
func UserMessage(err error) string {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	var opErr *OperationFailed
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return "Something went wrong"
}
