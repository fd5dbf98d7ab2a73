package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the render backend is unreachable
	ErrServerOffline = errors.New("render backend is unreachable")

	// ErrAuthFailed indicates the API token was rejected
	ErrAuthFailed = errors.New("API token is invalid")

	// ErrNotFound indicates the backend or project has no such resource
	ErrNotFound = errors.New("not found")

	// ErrProjectNotFound indicates no saved project has the requested name
	ErrProjectNotFound = errors.New("project not found")

	// ErrSceneIndex indicates a scene index outside the project
	ErrSceneIndex = errors.New("scene index out of range")

	// ErrInvalidProject indicates the project cannot be rendered as-is
	ErrInvalidProject = errors.New("invalid project")
)

// RemoteError carries the error message reported by the backend
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error (status %d)", e.Status)
	}
	return e.Message
}
