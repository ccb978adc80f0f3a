package services

import "errors"

var (
	// ErrBadRequest marks input the caller must correct.
	ErrBadRequest = errors.New("bad request")
	// ErrProviderNotConfigured is returned by Suggest when no Gemini API key was supplied.
	ErrProviderNotConfigured = errors.New("ai provider not configured")
	// ErrProvider wraps any failure talking to the AI provider.
	ErrProvider = errors.New("ai provider error")
	// ErrMetadataProvider wraps any failure talking to TMDb.
	ErrMetadataProvider = errors.New("metadata provider error")
)
