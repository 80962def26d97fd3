package errors

import "fmt"

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file is invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, fmt.Sprintf("validation failed: %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("reason", reason)
}

// Content errors

func ParseFailed(path string, cause error) *SiteError {
	return Wrap(cause, CategoryParse, SeverityFatal, "frontmatter parse failed").
		WithContext("path", path)
}

func RenderFailed(path string, cause error) *SiteError {
	return Wrap(cause, CategoryRender, SeverityFatal, "page render failed").
		WithContext("path", path)
}

// Filesystem errors

func FilesystemFailed(operation, path string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, operation+" failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// Network errors

func FetchFailed(url string, cause error) *SiteError {
	return Wrap(cause, CategoryNetwork, SeverityFatal, "remote fetch failed").
		WithContext("url", url)
}

func HTTPStatus(url string, status int) *SiteError {
	return New(CategoryNetwork, SeverityFatal, fmt.Sprintf("unexpected HTTP status %d", status)).
		WithContext("url", url).
		WithContext("status", status)
}

// Build pipeline errors

func BuildFailed(stage string, cause error) *SiteError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
