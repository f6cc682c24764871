package errors

// Convenience functions for common error patterns

// Parser errors

// MissingDocstring is raised when an example lacks the mandatory leading
// documentation string.
func MissingDocstring(path string) *GalleriaError {
	return New(CategoryParse, SeverityFatal, "example has no module docstring").
		WithContext("path", path)
}

func TitleNotFound(path string) *GalleriaError {
	return New(CategoryParse, SeverityFatal, "example docstring has no title paragraph").
		WithContext("path", path)
}

// Configuration errors

func ConfigNotFound(path string) *GalleriaError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *GalleriaError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// ThumbnailNumberNotInt flags a file-local thumbnail index directive that did
// not parse to an integer. Fatal for that file's thumbnail step.
func ThumbnailNumberNotInt(path string, value any) *GalleriaError {
	return New(CategoryConfig, SeverityFatal, "thumbnail_number setting is not an integer").
		WithContext("path", path).
		WithContext("value", value)
}

// Execution errors

// ExampleAborted escalates a per-block failure to a run-level failure when the
// abort-on-error policy is set.
func ExampleAborted(path string, cause error) *GalleriaError {
	return Wrap(cause, CategoryExecution, SeverityFatal, "example failed and abort on error is set").
		WithContext("path", path)
}

// Artifact errors

func ArtifactError(operation string, cause error) *GalleriaError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "artifact operation failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *GalleriaError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
