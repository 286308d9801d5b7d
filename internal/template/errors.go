package template

import "errors"

var (
	// ErrTemplateNotFound is returned when a lookup by name misses.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrTemplateExists is returned by Create when the resolved name is
	// already taken and force was not requested.
	ErrTemplateExists = errors.New("template already exists")

	// ErrInvalidTemplateDir covers both a Create source path that is
	// missing or not a directory, and an Expand destination that
	// already exists.
	ErrInvalidTemplateDir = errors.New("invalid template directory")

	// ErrInvalidArgument is returned when commands or file-tree listing
	// is requested without naming a specific template.
	ErrInvalidArgument = errors.New("invalid argument")
)
