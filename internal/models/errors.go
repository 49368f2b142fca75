package models

import "errors"

// Sentinel errors shared by the solution and project packages.
var (
	// ErrFileNotFound indicates a solution or project file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidProjectFile indicates a project file lacks a usable ProjectGuid.
	ErrInvalidProjectFile = errors.New("invalid project file")

	// ErrUnsupportedProjectType indicates an unrecognized project file extension.
	ErrUnsupportedProjectType = errors.New("unsupported project type")

	// ErrProjectNotFound indicates a project is absent from a solution.
	ErrProjectNotFound = errors.New("project not found")

	// ErrParse indicates the solution grammar rejected a file.
	ErrParse = errors.New("parse error")

	// ErrMandatorySectionMissing indicates the ProjectConfigurationPlatforms
	// section is absent.
	ErrMandatorySectionMissing = errors.New("mandatory section missing")

	// ErrDependencyCycle indicates project references form a cycle.
	ErrDependencyCycle = errors.New("dependency cycle")

	// ErrMalformedConfigKey indicates a build-config key without a
	// Config|Platform segment.
	ErrMalformedConfigKey = errors.New("malformed build config key")
)
