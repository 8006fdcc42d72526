package propframe

import (
	"errors"
)

// Library errors
var (
	// Frame errors
	ErrProviderNotFound   = errors.New("no provider found for property")
	ErrFrameCycle         = errors.New("frame parent chain contains a cycle")
	ErrUnknownParentFrame = errors.New("parent frame not defined")
	ErrFrameDirNotFound   = errors.New("frame directory does not exist")

	// Resolution errors
	ErrPropertyUnresolved = errors.New("property unresolved")

	// Schema and binding errors
	ErrTargetNotStructPointer     = errors.New("target must be a non-nil pointer to a struct")
	ErrRequiredPropertyUnresolved = errors.New("required property unresolved")
	ErrIncompatiblePropertyType   = errors.New("incompatible property value type")

	// Scope errors
	ErrScopeExhausted = errors.New("no scope to exit")

	// Document errors
	ErrFrontMatterUnterminated = errors.New("front matter block is not terminated")

	// Watcher errors
	ErrWatcherAlreadyStarted = errors.New("frame watcher already started")
)
