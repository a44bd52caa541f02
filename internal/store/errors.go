package store

import domainerrors "github.com/recipehub/recipehub-server/internal/errors"

// Sentinel errors. They carry domain codes so handlers can map them
// directly; match them with errors.Is on the code sentinel
// (domainerrors.ErrNotFound) or on the value itself.
var (
	ErrNotFound         = domainerrors.NotFound("resource not found")
	ErrAlreadyExists    = domainerrors.Conflict("resource already exists")
	ErrBookNotFound     = domainerrors.NotFound("Book not found")
	ErrRecipeNotFound   = domainerrors.NotFound("Recipe not found")
	ErrVersionNotFound  = domainerrors.NotFound("Version not found")
	ErrTooManyConflicts = domainerrors.Conflict("too many concurrent updates, please retry")
)
