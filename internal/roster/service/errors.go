package service

import (
	"errors"

	dErrors "canvass/pkg/domain-errors"
	"canvass/pkg/platform/sentinel"
)

func isNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}

// notFoundOrInternal maps a store read failure to the domain error surface.
func notFoundOrInternal(err error, notFoundMsg, internalMsg string) error {
	if isNotFound(err) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}
