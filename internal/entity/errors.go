package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotInitialized  = errors.New("token store not initialized")
	ErrAuth            = errors.New("auth failed")
	ErrRemote          = errors.New("remote service error")
)

// MissingItemsError lists every requested item id absent from the catalog.
type MissingItemsError struct {
	IDs []string
}

func (e *MissingItemsError) Error() string {
	return fmt.Sprintf("items not found: %s", strings.Join(e.IDs, ", "))
}

func (e *MissingItemsError) Is(target error) bool {
	return target == ErrNotFound
}
