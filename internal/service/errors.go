package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation matches every *AlertError via errors.Is.
	ErrValidation = errors.New("invalid input")
)

// AlertError is a client input error identified by entity name and error key,
// e.g. quest/idexists.
type AlertError struct {
	Entity  string
	Key     string
	Message string
}

func (e *AlertError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.Key, e.Message)
}

func (e *AlertError) Is(target error) bool {
	return target == ErrValidation
}

func alert(entity, key, msg string) error {
	return &AlertError{Entity: entity, Key: key, Message: msg}
}

// checkIDs applies the update/patch rules: the body must carry an id and it
// must match the path id.
func checkIDs(entity string, pathID int64, bodyID *int64) error {
	if bodyID == nil {
		return alert(entity, "idnull", "Invalid id")
	}
	if *bodyID != pathID {
		return alert(entity, "idinvalid", "Invalid ID")
	}
	return nil
}
