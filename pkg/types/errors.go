package types

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups for absent entities. Callers translate
// it to a structured "not found" signal; it is never a programming error.
var ErrNotFound = errors.New("not found")

// InvalidDeclarationError indicates an object's declaration line did not
// match `OBJECT <kind> <id> <name>`. Fatal for that one object only.
type InvalidDeclarationError struct {
	Line   string
	Reason string
}

func (e *InvalidDeclarationError) Error() string {
	return fmt.Sprintf("invalid object declaration %q: %s", e.Line, e.Reason)
}

// MissingSectionError indicates a section required by the object's kind was
// absent or unterminated.
type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("missing section %s", e.Section)
}

// MalformedHierarchyError indicates a tree-section item whose indentation
// has no valid parent under the level-stack algorithm.
type MalformedHierarchyError struct {
	Section string
	Item    string
}

func (e *MalformedHierarchyError) Error() string {
	return fmt.Sprintf("malformed hierarchy in %s at item %q: no open level matches indentation", e.Section, e.Item)
}

// KindMismatchError indicates object text was handed to a body parser for a
// different kind.
type KindMismatchError struct {
	Want ObjectKind
	Got  ObjectKind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("kind mismatch: parser for %s received %s object", e.Want, e.Got)
}
