package assign

import (
	"errors"
	"fmt"
)

// ConditionCode categorizes randomization conditions.
type ConditionCode string

const (
	// CodeDuplicateID indicates the identifier column is not unique.
	CodeDuplicateID ConditionCode = "DUPLICATE_ID"

	// CodeMissingField indicates a configured id or stratify field does not
	// exist in the input table. Always fatal before any draw.
	CodeMissingField ConditionCode = "MISSING_FIELD"

	// CodeNoSeed indicates no seed was configured. The run proceeds but is
	// not reproducible.
	CodeNoSeed ConditionCode = "NO_SEED"

	// CodeInvalidFraction indicates a split fraction outside (0,1).
	CodeInvalidFraction ConditionCode = "INVALID_FRACTION"

	// CodeInvalidArms indicates fewer than two arms or duplicate arm labels.
	CodeInvalidArms ConditionCode = "INVALID_ARMS"

	// CodeEmptyDataset indicates the input has no rows.
	CodeEmptyDataset ConditionCode = "EMPTY_DATASET"
)

// ConditionError is a condition detected before or during the pipeline pass.
//
// Fatal conditions abort before any randomization occurs; a partial
// assignment is never produced. Non-fatal conditions (NO_SEED, and
// DUPLICATE_ID under an explicit override) are carried on the Result as
// warnings instead.
type ConditionError struct {
	// Code identifies the condition category.
	Code ConditionCode

	// Message is a human-readable description.
	Message string

	// Field names the offending column, when one exists.
	Field string

	// Details contains additional context.
	Details map[string]string
}

// Error implements the error interface.
func (e *ConditionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDuplicateID reports whether err is a duplicate-identifier condition.
// Uses errors.As to handle wrapped errors.
func IsDuplicateID(err error) bool {
	var ce *ConditionError
	return errors.As(err, &ce) && ce.Code == CodeDuplicateID
}

// IsMissingField reports whether err is a missing-field condition.
func IsMissingField(err error) bool {
	var ce *ConditionError
	return errors.As(err, &ce) && ce.Code == CodeMissingField
}

// NewDuplicateIDError creates a ConditionError for a non-unique id column.
func NewDuplicateIDError(field string, count int) *ConditionError {
	return &ConditionError{
		Code:    CodeDuplicateID,
		Message: fmt.Sprintf("identifier column is not unique (%d duplicate rows)", count),
		Field:   field,
		Details: map[string]string{"duplicates": fmt.Sprintf("%d", count)},
	}
}

// NewMissingFieldError creates a ConditionError for an absent column.
func NewMissingFieldError(field string) *ConditionError {
	return &ConditionError{
		Code:    CodeMissingField,
		Message: "configured field does not exist in the input table",
		Field:   field,
	}
}

// NewNoSeedError creates the NO_SEED warning condition.
func NewNoSeedError() *ConditionError {
	return &ConditionError{
		Code:    CodeNoSeed,
		Message: "no seed configured; this run is not reproducible",
	}
}
