package storage

import (
	"errors"
)

var (
	ErrBuildingQuery = errors.New("error building sql-query")
)

// UpdateOutcome computes matched/modified counts for a single-document update
// given whether the document existed and its current text.
func UpdateOutcome(found bool, current string, next *string) (matched, modified int64) {
	if !found {
		return 0, 0
	}
	if next == nil || *next == current {
		return 1, 0
	}
	return 1, 1
}
