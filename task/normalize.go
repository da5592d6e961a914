package task

import (
	internalstrings "github.com/taskdeck/taskdeck/internal/strings"
	"github.com/taskdeck/taskdeck/internal/validation"
)

// ParseStatus accepts case-insensitive user input for a status.
func ParseStatus(value string) (Status, error) {
	lowered := internalstrings.NormalizeLowerTrimSpace(value)
	for _, valid := range ValidStatuses() {
		if lowered == internalstrings.NormalizeLowerTrimSpace(string(valid)) {
			return valid, nil
		}
	}
	return "", validation.FormatInvalidValueError(ErrInvalidStatus, Status(value), ValidStatuses())
}

// ParsePriority accepts case-insensitive user input for a priority.
func ParsePriority(value string) (Priority, error) {
	lowered := Priority(internalstrings.NormalizeLowerTrimSpace(value))
	if lowered.IsValid() {
		return lowered, nil
	}
	return "", validation.FormatInvalidValueError(ErrInvalidPriority, Priority(value), ValidPriorities())
}

func normalizeStatusInput(status Status) (Status, error) {
	return ParseStatus(string(status))
}

func normalizePriorityInput(priority Priority) (Priority, error) {
	return ParsePriority(string(priority))
}
