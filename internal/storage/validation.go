// Package storage persists approval metadata the gateway cannot store yet.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrInvalidMeta   = errors.New("invalid approval metadata")
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrReasonTooLong = errors.New("rejection reason too long")
)

const maxReasonLength = 2000

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", common.ErrInvalidID, id)
	}
	return nil
}

// validateMeta rejects metadata that could not have come from a decision.
func validateMeta(meta model.ApprovalMeta) error {
	if meta.RejectionReason != "" && meta.RejectionDate == nil {
		return fmt.Errorf("%w: rejection reason without rejection date", ErrInvalidMeta)
	}
	if len(meta.RejectionReason) > maxReasonLength {
		return fmt.Errorf("%w: %d characters", ErrReasonTooLong, len(meta.RejectionReason))
	}
	return nil
}
