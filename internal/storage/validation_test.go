package storage

import (
	"strings"
	"testing"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateMeta(t *testing.T) {
	day := model.NewDate(2024, 1, 1)

	tests := []struct {
		wantErr error
		name    string
		meta    model.ApprovalMeta
	}{
		{name: "empty", meta: model.ApprovalMeta{}},
		{name: "approval only", meta: model.ApprovalMeta{ApprovalDate: &day}},
		{name: "rejection with reason", meta: model.ApprovalMeta{RejectionDate: &day, RejectionReason: "late"}},
		{name: "reason without date", meta: model.ApprovalMeta{RejectionReason: "late"}, wantErr: ErrInvalidMeta},
		{
			name:    "reason too long",
			meta:    model.ApprovalMeta{RejectionDate: &day, RejectionReason: strings.Repeat("x", maxReasonLength+1)},
			wantErr: ErrReasonTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMeta(tt.meta)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, validateID(1))
	assert.ErrorIs(t, validateID(0), common.ErrInvalidID)
	assert.ErrorIs(t, validateString("", "name"), ErrEmptyString)
}
