package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/lionbidapp/lionbid-server/internal/errors"
	"github.com/lionbidapp/lionbid-server/internal/validation"
)

type TestRequest struct {
	Bidder string `json:"bidder" validate:"required,max=120"`
	Email  string `json:"email" validate:"required,email"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Bidder: "Test Bidder",
		Email:  "test@example.com",
		Amount: 9801,
	}

	err := v.Validate(req)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       TestRequest
		wantField string
	}{
		{
			name: "missing required field",
			req: TestRequest{
				Bidder: "", // Missing
				Email:  "test@example.com",
				Amount: 9801,
			},
			wantField: "bidder",
		},
		{
			name: "invalid email",
			req: TestRequest{
				Bidder: "Test Bidder",
				Email:  "not-an-email",
				Amount: 9801,
			},
			wantField: "email",
		},
		{
			name: "non-positive amount",
			req: TestRequest{
				Bidder: "Test Bidder",
				Email:  "test@example.com",
				Amount: -5,
			},
			wantField: "amount",
		},
		{
			name: "bidder name too long",
			req: TestRequest{
				Bidder: string(make([]byte, 121)),
				Email:  "test@example.com",
				Amount: 9801,
			},
			wantField: "bidder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var appErr *apperrors.Error
			if assert.True(t, errors.As(err, &appErr)) {
				assert.Equal(t, apperrors.CodeValidation, appErr.Code)

				details, ok := appErr.Details.(map[string]string)
				if assert.True(t, ok, "details should be a field error map") {
					assert.Contains(t, details, tt.wantField)
				}
			}
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Bidder: "Test Bidder",
		Email:  "",
		Amount: 9801,
	}

	err := v.Validate(req)
	assert.Error(t, err)

	var appErr *apperrors.Error
	assert.True(t, errors.As(err, &appErr))

	details, ok := appErr.Details.(map[string]string)
	assert.True(t, ok, "details should be a field error map")

	// Should use JSON tag name "email", not struct field name "Email"
	assert.Contains(t, details, "email")
	assert.NotContains(t, details, "Email")
}
