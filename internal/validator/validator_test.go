package validator

import (
	"errors"
	"testing"
	"time"

	"finance-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string  `json:"name" validate:"required,notblank,max=10"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	Date     string  `json:"date" validate:"omitempty,isodate"`
	Currency string  `json:"currency" validate:"omitempty,currency"`
	Kind     string  `json:"kind" validate:"required,oneof=income expense"`
}

func TestStructCollectsFieldErrors(t *testing.T) {
	err := Struct(sample{Name: "   ", Amount: 0, Date: "yesterday", Currency: "XXX", Kind: "gift"})
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got := map[string]string{}
	for _, f := range verr.Fields {
		got[f.Field] = f.Message
	}
	assert.Equal(t, "name must not be blank", got["name"])
	assert.Equal(t, "amount must be greater than 0", got["amount"])
	assert.Equal(t, "date must be a valid date", got["date"])
	assert.Contains(t, got["currency"], "currency must be one of")
	assert.Equal(t, "kind must be one of [income expense]", got["kind"])
}

func TestStructAcceptsValidInput(t *testing.T) {
	err := Struct(sample{Name: "Food", Amount: 12.5, Date: "2024-06-05", Currency: "EUR", Kind: "expense"})
	assert.NoError(t, err)
}

func TestStringLengthMessages(t *testing.T) {
	err := Struct(sample{Name: "far too long a name", Amount: 1, Kind: "income"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name cannot exceed 10 characters", verr.Fields[0].Message)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-06-05T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 5, 8, 30, 0, 0, time.UTC), d)

	_, err = ParseDate("05/06/2024")
	assert.Error(t, err)
}

func TestMoneyTag(t *testing.T) {
	type price struct {
		Amount float64 `json:"amount" validate:"gt=0,money"`
	}
	for _, ok := range []float64{1, 12.5, 12.34, 0.01, 1000000} {
		assert.NoError(t, Struct(price{Amount: ok}), "%v", ok)
	}
	for _, bad := range []float64{0.005, 12.345, 0.004} {
		err := Struct(price{Amount: bad})
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr), "%v", bad)
		assert.Equal(t, "amount cannot have more than 2 decimal places", verr.Fields[0].Message)
	}
}
