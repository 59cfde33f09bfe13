package validation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb/internal/apperr"
	"yamdb/internal/validation"
)

type signup struct {
	Username string `json:"username" validate:"required,max=150,username,notme"`
	Email    string `json:"email" validate:"required,max=254,email"`
}

type title struct {
	Name string `json:"name" validate:"required,max=256"`
	Year int    `json:"year" validate:"required,notfutureyear"`
	Slug string `json:"slug" validate:"omitempty,slug"`
}

func fixedClock(year int) func() time.Time {
	return func() time.Time { return time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC) }
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	v := validation.New(nil)

	err := v.Struct(signup{})
	require.Error(t, err)

	fields := apperr.Fields(err)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
	assert.True(t, errors.Is(err, apperr.RequiredFieldMissing))
}

func TestStruct_ReservedUsername(t *testing.T) {
	v := validation.New(nil)

	for _, name := range []string{"me", "Me", "ME", "mE"} {
		err := v.Struct(signup{Username: name, Email: "me@example.com"})
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, apperr.InvalidUsername), name)
	}
	assert.NoError(t, v.Struct(signup{Username: "meme", Email: "me@example.com"}))
}

func TestStruct_UsernamePattern(t *testing.T) {
	v := validation.New(nil)

	assert.NoError(t, v.Struct(signup{Username: "john.doe+1@home-", Email: "j@example.com"}))

	for _, name := range []string{"Кирилл", "józef", "user_٣"} {
		assert.NoError(t, v.Struct(signup{Username: name, Email: "j@example.com"}), name)
	}

	for _, name := range []string{"john doe", "a b", "semi;colon", "emoji🙂"} {
		err := v.Struct(signup{Username: name, Email: "j@example.com"})
		assert.True(t, errors.Is(err, apperr.InvalidUsername), name)
	}

	err := v.Struct(signup{Username: "bob", Email: "not-an-email"})
	assert.True(t, errors.Is(err, apperr.InvalidEmail))
}

func TestStruct_YearNotInFuture(t *testing.T) {
	v := validation.New(fixedClock(2026))

	assert.NoError(t, v.Struct(title{Name: "Dune", Year: 2026}))

	err := v.Struct(title{Name: "Dune", Year: 2027})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.OutOfRange))
	assert.Equal(t, []string{"Year cannot be greater than the current year."}, apperr.Fields(err)["year"])
}

func TestStruct_YearFollowsClockAcrossNewYear(t *testing.T) {
	now := time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC)
	v := validation.New(func() time.Time { return now })

	assert.Error(t, v.Struct(title{Name: "Dune", Year: 2027}))

	now = now.Add(2 * time.Second)
	assert.NoError(t, v.Struct(title{Name: "Dune", Year: 2027}))
}

func TestStruct_Slug(t *testing.T) {
	v := validation.New(nil)

	assert.NoError(t, v.Struct(title{Name: "x", Year: 1999, Slug: "sci_fi-2"}))

	err := v.Struct(title{Name: "x", Year: 1999, Slug: "sci fi"})
	assert.True(t, errors.Is(err, apperr.InvalidSlug))
}

func TestVar_UsesGivenField(t *testing.T) {
	v := validation.New(nil)

	err := v.Var("confirmation_code", "", "required,max=100")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.RequiredFieldMissing))
	assert.Contains(t, apperr.Fields(err), "confirmation_code")
}
