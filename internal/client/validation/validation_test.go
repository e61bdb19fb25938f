package validation

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/tiernerd/internal/client/models"
	"github.com/dmitrijs2005/tiernerd/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	require.NoError(t, Login("a@b.com", "x"))

	err := Login("  ", "")
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, "Email is required", err.Error())

	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, []string{"Email is required", "Password is required"}, errs.Messages())
}

func TestRegister(t *testing.T) {
	ok := RegisterForm{Email: "a@b.com", Password: "secret123", Confirm: "secret123"}

	tests := []struct {
		name   string
		mutate func(*RegisterForm)
		want   string
	}{
		{name: "valid", mutate: func(*RegisterForm) {}},
		{name: "valid with username", mutate: func(f *RegisterForm) { f.Username = "alice" }},
		{name: "missing email", mutate: func(f *RegisterForm) { f.Email = "" }, want: "Email is required"},
		{name: "bad email", mutate: func(f *RegisterForm) { f.Email = "not-an-email" }, want: "Please enter a valid email address"},
		{name: "short password", mutate: func(f *RegisterForm) { f.Password, f.Confirm = "short", "short" }, want: "Password must be at least 8 characters"},
		{name: "mismatch", mutate: func(f *RegisterForm) { f.Confirm = "secret124" }, want: "Passwords do not match"},
		{name: "short username", mutate: func(f *RegisterForm) { f.Username = "al" }, want: "Username must be between 3 and 50 characters"},
		{name: "long username", mutate: func(f *RegisterForm) { f.Username = strings.Repeat("a", 51) }, want: "Username must be between 3 and 50 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ok
			tt.mutate(&f)
			err := Register(f)
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestCreateList(t *testing.T) {
	f, err := CreateList("  Movies  ", " best ")
	require.NoError(t, err)
	assert.Equal(t, ListForm{Title: "Movies", Description: "best"}, f)

	_, err = CreateList("   ", "")
	require.EqualError(t, err, "Title is required")

	_, err = CreateList(strings.Repeat("x", MaxTitleLength), "")
	require.NoError(t, err)

	_, err = CreateList(strings.Repeat("x", MaxTitleLength+1), "")
	require.EqualError(t, err, "Title must be 100 characters or less")
}

func TestCreateItem(t *testing.T) {
	f, err := CreateItem(" Dune ", " Good ", "")
	require.NoError(t, err)
	assert.Equal(t, "Dune", f.Name)
	assert.Equal(t, models.TierSetGood, f.TierSet)

	_, err = CreateItem("", models.TierSetMid, "")
	require.EqualError(t, err, "Name is required")

	_, err = CreateItem(strings.Repeat("n", MaxNameLength+1), models.TierSetMid, "")
	require.EqualError(t, err, "Name must be 100 characters or less")

	for _, tier := range []models.TierSet{"", "S", "great"} {
		_, err = CreateItem("Dune", tier, "")
		require.EqualError(t, err, "Please select a tier", string(tier))
	}
}

func TestRenameItem(t *testing.T) {
	name, err := RenameItem("  Arrival ")
	require.NoError(t, err)
	assert.Equal(t, "Arrival", name)

	_, err = RenameItem("  ")
	require.EqualError(t, err, "Name is required")

	_, err = RenameItem(strings.Repeat("n", MaxNameLength+1))
	require.EqualError(t, err, "Name must be 100 characters or less")
}
