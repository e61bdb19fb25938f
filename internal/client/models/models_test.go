package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "uuid string", input: `"5b0f6c1e-3a8b-4a55-9a3e-0f5d9b0c1a2b"`, want: "5b0f6c1e-3a8b-4a55-9a3e-0f5d9b0c1a2b"},
		{name: "integer", input: `42`, want: "42"},
		{name: "null", input: `null`, want: ""},
		{name: "object", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	want := time.Date(2025, 3, 14, 9, 26, 53, 589000000, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "rfc3339 with zone", input: `"2025-03-14T09:26:53.589Z"`, want: want},
		{name: "offset", input: `"2025-03-14T11:26:53.589+02:00"`, want: want},
		{name: "naive microseconds", input: `"2025-03-14T09:26:53.589000"`, want: want},
		{name: "naive seconds", input: `"2025-03-14T09:26:53"`, want: want.Truncate(time.Second)},
		{name: "null", input: `null`, want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s want %s", ts.Time, tt.want)
		})
	}

	var bad Timestamp
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &bad))
}

func TestToLocalUser(t *testing.T) {
	tests := []struct {
		name string
		in   User
		want LocalUser
	}{
		{
			name: "username wins",
			in:   User{UserID: "u1", Email: "a@b.com", Username: "alice"},
			want: LocalUser{ID: "u1", Email: "a@b.com", DisplayName: "alice"},
		},
		{
			name: "falls back to email local part",
			in:   User{UserID: "u2", Email: "bob@example.org"},
			want: LocalUser{ID: "u2", Email: "bob@example.org", DisplayName: "bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, cmp.Diff(tt.want, ToLocalUser(tt.in)))
		})
	}
}

func TestTierSet_Valid(t *testing.T) {
	for _, ts := range TierSets {
		assert.True(t, ts.Valid(), ts)
	}
	assert.False(t, TierSet("S").Valid())
	assert.False(t, TierSet("").Valid())
}

func TestCreateItemResult_Decode(t *testing.T) {
	itemJSON := `{"item_id":"i1","list_id":"l1","name":"Dune","description":null,"image_url":null,"tier":null,
		"created_at":"2025-01-01T00:00:00","updated_at":"2025-01-01T00:00:00"}`
	sessionJSON := `{"session_id":"s1","list_id":"l1",
		"item_a":{"item_id":"i1","list_id":"l1","name":"Dune"},
		"item_b":{"item_id":"i0","list_id":"l1","name":"Alien"}}`

	t.Run("item by shape", func(t *testing.T) {
		var r CreateItemResult
		require.NoError(t, json.Unmarshal([]byte(itemJSON), &r))
		assert.Equal(t, ResultItem, r.Kind)
		assert.False(t, r.IsComparison())
		require.NotNil(t, r.Item)
		assert.Nil(t, r.Comparison)
		assert.Equal(t, "Dune", r.Item.Name)
	})

	t.Run("comparison by shape", func(t *testing.T) {
		var r CreateItemResult
		require.NoError(t, json.Unmarshal([]byte(sessionJSON), &r))
		assert.True(t, r.IsComparison())
		require.NotNil(t, r.Comparison)
		assert.Nil(t, r.Item)
		assert.Equal(t, ID("s1"), r.Comparison.SessionID)
		assert.Equal(t, "Alien", r.Comparison.ItemB.Name)
	})

	t.Run("session id alone is still an item", func(t *testing.T) {
		var r CreateItemResult
		require.NoError(t, json.Unmarshal([]byte(`{"item_id":"i9","session_id":"x","name":"n"}`), &r))
		assert.Equal(t, ResultItem, r.Kind)
	})

	t.Run("explicit tag wins", func(t *testing.T) {
		var r CreateItemResult
		err := json.Unmarshal([]byte(`{"type":"comparison_session","session_id":"s","list_id":"l",
			"item_a":{"item_id":"a"},"item_b":{"item_id":"b"}}`), &r)
		require.NoError(t, err)
		assert.True(t, r.IsComparison())
	})

	t.Run("unknown tag", func(t *testing.T) {
		var r CreateItemResult
		err := json.Unmarshal([]byte(`{"type":"battle"}`), &r)
		require.ErrorIs(t, err, ErrUnknownResultKind)
	})

	t.Run("item without id", func(t *testing.T) {
		var r CreateItemResult
		err := json.Unmarshal([]byte(`{}`), &r)
		require.ErrorIs(t, err, ErrIncompleteResult)
	})

	t.Run("comparison missing item id", func(t *testing.T) {
		var r CreateItemResult
		err := json.Unmarshal([]byte(`{"session_id":"s","item_a":{},"item_b":{"item_id":"b"}}`), &r)
		require.ErrorIs(t, err, ErrIncompleteResult)
	})

	t.Run("not an object", func(t *testing.T) {
		var r CreateItemResult
		require.Error(t, json.Unmarshal([]byte(`[1,2]`), &r))
	})
}

func TestCreateItemResult_MarshalCarriesTag(t *testing.T) {
	r := CreateItemResult{Kind: ResultItem, Item: &Item{ItemID: "i1", Name: "Dune"}}
	b, err := json.Marshal(r)
	require.NoError(t, err)

	var back CreateItemResult
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, ResultItem, back.Kind)
	assert.Equal(t, "Dune", back.Item.Name)

	_, err = json.Marshal(CreateItemResult{Kind: ResultComparison})
	require.ErrorIs(t, err, ErrIncompleteResult)
}
