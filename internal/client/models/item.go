package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TierSet is the coarse bucket a new item is dropped into before ranking.
type TierSet string

const (
	TierSetGood TierSet = "good"
	TierSetMid  TierSet = "mid"
	TierSetBad  TierSet = "bad"
)

// TierSets lists the accepted values in display order.
var TierSets = []TierSet{TierSetGood, TierSetMid, TierSetBad}

// Valid reports whether t is one of TierSets.
func (t TierSet) Valid() bool {
	for _, v := range TierSets {
		if t == v {
			return true
		}
	}
	return false
}

// Item is a ranked entry of a list.
type Item struct {
	ItemID      ID        `json:"item_id"`
	ListID      ID        `json:"list_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	Tier        *string   `json:"tier"`
	Rank        *float64  `json:"rank,omitempty"`
	Position    *int      `json:"position,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// ComparisonSession is a pending pairwise ranking between two items.
type ComparisonSession struct {
	SessionID ID   `json:"session_id"`
	ListID    ID   `json:"list_id"`
	ItemA     Item `json:"item_a"`
	ItemB     Item `json:"item_b"`
}

// CreateItemRequest is the body of the item creation call.
type CreateItemRequest struct {
	Name        string  `json:"name"`
	TierSet     TierSet `json:"tier_set"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// UpdateItemRequest carries the fields to change; nil fields are left as is.
type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ResultKind tags the variant held by CreateItemResult.
type ResultKind string

const (
	ResultItem       ResultKind = "item"
	ResultComparison ResultKind = "comparison_session"
)

var (
	ErrUnknownResultKind = errors.New("unknown create item result kind")
	ErrIncompleteResult  = errors.New("incomplete create item result")
)

// CreateItemResult is what the item creation call returns: either the stored
// item or a comparison session that must be resolved to place it.
// Exactly one of Item and Comparison is set, matching Kind.
type CreateItemResult struct {
	Kind       ResultKind
	Item       *Item
	Comparison *ComparisonSession
}

// IsComparison reports whether the server asked for a pairwise comparison.
func (r CreateItemResult) IsComparison() bool {
	return r.Kind == ResultComparison
}

// UnmarshalJSON picks the variant from an explicit "type" tag when the server
// sends one. Without a tag, the payload is a comparison session only if it
// carries session_id, item_a and item_b together. The chosen variant is then
// decoded strictly and checked for its identifying fields.
func (r *CreateItemResult) UnmarshalJSON(b []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return fmt.Errorf("create item result: %w", err)
	}

	kind, err := resultKind(probe)
	if err != nil {
		return err
	}

	switch kind {
	case ResultComparison:
		var cs ComparisonSession
		if err := json.Unmarshal(b, &cs); err != nil {
			return fmt.Errorf("comparison session: %w", err)
		}
		if cs.SessionID == "" || cs.ItemA.ItemID == "" || cs.ItemB.ItemID == "" {
			return fmt.Errorf("comparison session: %w", ErrIncompleteResult)
		}
		*r = CreateItemResult{Kind: ResultComparison, Comparison: &cs}
	case ResultItem:
		var it Item
		if err := json.Unmarshal(b, &it); err != nil {
			return fmt.Errorf("item: %w", err)
		}
		if it.ItemID == "" {
			return fmt.Errorf("item: %w", ErrIncompleteResult)
		}
		*r = CreateItemResult{Kind: ResultItem, Item: &it}
	}
	return nil
}

func resultKind(probe map[string]json.RawMessage) (ResultKind, error) {
	if raw, ok := probe["type"]; ok {
		var tag string
		if err := json.Unmarshal(raw, &tag); err != nil {
			return "", fmt.Errorf("create item result type: %w", err)
		}
		switch ResultKind(tag) {
		case ResultItem, ResultComparison:
			return ResultKind(tag), nil
		default:
			return "", fmt.Errorf("%w: %q", ErrUnknownResultKind, tag)
		}
	}

	_, hasSession := probe["session_id"]
	_, hasA := probe["item_a"]
	_, hasB := probe["item_b"]
	if hasSession && hasA && hasB {
		return ResultComparison, nil
	}
	return ResultItem, nil
}

// MarshalJSON writes the active variant with its "type" tag.
func (r CreateItemResult) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ResultComparison:
		if r.Comparison == nil {
			return nil, ErrIncompleteResult
		}
		return json.Marshal(struct {
			Type ResultKind `json:"type"`
			ComparisonSession
		}{Type: ResultComparison, ComparisonSession: *r.Comparison})
	case ResultItem:
		if r.Item == nil {
			return nil, ErrIncompleteResult
		}
		return json.Marshal(struct {
			Type ResultKind `json:"type"`
			Item
		}{Type: ResultItem, Item: *r.Item})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResultKind, r.Kind)
	}
}
