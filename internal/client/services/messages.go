package services

import (
	"errors"

	"github.com/dmitrijs2005/tiernerd/internal/client/client"
)

// Feature names the user action an error came from; it picks the conflict
// wording and the fallback message.
type Feature int

const (
	FeatureLogin Feature = iota
	FeatureRegister
	FeatureLoadLists
	FeatureCreateList
	FeatureDeleteList
	FeatureLoadItems
	FeatureCreateItem
	FeatureUpdateItem
)

const (
	MsgNetworkError    = "Network error"
	MsgUnexpectedError = "An unexpected error occurred"
	MsgValidationError = "Validation error"
)

type featureMessages struct {
	conflict string
	fallback string
}

var messages = map[Feature]featureMessages{
	FeatureLogin:      {fallback: "Login failed"},
	FeatureRegister:   {conflict: "An account with this email already exists", fallback: "Registration failed"},
	FeatureLoadLists:  {fallback: "Failed to load lists. Please try again."},
	FeatureCreateList: {conflict: "A list with this title already exists", fallback: "Failed to create list. Please try again."},
	FeatureDeleteList: {fallback: "Failed to delete list. Please try again."},
	FeatureLoadItems:  {fallback: "Failed to load items. Please try again."},
	FeatureCreateItem: {conflict: "An item with this name already exists in this list", fallback: "Failed to add item. Please try again."},
	FeatureUpdateItem: {conflict: "An item with this name already exists in this list", fallback: "Failed to update item. Please try again."},
}

// ErrorMessage turns an error from any service call into the text shown to
// the user. It never returns an empty string.
//
// Order: conflict wording for 409, then the server's detail, then the
// feature's fallback. Transport errors read "Network error"; anything that is
// neither an HTTP nor a transport error is unexpected.
func ErrorMessage(err error, f Feature) string {
	if err == nil {
		return ""
	}

	m := messages[f]

	if apiErr, ok := client.AsAPIError(err); ok {
		if apiErr.IsConflict() {
			if f == FeatureRegister {
				if d, ok := apiErr.Detail(); ok && d != "" {
					return d
				}
			}
			if m.conflict != "" {
				return m.conflict
			}
		}
		if d, ok := apiErr.Detail(); ok {
			if d == "" {
				return MsgValidationError
			}
			return d
		}
		if m.fallback != "" {
			return m.fallback
		}
		return MsgUnexpectedError
	}

	if errors.Is(err, client.ErrUnavailable) {
		return MsgNetworkError
	}
	return MsgUnexpectedError
}
