package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldIssue is one record of a 422 body, as FastAPI writes them.
type fieldIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}

func writeIssues(w http.ResponseWriter, issues ...fieldIssue) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string][]fieldIssue{"detail": issues})
}

func missing(where, field string) fieldIssue {
	return fieldIssue{Loc: []string{where, field}, Msg: "Field required", Type: "missing"}
}

// jsonFieldName makes validator report fields by their json name.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func issueMessage(fe validator.FieldError) (msg, typ string) {
	switch fe.Tag() {
	case "required":
		return "Field required", "missing"
	case "email":
		return "value is not a valid email address", "value_error"
	case "min":
		return fmt.Sprintf("String should have at least %s characters", fe.Param()), "string_too_short"
	case "max":
		return fmt.Sprintf("String should have at most %s characters", fe.Param()), "string_too_long"
	case "oneof":
		return fmt.Sprintf("Input should be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", ")), "enum"
	case "url", "http_url":
		return "Input should be a valid URL", "url_parsing"
	default:
		return "Invalid value", fe.Tag()
	}
}

// validationIssues maps a validator failure to 422 records located in where
// ("body" or "query").
func validationIssues(err error, where string) []fieldIssue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldIssue{{Loc: []string{where}, Msg: err.Error(), Type: "value_error"}}
	}
	out := make([]fieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		msg, typ := issueMessage(fe)
		out = append(out, fieldIssue{Loc: []string{where, fe.Field()}, Msg: msg, Type: typ})
	}
	return out
}

// decodeBody reads a JSON request body into dst. On failure it writes the
// 422 response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		writeIssues(w, fieldIssue{Loc: []string{"body"}, Msg: "Input should be a valid JSON object", Type: "json_invalid"})
		return false
	}
	return true
}
