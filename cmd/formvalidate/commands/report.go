package commands

import (
	"fmt"
	"io"
	"sort"

	gojson "github.com/goccy/go-json"

	"github.com/goliatone/go-formvalidate/pkg/schema"
	"github.com/goliatone/go-formvalidate/pkg/validation"
)

type report struct {
	Valid        bool                             `json:"valid"`
	Data         any                              `json:"data,omitempty"`
	FieldErrors  map[string]validation.FieldError `json:"fieldErrors,omitempty"`
	GeneralError string                           `json:"generalError,omitempty"`
}

func checkWith[T any](s schema.Schema[T], payload any, opts ...validation.Option) report {
	result := validation.ValidateForm(s, payload, opts...)
	out := report{
		Valid:        result.IsValid,
		FieldErrors:  result.FieldErrors,
		GeneralError: result.GeneralError,
	}
	if result.IsValid {
		out.Data = result.Data
	}
	return out
}

func writeReport(w io.Writer, format string, r report) error {
	if format == "json" {
		enc := gojson.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	if r.Valid {
		if _, err := fmt.Fprintln(w, "valid"); err != nil {
			return err
		}
		if r.Data == nil {
			return nil
		}
		data, err := gojson.MarshalIndent(r.Data, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	if r.GeneralError != "" {
		if _, err := fmt.Fprintf(w, "error: %s\n", r.GeneralError); err != nil {
			return err
		}
	}
	fields := make([]string, 0, len(r.FieldErrors))
	for field := range r.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fe := r.FieldErrors[field]
		line := fmt.Sprintf("%s: %s", field, fe.Message)
		if fe.Code != "" {
			line += " (" + fe.Code + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
