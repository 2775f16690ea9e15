package inventory

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sternwerk/inventory-client/pkg/pagination"
)

// MalformedResponseError reports a page body that is not well-formed or is
// missing a required field.
type MalformedResponseError struct {
	Field  string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("malformed page response: field %q: %s: %v", e.Field, e.Reason, e.Err)
	case e.Field != "":
		return fmt.Sprintf("malformed page response: field %q: %s", e.Field, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("malformed page response: %s: %v", e.Reason, e.Err)
	default:
		return fmt.Sprintf("malformed page response: %s", e.Reason)
	}
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// pageEnvelope is the wire format of one collection page. Pointer fields
// distinguish absent from zero.
type pageEnvelope struct {
	TotalCount *int64            `json:"total_count"`
	Limit      *int64            `json:"limit"`
	Offset     *int64            `json:"offset"`
	Devices    []json.RawMessage `json:"devices"`
}

// DecodePage parses one complete page response body into a page result.
//
// A declared total_count of 0 is a terminal empty page and short-circuits
// before the other fields are validated, since an empty collection response
// may omit them. Otherwise total_count, limit, offset and the devices array
// must all be present; completion is the cumulative comparison
// offset+limit >= total_count, so a short final page still terminates.
//
// Records are returned as received; they are not validated against a schema
// here.
func DecodePage(body []byte) (*pagination.PageResult[json.RawMessage], error) {
	var env pageEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, &MalformedResponseError{Field: typeErr.Field, Reason: "has the wrong type", Err: err}
		}
		return nil, &MalformedResponseError{Reason: "body is not valid JSON", Err: err}
	}

	if env.TotalCount != nil && *env.TotalCount == 0 {
		return &pagination.PageResult[json.RawMessage]{Done: true}, nil
	}

	if env.TotalCount == nil {
		return nil, &MalformedResponseError{Field: "total_count", Reason: "is required"}
	}
	if env.Limit == nil {
		return nil, &MalformedResponseError{Field: "limit", Reason: "is required"}
	}
	if env.Offset == nil {
		return nil, &MalformedResponseError{Field: "offset", Reason: "is required"}
	}
	if env.Devices == nil {
		return nil, &MalformedResponseError{Field: "devices", Reason: "is required"}
	}

	done := *env.Offset+*env.Limit >= *env.TotalCount

	return &pagination.PageResult[json.RawMessage]{
		Records: env.Devices,
		Done:    done,
	}, nil
}
