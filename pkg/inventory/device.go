package inventory

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// memoryKBPerMB is the divisor for the KB to MB capacity conversion.
const memoryKBPerMB = 1024

// Device is one validated inventory record. Devices are immutable after
// construction; optional attributes are nil when the API reported no value.
type Device struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Serial string `json:"serial"`

	Hardware      *string    `json:"hardware,omitempty"`
	Site          *string    `json:"site,omitempty"`
	Rack          *string    `json:"rack,omitempty"`
	AssetTag      *string    `json:"asset_tag,omitempty"`
	ProvisionedAt *time.Time `json:"provisioned_at,omitempty"`

	// MemoryMB is the device memory rounded to whole megabytes. The API
	// reports kilobytes; the conversion is lossy and one-way.
	MemoryMB *int64 `json:"memory_mb,omitempty"`
}

// RecordError reports a raw record that failed required-field validation
// during adaptation.
type RecordError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid record: %s", e.Reason)
	}
	return fmt.Sprintf("invalid record: field %q: %s", e.Field, e.Reason)
}

// ToDevice adapts one raw decoded record into a Device. Required fields (id,
// name, serial) must be present and of the right type; optional fields are
// normalized to nil when absent or null. A present field of the wrong type is
// a *RecordError, never silently treated as absent.
func ToDevice(raw json.RawMessage) (Device, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Device{}, &RecordError{Reason: fmt.Sprintf("not a JSON object: %v", err)}
	}
	if obj == nil {
		return Device{}, &RecordError{Reason: "record is null"}
	}

	id, err := requireNumber(obj, "id")
	if err != nil {
		return Device{}, err
	}
	name, err := requireString(obj, "name")
	if err != nil {
		return Device{}, err
	}
	serial, err := requireString(obj, "serial")
	if err != nil {
		return Device{}, err
	}

	device := Device{
		ID:     int64(id),
		Name:   name,
		Serial: serial,
	}

	if device.Hardware, err = optionalString(obj, "hardware"); err != nil {
		return Device{}, err
	}
	if device.Site, err = optionalString(obj, "site"); err != nil {
		return Device{}, err
	}
	if device.Rack, err = optionalString(obj, "rack"); err != nil {
		return Device{}, err
	}
	if device.AssetTag, err = optionalString(obj, "asset_tag"); err != nil {
		return Device{}, err
	}
	if device.ProvisionedAt, err = optionalTime(obj, "provisioned_at"); err != nil {
		return Device{}, err
	}

	memoryKB, err := optionalNumber(obj, "memory_kb")
	if err != nil {
		return Device{}, err
	}
	if memoryKB != nil {
		mb := int64(math.Round(*memoryKB / memoryKBPerMB))
		device.MemoryMB = &mb
	}

	return device, nil
}

// requireString returns the named field, which must be present and a string.
func requireString(obj map[string]any, field string) (string, error) {
	v, ok := obj[field]
	if !ok || v == nil {
		return "", &RecordError{Field: field, Reason: "is required"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &RecordError{Field: field, Reason: fmt.Sprintf("must be a string (got %T)", v)}
	}
	return s, nil
}

// requireNumber returns the named field, which must be present and a number.
func requireNumber(obj map[string]any, field string) (float64, error) {
	v, ok := obj[field]
	if !ok || v == nil {
		return 0, &RecordError{Field: field, Reason: "is required"}
	}
	n, ok := v.(float64)
	if !ok {
		return 0, &RecordError{Field: field, Reason: fmt.Sprintf("must be a number (got %T)", v)}
	}
	return n, nil
}

// optionalString returns the named field when present, nil when absent or
// null. Presence is an explicit check: an empty string is a value, a wrong
// type is an error.
func optionalString(obj map[string]any, field string) (*string, error) {
	v, ok := obj[field]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &RecordError{Field: field, Reason: fmt.Sprintf("must be a string (got %T)", v)}
	}
	return &s, nil
}

// optionalNumber returns the named field when present, nil when absent or
// null.
func optionalNumber(obj map[string]any, field string) (*float64, error) {
	v, ok := obj[field]
	if !ok || v == nil {
		return nil, nil
	}
	n, ok := v.(float64)
	if !ok {
		return nil, &RecordError{Field: field, Reason: fmt.Sprintf("must be a number (got %T)", v)}
	}
	return &n, nil
}

// optionalTime returns the named field parsed as an RFC 3339 timestamp when
// present, nil when absent or null.
func optionalTime(obj map[string]any, field string) (*time.Time, error) {
	s, err := optionalString(obj, field)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, &RecordError{Field: field, Reason: fmt.Sprintf("not a valid RFC 3339 timestamp: %v", err)}
	}
	return &ts, nil
}
