package inventory

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestToDevice_RequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantField string
	}{
		{
			name: "all required present",
			raw:  `{"id": 42, "name": "edge-fra-01", "serial": "SN001042"}`,
		},
		{
			name:      "missing id",
			raw:       `{"name": "edge-fra-01", "serial": "SN001042"}`,
			wantField: "id",
		},
		{
			name:      "missing name",
			raw:       `{"id": 42, "serial": "SN001042"}`,
			wantField: "name",
		},
		{
			name:      "missing serial",
			raw:       `{"id": 42, "name": "edge-fra-01"}`,
			wantField: "serial",
		},
		{
			name:      "null serial counts as missing",
			raw:       `{"id": 42, "name": "edge-fra-01", "serial": null}`,
			wantField: "serial",
		},
		{
			name:      "id of wrong type",
			raw:       `{"id": "42", "name": "edge-fra-01", "serial": "SN001042"}`,
			wantField: "id",
		},
		{
			name:      "name of wrong type",
			raw:       `{"id": 42, "name": 7, "serial": "SN001042"}`,
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device, err := ToDevice(json.RawMessage(tt.raw))

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ToDevice() error = %v", err)
				}
				if device.ID != 42 || device.Name != "edge-fra-01" || device.Serial != "SN001042" {
					t.Errorf("ToDevice() = %+v, required fields not mapped", device)
				}
				return
			}

			var recErr *RecordError
			if !errors.As(err, &recErr) {
				t.Fatalf("ToDevice() error = %v, want *RecordError", err)
			}
			if recErr.Field != tt.wantField {
				t.Errorf("RecordError.Field = %q, want %q", recErr.Field, tt.wantField)
			}
		})
	}
}

func TestToDevice_OptionalFields(t *testing.T) {
	raw := `{
		"id": 1,
		"name": "edge-fra-01",
		"serial": "SN000001",
		"hardware": "R640",
		"site": "fra2",
		"rack": "A-07",
		"asset_tag": "INV-2231",
		"provisioned_at": "2025-11-03T14:22:00Z"
	}`

	device, err := ToDevice(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("ToDevice() error = %v", err)
	}

	if device.Hardware == nil || *device.Hardware != "R640" {
		t.Errorf("Hardware = %v, want R640", device.Hardware)
	}
	if device.Site == nil || *device.Site != "fra2" {
		t.Errorf("Site = %v, want fra2", device.Site)
	}
	if device.Rack == nil || *device.Rack != "A-07" {
		t.Errorf("Rack = %v, want A-07", device.Rack)
	}
	if device.AssetTag == nil || *device.AssetTag != "INV-2231" {
		t.Errorf("AssetTag = %v, want INV-2231", device.AssetTag)
	}

	want := time.Date(2025, 11, 3, 14, 22, 0, 0, time.UTC)
	if device.ProvisionedAt == nil || !device.ProvisionedAt.Equal(want) {
		t.Errorf("ProvisionedAt = %v, want %v", device.ProvisionedAt, want)
	}
}

func TestToDevice_OptionalAbsentIsNil(t *testing.T) {
	device, err := ToDevice(json.RawMessage(`{"id": 1, "name": "n", "serial": "s"}`))
	if err != nil {
		t.Fatalf("ToDevice() error = %v", err)
	}

	if device.Hardware != nil || device.Site != nil || device.Rack != nil ||
		device.AssetTag != nil || device.ProvisionedAt != nil || device.MemoryMB != nil {
		t.Errorf("absent optional fields not normalized to nil: %+v", device)
	}
}

func TestToDevice_EmptyStringIsAValue(t *testing.T) {
	// Presence is an explicit check: "" must not be conflated with absent.
	device, err := ToDevice(json.RawMessage(`{"id": 1, "name": "n", "serial": "s", "rack": ""}`))
	if err != nil {
		t.Fatalf("ToDevice() error = %v", err)
	}
	if device.Rack == nil || *device.Rack != "" {
		t.Errorf("Rack = %v, want pointer to empty string", device.Rack)
	}
}

func TestToDevice_MemoryConversion(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   *int64
		errFld string
	}{
		{
			name: "exact conversion",
			raw:  `{"id": 1, "name": "n", "serial": "s", "memory_kb": 2048}`,
			want: ptr(int64(2)),
		},
		{
			name: "rounds to nearest",
			raw:  `{"id": 1, "name": "n", "serial": "s", "memory_kb": 1536}`,
			want: ptr(int64(2)),
		},
		{
			name: "rounds down",
			raw:  `{"id": 1, "name": "n", "serial": "s", "memory_kb": 1024}`,
			want: ptr(int64(1)),
		},
		{
			name: "zero is a value, not absence",
			raw:  `{"id": 1, "name": "n", "serial": "s", "memory_kb": 0}`,
			want: ptr(int64(0)),
		},
		{
			name: "absent is nil",
			raw:  `{"id": 1, "name": "n", "serial": "s"}`,
			want: nil,
		},
		{
			name: "null is nil",
			raw:  `{"id": 1, "name": "n", "serial": "s", "memory_kb": null}`,
			want: nil,
		},
		{
			name:   "wrong type is an error",
			raw:    `{"id": 1, "name": "n", "serial": "s", "memory_kb": "2048"}`,
			errFld: "memory_kb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device, err := ToDevice(json.RawMessage(tt.raw))

			if tt.errFld != "" {
				var recErr *RecordError
				if !errors.As(err, &recErr) || recErr.Field != tt.errFld {
					t.Fatalf("ToDevice() error = %v, want *RecordError on %q", err, tt.errFld)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToDevice() error = %v", err)
			}

			switch {
			case tt.want == nil && device.MemoryMB != nil:
				t.Errorf("MemoryMB = %d, want nil", *device.MemoryMB)
			case tt.want != nil && device.MemoryMB == nil:
				t.Errorf("MemoryMB = nil, want %d", *tt.want)
			case tt.want != nil && *device.MemoryMB != *tt.want:
				t.Errorf("MemoryMB = %d, want %d", *device.MemoryMB, *tt.want)
			}
		})
	}
}

func TestToDevice_InvalidTimestamp(t *testing.T) {
	raw := `{"id": 1, "name": "n", "serial": "s", "provisioned_at": "yesterday"}`

	_, err := ToDevice(json.RawMessage(raw))

	var recErr *RecordError
	if !errors.As(err, &recErr) || recErr.Field != "provisioned_at" {
		t.Fatalf("ToDevice() error = %v, want *RecordError on provisioned_at", err)
	}
}

func TestToDevice_NotAnObject(t *testing.T) {
	for _, raw := range []string{`[1, 2]`, `"device"`, `null`, `{`} {
		if _, err := ToDevice(json.RawMessage(raw)); err == nil {
			t.Errorf("ToDevice(%q) error = nil, want *RecordError", raw)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
