package cache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "endpoint without params",
			key: Key{
				Endpoint: "/api/v1/devices",
			},
			want: "inv:api/v1/devices",
		},
		{
			name: "endpoint with page window",
			key: Key{
				Endpoint: "/api/v1/devices",
				QueryParams: url.Values{
					"offset": []string{"200"},
					"limit":  []string{"100"},
				},
			},
			want: "inv:api/v1/devices:limit=100:offset=200",
		},
		{
			name: "query params sorted for determinism",
			key: Key{
				Endpoint: "/api/v1/devices",
				QueryParams: url.Values{
					"site":   []string{"ber1"},
					"offset": []string{"0"},
					"limit":  []string{"50"},
				},
			},
			want: "inv:api/v1/devices:limit=50:offset=0:site=ber1",
		},
		{
			name: "trailing slash normalized",
			key: Key{
				Endpoint: "/api/v1/devices/",
			},
			want: "inv:api/v1/devices",
		},
		{
			name: "empty endpoint",
			key:  Key{},
			want: "inv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_String_Deterministic(t *testing.T) {
	key := Key{
		Endpoint: "/api/v1/devices",
		QueryParams: url.Values{
			"b": []string{"2"},
			"a": []string{"1"},
			"c": []string{"3"},
		},
	}

	first := key.String()
	for i := 0; i < 10; i++ {
		if got := key.String(); got != first {
			t.Fatalf("String() not deterministic: %q vs %q", got, first)
		}
	}
}

func TestKey_String_DifferentWindowsDiffer(t *testing.T) {
	page0 := Key{
		Endpoint:    "/api/v1/devices",
		QueryParams: url.Values{"offset": []string{"0"}, "limit": []string{"100"}},
	}
	page1 := Key{
		Endpoint:    "/api/v1/devices",
		QueryParams: url.Values{"offset": []string{"100"}, "limit": []string{"100"}},
	}

	if page0.String() == page1.String() {
		t.Errorf("distinct page windows share cache key %q", page0.String())
	}
}
