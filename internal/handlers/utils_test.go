package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUserIDFromContext(t *testing.T) {
	cases := []struct {
		name    string
		value   any
		want    int
		wantErr bool
	}{
		{"int", 7, 7, false},
		{"int64", int64(8), 8, false},
		{"float64", float64(9), 9, false},
		{"string", "10", 10, false},
		{"padded string", " 11 ", 11, false},
		{"zero", 0, 0, true},
		{"negative", -3, 0, true},
		{"garbage string", "abc", 0, true},
		{"missing", nil, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			if tc.value != nil {
				ctx = context.WithValue(ctx, contextSubjectKey, tc.value)
			}
			got, err := userIDFromContext(ctx)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"plain", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"case-insensitive scheme", "bearer abc", "abc", false},
		{"missing header", "", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"empty token", "Bearer  ", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/get-user", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			got, err := bearerToken(req)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEpochMillisUnmarshal(t *testing.T) {
	var e epochMillis
	if err := e.UnmarshalJSON([]byte("1712000000000")); err != nil {
		t.Fatalf("number: %v", err)
	}
	if e.UnixMilli() != 1712000000000 {
		t.Fatalf("number: got %d", e.UnixMilli())
	}

	e = epochMillis{}
	if err := e.UnmarshalJSON([]byte(`"1712000000000"`)); err != nil {
		t.Fatalf("string: %v", err)
	}
	if e.UnixMilli() != 1712000000000 {
		t.Fatalf("string: got %d", e.UnixMilli())
	}

	e = epochMillis{}
	if err := e.UnmarshalJSON([]byte("1712000000000.75")); err != nil {
		t.Fatalf("fractional: %v", err)
	}
	if e.UnixMilli() != 1712000000000 {
		t.Fatalf("fractional values must truncate, got %d", e.UnixMilli())
	}

	e = epochMillis{}
	if err := e.UnmarshalJSON([]byte(`"2024-04-01"`)); err == nil {
		t.Fatalf("calendar strings must be rejected")
	}

	e = epochMillis{}
	if err := e.UnmarshalJSON([]byte("0")); err != nil {
		t.Fatalf("zero: %v", err)
	}
	if !e.IsZero() {
		t.Fatalf("epoch zero must leave the value unset")
	}

	e = epochMillis{}
	if err := e.UnmarshalJSON([]byte("null")); err != nil {
		t.Fatalf("null: %v", err)
	}
	if !e.IsZero() {
		t.Fatalf("null must leave the value unset")
	}
}
