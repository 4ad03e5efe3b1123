package server

import (
	"context"
	"testing"
)

func TestRequestHostname(t *testing.T) {
	cases := []struct {
		host string
		want string
	}{
		{"localhost", "localhost"},
		{"localhost:8080", "localhost"},
		{"backoffice.hanbit.local", "backoffice.hanbit.local"},
		{"TEST.Local:443", "test.local"},
		{"127.0.0.1:8080", "127.0.0.1"},
		{"[::1]", "::1"},
		{"[::1]:8080", "::1"},
		{"  localhost  ", "localhost"},
		{"", ""},
	}
	for _, c := range cases {
		if got := requestHostname(c.host); got != c.want {
			t.Fatalf("requestHostname(%q) = %q, want %q", c.host, got, c.want)
		}
	}
}

func TestStaticTenancyResolver(t *testing.T) {
	r := newStaticTenancyResolver(map[string]Tenant{
		"Backoffice.Hanbit.Local": {ID: "hanbit", Domain: "backoffice.hanbit.local", Name: "Hanbit Works"},
	})

	tenant, ok, err := r.ResolveTenant(context.Background(), "backoffice.hanbit.local")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !ok || tenant.ID != "hanbit" {
		t.Fatalf("expected hanbit tenant, got ok=%v tenant=%+v", ok, tenant)
	}

	if _, ok, _ := r.ResolveTenant(context.Background(), "unknown.example"); ok {
		t.Fatalf("unknown hostname must not resolve")
	}
}
