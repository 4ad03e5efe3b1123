package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Tenant struct {
	ID     string
	Domain string
	Name   string
}

type TenancyResolver interface {
	ResolveTenant(ctx context.Context, hostname string) (Tenant, bool, error)
}

type staticTenancyResolver struct {
	tenants map[string]Tenant
}

func newStaticTenancyResolver(tenants map[string]Tenant) TenancyResolver {
	m := make(map[string]Tenant, len(tenants))
	for k, v := range tenants {
		m[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &staticTenancyResolver{tenants: m}
}

func (r *staticTenancyResolver) ResolveTenant(_ context.Context, hostname string) (Tenant, bool, error) {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if hostname == "" {
		return Tenant{}, false, nil
	}
	t, ok := r.tenants[hostname]
	return t, ok, nil
}

type tenantsFile struct {
	Version int `yaml:"version"`
	Tenants []struct {
		ID        string   `yaml:"id"`
		Name      string   `yaml:"name"`
		Hostnames []string `yaml:"hostnames"`
	} `yaml:"tenants"`
}

func loadTenancyResolver(path string) (TenancyResolver, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f tenantsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("server: parse %s: %w", path, err)
	}
	if f.Version != 1 {
		return nil, fmt.Errorf("server: %s: unsupported version %d", path, f.Version)
	}
	tenants := map[string]Tenant{}
	for _, t := range f.Tenants {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("server: %s: tenant with empty id", path)
		}
		for _, h := range t.Hostnames {
			tenants[h] = Tenant{ID: t.ID, Domain: h, Name: t.Name}
		}
	}
	return newStaticTenancyResolver(tenants), nil
}

type tenantContextKey struct{}

func withTenant(ctx context.Context, t Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, t)
}

func currentTenant(ctx context.Context) (Tenant, bool) {
	v := ctx.Value(tenantContextKey{})
	if v == nil {
		return Tenant{}, false
	}
	t, ok := v.(Tenant)
	return t, ok
}

func requestHostname(hostHeader string) string {
	host := strings.ToLower(strings.TrimSpace(hostHeader))
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	// No port. An IPv6 literal still carries its brackets here.
	return strings.Trim(host, "[]")
}
