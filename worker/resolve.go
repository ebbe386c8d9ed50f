package worker

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
)

// Resolver returns the fully-qualified name of the local host.
type Resolver interface {
	FQDN(ctx context.Context) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context) (string, error)

// FQDN calls f(ctx).
func (f ResolverFunc) FQDN(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticResolver always resolves to the same name.
type StaticResolver string

// FQDN returns the static name.
func (s StaticResolver) FQDN(context.Context) (string, error) {
	if s == "" {
		return "", &ResolutionError{Err: errors.New("empty host name")}
	}
	return string(s), nil
}

// SystemResolver resolves the local host name through the system resolver.
//
// It looks up the canonical name of os.Hostname(). When the host has no
// canonical record but its name still resolves to an address (typically via
// /etc/hosts) the bare name is used. Anything else is a ResolutionError.
type SystemResolver struct {
	// Hostname defaults to os.Hostname.
	Hostname func() (string, error)

	// Lookup defaults to net.DefaultResolver.
	Lookup interface {
		LookupCNAME(ctx context.Context, host string) (string, error)
		LookupHost(ctx context.Context, host string) ([]string, error)
	}
}

// FQDN implements Resolver.
func (r SystemResolver) FQDN(ctx context.Context) (string, error) {
	hostnameFn := r.Hostname
	if hostnameFn == nil {
		hostnameFn = os.Hostname
	}
	var lookup = r.Lookup
	if lookup == nil {
		lookup = net.DefaultResolver
	}

	host, err := hostnameFn()
	if err != nil {
		return "", &ResolutionError{Err: err}
	}
	if host == "" {
		return "", &ResolutionError{Err: errors.New("empty host name")}
	}

	cname, cnameErr := lookup.LookupCNAME(ctx, host)
	if cnameErr == nil && cname != "" {
		return strings.TrimSuffix(cname, "."), nil
	}

	// errors.Join drops a nil cnameErr.
	if _, err := lookup.LookupHost(ctx, host); err != nil {
		return "", &ResolutionError{Host: host, Err: errors.Join(cnameErr, err)}
	}
	return host, nil
}
