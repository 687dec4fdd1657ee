// Package proxytrust evaluates which reverse proxies a web application
// believes, and resolves the real client address from X-Forwarded-For under
// that policy.
//
// A Trust predicate is asked about each hop in the forwarding chain, starting
// at the socket peer (hop 0) and moving outward. The chain walk stops at the
// first untrusted hop, so header entries beyond an untrusted proxy can never
// spoof the resolved client address.
package proxytrust

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ErrInvalidSetting reports a trust configuration value that cannot be
// compiled into a predicate.
var ErrInvalidSetting = errors.New("proxytrust: invalid setting")

// Trust reports whether the proxy at the given address may be believed when
// it appears as the given hop in the forwarding chain. Hop 0 is the socket
// peer.
type Trust func(addr netip.Addr, hop int) bool

// Named address ranges accepted by Ranges and Compile.
var namedRanges = map[string][]netip.Prefix{
	"loopback": {
		netip.MustParsePrefix("127.0.0.0/8"),
		netip.MustParsePrefix("::1/128"),
	},
	"linklocal": {
		netip.MustParsePrefix("169.254.0.0/16"),
		netip.MustParsePrefix("fe80::/10"),
	},
	"uniquelocal": {
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("172.16.0.0/12"),
		netip.MustParsePrefix("192.168.0.0/16"),
		netip.MustParsePrefix("fc00::/7"),
	},
}

// All trusts every hop. Only safe when the application is reachable
// exclusively through proxies it controls.
func All() Trust {
	return func(netip.Addr, int) bool { return true }
}

// None trusts no hop; the socket peer is always the resolved client.
func None() Trust {
	return func(netip.Addr, int) bool { return false }
}

// Hops trusts the first n proxies in front of the application regardless of
// address.
func Hops(n int) Trust {
	return func(_ netip.Addr, hop int) bool { return hop < n }
}

// Ranges trusts addresses inside the given specs. Each spec is a CIDR prefix,
// a single IP, or one of the named ranges "loopback", "linklocal",
// "uniquelocal". Unknown specs wrap ErrInvalidSetting.
func Ranges(specs ...string) (Trust, error) {
	var prefixes []netip.Prefix

	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}

		if named, ok := namedRanges[strings.ToLower(spec)]; ok {
			prefixes = append(prefixes, named...)
			continue
		}
		if prefix, err := netip.ParsePrefix(spec); err == nil {
			prefixes = append(prefixes, prefix)
			continue
		}
		if addr, err := netip.ParseAddr(spec); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		return nil, fmt.Errorf("%w: %q", ErrInvalidSetting, spec)
	}

	return func(addr netip.Addr, _ int) bool {
		addr = addr.Unmap()
		for _, prefix := range prefixes {
			if prefix.Contains(addr) {
				return true
			}
		}
		return false
	}, nil
}

// Compile maps an application trust-proxy setting to a Trust predicate.
//
//	true        -> All
//	false       -> None
//	int         -> Hops (negative values error)
//	string      -> Ranges over its comma-separated entries
//	[]string    -> Ranges
//	Trust/func  -> used as-is
//
// Anything else wraps ErrInvalidSetting.
func Compile(val any) (Trust, error) {
	switch v := val.(type) {
	case nil:
		return None(), nil
	case bool:
		if v {
			return All(), nil
		}
		return None(), nil
	case int:
		return compileHops(v)
	case int64:
		return compileHops(int(v))
	case float64:
		if v != float64(int(v)) {
			return nil, fmt.Errorf("%w: fractional hop count %v", ErrInvalidSetting, v)
		}
		return compileHops(int(v))
	case string:
		return Ranges(strings.Split(v, ",")...)
	case []string:
		return Ranges(v...)
	case Trust:
		return v, nil
	case func(addr netip.Addr, hop int) bool:
		return v, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidSetting, val)
}

func compileHops(n int) (Trust, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative hop count %d", ErrInvalidSetting, n)
	}
	return Hops(n), nil
}

// Chain returns the forwarding chain for the request: the socket peer first,
// then each X-Forwarded-For entry from nearest to farthest, stopping after
// the first hop the predicate rejects or at the first entry that is not a
// parseable address.
func Chain(r *http.Request, trust Trust) []netip.Addr {
	chain := []netip.Addr{peerAddr(r)}
	if trust == nil {
		return chain
	}

	forwarded := forwardedAddrs(r)
	for i := len(forwarded) - 1; i >= 0; i-- {
		hop := len(chain) - 1
		if !trust(chain[hop], hop) {
			break
		}
		addr, err := netip.ParseAddr(forwarded[i])
		if err != nil {
			break
		}
		chain = append(chain, addr)
	}
	return chain
}

// ClientAddr resolves the client address for the request under the given
// trust predicate. With a nil predicate the socket peer is returned.
func ClientAddr(r *http.Request, trust Trust) netip.Addr {
	chain := Chain(r, trust)
	return chain[len(chain)-1]
}

func peerAddr(r *http.Request) netip.Addr {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}
	}
	return addr
}

func forwardedAddrs(r *http.Request) []string {
	var entries []string
	for _, header := range r.Header.Values("X-Forwarded-For") {
		for _, entry := range strings.Split(header, ",") {
			entry = strings.TrimSpace(entry)
			if entry != "" {
				entries = append(entries, entry)
			}
		}
	}
	return entries
}
