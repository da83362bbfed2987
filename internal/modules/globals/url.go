package globals

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/rizqme/hype/internal/herrors"
)

// URL backs the script-visible URL global, a thin stateful wrapper around
// net/url.URL — the same stdlib type urlmod's require("url") module already
// parses with, but kept live here since the Web API's URL exposes mutable
// properties (protocol=, hostname=, search=, ...) rather than one-shot
// parse/format calls.
type URL struct {
	parsed *url.URL
	query  *URLSearchParams
}

type URLConstructor struct{}

// New parses input, resolving it against base when given, the same
// relative-reference behavior the WHATWG URL constructor defines.
func (uc *URLConstructor) New(input string, base ...string) (*URL, error) {
	var parsed *url.URL

	if len(base) > 0 && base[0] != "" {
		baseURL, err := url.Parse(base[0])
		if err != nil {
			return nil, herrors.Wrap(herrors.KindValidationError, err, "URL: invalid base URL %q", base[0])
		}
		ref, err := url.Parse(input)
		if err != nil {
			return nil, herrors.Wrap(herrors.KindValidationError, err, "URL: invalid URL %q", input)
		}
		parsed = baseURL.ResolveReference(ref)
	} else {
		p, err := url.Parse(input)
		if err != nil {
			return nil, herrors.Wrap(herrors.KindValidationError, err, "URL: invalid URL %q", input)
		}
		if !p.IsAbs() {
			return nil, herrors.New(herrors.KindValidationError, "URL: %q is not an absolute URL", input)
		}
		parsed = p
	}

	u := &URL{parsed: parsed}
	u.query = newURLSearchParams(parsed.RawQuery)
	u.query.owner = u
	return u, nil
}

func (u *URL) Href() string { return u.parsed.String() }

func (u *URL) SetHref(href string) error {
	parsed, err := url.Parse(href)
	if err != nil {
		return herrors.Wrap(herrors.KindValidationError, err, "URL: invalid href %q", href)
	}
	u.parsed = parsed
	u.query = newURLSearchParams(parsed.RawQuery)
	u.query.owner = u
	return nil
}

func (u *URL) Origin() string {
	if u.parsed.Scheme == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s", u.parsed.Scheme, u.parsed.Host)
}

func (u *URL) Protocol() string { return u.parsed.Scheme + ":" }

func (u *URL) SetProtocol(protocol string) {
	u.parsed.Scheme = strings.TrimSuffix(protocol, ":")
}

func (u *URL) Username() string {
	if u.parsed.User == nil {
		return ""
	}
	return u.parsed.User.Username()
}

func (u *URL) SetUsername(username string) {
	u.parsed.User = url.UserPassword(username, u.Password())
}

func (u *URL) Password() string {
	if u.parsed.User == nil {
		return ""
	}
	password, _ := u.parsed.User.Password()
	return password
}

func (u *URL) SetPassword(password string) {
	u.parsed.User = url.UserPassword(u.Username(), password)
}

func (u *URL) Host() string { return u.parsed.Host }

func (u *URL) SetHost(host string) { u.parsed.Host = host }

func (u *URL) Hostname() string { return u.parsed.Hostname() }

func (u *URL) SetHostname(hostname string) {
	u.parsed.Host = joinHostPort(hostname, u.parsed.Port())
}

func (u *URL) Port() string { return u.parsed.Port() }

func (u *URL) SetPort(port string) {
	u.parsed.Host = joinHostPort(u.parsed.Hostname(), port)
}

func joinHostPort(host, port string) string {
	if port == "" {
		return host
	}
	return host + ":" + port
}

func (u *URL) Pathname() string {
	if u.parsed.Path == "" {
		return "/"
	}
	return u.parsed.Path
}

func (u *URL) SetPathname(pathname string) { u.parsed.Path = pathname }

func (u *URL) Search() string {
	if u.parsed.RawQuery == "" {
		return ""
	}
	return "?" + u.parsed.RawQuery
}

func (u *URL) SetSearch(search string) {
	u.parsed.RawQuery = strings.TrimPrefix(search, "?")
	u.query = newURLSearchParams(u.parsed.RawQuery)
	u.query.owner = u
}

func (u *URL) SearchParams() *URLSearchParams { return u.query }

func (u *URL) Hash() string {
	if u.parsed.Fragment == "" {
		return ""
	}
	return "#" + u.parsed.Fragment
}

func (u *URL) SetHash(hash string) { u.parsed.Fragment = strings.TrimPrefix(hash, "#") }

func (u *URL) ToString() string { return u.Href() }
func (u *URL) ToJSON() string   { return u.Href() }

// queryPair is one key/value entry of a URLSearchParams, kept as an ordered
// slice (rather than a map) since the Web API preserves insertion order.
type queryPair struct {
	key, value string
}

// URLSearchParams backs the script-visible URLSearchParams global, and the
// searchParams property of a URL (in which case owner writes every mutation
// back into the parent URL's raw query, mirroring the live-view behavior
// the Web API specifies).
type URLSearchParams struct {
	pairs []queryPair
	owner *URL
}

func newURLSearchParams(init string) *URLSearchParams {
	usp := &URLSearchParams{}
	if init == "" {
		return usp
	}
	for _, part := range strings.Split(init, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(part, "=")
		key, kerr := url.QueryUnescape(rawKey)
		value, verr := url.QueryUnescape(rawValue)
		if kerr != nil || verr != nil {
			continue
		}
		usp.pairs = append(usp.pairs, queryPair{key, value})
	}
	return usp
}

// NewURLSearchParams constructs a standalone URLSearchParams from an
// optional initial query string, used by the `new URLSearchParams(...)`
// script constructor.
func NewURLSearchParams(init ...string) *URLSearchParams {
	if len(init) == 0 {
		return newURLSearchParams("")
	}
	return newURLSearchParams(init[0])
}

func (usp *URLSearchParams) Append(name, value string) {
	usp.pairs = append(usp.pairs, queryPair{name, value})
	usp.sync()
}

func (usp *URLSearchParams) Delete(name string) {
	kept := usp.pairs[:0]
	for _, p := range usp.pairs {
		if p.key != name {
			kept = append(kept, p)
		}
	}
	usp.pairs = kept
	usp.sync()
}

func (usp *URLSearchParams) Get(name string) string {
	for _, p := range usp.pairs {
		if p.key == name {
			return p.value
		}
	}
	return ""
}

func (usp *URLSearchParams) GetAll(name string) []string {
	var values []string
	for _, p := range usp.pairs {
		if p.key == name {
			values = append(values, p.value)
		}
	}
	return values
}

func (usp *URLSearchParams) Has(name string) bool {
	for _, p := range usp.pairs {
		if p.key == name {
			return true
		}
	}
	return false
}

// Set replaces every existing value for name with a single value, appending
// a new pair if name was not already present.
func (usp *URLSearchParams) Set(name, value string) {
	replaced := false
	kept := usp.pairs[:0]
	for _, p := range usp.pairs {
		if p.key != name {
			kept = append(kept, p)
			continue
		}
		if !replaced {
			kept = append(kept, queryPair{name, value})
			replaced = true
		}
	}
	if !replaced {
		kept = append(kept, queryPair{name, value})
	}
	usp.pairs = kept
	usp.sync()
}

// Sort orders pairs by key, stably, per the Web API's sort() contract.
func (usp *URLSearchParams) Sort() {
	sort.SliceStable(usp.pairs, func(i, j int) bool {
		return usp.pairs[i].key < usp.pairs[j].key
	})
	usp.sync()
}

func (usp *URLSearchParams) ToString() string {
	parts := make([]string, 0, len(usp.pairs))
	for _, p := range usp.pairs {
		parts = append(parts, url.QueryEscape(p.key)+"="+url.QueryEscape(p.value))
	}
	return strings.Join(parts, "&")
}

func (usp *URLSearchParams) ForEach(callback func(value, key string)) {
	for _, p := range usp.pairs {
		callback(p.value, p.key)
	}
}

func (usp *URLSearchParams) Keys() []string {
	keys := make([]string, len(usp.pairs))
	for i, p := range usp.pairs {
		keys[i] = p.key
	}
	return keys
}

func (usp *URLSearchParams) Values() []string {
	values := make([]string, len(usp.pairs))
	for i, p := range usp.pairs {
		values[i] = p.value
	}
	return values
}

func (usp *URLSearchParams) Entries() [][]string {
	entries := make([][]string, len(usp.pairs))
	for i, p := range usp.pairs {
		entries[i] = []string{p.key, p.value}
	}
	return entries
}

// sync writes the current pairs back into the owning URL's raw query, if
// this URLSearchParams is attached to one.
func (usp *URLSearchParams) sync() {
	if usp.owner != nil {
		usp.owner.parsed.RawQuery = usp.ToString()
	}
}
