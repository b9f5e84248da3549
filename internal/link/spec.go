package link

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const ApolloSpecDomain = "https://specs.apollo.dev"

// Identity is the namespace of a spec. Two identities are the same spec only
// if both domain and name match.
type Identity struct {
	Domain string
	Name   string
}

func (id Identity) String() string {
	return fmt.Sprintf("%s/%s", id.Domain, id.Name)
}

func LinkIdentity() Identity {
	return Identity{Domain: ApolloSpecDomain, Name: "link"}
}

func CoreIdentity() Identity {
	return Identity{Domain: ApolloSpecDomain, Name: "core"}
}

func FederationIdentity() Identity {
	return Identity{Domain: ApolloSpecDomain, Name: "federation"}
}

func CostIdentity() Identity {
	return Identity{Domain: ApolloSpecDomain, Name: "cost"}
}

func ConnectIdentity() Identity {
	return Identity{Domain: ApolloSpecDomain, Name: "connect"}
}

type Version struct {
	Major uint32
	Minor uint32
}

// ParseVersion parses the "vMAJOR.MINOR" form used as the last url segment.
func ParseVersion(s string) (Version, error) {
	if !strings.HasPrefix(s, "v") {
		return Version{}, Errorf(ErrMalformedSpecURL, "version %q must start with 'v'", s)
	}
	major, minor, ok := strings.Cut(s[1:], ".")
	if !ok {
		return Version{}, Errorf(ErrMalformedSpecURL, "version %q must be of the form vMAJOR.MINOR", s)
	}
	majorV, err := strconv.ParseUint(major, 10, 32)
	if err != nil {
		return Version{}, WrapError(ErrMalformedSpecURL, err, "invalid major version number in %q", s)
	}
	minorV, err := strconv.ParseUint(minor, 10, 32)
	if err != nil {
		return Version{}, WrapError(ErrMalformedSpecURL, err, "invalid minor version number in %q", s)
	}

	return Version{Major: uint32(majorV), Minor: uint32(minorV)}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Satisfies reports whether v can be used where required is asked for.
// Majors never satisfy each other.
func (v Version) Satisfies(required Version) bool {
	return v.Major == required.Major && v.Minor >= required.Minor
}

func (v Version) Compare(other Version) int {
	switch {
	case v.Major < other.Major:
		return -1
	case v.Major > other.Major:
		return 1
	case v.Minor < other.Minor:
		return -1
	case v.Minor > other.Minor:
		return 1
	default:
		return 0
	}
}

// Url is the wire form of a versioned spec reference, as found in
// @link(url:) and @core(feature:).
type Url struct {
	Identity Identity
	Version  Version
}

func (u Url) String() string {
	return fmt.Sprintf("%s/v%s", u.Identity.String(), u.Version.String())
}

func ParseUrl(s string) (Url, error) {
	parsed, err := url.Parse(s)
	if err != nil {
		return Url{}, WrapError(ErrMalformedSpecURL, err, "invalid spec url %q", s)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return Url{}, Errorf(ErrMalformedSpecURL, "spec url %q must be absolute", s)
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" || parsed.User != nil {
		return Url{}, Errorf(ErrMalformedSpecURL, "spec url %q must not have user info, query or fragment", s)
	}

	segments := strings.Split(strings.TrimPrefix(parsed.EscapedPath(), "/"), "/")
	if len(segments) < 2 {
		return Url{}, Errorf(ErrMalformedSpecURL, "spec url %q is missing its name or version", s)
	}
	versionSegment := segments[len(segments)-1]
	if versionSegment == "" {
		return Url{}, Errorf(ErrMalformedSpecURL, "spec url %q is missing its version", s)
	}
	version, err := ParseVersion(versionSegment)
	if err != nil {
		return Url{}, err
	}
	name := segments[len(segments)-2]
	if name == "" {
		return Url{}, Errorf(ErrMalformedSpecURL, "spec url %q is missing its name", s)
	}

	domain := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	if rest := segments[:len(segments)-2]; len(rest) != 0 {
		domain = domain + "/" + strings.Join(rest, "/")
	}

	return Url{
		Identity: Identity{Domain: domain, Name: name},
		Version:  version,
	}, nil
}
