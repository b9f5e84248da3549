package link

import (
	"fmt"
	"regexp"
	"sort"
)

var graphQLNameRegexp = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

func IsValidName(name string) bool {
	return graphQLNameRegexp.MatchString(name)
}

// SpecDefinition is one released version of a spec.
type SpecDefinition interface {
	URL() Url
	MinimumFederationVersion() *Version
	// DirectiveNameInSchema returns the name of the directive nameInSpec in
	// the schema src describes. ok is false when the spec isn't linked there.
	DirectiveNameInSchema(src MetadataSource, nameInSpec string) (name string, ok bool, err error)
}

// BaseSpecDefinition provides the SpecDefinition behaviour shared by every
// spec. Concrete specs embed it.
type BaseSpecDefinition struct {
	url                      Url
	minimumFederationVersion *Version
}

func NewBaseSpecDefinition(u Url, minimumFederationVersion *Version) BaseSpecDefinition {
	return BaseSpecDefinition{
		url:                      u,
		minimumFederationVersion: minimumFederationVersion,
	}
}

func (d *BaseSpecDefinition) URL() Url {
	return d.url
}

func (d *BaseSpecDefinition) Identity() Identity {
	return d.url.Identity
}

func (d *BaseSpecDefinition) Version() Version {
	return d.url.Version
}

func (d *BaseSpecDefinition) MinimumFederationVersion() *Version {
	if d.minimumFederationVersion == nil {
		return nil
	}
	v := *d.minimumFederationVersion
	return &v
}

func (d *BaseSpecDefinition) DirectiveNameInSchema(src MetadataSource, nameInSpec string) (string, bool, error) {
	var metadata *Metadata
	if src != nil {
		metadata = src.LinksMetadata()
	}
	return DirectiveNameInSchema(metadata, d.url.Identity, nameInSpec)
}

// DirectiveNameInSchema resolves the name of the directive nameInSpec of the
// spec identity within a schema, in this order:
//
//  1. explicitly imported: the import alias, or nameInSpec if unaliased
//  2. linked without import: the name qualified by the spec's name in schema
//  3. not linked: ok is false, callers fall back to their own default
func DirectiveNameInSchema(metadata *Metadata, identity Identity, nameInSpec string) (name string, ok bool, err error) {
	l := metadata.ForIdentity(identity)
	if l == nil {
		return "", false, nil
	}
	if l.URL.Identity != identity {
		return "", false, Errorf(ErrDirectiveNameResolution, "link metadata for %s points to %s", identity, l.URL)
	}

	name = l.DirectiveNameInSchema(nameInSpec)
	if !IsValidName(name) {
		return "", false, ErrorPosf(l.Position, ErrDirectiveNameResolution, "@%s of %s resolves to invalid name %q", nameInSpec, l.URL, name)
	}
	return name, true, nil
}

// DefaultDirectiveName is the name used for a directive of a spec that the
// schema does not link, e.g. "federation__cost".
func DefaultDirectiveName(prefix, nameInSpec string) string {
	return fmt.Sprintf("%s__%s", prefix, nameInSpec)
}

// SupportsFederationVersion reports whether def can be used in a schema
// linking federationVersion.
func SupportsFederationVersion(def SpecDefinition, federationVersion Version) bool {
	minimum := def.MinimumFederationVersion()
	if minimum == nil {
		return true
	}
	return federationVersion.Satisfies(*minimum)
}

// SpecDefinitions holds every released version of one spec.
// It is built once, frozen, and then only read.
type SpecDefinitions[T SpecDefinition] struct {
	identity    Identity
	definitions []T // sorted by version
	frozen      bool
}

func NewSpecDefinitions[T SpecDefinition](identity Identity) *SpecDefinitions[T] {
	return &SpecDefinitions[T]{
		identity: identity,
	}
}

func (s *SpecDefinitions[T]) Identity() Identity {
	return s.identity
}

func (s *SpecDefinitions[T]) Add(definition T) error {
	if s.frozen {
		return fmt.Errorf("cannot add %s: versions of %s are frozen", definition.URL(), s.identity)
	}
	u := definition.URL()
	if u.Identity != s.identity {
		return fmt.Errorf("cannot add %s to the versions of %s", u, s.identity)
	}
	idx := sort.Search(len(s.definitions), func(i int) bool {
		return s.definitions[i].URL().Version.Compare(u.Version) >= 0
	})
	if idx < len(s.definitions) && s.definitions[idx].URL().Version == u.Version {
		return fmt.Errorf("version %s of %s is already registered", u.Version, s.identity)
	}

	s.definitions = append(s.definitions, definition)
	copy(s.definitions[idx+1:], s.definitions[idx:])
	s.definitions[idx] = definition
	return nil
}

func (s *SpecDefinitions[T]) Freeze() {
	s.frozen = true
}

func (s *SpecDefinitions[T]) Frozen() bool {
	return s.frozen
}

func (s *SpecDefinitions[T]) Find(version Version) (T, bool) {
	idx := sort.Search(len(s.definitions), func(i int) bool {
		return s.definitions[i].URL().Version.Compare(version) >= 0
	})
	if idx < len(s.definitions) && s.definitions[idx].URL().Version == version {
		return s.definitions[idx], true
	}
	var zero T
	return zero, false
}

// FindSatisfying returns the highest version satisfying required.
func (s *SpecDefinitions[T]) FindSatisfying(required Version) (T, bool) {
	for i := len(s.definitions) - 1; i >= 0; i-- {
		if s.definitions[i].URL().Version.Satisfies(required) {
			return s.definitions[i], true
		}
	}
	var zero T
	return zero, false
}

func (s *SpecDefinitions[T]) Latest() (T, bool) {
	if len(s.definitions) == 0 {
		var zero T
		return zero, false
	}
	return s.definitions[len(s.definitions)-1], true
}

func (s *SpecDefinitions[T]) Versions() []Version {
	versions := make([]Version, 0, len(s.definitions))
	for _, def := range s.definitions {
		versions = append(versions, def.URL().Version)
	}
	return versions
}

func (s *SpecDefinitions[T]) All() []T {
	return append([]T{}, s.definitions...)
}

// Generic returns the definitions as plain SpecDefinition values.
func (s *SpecDefinitions[T]) Generic() []SpecDefinition {
	defs := make([]SpecDefinition, 0, len(s.definitions))
	for _, def := range s.definitions {
		defs = append(defs, def)
	}
	return defs
}
