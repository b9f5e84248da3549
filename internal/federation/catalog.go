package federation

import (
	"github.com/vvakame/fedlink/internal/link"
	"github.com/vvakame/fedlink/internal/spec/connect"
	"github.com/vvakame/fedlink/internal/spec/cost"
)

// Catalog holds every spec version this build understands.
// Build it once at startup with NewCatalog and share it read-only between
// composition passes.
type Catalog struct {
	Link       *link.SpecDefinitions[*link.LinkSpecDefinition]
	Core       *link.SpecDefinitions[*link.LinkSpecDefinition]
	Federation *link.SpecDefinitions[*link.FederationSpecDefinition]
	Cost       *link.SpecDefinitions[*cost.SpecDefinition]
	Connect    *connect.Versions
}

func NewCatalog() (*Catalog, error) {
	linkVersions, err := link.NewLinkVersions()
	if err != nil {
		return nil, err
	}
	coreVersions, err := link.NewCoreVersions()
	if err != nil {
		return nil, err
	}
	federationVersions, err := link.NewFederationVersions()
	if err != nil {
		return nil, err
	}
	costVersions, err := cost.NewVersions()
	if err != nil {
		return nil, err
	}
	connectVersions, err := connect.NewVersions()
	if err != nil {
		return nil, err
	}

	return &Catalog{
		Link:       linkVersions,
		Core:       coreVersions,
		Federation: federationVersions,
		Cost:       costVersions,
		Connect:    connectVersions,
	}, nil
}

func (c *Catalog) Identities() []link.Identity {
	return []link.Identity{
		c.Link.Identity(),
		c.Core.Identity(),
		c.Federation.Identity(),
		c.Cost.Identity(),
		c.Connect.Identity(),
	}
}

// SpecFor returns the known versions of identity, or nil for a spec this
// build doesn't know about.
func (c *Catalog) SpecFor(identity link.Identity) []link.SpecDefinition {
	switch identity {
	case c.Link.Identity():
		return c.Link.Generic()
	case c.Core.Identity():
		return c.Core.Generic()
	case c.Federation.Identity():
		return c.Federation.Generic()
	case c.Cost.Identity():
		return c.Cost.Generic()
	case c.Connect.Identity():
		return c.Connect.Generic()
	default:
		return nil
	}
}

// Find returns the definition of u if u's spec and version are known.
func (c *Catalog) Find(u link.Url) (link.SpecDefinition, bool) {
	switch u.Identity {
	case c.Link.Identity():
		return found[*link.LinkSpecDefinition](c.Link.Find(u.Version))
	case c.Core.Identity():
		return found[*link.LinkSpecDefinition](c.Core.Find(u.Version))
	case c.Federation.Identity():
		return found[*link.FederationSpecDefinition](c.Federation.Find(u.Version))
	case c.Cost.Identity():
		return found[*cost.SpecDefinition](c.Cost.Find(u.Version))
	case c.Connect.Identity():
		return found[*connect.SpecDefinition](c.Connect.Find(u.Version))
	default:
		return nil, false
	}
}

// FindSatisfying returns the highest known version of u's spec that
// satisfies u's version.
func (c *Catalog) FindSatisfying(u link.Url) (link.SpecDefinition, bool) {
	switch u.Identity {
	case c.Link.Identity():
		return found[*link.LinkSpecDefinition](c.Link.FindSatisfying(u.Version))
	case c.Core.Identity():
		return found[*link.LinkSpecDefinition](c.Core.FindSatisfying(u.Version))
	case c.Federation.Identity():
		return found[*link.FederationSpecDefinition](c.Federation.FindSatisfying(u.Version))
	case c.Cost.Identity():
		return found[*cost.SpecDefinition](c.Cost.FindSatisfying(u.Version))
	case c.Connect.Identity():
		return found[*connect.SpecDefinition](c.Connect.FindSatisfying(u.Version))
	default:
		return nil, false
	}
}

// found keeps a missing definition from turning into a non-nil interface
// holding a nil pointer.
func found[T link.SpecDefinition](def T, ok bool) (link.SpecDefinition, bool) {
	if !ok {
		return nil, false
	}
	return def, true
}

// CostSpecFor picks the cost spec version linked by the first of srcs linking
// it, or the latest known one when none does.
func (c *Catalog) CostSpecFor(srcs ...link.MetadataSource) (*cost.SpecDefinition, error) {
	for _, src := range srcs {
		if src == nil {
			continue
		}
		l := src.LinksMetadata().ForIdentity(link.CostIdentity())
		if l == nil {
			continue
		}
		def, ok := c.Cost.Find(l.URL.Version)
		if !ok {
			return nil, link.ErrorPosf(l.Position, link.ErrUnknownSpecVersion, "unknown version %s of %s", l.URL.Version, l.URL.Identity)
		}
		return def, nil
	}

	def, ok := c.Cost.Latest()
	if !ok {
		return nil, link.Errorf(link.ErrUnknownSpecVersion, "no version of %s is registered", c.Cost.Identity())
	}
	return def, nil
}
