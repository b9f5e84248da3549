package link

// LinkSpecDefinition describes the link spec itself, and its predecessor the
// core spec.
type LinkSpecDefinition struct {
	BaseSpecDefinition
}

func NewLinkSpecDefinition(identity Identity, version Version) *LinkSpecDefinition {
	return &LinkSpecDefinition{
		BaseSpecDefinition: NewBaseSpecDefinition(Url{Identity: identity, Version: version}, nil),
	}
}

// BootstrapDirectiveName is the name of the directive importing other specs.
func (d *LinkSpecDefinition) BootstrapDirectiveName(src MetadataSource) string {
	if src != nil {
		if l := src.LinksMetadata().LinkSpec(); l != nil && l.URL.Identity == d.Identity() {
			return l.SpecNameInSchema()
		}
	}
	return d.Identity().Name
}

func NewLinkVersions() (*SpecDefinitions[*LinkSpecDefinition], error) {
	definitions := NewSpecDefinitions[*LinkSpecDefinition](LinkIdentity())
	err := definitions.Add(NewLinkSpecDefinition(LinkIdentity(), Version{Major: 1, Minor: 0}))
	if err != nil {
		return nil, err
	}
	definitions.Freeze()
	return definitions, nil
}

func NewCoreVersions() (*SpecDefinitions[*LinkSpecDefinition], error) {
	definitions := NewSpecDefinitions[*LinkSpecDefinition](CoreIdentity())
	for _, v := range []Version{{Major: 0, Minor: 1}, {Major: 0, Minor: 2}} {
		err := definitions.Add(NewLinkSpecDefinition(CoreIdentity(), v))
		if err != nil {
			return nil, err
		}
	}
	definitions.Freeze()
	return definitions, nil
}

type FederationSpecDefinition struct {
	BaseSpecDefinition
}

func NewFederationSpecDefinition(version Version) *FederationSpecDefinition {
	return &FederationSpecDefinition{
		BaseSpecDefinition: NewBaseSpecDefinition(Url{Identity: FederationIdentity(), Version: version}, nil),
	}
}

func NewFederationVersions() (*SpecDefinitions[*FederationSpecDefinition], error) {
	definitions := NewSpecDefinitions[*FederationSpecDefinition](FederationIdentity())
	for minor := uint32(0); minor <= 9; minor++ {
		err := definitions.Add(NewFederationSpecDefinition(Version{Major: 2, Minor: minor}))
		if err != nil {
			return nil, err
		}
	}
	definitions.Freeze()
	return definitions, nil
}
