package federation

import (
	"github.com/vvakame/fedlink/internal/link"
	"github.com/vvakame/fedlink/internal/schema"
)

type linkValidator func(catalog *Catalog, serviceName string, s *schema.FederationSchema) []error

func linkValidators() []linkValidator {
	return []linkValidator{
		knownSpecVersions,
		federationVersionSupport,
	}
}

// Every link to a spec this build knows about must name a registered version.
// Links to other specs are left alone.
func knownSpecVersions(catalog *Catalog, serviceName string, s *schema.FederationSchema) []error {
	var errors []error

	for _, l := range s.LinksMetadata().Links() {
		definitions := catalog.SpecFor(l.URL.Identity)
		if definitions == nil {
			continue
		}
		if _, ok := catalog.Find(l.URL); ok {
			continue
		}

		versions := make([]string, 0, len(definitions))
		for _, def := range definitions {
			versions = append(versions, "v"+def.URL().Version.String())
		}
		errors = append(errors, link.ErrorPosf(
			l.Position,
			link.ErrUnknownSpecVersion,
			"%s Invalid version v%s for %s, known versions are %v",
			logService(serviceName), l.URL.Version, l.URL.Identity, versions,
		))
	}

	return errors
}

// A linked spec may require a minimum federation version. Schemas not linking
// federation at all are not checked.
func federationVersionSupport(catalog *Catalog, serviceName string, s *schema.FederationSchema) []error {
	metadata := s.LinksMetadata()
	federationLink := metadata.ForIdentity(link.FederationIdentity())
	if federationLink == nil {
		return nil
	}

	var errors []error
	for _, l := range metadata.Links() {
		def, ok := catalog.Find(l.URL)
		if !ok {
			continue
		}
		if link.SupportsFederationVersion(def, federationLink.URL.Version) {
			continue
		}
		errors = append(errors, link.ErrorPosf(
			l.Position,
			link.ErrUnsupportedFederationVersion,
			"%s %s requires federation v%s or later, but the schema links federation v%s",
			logService(serviceName), l.URL, def.MinimumFederationVersion(), federationLink.URL.Version,
		))
	}

	return errors
}
