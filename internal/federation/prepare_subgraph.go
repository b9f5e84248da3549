package federation

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/vvakame/fedlink/internal/log"
	"github.com/vvakame/fedlink/internal/schema"
	"github.com/vvakame/fedlink/internal/spec/connect"
)

// PrepareSubgraph reads the links of service, validates them against catalog
// and adds the definitions required by the linked connect spec.
// The returned schema owns service.TypeDefs and may have modified it.
// On validation errors the schema is still returned when it could be built.
func PrepareSubgraph(ctx context.Context, catalog *Catalog, service *ServiceDefinition) (*schema.FederationSchema, error) {
	ctx = log.WithValues(ctx, "service", service.Name)
	logger := log.FromContext(ctx)

	s, err := schema.New(service.TypeDefs)
	if err != nil {
		return nil, fmt.Errorf("%s %w", logService(service.Name), err)
	}
	logger.V(1).Info("links extracted", "links", len(s.LinksMetadata().Links()))

	errors := validateLinks(ctx, catalog, service.Name, s)
	if len(errors) == 0 {
		err = connect.CheckOrAdd(catalog.Connect, s)
		if err != nil {
			errors = append(errors, fmt.Errorf("%s %w", logService(service.Name), err))
		}
	}

	if len(errors) > 0 {
		err := multierror.Append(nil, errors...)
		return s, err
	}

	logger.V(1).Info("subgraph prepared")

	return s, nil
}

// PrepareSubgraphs runs PrepareSubgraph for each service, in order.
// Every service is processed even if a previous one failed.
func PrepareSubgraphs(ctx context.Context, catalog *Catalog, serviceList []*ServiceDefinition) ([]*schema.FederationSchema, error) {
	var errors []error

	schemas := make([]*schema.FederationSchema, 0, len(serviceList))
	for _, service := range serviceList {
		s, err := PrepareSubgraph(ctx, catalog, service)
		if err != nil {
			errors = append(errors, err)
		}
		schemas = append(schemas, s)
	}

	if len(errors) > 0 {
		err := multierror.Append(nil, errors...)
		return schemas, err
	}

	return schemas, nil
}
