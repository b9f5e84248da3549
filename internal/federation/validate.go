package federation

import (
	"context"

	"github.com/vvakame/fedlink/internal/log"
	"github.com/vvakame/fedlink/internal/schema"
)

func validateLinks(ctx context.Context, catalog *Catalog, serviceName string, s *schema.FederationSchema) []error {
	var errors []error

	for _, validator := range linkValidators() {
		errors = append(errors, validator(catalog, serviceName, s)...)
	}

	if len(errors) != 0 {
		log.FromContext(ctx).V(1).Info("link validation failed", "errors", len(errors))
	}

	return errors
}
