package federation

import "github.com/vektah/gqlparser/v2/ast"

type ServiceDefinition struct {
	TypeDefs *ast.SchemaDocument
	Name     string
	URL      string // optional
}
