package testutils

import (
	"fmt"
	"os"
	"regexp"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// FindOptionString finds a "# option:NAME: VALUE" line in source.
func FindOptionString(t TestingT, optionName, source string) string {
	t.Helper()

	pattern := fmt.Sprintf("(?m)^# option:%s:\\s*([^\\s]+)$", optionName)
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.Fatal(err)
	}

	ss := re.FindStringSubmatch(source)
	if len(ss) != 2 {
		t.Logf("option %s value is not found", optionName)
		return ""
	}

	return ss[1]
}

func FindOptionBool(t TestingT, optionName, source string) bool {
	t.Helper()

	return FindOptionString(t, optionName, source) == "true"
}

// ParseSchemaFile reads and parses the SDL at filePath.
func ParseSchemaFile(t TestingT, name, filePath string) (*ast.SchemaDocument, string) {
	t.Helper()

	b, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatal(err)
	}

	schemaDoc, gErr := parser.ParseSchema(&ast.Source{
		Name:  name,
		Input: string(b),
	})
	if gErr != nil {
		t.Fatal(gErr)
	}

	return schemaDoc, string(b)
}
