package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(heredoc.Doc(content)), 0o644))
	return p
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	// keep the user's config out of the way
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	rootCmd := newRootCmd("test")
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSpecsCmd(t *testing.T) {
	stdout, _, err := run(t, "specs", "-o", "json")
	require.NoError(t, err)

	var specs []specOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &specs))
	require.Len(t, specs, 5)
	assert.Equal(t, "https://specs.apollo.dev/cost", specs[3].Identity)
	assert.Equal(t, []specVersionOutput{{
		URL:                      "https://specs.apollo.dev/cost/v0.1",
		Version:                  "0.1",
		MinimumFederationVersion: "2.9",
	}}, specs[3].Versions)

	stdout, _, err = run(t, "specs")
	require.NoError(t, err)
	var fromYAML []specOutput
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &fromYAML))
	assert.Equal(t, specs, fromYAML)
}

func TestParseURLCmd(t *testing.T) {
	stdout, _, err := run(t, "parse-url", "-o", "json", "https://specs.apollo.dev/federation/v2.3", "https://example.com/custom/v1.0")
	require.NoError(t, err)

	var urls []urlOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &urls))
	require.Len(t, urls, 2)

	assert.True(t, urls[0].Known)
	require.NotNil(t, urls[0].Matching)
	assert.Equal(t, "2.9", urls[0].Matching.Version)

	assert.Equal(t, "https://example.com", urls[1].Domain)
	assert.Equal(t, "custom", urls[1].Name)
	assert.False(t, urls[1].Known)
	assert.Nil(t, urls[1].Matching)

	_, _, err = run(t, "parse-url", "https://specs.apollo.dev/cost/latest")
	assert.Error(t, err)
}

func TestNamesCmd(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "products.graphqls", `
		extend schema
			@link(url: "https://specs.apollo.dev/link/v1.0")
			@link(url: "https://specs.apollo.dev/cost/v0.1", import: [{ name: "@cost", as: "@weight" }])
			@link(url: "https://specs.apollo.dev/connect/v0.1", as: "http", import: ["@source"])

		type Query { hello: String }
	`)

	stdout, _, err := run(t, "names", "-o", "json", file)
	require.NoError(t, err)

	var out namesOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "products", out.Service)
	assert.Len(t, out.Links, 3)
	assert.Equal(t, map[string]string{
		"@link":     "@link",
		"@cost":     "@weight",
		"@listSize": "@cost__listSize",
		"@connect":  "@http",
		"@source":   "@source",
	}, out.Directives)

	unlinked := writeFile(t, dir, "legacy.graphqls", `type Query { hello: String }`)
	stdout, _, err = run(t, "names", "-o", "json", "--name", "old", unlinked)
	require.NoError(t, err)
	out = namesOutput{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "old", out.Service)
	assert.Empty(t, out.Links)
	assert.Equal(t, map[string]string{
		"@cost":     "@cost",
		"@listSize": "@listSize",
	}, out.Directives)

	federation := writeFile(t, dir, "inventory.graphqls", `
		extend schema
			@imports(url: "https://specs.apollo.dev/link/v1.0", as: "imports")
			@imports(url: "https://specs.apollo.dev/federation/v2.9", import: ["@key", { name: "@cost", as: "@price" }, "@listSize"])

		type Query { items: [String] @price(weight: 2) @listSize(assumedSize: 5) }
	`)
	stdout, _, err = run(t, "names", "-o", "json", federation)
	require.NoError(t, err)
	out = namesOutput{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, map[string]string{
		"@link":     "@imports",
		"@cost":     "@price",
		"@listSize": "@listSize",
	}, out.Directives)
}

func TestPrepareCmd(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "products.graphqls", `
		extend schema
			@link(url: "https://specs.apollo.dev/link/v1.0")
			@link(url: "https://specs.apollo.dev/federation/v2.9")
			@link(url: "https://specs.apollo.dev/connect/v0.1", import: ["@connect"])

		type Query {
			products: [String] @connect(http: { GET: "https://example.com/products" }, selection: "$")
		}
	`)

	stdout, _, err := run(t, "prepare", "--sort", ok)
	require.NoError(t, err)
	assert.Contains(t, stdout, "# products\n")
	assert.Contains(t, stdout, "directive @connect(")
	assert.Contains(t, stdout, "scalar connect__JSONSelection")

	bad := writeFile(t, dir, "inventory.graphqls", `
		extend schema
			@link(url: "https://specs.apollo.dev/link/v1.0")
			@link(url: "https://specs.apollo.dev/federation/v2.5")
			@link(url: "https://specs.apollo.dev/cost/v0.1")
	`)
	_, stderr, err := run(t, "prepare", ok, bad)
	require.Error(t, err)
	assert.Contains(t, stderr, "UNSUPPORTED_FEDERATION_VERSION")
	assert.Contains(t, stderr, "[inventory] ->")
}

func TestCopyCostCmd(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "source.graphqls", `
		extend schema
			@link(url: "https://specs.apollo.dev/link/v1.0")
			@link(url: "https://specs.apollo.dev/cost/v0.1", import: [{ name: "@cost", as: "@myCost" }])

		type Query {
			hello: String @myCost(weight: 5)
		}
	`)
	dest := writeFile(t, dir, "dest.graphqls", `
		type Query {
			hello: String
		}
	`)

	stdout, _, err := run(t, "copy-cost", "--from", source, dest)
	require.NoError(t, err)
	assert.Contains(t, stdout, "@federation__cost(weight: 5)")
	assert.Contains(t, stdout, "directive @federation__cost(")

	_, _, err = run(t, "copy-cost", dest)
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "fedlink.yaml", `
		output: json
	`)

	stdout, _, err := run(t, "specs", "--config", cfgFile)
	require.NoError(t, err)
	var specs []specOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &specs))

	t.Setenv("FEDLINK_OUTPUT", "xml")
	_, _, err = run(t, "specs")
	assert.Error(t, err)
}
