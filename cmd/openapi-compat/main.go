// Package main checks that a revised OpenAPI document is backward compatible
// with a base one. It reads swag's swagger.yaml or swagger.json output.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var httpMethods = []string{"get", "put", "post", "delete", "patch", "head", "options"}

type parameter struct {
	Name     string `yaml:"name"`
	In       string `yaml:"in"`
	Required bool   `yaml:"required"`
}

type operation struct {
	Parameters []parameter          `yaml:"parameters"`
	Responses  map[string]yaml.Node `yaml:"responses"`
}

type document struct {
	BasePath string                          `yaml:"basePath"`
	Paths    map[string]map[string]operation `yaml:"paths"`
}

func main() {
	basePath := flag.String("base", "", "base OpenAPI document")
	revisionPath := flag.String("revision", "", "revision OpenAPI document")
	flag.Parse()

	if strings.TrimSpace(*basePath) == "" || strings.TrimSpace(*revisionPath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -base <path> -revision <path>")
		os.Exit(2)
	}

	base, err := load(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base document: %v\n", err)
		os.Exit(1)
	}
	revision, err := load(*revisionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revision document: %v\n", err)
		os.Exit(1)
	}

	if issues := compare(base, revision); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "backward compatibility check failed:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "- %s\n", issue)
		}
		os.Exit(1)
	}
	fmt.Println("openapi compatibility check passed")
}

// load parses a YAML or JSON document; JSON is valid YAML.
func load(path string) (*document, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(raw)
}

func parse(raw []byte) (*document, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		return nil, fmt.Errorf("missing top-level paths field")
	}
	return &doc, nil
}

func opKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// compare lists changes that break existing clients: removed paths,
// operations or response codes, and newly required parameters.
func compare(base, revision *document) []string {
	var issues []string
	if base.BasePath != revision.BasePath {
		issues = append(issues, fmt.Sprintf("basePath changed: %q -> %q", base.BasePath, revision.BasePath))
	}

	for path, baseOps := range base.Paths {
		revOps, ok := revision.Paths[path]
		if !ok {
			issues = append(issues, "removed path: "+path)
			continue
		}

		for _, method := range httpMethods {
			baseOp, ok := baseOps[method]
			if !ok {
				continue
			}
			revOp, ok := revOps[method]
			if !ok {
				issues = append(issues, "removed operation: "+opKey(method, path))
				continue
			}

			for code := range baseOp.Responses {
				if _, ok := revOp.Responses[code]; !ok {
					issues = append(issues, fmt.Sprintf("removed response code: %s -> %s", opKey(method, path), code))
				}
			}

			known := make(map[string]bool, len(baseOp.Parameters))
			for _, p := range baseOp.Parameters {
				known[p.In+":"+p.Name] = p.Required
			}
			for _, p := range revOp.Parameters {
				wasRequired, existed := known[p.In+":"+p.Name]
				if p.Required && (!existed || !wasRequired) {
					issues = append(issues, fmt.Sprintf("new required %s parameter %q: %s", p.In, p.Name, opKey(method, path)))
				}
			}
		}
	}

	sort.Strings(issues)
	return issues
}
