// Package document reads YAML frame documents and builds ontologies from
// them through the declaration layer.
//
// A document lists entities by kind, each entry holding its frames:
//
//	ontology: http://example.org/pizza
//	classes:
//	  - name: Pizza
//	    subclass: [Food, {some: {property: hasTopping, filler: Topping}}]
//	    label: {value: Pizza, lang: en}
//	object_properties:
//	  - name: hasTopping
//	    characteristic: transitive
//	groups:
//	  - kind: subclasses
//	    super: Topping
//	    disjoint: true
//	    classes: [{name: Cheese}, {name: Meat}]
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Document is one YAML frame document.
type Document struct {
	Path string `yaml:"-"`

	Ontology  string   `yaml:"ontology"`
	Namespace string   `yaml:"namespace"`
	IRIPolicy string   `yaml:"iri_policy"`
	Imports   []string `yaml:"imports"`

	AnnotationProperties []Entry `yaml:"annotation_properties"`
	ObjectProperties     []Entry `yaml:"object_properties"`
	Classes              []Entry `yaml:"classes"`
	Individuals          []Entry `yaml:"individuals"`
	Groups               []Group `yaml:"groups"`
}

// Entry is one entity description: frame keyword to value(s).
type Entry map[string]any

// Name returns the entry's name frame.
func (e Entry) Name() string {
	name, _ := e["name"].(string)
	return name
}

// GroupKind selects the scope a group runs in.
type GroupKind string

// Group kinds.
const (
	GroupDisjoint           GroupKind = "disjoint"
	GroupDisjointProperties GroupKind = "disjoint_properties"
	GroupInverse            GroupKind = "inverse"
	GroupSubclasses         GroupKind = "subclasses"
)

// Group declares its entries inside a collection scope.
type Group struct {
	Kind             GroupKind `yaml:"kind"`
	Super            string    `yaml:"super"`
	Disjoint         bool      `yaml:"disjoint"`
	Cover            bool      `yaml:"cover"`
	Classes          []Entry   `yaml:"classes"`
	ObjectProperties []Entry   `yaml:"object_properties"`
}

// Validate checks the group shape.
func (g Group) Validate() error {
	switch g.Kind {
	case GroupDisjoint:
		if len(g.ObjectProperties) > 0 {
			return fmt.Errorf("disjoint group holds classes only")
		}
	case GroupDisjointProperties, GroupInverse:
		if len(g.Classes) > 0 {
			return fmt.Errorf("%s group holds object properties only", g.Kind)
		}
	case GroupSubclasses:
		if g.Super == "" {
			return fmt.Errorf("subclasses group requires super")
		}
		if len(g.ObjectProperties) > 0 {
			return fmt.Errorf("subclasses group holds classes only")
		}
	default:
		return fmt.Errorf("unknown group kind: %q", g.Kind)
	}
	return nil
}

// Parse decodes a document.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	for i, g := range doc.Groups {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
	}
	return doc, nil
}

// Load reads and decodes a document file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Glob expands patterns (with ** support) into a sorted, de-duplicated list
// of files. A pattern without glob characters must name an existing file.
func Glob(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		var matches []string
		if strings.ContainsAny(pattern, "*?[{") {
			m, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", pattern, err)
			}
			matches = m
		} else {
			if _, err := os.Stat(pattern); err != nil {
				return nil, fmt.Errorf("document %q: %w", pattern, err)
			}
			matches = []string{pattern}
		}
		for _, m := range matches {
			m = filepath.Clean(m)
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// LoadAll loads every document matched by patterns.
func LoadAll(patterns []string) ([]*Document, error) {
	paths, err := Glob(patterns)
	if err != nil {
		return nil, err
	}
	docs := make([]*Document, 0, len(paths))
	for _, p := range paths {
		doc, err := Load(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
