package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/indexforge/blockschema/schema"
)

type yamlFile struct {
	Namespace string         `yaml:"namespace"`
	Enums     []yamlEnum     `yaml:"enums"`
	Entities  []yamlEntity   `yaml:"entities"`
	Relations []yamlRelation `yaml:"relations"`
}

type yamlEnum struct {
	Name   string   `yaml:"name"`
	Labels []string `yaml:"labels"`
}

type yamlEntity struct {
	Name    string      `yaml:"name"`
	Fields  []yamlField `yaml:"fields"`
	Indexes []yamlIndex `yaml:"indexes"`
}

type yamlField struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Enum     string  `yaml:"enum"`
	Primary  bool    `yaml:"primary"`
	Nullable bool    `yaml:"nullable"`
	Default  *string `yaml:"default"`
	Comment  string  `yaml:"comment"`
}

type yamlIndex struct {
	Fields []string `yaml:"fields"`
	Unique bool     `yaml:"unique"`
	Method string   `yaml:"method"`
}

type yamlRelation struct {
	Kind       string `yaml:"kind"`
	From       string `yaml:"from"`
	To         string `yaml:"to"`
	ForeignKey string `yaml:"foreignKey"`
	Field      string `yaml:"field"`
}

// LoadDocument reads a declarative schema description from a YAML file and
// resolves it into a schema document with relation endpoints wired to their
// entity models.
func LoadDocument(path string) (*schema.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", path, err)
	}

	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %v", path, err)
	}
	if f.Namespace == "" {
		return nil, fmt.Errorf("%s: namespace is required", path)
	}

	doc := &schema.Document{Namespace: f.Namespace}
	for _, e := range f.Enums {
		doc.Enums = append(doc.Enums, schema.EnumType{Name: e.Name, Labels: e.Labels})
	}

	for _, ent := range f.Entities {
		model := &schema.EntityModel{Name: ent.Name}
		for _, fld := range ent.Fields {
			typ := schema.FieldType(fld.Type)
			if fld.Enum != "" {
				typ = schema.TypeEnum
			}
			model.Fields = append(model.Fields, schema.EntityField{
				Name:     fld.Name,
				Type:     typ,
				EnumName: fld.Enum,
				Primary:  fld.Primary,
				Nullable: fld.Nullable,
				Default:  fld.Default,
				Comment:  fld.Comment,
			})
		}
		for _, idx := range ent.Indexes {
			model.Indexes = append(model.Indexes, schema.EntityIndex{
				Fields: idx.Fields,
				Unique: idx.Unique,
				Method: idx.Method,
			})
		}
		doc.Models = append(doc.Models, model)
	}

	for _, rel := range f.Relations {
		from := doc.Model(rel.From)
		if from == nil {
			return nil, fmt.Errorf("relation %s: unknown entity %q", rel.Field, rel.From)
		}
		to := doc.Model(rel.To)
		if to == nil {
			return nil, fmt.Errorf("relation %s: unknown entity %q", rel.Field, rel.To)
		}
		doc.Relations = append(doc.Relations, schema.Relation{
			Kind:       schema.RelationKind(rel.Kind),
			From:       from,
			To:         to,
			ForeignKey: rel.ForeignKey,
			Field:      rel.Field,
		})
	}

	return doc, nil
}
