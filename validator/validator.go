package validator

import (
	"fmt"

	"github.com/indexforge/blockschema/schema"
)

// ValidationError represents a validation finding with details
type ValidationError struct {
	Type     string `json:"type"`
	Table    string `json:"table,omitempty"`
	Column   string `json:"column,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error" or "warning"
}

// ValidationResult contains all validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
}

// Validate checks a schema document for problems the planner would only
// surface one at a time: duplicate names, unknown types and enum references,
// malformed indexes and relations. It needs no database connection.
func Validate(doc *schema.Document) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	if doc.Namespace == "" {
		result.addError(ValidationError{
			Type:    "namespace",
			Message: "schema namespace is required",
		})
	}

	enums := map[string]bool{}
	for _, e := range doc.Enums {
		if enums[e.Name] {
			result.addError(ValidationError{
				Type:    "enum",
				Message: fmt.Sprintf("duplicate enum type %q", e.Name),
			})
		}
		enums[e.Name] = true
		if len(e.Labels) == 0 {
			result.addError(ValidationError{
				Type:    "enum",
				Message: fmt.Sprintf("enum type %q has no labels", e.Name),
			})
		}
		seen := map[string]bool{}
		for _, l := range e.Labels {
			if seen[l] {
				result.addError(ValidationError{
					Type:    "enum",
					Message: fmt.Sprintf("enum type %q repeats label %q", e.Name, l),
				})
			}
			seen[l] = true
		}
	}

	models := map[string]bool{}
	for _, m := range doc.Models {
		if models[m.Name] {
			result.addError(ValidationError{
				Type:    "entity",
				Table:   m.Name,
				Message: fmt.Sprintf("duplicate entity %q", m.Name),
			})
		}
		models[m.Name] = true
		validateModel(doc, m, enums, result)
	}

	for _, rel := range doc.Relations {
		validateRelation(&rel, result)
	}

	return result
}

func validateModel(doc *schema.Document, m *schema.EntityModel, enums map[string]bool, result *ValidationResult) {
	if len(m.Fields) == 0 {
		result.addError(ValidationError{
			Type:    "entity",
			Table:   m.Name,
			Message: "entity declares no fields",
		})
		return
	}

	fields := map[string]bool{}
	hasPrimary := false
	for i := range m.Fields {
		f := &m.Fields[i]
		if fields[f.Name] {
			result.addError(ValidationError{
				Type:    "field",
				Table:   m.Name,
				Column:  f.Name,
				Message: fmt.Sprintf("duplicate field %q", f.Name),
			})
		}
		fields[f.Name] = true
		if f.Primary {
			hasPrimary = true
		}

		switch f.Type {
		case schema.TypeID, schema.TypeString, schema.TypeInt, schema.TypeBigInt,
			schema.TypeBigDecimal, schema.TypeBytes, schema.TypeBoolean, schema.TypeTimestamp:
		case schema.TypeEnum:
			if !enums[f.EnumName] {
				result.addError(ValidationError{
					Type:    "field",
					Table:   m.Name,
					Column:  f.Name,
					Message: fmt.Sprintf("field references undeclared enum type %q", f.EnumName),
				})
			}
		default:
			result.addError(ValidationError{
				Type:    "field",
				Table:   m.Name,
				Column:  f.Name,
				Message: fmt.Sprintf("unsupported field type %q", f.Type),
			})
		}
	}

	if !hasPrimary {
		result.addWarning(ValidationError{
			Type:    "entity",
			Table:   m.Name,
			Message: "entity declares no primary key field",
		})
	}

	for _, idx := range m.Indexes {
		if len(idx.Fields) == 0 {
			result.addError(ValidationError{
				Type:    "index",
				Table:   m.Name,
				Message: "index declares no fields",
			})
			continue
		}
		for _, f := range idx.Fields {
			if !fields[f] {
				result.addError(ValidationError{
					Type:    "index",
					Table:   m.Name,
					Column:  f,
					Message: fmt.Sprintf("index references unknown field %q", f),
				})
			}
		}
	}
}

func validateRelation(rel *schema.Relation, result *ValidationResult) {
	switch rel.Kind {
	case schema.BelongsTo, schema.HasOne, schema.HasMany:
	default:
		result.addError(ValidationError{
			Type:    "relation",
			Message: fmt.Sprintf("relation %q has unsupported kind %q", rel.Field, rel.Kind),
		})
	}
	if rel.From == nil || rel.To == nil {
		result.addError(ValidationError{
			Type:    "relation",
			Message: fmt.Sprintf("relation %q is missing an endpoint entity", rel.Field),
		})
		return
	}
	if rel.From.Field(rel.ForeignKey) == nil {
		result.addError(ValidationError{
			Type:    "relation",
			Table:   rel.From.Name,
			Column:  rel.ForeignKey,
			Message: fmt.Sprintf("relation %q names foreign key field %q not declared on %s", rel.Field, rel.ForeignKey, rel.From.Name),
		})
	}
}

func (r *ValidationResult) addError(e ValidationError) {
	e.Severity = "error"
	r.Errors = append(r.Errors, e)
	r.Valid = false
}

func (r *ValidationResult) addWarning(e ValidationError) {
	e.Severity = "warning"
	r.Warnings = append(r.Warnings, e)
}
