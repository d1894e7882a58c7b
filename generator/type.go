package generator

import (
	"strings"

	"github.com/ahmetb/go-linq"
	"github.com/spf13/cast"

	"github.com/lexich/openapi/configurator"
	"github.com/lexich/openapi/types"
)

// Type renders schema nodes as TypeScript type expressions.
type Type struct {
	normalizer *Normalizer          `di.inject:"normalizer"`
	config     *configurator.Config `di.inject:"config"`
}

func (typ *Type) dialect() Dialect {
	return DialectFor(typ.config.Dialect)
}

// Render converts schema into a type expression. References render as the
// referenced name and are never followed, so cyclic definitions terminate.
// Nodes without a known type render as an empty string.
func (typ *Type) Render(schema *types.Schema) string {
	if schema == nil {
		return ""
	}

	var result []string
	if schema.Ref != "" {
		result = append(result, typ.refName(schema.Ref))
	}

	switch string(schema.Type) {
	case TypeObject:
		result = append(result, typ.object(schema))
	case TypeArray:
		result = append(result, "Array<"+typ.items(schema.Items)+">")
	case TypeString:
		if len(schema.Enum) > 0 {
			result = append(result, typ.enum(schema.Enum, typ.normalizer.literal))
		} else {
			result = append(result, TypeString)
		}
	case TypeBoolean, TypeBooleanUpper:
		if len(schema.Enum) > 0 {
			result = append(result, typ.enum(schema.Enum, cast.ToString))
		} else {
			result = append(result, TypeBoolean)
		}
	case TypeNumber, TypeInteger, TypeFloat:
		if len(schema.Enum) > 0 {
			result = append(result, typ.enum(schema.Enum, cast.ToString))
		} else {
			result = append(result, TypeNumber)
		}
	case TypeFile:
		result = append(result, FileType)
	default:
		if schema.Ref == "" && schema.Schema != nil {
			result = append(result, typ.Render(schema.Schema))
		}
	}

	return strings.Join(result, "\n")
}

func (typ *Type) refName(ref string) string {
	name := typ.normalizer.extractNameFromRef(ref)
	if typ.dialect().NormalizeNames {
		return typ.normalizer.identifier(name)
	}

	return name
}

// object renders the properties in declaration order. Without a "required"
// keyword every property is treated as present.
func (typ *Type) object(schema *types.Schema) string {
	fields := typ.fields(schema)
	if len(fields) == 0 {
		return "{}"
	}

	return "{ " + strings.Join(fields, " ") + " }"
}

// fields renders one `key: T;` entry per property.
func (typ *Type) fields(schema *types.Schema) (fields []string) {
	trackRequired := typ.dialect().TrackRequired && schema.Required != nil

	schema.Properties.Each(func(name string, property *types.Schema) {
		key := typ.normalizer.propertyKey(name)
		if trackRequired && !schema.IsRequired(name) {
			key += "?"
		}

		fields = append(fields, key+": "+typ.orUnknown(typ.Render(property))+";")
	})

	return fields
}

func (typ *Type) items(items *types.Items) string {
	if items == nil || (items.Single == nil && len(items.List) == 0) {
		return UnknownType
	}

	if len(items.List) == 0 {
		return typ.orUnknown(typ.Render(items.Single))
	}

	var rendered []string
	linq.From(items.List).
		SelectT(func(item *types.Schema) string { return typ.orUnknown(typ.Render(item)) }).
		ToSlice(&rendered)

	return strings.Join(rendered, " | ")
}

func (typ *Type) enum(values []any, format func(any) string) string {
	var literals []string
	linq.From(values).
		SelectT(func(value any) string { return format(value) }).
		ToSlice(&literals)

	return strings.Join(literals, "|")
}

func (typ *Type) orUnknown(rendered string) string {
	if rendered == "" {
		return UnknownType
	}

	return rendered
}
