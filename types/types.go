package types

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a Swagger 2.0 document. Only the parts needed to render
// TypeScript declarations are decoded.
type Document struct {
	Swagger     string                  `yaml:"swagger"`
	Info        *Info                   `yaml:"info"`
	BasePath    string                  `yaml:"basePath"`
	Definitions *OrderedMap[*Schema]    `yaml:"definitions"`
	Parameters  *OrderedMap[*Parameter] `yaml:"parameters"`
	Responses   *OrderedMap[*Response]  `yaml:"responses"`
	Paths       *OrderedMap[*PathItem]  `yaml:"paths"`
}

type Info struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

// Schema is the recursive type descriptor of the document.
type Schema struct {
	Ref         string               `yaml:"$ref"`
	Type        TypeName             `yaml:"type"`
	Format      string               `yaml:"format"`
	Description string               `yaml:"description"`
	Properties  *OrderedMap[*Schema] `yaml:"properties"`
	Items       *Items               `yaml:"items"`
	Enum        []any                `yaml:"enum"`
	Required    RequiredList         `yaml:"required"`

	// Schema is not part of the 2.0 schema object. Body parameters carry
	// their type here and some documents use it as a passthrough.
	Schema *Schema `yaml:"schema"`
}

// IsRequired reports whether property is listed in the required list.
func (schema *Schema) IsRequired(property string) bool {
	for _, name := range schema.Required {
		if name == property {
			return true
		}
	}

	return false
}

// RequiredList is the object level list of required properties. Documents
// that put a boolean here decode to an empty list.
type RequiredList []string

func (list *RequiredList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		*list = nil
		return nil
	}

	var names []string
	if err := node.Decode(&names); err != nil {
		return err
	}

	*list = names
	return nil
}

// TypeName is the value of the "type" keyword. A list of types collapses
// to its first non-null entry.
type TypeName string

func (name *TypeName) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		var value string
		if err := node.Decode(&value); err != nil {
			return err
		}

		*name = TypeName(value)
		return nil
	}

	var values []string
	if err := node.Decode(&values); err != nil {
		return err
	}

	for _, value := range values {
		if value != "" && !strings.EqualFold(value, "null") {
			*name = TypeName(value)
			return nil
		}
	}

	*name = ""
	return nil
}

// Items holds either a single item schema or a heterogeneous list.
type Items struct {
	Single *Schema
	List   []*Schema
}

func (items *Items) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		return node.Decode(&items.List)
	}

	return node.Decode(&items.Single)
}

type Parameter struct {
	Ref         string   `yaml:"$ref"`
	Name        string   `yaml:"name"`
	In          string   `yaml:"in"`
	Required    *bool    `yaml:"required"`
	Description string   `yaml:"description"`
	Type        TypeName `yaml:"type"`
	Format      string   `yaml:"format"`
	Enum        []any    `yaml:"enum"`
	Items       *Items   `yaml:"items"`
	Schema      *Schema  `yaml:"schema"`
}

// Node returns the schema view of the parameter.
func (parameter *Parameter) Node() *Schema {
	return &Schema{
		Type:        parameter.Type,
		Format:      parameter.Format,
		Description: parameter.Description,
		Items:       parameter.Items,
		Enum:        parameter.Enum,
		Schema:      parameter.Schema,
	}
}

type Response struct {
	Ref         string  `yaml:"$ref"`
	Description string  `yaml:"description"`
	Schema      *Schema `yaml:"schema"`
}

type Operation struct {
	OperationID string                 `yaml:"operationId"`
	Summary     string                 `yaml:"summary"`
	Description string                 `yaml:"description"`
	Tags        []string               `yaml:"tags"`
	Parameters  []*Parameter           `yaml:"parameters"`
	Responses   *OrderedMap[*Response] `yaml:"responses"`
}

type PathItem struct {
	Ref        string       `yaml:"$ref"`
	Get        *Operation   `yaml:"get"`
	Put        *Operation   `yaml:"put"`
	Post       *Operation   `yaml:"post"`
	Delete     *Operation   `yaml:"delete"`
	Options    *Operation   `yaml:"options"`
	Head       *Operation   `yaml:"head"`
	Patch      *Operation   `yaml:"patch"`
	Parameters []*Parameter `yaml:"parameters"`
}

// Operation returns the operation registered under the lower-case HTTP
// verb, or nil.
func (item *PathItem) Operation(method string) *Operation {
	if item == nil {
		return nil
	}

	switch strings.ToLower(method) {
	case "get":
		return item.Get
	case "put":
		return item.Put
	case "post":
		return item.Post
	case "delete":
		return item.Delete
	case "options":
		return item.Options
	case "head":
		return item.Head
	case "patch":
		return item.Patch
	}

	return nil
}

// ParseDocument decodes a YAML or JSON Swagger 2.0 document.
func ParseDocument(data []byte) (*Document, error) {
	document := new(Document)
	if err := yaml.Unmarshal(data, document); err != nil {
		return nil, err
	}

	return document, nil
}
