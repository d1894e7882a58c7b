package generator

import (
	"fmt"
	"strings"

	"github.com/ahmetb/go-linq"

	"github.com/lexich/openapi/types"
)

// operationDecl is the emitted part of one operation: the interfaces it
// declares and its accessor overload.
type operationDecl struct {
	Name     string
	Types    []string
	Accessor string
}

type accessorSignature struct {
	Description string
	Request     string
	Response    string
}

func (generator *Generator) operation(document *types.Document, path string, method Method, item *types.PathItem, operation *types.Operation, collected *warnings) operationDecl {
	name := generator.operationName(method, path, operation)
	warn := collected.reporter(name)
	dialect := generator.dialect()

	decl := operationDecl{Name: name}

	requestFields := []string{
		"method: " + generator.normalizer.literal(strings.ToUpper(string(method))) + ";",
		"url: " + generator.normalizer.literal(path) + ";",
	}

	parameters := generator.resolveParameters(document, item, operation, warn)
	for _, group := range generator.groupParameters(parameters) {
		typ, shape := generator.parameterType(group.Parameters, warn)
		if typ == NullType {
			continue
		}

		groupName := generator.typeName(PrefixInterface + generator.normalizer.upperFirst(group.In) + name)
		decl.Types = append(decl.Types, generator.declareInterface(groupName, shape.Fields))

		key := generator.normalizer.propertyKey(group.In)
		if dialect.OptionalGroups && !shape.Required {
			key += "?"
		}

		requestFields = append(requestFields, key+": "+groupName+";")
	}

	requestName := generator.typeName(PrefixInterface + name + SuffixRequest)
	decl.Types = append(decl.Types, generator.declareInterface(requestName, requestFields))

	decl.Accessor = generator.accessor(accessorSignature{
		Description: firstNonEmpty(operation.Description, operation.Summary),
		Request:     requestName,
		Response:    generator.responseType(document, operation),
	})

	return decl
}

// operationName is the operationId, or a name derived from method and path
// when the operation has none.
func (generator *Generator) operationName(method Method, path string, operation *types.Operation) string {
	if name := generator.typeName(generator.normalizer.upperFirst(operation.OperationID)); name != "" {
		return name
	}

	return generator.normalizer.operationName(method, path)
}

func (generator *Generator) typeName(name string) string {
	if generator.dialect().NormalizeNames {
		return generator.normalizer.identifier(name)
	}

	return name
}

// responseType is the union of the distinct response types in declaration
// order, unknown when no response has a schema. References into the shared
// responses are followed once.
func (generator *Generator) responseType(document *types.Document, operation *types.Operation) string {
	var rendered []string
	operation.Responses.Each(func(_ string, response *types.Response) {
		if response != nil && strings.HasPrefix(response.Ref, ResponsesPrefix) {
			response, _ = document.Responses.Get(strings.TrimPrefix(response.Ref, ResponsesPrefix))
		}

		switch {
		case response == nil:
		case response.Ref != "":
			rendered = append(rendered, generator.typee.refName(response.Ref))
		case response.Schema != nil:
			if typ := generator.typee.Render(response.Schema); typ != "" {
				rendered = append(rendered, typ)
			}
		}
	})

	var distinct []string
	linq.From(rendered).Distinct().ToSlice(&distinct)
	if len(distinct) == 0 {
		return UnknownType
	}

	return strings.Join(distinct, " | ")
}

// accessor renders one overload of the accessor method.
func (generator *Generator) accessor(signature accessorSignature) string {
	return generator.normalizer.joinLines(
		generator.normalizer.lineComment(signature.Description),
		fmt.Sprintf("%s(param: %s & TOptions): Promise<%s>;", generator.dialect().Accessor, signature.Request, signature.Response),
	)
}
