package generator

import (
	"fmt"
	"strings"

	"github.com/lexich/openapi/configurator"
	"github.com/lexich/openapi/types"
)

// Generator renders a Swagger document as a TypeScript client.
type Generator struct {
	normalizer *Normalizer          `di.inject:"normalizer"`
	typee      *Type                `di.inject:"typeRenderer"`
	config     *configurator.Config `di.inject:"config"`
}

// New wires a Generator without the container.
func New(config *configurator.Config) *Generator {
	normalizer := &Normalizer{}

	return &Generator{
		normalizer: normalizer,
		typee:      &Type{normalizer: normalizer, config: config},
		config:     config,
	}
}

// Result is the generated source with the warnings collected on the way.
type Result struct {
	Code        string
	Warnings    []Warning
	Definitions int
	Operations  int
}

// Generate renders document. Generating the same document twice yields the
// same code.
func (generator *Generator) Generate(document *types.Document) *Result {
	collected := &warnings{}
	result := &Result{}

	var definitions []string
	document.Definitions.Each(func(name string, schema *types.Schema) {
		definitions = append(definitions, generator.definition(name, schema))
	})
	result.Definitions = len(definitions)

	var declarations, accessors []string
	seen := map[string]string{}
	document.Paths.Each(func(path string, item *types.PathItem) {
		if item == nil {
			return
		}

		for _, method := range Methods {
			operation := item.Operation(string(method))
			if operation == nil {
				continue
			}

			decl := generator.operation(document, path, method, item, operation, collected)
			if previous, ok := seen[decl.Name]; ok {
				collected.reporter(decl.Name)(path, "operation name already used by "+previous)
			}
			seen[decl.Name] = strings.ToUpper(string(method)) + " " + path

			declarations = append(declarations, decl.Types...)
			accessors = append(accessors, decl.Accessor)
		}
	})
	result.Operations = len(accessors)

	result.Code = generator.normalizer.joinLines(
		strings.Join(definitions, "\n\n"),
		strings.Join(declarations, "\n\n"),
		generator.fileType(),
		generator.optionsBase(),
		generator.class(accessors),
	) + "\n"
	result.Warnings = collected.list

	return result
}

// definition renders one entry of the definitions registry. Objects become
// interfaces, everything else a type alias.
func (generator *Generator) definition(name string, schema *types.Schema) string {
	name = generator.typeName(name)
	if schema == nil {
		return "export type " + name + " = " + UnknownType + ";"
	}

	var declaration string
	isObject := string(schema.Type) == TypeObject || (schema.Type == "" && schema.Properties.Len() > 0)
	if schema.Ref == "" && isObject {
		declaration = generator.declareInterface(name, generator.typee.fields(schema))
	} else {
		declaration = "export type " + name + " = " + generator.typee.orUnknown(generator.typee.Render(schema)) + ";"
	}

	return generator.normalizer.joinLines(generator.normalizer.lineComment(schema.Description), declaration)
}

func (generator *Generator) fileType() string {
	return "export type " + FileType + " = string;"
}

func (generator *Generator) optionsBase() string {
	return generator.declareInterface(OptionsBase+"<T>", []string{
		"body?: T;",
		"query?: T;",
		"header?: T;",
		"formData?: T;",
		"path?: T;",
		"url: string;",
		"method: string;",
	})
}

const (
	classicDispatch = `%[1]s(options: %[2]s<{}> & TOptions): Promise<any> {
  const path: { [key: string]: any } = options.path || {};
  options.url = Object.keys(path).reduce(
    (url, key) => url.replace(new RegExp('{' + key + '}'), String(path[key])),
    options.url
  );
  return this.call(options);
}`

	modernDispatch = `%[1]s(options: %[2]s<{}> & TOptions): Promise<any> {
  const path: { [key: string]: any } = options.path || {};
  let url = Object.keys(path).reduce(
    (memo, key) => memo.replace(new RegExp('{' + key + '}'), String(path[key])),
    options.url
  );
  const query: { [key: string]: any } = options.query || {};
  const search = Object.keys(query)
    .filter((key) => query[key] !== undefined)
    .map((key) => key + '=' + query[key])
    .join('&');
  if (search) {
    url += (url.indexOf('?') === -1 ? '?' : '&') + search;
  }
  return this.call({ ...options, url });
}`
)

// class renders the abstract client: the transport hook, every accessor
// overload and the single dispatch method behind them.
func (generator *Generator) class(accessors []string) string {
	dialect := generator.dialect()

	template := classicDispatch
	if dialect.QueryString {
		template = modernDispatch
	}

	members := []string{fmt.Sprintf("abstract call(param: %s<%s> & TOptions): Promise<%s>;", OptionsBase, AnyType, AnyType)}
	members = append(members, accessors...)
	members = append(members, fmt.Sprintf(template, dialect.Accessor, OptionsBase))

	body := make([]string, 0, len(members))
	for _, member := range members {
		body = append(body, indent(member, "  "))
	}

	return fmt.Sprintf("export abstract class %s<TOptions = {}> {\n%s\n}", generator.config.ClassName, strings.Join(body, "\n\n"))
}

func (generator *Generator) dialect() Dialect {
	return DialectFor(generator.config.Dialect)
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}

	return strings.Join(lines, "\n")
}
