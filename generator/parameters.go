package generator

import (
	"strings"

	"github.com/ahmetb/go-linq"

	"github.com/lexich/openapi/types"
)

// parameterGroup holds the parameters of one location.
type parameterGroup struct {
	In         string
	Parameters []*types.Parameter
}

// groupParameters partitions parameters by location in first-occurrence
// order. Parameters without a location are dropped.
func (generator *Generator) groupParameters(parameters []*types.Parameter) (groups []parameterGroup) {
	var locations []string
	linq.From(parameters).
		WhereT(func(parameter *types.Parameter) bool { return parameter.In != "" }).
		SelectT(func(parameter *types.Parameter) string { return parameter.In }).
		Distinct().
		ToSlice(&locations)

	for _, in := range locations {
		group := parameterGroup{In: in}
		linq.From(parameters).
			WhereT(func(parameter *types.Parameter) bool { return parameter.In == in }).
			ToSlice(&group.Parameters)

		groups = append(groups, group)
	}

	return groups
}

// resolveParameters follows #/parameters references and prepends the path
// item parameters the operation does not override.
func (generator *Generator) resolveParameters(document *types.Document, item *types.PathItem, operation *types.Operation, warn func(path, message string)) []*types.Parameter {
	resolve := func(parameters []*types.Parameter) (resolved []*types.Parameter) {
		for _, parameter := range parameters {
			if parameter == nil {
				continue
			}

			if parameter.Ref != "" {
				target, ok := document.Parameters.Get(strings.TrimPrefix(parameter.Ref, ParametersPrefix))
				if !strings.HasPrefix(parameter.Ref, ParametersPrefix) || !ok || target == nil {
					warn(parameter.Ref, "unresolved parameter reference is skipped")
					continue
				}

				parameter = target
			}

			resolved = append(resolved, parameter)
		}

		return
	}

	own := resolve(operation.Parameters)

	var shared []*types.Parameter
	linq.From(resolve(item.Parameters)).
		WhereT(func(parameter *types.Parameter) bool {
			return !linq.From(own).AnyWithT(func(override *types.Parameter) bool {
				return override.Name == parameter.Name && override.In == parameter.In
			})
		}).
		ToSlice(&shared)

	return append(shared, own...)
}

// buildLeaves nests the parameters along their property paths. It returns
// nil when there is nothing to render.
func (generator *Generator) buildLeaves(parameters []*types.Parameter, warn func(path, message string)) []*Leaf {
	merger := leafMerger{warn: warn}

	var leaves []*Leaf
	for _, parameter := range parameters {
		segments := ToPath(parameter.Name)
		if len(segments) == 0 {
			warn(parameter.Name, "parameter without a name is skipped")
			continue
		}

		rendered := generator.typee.orUnknown(generator.typee.Render(parameter.Node()))
		leaves = merger.insert(leaves, newLeafPath(segments, rendered, parameter.Required, parameter.Description), "")
	}

	return leaves
}

// parameterShape is the rendered leaf tree of one location.
type parameterShape struct {
	Fields   []string
	Required bool
}

// parameterType renders the parameters of one location as an object type
// along with its fields. Empty input yields NullType and no fields; callers
// must not declare anything for it.
func (generator *Generator) parameterType(parameters []*types.Parameter, warn func(path, message string)) (string, parameterShape) {
	leaves := generator.buildLeaves(parameters, warn)
	if len(leaves) == 0 {
		return NullType, parameterShape{}
	}

	shape := parameterShape{
		Fields:   generator.leafFields(leaves),
		Required: generator.anyRequired(leaves),
	}

	return generator.inlineObject(shape.Fields), shape
}

func (generator *Generator) leafFields(leaves []*Leaf) []string {
	dialect := generator.dialect()

	fields := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		key := generator.normalizer.propertyKey(leaf.Name)
		if !generator.leafRequired(leaf) {
			key += "?"
		}

		value := leaf.Type
		if leaf.IsContainer() {
			value = generator.inlineObject(generator.leafFields(leaf.Children))
		}

		comment := ""
		if dialect.Descriptions {
			comment = generator.normalizer.blockComment(leaf.Description)
		}

		fields = append(fields, key+": "+value+comment+";")
	}

	return fields
}

func (generator *Generator) leafRequired(leaf *Leaf) bool {
	if generator.dialect().EffectiveRequired {
		return leaf.EffectiveRequired()
	}

	return leaf.IsContainer() || leaf.DeclaredRequired()
}

func (generator *Generator) anyRequired(leaves []*Leaf) bool {
	return linq.From(leaves).AnyWithT(func(leaf *Leaf) bool { return generator.leafRequired(leaf) })
}

func (generator *Generator) inlineObject(fields []string) string {
	if len(fields) == 0 {
		return "{}"
	}

	return "{ " + strings.Join(fields, " ") + " }"
}

// declareInterface renders an exported interface with one field per line.
func (generator *Generator) declareInterface(name string, fields []string) string {
	if len(fields) == 0 {
		return "export interface " + name + " {}"
	}

	return "export interface " + name + " {\n  " + strings.Join(fields, "\n  ") + "\n}"
}
