package generator

// Leaf is one segment of a parameter path. A leaf either carries the
// rendered type of a parameter or, when Children is non-nil, nests other
// leaves.
type Leaf struct {
	Name        string
	Type        string
	Children    []*Leaf
	Required    *bool
	Description string
}

func (leaf *Leaf) IsContainer() bool {
	return leaf.Children != nil
}

// EffectiveRequired is the declared requiredness, or for undeclared leaves
// whether any descendant is required.
func (leaf *Leaf) EffectiveRequired() bool {
	if leaf.Required != nil {
		return *leaf.Required
	}

	for _, child := range leaf.Children {
		if child.EffectiveRequired() {
			return true
		}
	}

	return false
}

// DeclaredRequired reports whether the leaf itself was declared required.
func (leaf *Leaf) DeclaredRequired() bool {
	return leaf.Required != nil && *leaf.Required
}

// newLeafPath builds the chain of leaves for segments, the last one
// holding the parameter type.
func newLeafPath(segments []string, typ string, required *bool, description string) *Leaf {
	last := len(segments) - 1
	leaf := &Leaf{Name: segments[last], Type: typ, Required: required, Description: description}

	for i := last - 1; i >= 0; i-- {
		leaf = &Leaf{Name: segments[i], Children: []*Leaf{leaf}}
	}

	return leaf
}

// leafMerger unifies leaves that share a path. It never mutates its
// inputs; conflicts are reported through warn.
type leafMerger struct {
	warn func(path string, message string)
}

// insert returns a copy of leaves with leaf merged in. A new name is
// appended, a known name is unified in place.
func (merger leafMerger) insert(leaves []*Leaf, leaf *Leaf, parent string) []*Leaf {
	result := make([]*Leaf, len(leaves), len(leaves)+1)
	copy(result, leaves)

	for i, existing := range result {
		if existing.Name == leaf.Name {
			result[i] = merger.merge(existing, leaf, joinPath(parent, leaf.Name))
			return result
		}
	}

	return append(result, leaf)
}

func (merger leafMerger) merge(first, second *Leaf, path string) *Leaf {
	merged := &Leaf{
		Name:     first.Name,
		Required: orRequired(first.Required, second.Required),
	}

	switch {
	case first.IsContainer() && second.IsContainer():
		merged.Description = firstNonEmpty(first.Description, second.Description)
		merged.Children = first.Children
		for _, child := range second.Children {
			merged.Children = merger.insert(merged.Children, child, path)
		}
	case !first.IsContainer() && !second.IsContainer():
		merged.Type = first.Type
		merged.Description = firstNonEmpty(first.Description, second.Description)
		if second.Type != first.Type {
			merger.warn(path, "declared again as "+second.Type+", keeping "+first.Type)
		}
	default:
		container, scalar := first, second
		if !first.IsContainer() {
			container, scalar = second, first
		}

		merged.Children = container.Children
		merged.Description = container.Description
		merger.warn(path, "declared both as "+scalar.Type+" and as a nested object, dropping "+scalar.Type)
	}

	return merged
}

// orRequired is true when either side is true, undeclared when both are
// undeclared, and false otherwise.
func orRequired(first, second *bool) *bool {
	switch {
	case first == nil && second == nil:
		return nil
	case (first != nil && *first) || (second != nil && *second):
		return boolPtr(true)
	}

	return boolPtr(false)
}

func boolPtr(value bool) *bool {
	return &value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}

	return parent + "." + name
}
