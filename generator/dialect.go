package generator

import "github.com/lexich/openapi/configurator"

// Dialect toggles the differences between the classic and the modern
// output.
type Dialect struct {
	Name string

	// Accessor is the name of the overloaded accessor and of the dispatch
	// method.
	Accessor string

	// NormalizeNames strips characters outside [A-Za-z0-9_] from reference,
	// definition and generated type names.
	NormalizeNames bool

	// TrackRequired marks object properties absent from "required" as
	// optional.
	TrackRequired bool

	// EffectiveRequired computes leaf requiredness from descendants when a
	// parameter does not declare it.
	EffectiveRequired bool

	Descriptions   bool
	OptionalGroups bool
	QueryString    bool
}

var (
	Classic = Dialect{
		Name:     configurator.DialectClassic,
		Accessor: AccessorClassic,
	}

	Modern = Dialect{
		Name:              configurator.DialectModern,
		Accessor:          AccessorModern,
		NormalizeNames:    true,
		TrackRequired:     true,
		EffectiveRequired: true,
		Descriptions:      true,
		OptionalGroups:    true,
		QueryString:       true,
	}
)

// DialectFor returns the dialect registered under name, Modern by default.
func DialectFor(name string) Dialect {
	if name == configurator.DialectClassic {
		return Classic
	}

	return Modern
}
