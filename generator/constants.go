package generator

// Method is a lower-case HTTP verb of a Swagger path item.
type Method string

const (
	MethodGet     Method = "get"
	MethodPut     Method = "put"
	MethodPost    Method = "post"
	MethodDelete  Method = "delete"
	MethodOptions Method = "options"
	MethodHead    Method = "head"
	MethodPatch   Method = "patch"
)

// Methods is the order in which the operations of one path are emitted.
var Methods = [...]Method{
	MethodGet,
	MethodPut,
	MethodPost,
	MethodDelete,
	MethodOptions,
	MethodHead,
	MethodPatch,
}

// Parameter locations
const (
	InPath     = "path"
	InQuery    = "query"
	InHeader   = "header"
	InBody     = "body"
	InFormData = "formData"
)

// Schema types
const (
	TypeObject       = "object"
	TypeArray        = "array"
	TypeString       = "string"
	TypeBoolean      = "boolean"
	TypeBooleanUpper = "Boolean"
	TypeNumber       = "number"
	TypeInteger      = "integer"
	TypeFloat        = "float"
	TypeFile         = "file"
)

// Emitted TypeScript names and sentinels
const (
	FileType    = "IFileType$$"
	OptionsBase = "IOptionsBaseT"
	NullType    = "null"
	UnknownType = "unknown"
	AnyType     = "any"

	PrefixInterface = "I"
	SuffixRequest   = "Request"

	AccessorClassic = "get"
	AccessorModern  = "request"

	DefinitionsPrefix = "#/definitions/"
	ParametersPrefix  = "#/parameters/"
	ResponsesPrefix   = "#/responses/"
)
