package config

const SourceFileExt = ".lyra"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".lyra"}

// ConfigFileName is the per-project configuration file looked up next to the
// compiled sources.
const ConfigFileName = "lyra.yaml"

// Built-in type names
const (
	AnyTypeName     = "Any"
	NothingTypeName = "Nothing"
	UnitTypeName    = "Unit"
	IntTypeName     = "Int"
	NumberTypeName  = "Number"
	DoubleTypeName  = "Double"
	StringTypeName  = "String"
	BooleanTypeName = "Boolean"

	// ArrayTypeName is the carrier type of vararg parameters.
	ArrayTypeName = "Array"
)
