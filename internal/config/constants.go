package config

import "strings"

// FixtureExtensions are all recognized resolution fixture extensions
var FixtureExtensions = []string{".yaml", ".yml"}

// IsTestMode indicates if the program is running under go test.
// Request ids are replaced by a fixed placeholder so log output stays diffable.
var IsTestMode = false

// Root and built-in reference type names
const (
	ObjectTypeName        = "Object"
	StringTypeName        = "String"
	NumberTypeName        = "Number"
	CharSequenceTypeName  = "CharSequence"
	VoidTypeName          = "void"
	TestModeRequestID     = "req?"
	DefaultConfigFileName = "overload.yaml"
)

// Primitive type names, in widening order where it applies
const (
	BytePrimitive    = "byte"
	ShortPrimitive   = "short"
	CharPrimitive    = "char"
	IntPrimitive     = "int"
	LongPrimitive    = "long"
	FloatPrimitive   = "float"
	DoublePrimitive  = "double"
	BooleanPrimitive = "boolean"
)

// Box type names
const (
	ByteBox      = "Byte"
	ShortBox     = "Short"
	CharacterBox = "Character"
	IntegerBox   = "Integer"
	LongBox      = "Long"
	FloatBox     = "Float"
	DoubleBox    = "Double"
	BooleanBox   = "Boolean"
)

// Environment overrides
const (
	EnvLogLevel  = "OVERLOAD_LOG_LEVEL"
	EnvLogFormat = "OVERLOAD_LOG_FORMAT"
	EnvNoColor   = "NO_COLOR"
	EnvTestMode  = "OVERLOAD_TEST_MODE"
)

// HasFixtureExt reports whether path ends in a recognized fixture extension.
func HasFixtureExt(path string) bool {
	for _, ext := range FixtureExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
