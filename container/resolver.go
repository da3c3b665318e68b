package container

import "github.com/zond/lively/object"

// CoreResolver resolves the six built-in type names, mirroring
// original_source/LCCore.c's coreStringToType. Bind it first in a
// Context's resolver chain (object.NewContext's first-match-wins order)
// so these names never have to be repeated by an embedding application.
func CoreResolver(typeName string) *object.Type {
	switch typeName {
	case StringType.Name:
		return StringType
	case DataType.Name:
		return DataType
	case KeyValueType.Name:
		return KeyValueType
	case ArrayType.Name:
		return ArrayType
	case MutableArrayType.Name:
		return MutableArrayType
	case MutableDictionaryType.Name:
		return MutableDictionaryType
	default:
		return nil
	}
}
