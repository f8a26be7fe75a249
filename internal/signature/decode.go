package signature

import "github.com/apisurface/apisurface/internal/model"

// DecodeField resolves a field's type, preferring the generic Signature
// attribute when present and falling back to the plain descriptor
// otherwise (spec.md §4.2: "resolving generic arguments declared in the
// signature attribute when present; falling back to the raw descriptor
// otherwise"). A malformed signature is NOT silently swallowed — per
// spec.md §4.2 it is reported to the caller as a MalformedSignature so the
// field can be skipped with a warning.
func DecodeField(descriptor, genericSignature string) (model.TypeRef, error) {
	if genericSignature == "" {
		return DecodeFieldDescriptor(descriptor)
	}
	return DecodeFieldSignature(genericSignature)
}

// DecodeMethod resolves a method's parameter and return types the same way:
// signature attribute preferred, descriptor as fallback when absent.
func DecodeMethod(descriptor, genericSignature string) (params []model.TypeRef, ret model.TypeRef, err error) {
	if genericSignature == "" {
		return DecodeMethodDescriptor(descriptor)
	}
	return DecodeMethodSignature(genericSignature)
}
