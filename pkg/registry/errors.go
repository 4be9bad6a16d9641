package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType 无法根据名称构造类型
	ErrUnknownType = errors.New("registry: unknown type")

	// ErrAlreadyRegistered 名称重复注册
	ErrAlreadyRegistered = errors.New("registry: type already registered")
)

// UnknownTypeError reports a type name nothing could construct.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("registry: unknown type %q", e.Name)
}

// Is matches ErrUnknownType.
func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}
