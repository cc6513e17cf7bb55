// internal/pvstore/field.go
package pvstore

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind is the storage type of a field.
type Kind uint8

const (
	KindInt Kind = iota + 1
	KindFloat
	KindString
	KindBits
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBits:
		return "bits"
	default:
		return "unknown"
	}
}

// Field declares one attribute of the store.
type Field struct {
	Name    string
	Kind    Kind
	Default any
	Desc    string
	Units   string
}

// convert coerces v to the Go type backing kind:
// int, float64, string or *big.Int. A nil v yields the kind's zero value.
func convert(kind Kind, v any) (any, error) {
	switch kind {
	case KindInt:
		return toInt(v)
	case KindFloat:
		return toFloat(v)
	case KindString:
		return toString(v)
	case KindBits:
		return toBits(v)
	default:
		return nil, fmt.Errorf("%w: unsupported kind %d", ErrType, kind)
	}
}

func toInt(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int:
		return x, nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case uint8:
		return int(x), nil
	case uint16:
		return int(x), nil
	case uint32:
		return int(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: %v is not an integer", ErrType, x)
		}
		return int(x), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrType, x)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: %T for int field", ErrType, v)
	}
}

func toFloat(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return 0.0, nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrType, x)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %T for float field", ErrType, v)
	}
}

func toString(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	default:
		return nil, fmt.Errorf("%w: %T for string field", ErrType, v)
	}
}

func toBits(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return new(big.Int), nil
	case *big.Int:
		if x == nil {
			return new(big.Int), nil
		}
		return new(big.Int).Set(x), nil
	case int:
		return new(big.Int).SetInt64(int64(x)), nil
	case int64:
		return new(big.Int).SetInt64(x), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case float64:
		if x != math.Trunc(x) || x < 0 || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: %v is not a bit field", ErrType, x)
		}
		return new(big.Int).SetUint64(uint64(x)), nil
	case string:
		b, ok := new(big.Int).SetString(strings.TrimSpace(x), 0)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a bit field", ErrType, x)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %T for bits field", ErrType, v)
	}
}
