// internal/pvstore/format.go
package pvstore

import (
	"fmt"
	"math/big"
	"strconv"
)

// Format renders a stored value as text.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	case *big.Int:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// JSONValue returns v in a form encoding/json renders losslessly.
// Bit fields wider than a float64 mantissa are rendered as decimal strings.
func JSONValue(v any) any {
	if b, ok := v.(*big.Int); ok {
		return b.String()
	}
	return v
}
