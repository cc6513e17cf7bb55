// internal/protocol/command.go
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is one outbound robot operation with positional arguments.
// Args hold int, float64 or string values.
type Command struct {
	Name string
	Args []any
}

// NewCommand builds a Command. A nil Args slice renders as the bare name.
func NewCommand(name string, args ...any) Command {
	return Command{Name: name, Args: args}
}

// String renders the wire text: "name" or "name(a0,a1,...)".
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}

	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = formatArg(a)
	}

	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('(')
	b.WriteString(strings.Join(parts, ","))
	b.WriteByte(')')
	return b.String()
}

func formatArg(a any) string {
	switch v := a.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat always keeps a fractional part so the controller parses a real.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
