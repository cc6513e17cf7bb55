// internal/protocol/telegram.go
package protocol

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// Telegram contexts reported on the status channel.
const (
	ContextState    = "state"
	ContextInputs   = "di"
	ContextOutputs  = "do"
	ContextPosition = "position"
)

var telegramPattern = regexp.MustCompile(`^(\w+)\((.*?)\)`)

// Telegram is one decoded "context(payload)" message.
type Telegram struct {
	Context string
	Payload string
}

// ParseTelegram splits raw text into context and payload.
// ok is false when the text does not follow the grammar.
func ParseTelegram(text string) (t Telegram, ok bool) {
	m := telegramPattern.FindStringSubmatch(text)
	if m == nil {
		return Telegram{}, false
	}
	return Telegram{Context: m[1], Payload: m[2]}, true
}

// Fields splits a state payload into positional values.
func (t Telegram) Fields() []string {
	return strings.Split(t.Payload, ",")
}

// DecodeBits parses a di/do payload ("1,0,1,1" or "1011") as a base-2
// integer. The first digit is the most significant bit.
func DecodeBits(payload string) (*big.Int, error) {
	digits := strings.ReplaceAll(strings.TrimSpace(payload), ",", "")
	if digits == "" {
		return nil, errors.New("protocol: empty bit field")
	}

	v, ok := new(big.Int).SetString(digits, 2)
	if !ok {
		return nil, fmt.Errorf("protocol: invalid bit field %q", payload)
	}
	return v, nil
}
