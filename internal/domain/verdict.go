package domain

import (
	"bytes"
	"database/sql/driver"
	"fmt"
)

// BotVerdict is the tri-state bot classification attached to a submission
// by upstream detection: a submission is known-automated, known-human, or
// undetermined. The zero value is VerdictUnknown.
//
// On the wire and in the database the verdict is a nullable boolean
// (true=bot, false=human, null=unknown) for compatibility with the
// extension payloads.
type BotVerdict int

const (
	// VerdictUnknown means upstream detection made no determination.
	VerdictUnknown BotVerdict = iota
	// VerdictHuman means the submission was attributed to a human.
	VerdictHuman
	// VerdictBot means the submission was attributed to automation.
	VerdictBot
)

// IsHuman reports whether the verdict is exactly VerdictHuman.
// VerdictUnknown is neither human nor bot.
func (v BotVerdict) IsHuman() bool {
	return v == VerdictHuman
}

// IsBot reports whether the verdict is exactly VerdictBot.
func (v BotVerdict) IsBot() bool {
	return v == VerdictBot
}

func (v BotVerdict) String() string {
	switch v {
	case VerdictHuman:
		return "human"
	case VerdictBot:
		return "bot"
	default:
		return "unknown"
	}
}

var jsonNull = []byte("null")

// MarshalJSON encodes the verdict as true, false, or null.
func (v BotVerdict) MarshalJSON() ([]byte, error) {
	switch v {
	case VerdictHuman:
		return []byte("false"), nil
	case VerdictBot:
		return []byte("true"), nil
	default:
		return jsonNull, nil
	}
}

// UnmarshalJSON decodes true, false, or null into the verdict.
func (v *BotVerdict) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, jsonNull):
		*v = VerdictUnknown
	case bytes.Equal(data, []byte("true")):
		*v = VerdictBot
	case bytes.Equal(data, []byte("false")):
		*v = VerdictHuman
	default:
		return fmt.Errorf("invalid bot verdict: %s", data)
	}
	return nil
}

// Value implements driver.Valuer, storing the verdict as a nullable boolean.
func (v BotVerdict) Value() (driver.Value, error) {
	switch v {
	case VerdictHuman:
		return false, nil
	case VerdictBot:
		return true, nil
	default:
		return nil, nil
	}
}

// Scan implements sql.Scanner for a nullable boolean column.
func (v *BotVerdict) Scan(src any) error {
	if src == nil {
		*v = VerdictUnknown
		return nil
	}

	b, ok := src.(bool)
	if !ok {
		return fmt.Errorf("scan bot verdict: unexpected type %T", src)
	}

	if b {
		*v = VerdictBot
	} else {
		*v = VerdictHuman
	}
	return nil
}
