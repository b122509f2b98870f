package domain

import (
	"encoding/json"
	"fmt"
)

// Verdict is the outcome of matching a submitted answer.
type Verdict int

const (
	VerdictWrong Verdict = iota
	VerdictAlmostRight
	VerdictRight
)

func (v Verdict) String() string {
	switch v {
	case VerdictRight:
		return "Right"
	case VerdictAlmostRight:
		return "AlmostRight"
	case VerdictWrong:
		return "Wrong"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *Verdict) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Right":
		*v = VerdictRight
	case "AlmostRight":
		*v = VerdictAlmostRight
	case "Wrong":
		*v = VerdictWrong
	default:
		return fmt.Errorf("unknown verdict %q", s)
	}
	return nil
}
