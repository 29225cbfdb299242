package characters

import (
	"errors"
	"strings"
)

var ErrNotFound = errors.New("character not found")

// ValidationError is returned by Create when the input cannot form a valid character.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation messages shown to API clients.
const (
	MsgNameRequired  = "Character name is required"
	MsgMaxHPNotInt   = "Max HP must be a valid number"
	MsgMaxHPPositive = "Max HP must be greater than 0"
)

type Character struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MaxHP     int    `json:"maxHP"`
	CurrentHP int    `json:"currentHP"`
}

// Patch holds the optional fields of an update. A nil field is left untouched.
type Patch struct {
	Name      *string
	MaxHP     *int
	CurrentHP *int
	HPDelta   *int
}

// Clamp returns v limited to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Apply mutates c in the fixed order name, maxHP, currentHP, hpDelta.
// CurrentHP and HPDelta compound when both are set: the delta is added
// to the freshly assigned current value.
func (c *Character) Apply(p Patch) {
	if p.Name != nil {
		if v := strings.TrimSpace(*p.Name); v != "" {
			c.Name = v
		}
	}
	if p.MaxHP != nil && *p.MaxHP > 0 {
		c.MaxHP = *p.MaxHP
		if c.CurrentHP > c.MaxHP {
			c.CurrentHP = c.MaxHP
		}
	}
	if p.CurrentHP != nil {
		c.CurrentHP = Clamp(*p.CurrentHP, 0, c.MaxHP)
	}
	if p.HPDelta != nil {
		c.CurrentHP = Clamp(c.CurrentHP+*p.HPDelta, 0, c.MaxHP)
	}
}

// Valid reports whether c satisfies the stored-record invariants.
func (c Character) Valid() bool {
	return strings.TrimSpace(c.Name) != "" && c.MaxHP > 0 && c.CurrentHP >= 0 && c.CurrentHP <= c.MaxHP
}

// newCharacter validates the create input and returns a full-health record.
func newCharacter(id, name string, maxHP Value) (Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Character{}, &ValidationError{Message: MsgNameRequired}
	}
	hp := 0
	if maxHP.Present() {
		v, ok := maxHP.Int()
		if !ok {
			return Character{}, &ValidationError{Message: MsgMaxHPNotInt}
		}
		hp = v
	}
	if hp <= 0 {
		return Character{}, &ValidationError{Message: MsgMaxHPPositive}
	}
	return Character{ID: id, Name: name, MaxHP: hp, CurrentHP: hp}, nil
}

func indexOf(list []Character, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
