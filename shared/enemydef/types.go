// Package enemydef holds the enemy type record shared between the editor
// and the backend server, together with its defaults and form rules.
package enemydef

import (
	"fmt"
	"strings"
)

// ValidationError rejects a form value locally, before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// AttackType selects the enemy combat behavior.
type AttackType string

const (
	AttackMelee  AttackType = "melee"
	AttackRanged AttackType = "ranged"
)

// Record is one persisted enemy type. JSON field names match the
// enemy_types.json storage format used by the game.
type Record struct {
	ID             string     `json:"id,omitempty"`
	Name           string     `json:"name"`
	SpritePath     string     `json:"sprite_path"`
	WeaponPath     string     `json:"weapon_path"`
	WeaponOffset   [2]int     `json:"weapon_offset"`
	ProjectilePath string     `json:"projectile_path"`
	SpriteScale    float64    `json:"sprite_scale"`
	MaxHealth      int        `json:"max_health"`
	Damage         int        `json:"damage"`
	Speed          float64    `json:"speed"`
	AttackType     AttackType `json:"attack_type"`
	AggroRange     float64    `json:"aggro_range"`
	AttackRange    float64    `json:"attack_range"`
	AttackCooldown float64    `json:"attack_cooldown"`
	Color          [3]int     `json:"color"`
}

// Default stat values. These double as the "new enemy" template.
const (
	DefaultMaxHealth      = 30
	DefaultDamage         = 5
	DefaultSpeed          = 6.0
	DefaultSpriteScale    = 1.0
	DefaultAggroRange     = 150.0
	DefaultAttackCooldown = 1.5

	// Attack range defaults per attack type, in world units.
	MeleeAttackRange  = 1.2
	RangedAttackRange = 8.0
)

// DefaultColor is the flat fallback color drawn when a record has no
// sprite path.
var DefaultColor = [3]int{200, 50, 50}

// NewRecord returns the default template for a freshly created enemy.
func NewRecord(id string) Record {
	return Record{
		ID:             id,
		Name:           id,
		SpriteScale:    DefaultSpriteScale,
		MaxHealth:      DefaultMaxHealth,
		Damage:         DefaultDamage,
		Speed:          DefaultSpeed,
		AttackType:     AttackMelee,
		AggroRange:     DefaultAggroRange,
		AttackRange:    MeleeAttackRange,
		AttackCooldown: DefaultAttackCooldown,
		Color:          DefaultColor,
	}
}

// WithDefaults fills every zero-valued field so consumers never have to
// re-check for absent values. Applied once when records arrive from the
// backend.
func (r Record) WithDefaults(id string) Record {
	r.ID = id
	if r.Name == "" {
		r.Name = id
	}
	if r.SpriteScale == 0 {
		r.SpriteScale = DefaultSpriteScale
	}
	if r.MaxHealth == 0 {
		r.MaxHealth = DefaultMaxHealth
	}
	if r.Damage == 0 {
		r.Damage = DefaultDamage
	}
	if r.Speed == 0 {
		r.Speed = DefaultSpeed
	}
	if r.AttackType == "" {
		r.AttackType = AttackMelee
	}
	if r.AggroRange == 0 {
		r.AggroRange = DefaultAggroRange
	}
	if r.AttackRange == 0 {
		if r.AttackType == AttackRanged {
			r.AttackRange = RangedAttackRange
		} else {
			r.AttackRange = MeleeAttackRange
		}
	}
	if r.AttackCooldown == 0 {
		r.AttackCooldown = DefaultAttackCooldown
	}
	if r.Color == [3]int{} {
		r.Color = DefaultColor
	}
	return r
}

// CoerceAttackRange steers attack_range toward a sensible value when the
// attack type changes: switching to ranged while the range is below 5
// raises it to the ranged default, switching to melee while the range is
// above 3 lowers it to the melee default. Values already plausible for
// the new type are left alone. The backend does not enforce this; it is
// a form convenience only.
func CoerceAttackRange(kind AttackType, attackRange float64) float64 {
	switch kind {
	case AttackRanged:
		if attackRange < 5 {
			return RangedAttackRange
		}
	case AttackMelee:
		if attackRange > 3 {
			return MeleeAttackRange
		}
	}
	return attackRange
}

// NormalizeID converts a user-entered id into storage form: lower-cased,
// with the first space turned into an underscore. Only the first space is
// replaced; the game's existing enemy_types.json was written by a tool
// with the same single-replace behavior and ids must keep matching it.
func NormalizeID(id string) string {
	return strings.Replace(strings.ToLower(strings.TrimSpace(id)), " ", "_", 1)
}

// StorageID is the server-side canonical form of an id: lower-cased with
// every space replaced. The server applies this on create, so a client
// that wants to find a freshly created record must look it up under this
// form, not the submitted one.
func StorageID(id string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), " ", "_")
}
