package systems

import "github.com/diabro/enemy-editor/shared/enemydef"

// Command is one editor state transition. Every user action and every
// async completion becomes a Command consumed by EditorSession.Apply, so
// the transition rules stay testable without any widget in sight.
type Command interface {
	isCommand()
}

// RecordsLoaded replaces the record store with a fresh backend snapshot.
type RecordsLoaded struct {
	Records map[string]enemydef.Record
	Sprites []string
	Weapons []string
}

// LoadFailed reports a failed record fetch.
type LoadFailed struct {
	Err error
}

// SelectEnemy populates the form from a stored record.
type SelectEnemy struct {
	ID string
}

// NewEnemy resets the form to the blank "new enemy" template.
type NewEnemy struct{}

// SetAttackType switches the attack kind, steering attack_range when the
// current value makes no sense for the new kind.
type SetAttackType struct {
	Kind enemydef.AttackType
}

// SetSpriteScale updates the base layer preview scale.
type SetSpriteScale struct {
	Scale float64
}

// SetWeaponOffset updates the weapon overlay offset, in 256-unit sprite
// space.
type SetWeaponOffset struct {
	X, Y int
}

// SetSpritePath points the form (and the preview) at a sprite sheet.
type SetSpritePath struct {
	Path string
}

// SetWeaponPath points the form at a weapon sheet; empty clears the
// overlay.
type SetWeaponPath struct {
	Path string
}

// SetProjectilePath sets the projectile sprite used by ranged enemies.
type SetProjectilePath struct {
	Path string
}

// StepDirection rotates the editor preview facing manually, independent
// of the animation tick rule.
type StepDirection struct {
	Delta int
}

// MutationDone reports a finished create/update/delete round-trip. The
// caller follows up with a full refetch regardless of outcome.
type MutationDone struct {
	Op  string
	ID  string
	Err error
}

func (RecordsLoaded) isCommand()     {}
func (LoadFailed) isCommand()        {}
func (SelectEnemy) isCommand()       {}
func (NewEnemy) isCommand()          {}
func (SetAttackType) isCommand()     {}
func (SetSpriteScale) isCommand()    {}
func (SetWeaponOffset) isCommand()   {}
func (SetSpritePath) isCommand()     {}
func (SetWeaponPath) isCommand()     {}
func (SetProjectilePath) isCommand() {}
func (StepDirection) isCommand()     {}
func (MutationDone) isCommand()      {}
