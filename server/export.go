package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/diabro/enemy-editor/shared/enemydef"
)

// GenerateCode renders the record set as a Go map literal ready to paste
// into the game's built-in enemy registry. The JSON config file remains
// the recommended way to consume the data; the snippet exists for builds
// that compile their enemy table in.
func GenerateCode(records map[string]enemydef.Record) string {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString("// Code generated by the enemy editor. DO NOT EDIT.\n")
	b.WriteString("// Prefer loading enemy_types.json; this table is for embedded builds.\n\n")
	b.WriteString("var EnemyTypes = map[string]EnemyType{\n")

	for _, id := range ids {
		r := records[id].WithDefaults(id)
		fmt.Fprintf(&b, "\t%q: {\n", id)
		fmt.Fprintf(&b, "\t\tName:           %q,\n", r.Name)
		fmt.Fprintf(&b, "\t\tSpritePath:     %q,\n", r.SpritePath)
		fmt.Fprintf(&b, "\t\tWeaponPath:     %q,\n", r.WeaponPath)
		fmt.Fprintf(&b, "\t\tWeaponOffset:   [2]int{%d, %d},\n", r.WeaponOffset[0], r.WeaponOffset[1])
		fmt.Fprintf(&b, "\t\tProjectilePath: %q,\n", r.ProjectilePath)
		fmt.Fprintf(&b, "\t\tSpriteScale:    %v,\n", r.SpriteScale)
		fmt.Fprintf(&b, "\t\tMaxHealth:      %d,\n", r.MaxHealth)
		fmt.Fprintf(&b, "\t\tDamage:         %d,\n", r.Damage)
		fmt.Fprintf(&b, "\t\tSpeed:          %v,\n", r.Speed)
		fmt.Fprintf(&b, "\t\tAttackType:     %q,\n", r.AttackType)
		fmt.Fprintf(&b, "\t\tAggroRange:     %v,\n", r.AggroRange)
		fmt.Fprintf(&b, "\t\tAttackRange:    %v,\n", r.AttackRange)
		fmt.Fprintf(&b, "\t\tAttackCooldown: %v,\n", r.AttackCooldown)
		fmt.Fprintf(&b, "\t\tColor:          [3]int{%d, %d, %d},\n", r.Color[0], r.Color[1], r.Color[2])
		b.WriteString("\t},\n")
	}

	b.WriteString("}\n")
	return b.String()
}
