package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pyao-go/server/internal/model"
)

func TestLoadItems(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.toml")
	body := `
[[item]]
id = 100
name = "Espada Ropera"
grh = 500
kind = "weapon"
min_hit = 4
max_hit = 9
stackable = false
sale_price = 12.5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	items, err := LoadItems(path)
	require.NoError(t, err)

	def, ok := items.GetItem(100)
	require.True(t, ok)
	require.Equal(t, "Espada Ropera", def.Name)
	require.Equal(t, model.ItemKindWeapon, def.Kind)
	require.Equal(t, int16(4), def.MinHit)

	_, ok = items.GetItem(999)
	require.False(t, ok)
}

func TestLoadNPCTemplates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "npcs.toml")
	body := `
[[npc]]
template_id = 1
name = "Lobo"
max_hp = 40
level = 3
hostile = true
attackable = true
movement = "random"
respawn_min_seconds = 30
respawn_max_seconds = 90
gold_min = 1
gold_max = 5
attack_damage = 6
attack_cooldown_ms = 1200
aggro_range = 6
experience = 15

[[npc.loot]]
item_id = 100
min_qty = 1
max_qty = 1
drop_chance = 0.1
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	tmpls, err := LoadNPCTemplates(path)
	require.NoError(t, err)

	tmpl, ok := tmpls.GetTemplate(1)
	require.True(t, ok)
	require.Equal(t, "Lobo", tmpl.Name)
	require.Equal(t, model.MovementRandom, tmpl.Movement)
	require.Len(t, tmpl.Loot, 1)
	require.Equal(t, int32(100), tmpl.Loot[0].ItemID)
}

func TestLoadSpells(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spells.toml")
	body := `
[[spell]]
id = 1
name = "Dardo Mágico"
mana_cost = 10
effect = "damage"
min_damage = 5
max_damage = 12
caster_message = "Lanzas un dardo mágico"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	spells, err := LoadSpells(path)
	require.NoError(t, err)

	sp, ok := spells.GetSpell(1)
	require.True(t, ok)
	require.Equal(t, model.EffectDamage, sp.Effect)
	require.Equal(t, int32(5), sp.MinDamage)
}

func TestNewEmptyCatalogues(t *testing.T) {
	_, ok := NewEmptyItems().GetItem(1)
	require.False(t, ok)
	_, ok = NewEmptyNPCTemplates().GetTemplate(1)
	require.False(t, ok)
	_, ok = NewEmptySpells().GetSpell(1)
	require.False(t, ok)
}
