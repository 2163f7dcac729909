// Package catalog is a minimal TOML-backed adapter behind ItemCatalog,
// npcengine.Catalog and spell.Catalog. The catalogue loaders proper are an
// external collaborator (spec.md §1) — this package is to those interfaces
// what internal/store/pg is to the repository interfaces: one legitimate,
// small concrete implementation so cmd/server has something to construct,
// not the editorial/validation tooling a content team would build around
// it.
package catalog

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/npcengine"
)

// Items is an in-memory item catalogue, keyed by item id.
type Items struct {
	defs map[int32]model.ItemDef
}

type itemFile struct {
	Item []itemEntry `toml:"item"`
}

type itemEntry struct {
	ID        int32   `toml:"id"`
	Name      string  `toml:"name"`
	GRH       int16   `toml:"grh"`
	Kind      string  `toml:"kind"`
	MinHit    int16   `toml:"min_hit"`
	MaxHit    int16   `toml:"max_hit"`
	MinDef    int16   `toml:"min_def"`
	MaxDef    int16   `toml:"max_def"`
	Stackable bool    `toml:"stackable"`
	SalePrice float32 `toml:"sale_price"`
}

var itemKinds = map[string]model.ItemKind{
	"generic": model.ItemKindGeneric,
	"weapon":  model.ItemKindWeapon,
	"shield":  model.ItemKindShield,
	"helmet":  model.ItemKindHelmet,
	"armor":   model.ItemKindArmor,
}

// LoadItems parses path as TOML and builds an Items catalogue from it.
func LoadItems(path string) (*Items, error) {
	var f itemFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("catalog: load items %s: %w", path, err)
	}
	defs := make(map[int32]model.ItemDef, len(f.Item))
	for _, e := range f.Item {
		defs[e.ID] = model.ItemDef{
			ID:        e.ID,
			Name:      e.Name,
			GRH:       e.GRH,
			Kind:      itemKinds[e.Kind],
			MinHit:    e.MinHit,
			MaxHit:    e.MaxHit,
			MinDef:    e.MinDef,
			MaxDef:    e.MaxDef,
			Stackable: e.Stackable,
			SalePrice: e.SalePrice,
		}
	}
	return &Items{defs: defs}, nil
}

// NewEmptyItems returns a catalogue with no entries, for deployments that
// have not supplied an items.toml yet.
func NewEmptyItems() *Items { return &Items{defs: map[int32]model.ItemDef{}} }

func (c *Items) GetItem(itemID int32) (model.ItemDef, bool) {
	d, ok := c.defs[itemID]
	return d, ok
}

// Count reports how many item templates are loaded, for startup stats.
func (c *Items) Count() int { return len(c.defs) }

// NPCTemplates is an in-memory NPC template catalogue, keyed by template id.
type NPCTemplates struct {
	defs map[int32]npcengine.Template
}

type npcFile struct {
	NPC []npcEntry `toml:"npc"`
}

type npcEntry struct {
	TemplateID        int32  `toml:"template_id"`
	Name              string `toml:"name"`
	Description       string `toml:"description"`
	Body              int16  `toml:"body"`
	Head              int16  `toml:"head"`
	MaxHP             int32  `toml:"max_hp"`
	Level             int32  `toml:"level"`
	Hostile           bool   `toml:"hostile"`
	Attackable        bool   `toml:"attackable"`
	Merchant          bool   `toml:"merchant"`
	Banker            bool   `toml:"banker"`
	Movement          string `toml:"movement"`
	RespawnMinSeconds int    `toml:"respawn_min_seconds"`
	RespawnMaxSeconds int    `toml:"respawn_max_seconds"`
	GoldMin           int64  `toml:"gold_min"`
	GoldMax           int64  `toml:"gold_max"`
	AttackDamage      int32  `toml:"attack_damage"`
	AttackCooldownMs  int    `toml:"attack_cooldown_ms"`
	AggroRange        int    `toml:"aggro_range"`
	Experience        int64  `toml:"experience"`
	Loot              []struct {
		ItemID     int32   `toml:"item_id"`
		MinQty     int16   `toml:"min_qty"`
		MaxQty     int16   `toml:"max_qty"`
		DropChance float64 `toml:"drop_chance"`
	} `toml:"loot"`
}

var movementKinds = map[string]model.MovementType{
	"static": model.MovementStatic,
	"random": model.MovementRandom,
	"patrol": model.MovementPatrol,
}

// LoadNPCTemplates parses path as TOML and builds an NPCTemplates catalogue.
func LoadNPCTemplates(path string) (*NPCTemplates, error) {
	var f npcFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("catalog: load npcs %s: %w", path, err)
	}
	defs := make(map[int32]npcengine.Template, len(f.NPC))
	for _, e := range f.NPC {
		loot := make([]npcengine.LootEntry, 0, len(e.Loot))
		for _, l := range e.Loot {
			loot = append(loot, npcengine.LootEntry{
				ItemID:     l.ItemID,
				MinQty:     l.MinQty,
				MaxQty:     l.MaxQty,
				DropChance: l.DropChance,
			})
		}
		defs[e.TemplateID] = npcengine.Template{
			TemplateID:     e.TemplateID,
			Name:           e.Name,
			Description:    e.Description,
			Body:           e.Body,
			Head:           e.Head,
			MaxHP:          e.MaxHP,
			Level:          e.Level,
			Hostile:        e.Hostile,
			Attackable:     e.Attackable,
			Merchant:       e.Merchant,
			Banker:         e.Banker,
			Movement:       movementKinds[e.Movement],
			RespawnMin:     time.Duration(e.RespawnMinSeconds) * time.Second,
			RespawnMax:     time.Duration(e.RespawnMaxSeconds) * time.Second,
			GoldMin:        e.GoldMin,
			GoldMax:        e.GoldMax,
			AttackDamage:   e.AttackDamage,
			AttackCooldown: time.Duration(e.AttackCooldownMs) * time.Millisecond,
			AggroRange:     e.AggroRange,
			Experience:     e.Experience,
			Loot:           loot,
		}
	}
	return &NPCTemplates{defs: defs}, nil
}

func NewEmptyNPCTemplates() *NPCTemplates {
	return &NPCTemplates{defs: map[int32]npcengine.Template{}}
}

func (c *NPCTemplates) GetTemplate(templateID int32) (npcengine.Template, bool) {
	d, ok := c.defs[templateID]
	return d, ok
}

// Count reports how many NPC templates are loaded, for startup stats.
func (c *NPCTemplates) Count() int { return len(c.defs) }

// Spells is an in-memory spell catalogue, keyed by spell id.
type Spells struct {
	defs map[int32]model.Spell
}

type spellFile struct {
	Spell []spellEntry `toml:"spell"`
}

type spellEntry struct {
	ID                  int32  `toml:"id"`
	Name                string `toml:"name"`
	ManaCost            int16  `toml:"mana_cost"`
	Effect              string `toml:"effect"`
	MinDamage           int32  `toml:"min_damage"`
	MaxDamage           int32  `toml:"max_damage"`
	HealMin             int32  `toml:"heal_min"`
	HealMax             int32  `toml:"heal_max"`
	DurationSeconds     int    `toml:"duration_seconds"`
	MorphBody           int16  `toml:"morph_body"`
	MorphHead           int16  `toml:"morph_head"`
	SummonNPCTemplateID int32  `toml:"summon_npc_template_id"`
	FXGraphic           int16  `toml:"fx_graphic"`
	FXLoops             int16  `toml:"fx_loops"`
	CasterMessage       string `toml:"caster_message"`
}

var spellEffectKinds = map[string]model.SpellEffectKind{
	"damage":   model.EffectDamage,
	"heal":     model.EffectHeal,
	"poison":   model.EffectPoison,
	"morph":    model.EffectMorph,
	"summon":   model.EffectSummon,
	"paralyze": model.EffectParalyze,
}

// LoadSpells parses path as TOML and builds a Spells catalogue from it.
func LoadSpells(path string) (*Spells, error) {
	var f spellFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("catalog: load spells %s: %w", path, err)
	}
	defs := make(map[int32]model.Spell, len(f.Spell))
	for _, e := range f.Spell {
		defs[e.ID] = model.Spell{
			ID:                  e.ID,
			Name:                e.Name,
			ManaCost:            e.ManaCost,
			Effect:              spellEffectKinds[e.Effect],
			MinDamage:           e.MinDamage,
			MaxDamage:           e.MaxDamage,
			HealMin:             e.HealMin,
			HealMax:             e.HealMax,
			Duration:            time.Duration(e.DurationSeconds) * time.Second,
			MorphBody:           e.MorphBody,
			MorphHead:           e.MorphHead,
			SummonNPCTemplateID: e.SummonNPCTemplateID,
			FXGraphic:           e.FXGraphic,
			FXLoops:             e.FXLoops,
			CasterMessage:       e.CasterMessage,
		}
	}
	return &Spells{defs: defs}, nil
}

func NewEmptySpells() *Spells { return &Spells{defs: map[int32]model.Spell{}} }

func (c *Spells) GetSpell(spellID int32) (model.Spell, bool) {
	d, ok := c.defs[spellID]
	return d, ok
}

// Count reports how many spells are loaded, for startup stats.
func (c *Spells) Count() int { return len(c.defs) }
