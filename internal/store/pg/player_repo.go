package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pyao-go/server/internal/apperr"
	"github.com/pyao-go/server/internal/model"
)

// PlayerRepo is the pgx-backed store.PlayerRepo implementation. Grounded on
// the teacher's internal/persist.CharacterRepo: one struct wrapping *DB,
// one hand-written SQL statement per operation, pgx.ErrNoRows mapped to a
// sentinel at the boundary.
type PlayerRepo struct {
	db *DB
}

func NewPlayerRepo(db *DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

func wrapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	return err
}

func (r *PlayerRepo) GetStats(ctx context.Context, userID int64) (model.Vitals, error) {
	var v model.Vitals
	err := r.db.Pool.QueryRow(ctx,
		`SELECT min_hp, max_hp, min_mana, max_mana, min_sta, max_sta FROM players WHERE user_id = $1`,
		userID,
	).Scan(&v.MinHP, &v.MaxHP, &v.MinMana, &v.MaxMana, &v.MinSta, &v.MaxSta)
	return v, wrapNoRows(err)
}

func (r *PlayerRepo) SetStats(ctx context.Context, userID int64, v model.Vitals) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE players SET min_hp=$1, max_hp=$2, min_mana=$3, max_mana=$4, min_sta=$5, max_sta=$6 WHERE user_id=$7`,
		v.MinHP, v.MaxHP, v.MinMana, v.MaxMana, v.MinSta, v.MaxSta, userID,
	)
	return err
}

func (r *PlayerRepo) UpdateHP(ctx context.Context, userID int64, hp int32) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE players SET min_hp=$1 WHERE user_id=$2`, hp, userID)
	return err
}

func (r *PlayerRepo) UpdateMana(ctx context.Context, userID int64, mana int32) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE players SET min_mana=$1 WHERE user_id=$2`, mana, userID)
	return err
}

func (r *PlayerRepo) UpdateGold(ctx context.Context, userID int64, delta int64) (int64, error) {
	var gold int64
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE players SET gold = GREATEST(gold + $1, 0) WHERE user_id=$2 RETURNING gold`,
		delta, userID,
	).Scan(&gold)
	return gold, wrapNoRows(err)
}

func (r *PlayerRepo) UpdateExperience(ctx context.Context, userID int64, delta int64) (int64, error) {
	var exp int64
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE players SET experience = GREATEST(experience + $1, 0) WHERE user_id=$2 RETURNING experience`,
		delta, userID,
	).Scan(&exp)
	return exp, wrapNoRows(err)
}

func (r *PlayerRepo) GetPosition(ctx context.Context, userID int64) (model.Position, error) {
	var p model.Position
	err := r.db.Pool.QueryRow(ctx,
		`SELECT map, x, y FROM players WHERE user_id=$1`, userID,
	).Scan(&p.Map, &p.X, &p.Y)
	return p, wrapNoRows(err)
}

func (r *PlayerRepo) SetPosition(ctx context.Context, userID int64, pos model.Position) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE players SET map=$1, x=$2, y=$3 WHERE user_id=$4`,
		pos.Map, pos.X, pos.Y, userID,
	)
	return err
}

func (r *PlayerRepo) GetHeading(ctx context.Context, userID int64) (model.Heading, error) {
	var h byte
	err := r.db.Pool.QueryRow(ctx, `SELECT heading FROM players WHERE user_id=$1`, userID).Scan(&h)
	if err != nil {
		return model.South, wrapNoRows(err)
	}
	return model.Heading(h), nil
}

func (r *PlayerRepo) SetHeading(ctx context.Context, userID int64, heading model.Heading) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE players SET heading=$1 WHERE user_id=$2`, byte(heading), userID)
	return err
}

func (r *PlayerRepo) GetAppearance(ctx context.Context, userID int64) (body, head int16, err error) {
	err = r.db.Pool.QueryRow(ctx,
		`SELECT body, head FROM players WHERE user_id=$1`, userID,
	).Scan(&body, &head)
	return body, head, wrapNoRows(err)
}

func (r *PlayerRepo) GetAttributes(ctx context.Context, userID int64) (model.Attributes, error) {
	var a model.Attributes
	err := r.db.Pool.QueryRow(ctx,
		`SELECT str, agi, intl, cha, con FROM players WHERE user_id=$1`, userID,
	).Scan(&a.STR, &a.AGI, &a.INT, &a.CHA, &a.CON)
	return a, wrapNoRows(err)
}

func (r *PlayerRepo) GetHungerThirst(ctx context.Context, userID int64) (model.HungerThirst, error) {
	var ht model.HungerThirst
	err := r.db.Pool.QueryRow(ctx,
		`SELECT min_water, max_water, min_hunger, max_hunger FROM players WHERE user_id=$1`, userID,
	).Scan(&ht.MinWater, &ht.MaxWater, &ht.MinHunger, &ht.MaxHunger)
	return ht, wrapNoRows(err)
}

func (r *PlayerRepo) SetHungerThirst(ctx context.Context, userID int64, ht model.HungerThirst) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE players SET min_water=$1, max_water=$2, min_hunger=$3, max_hunger=$4 WHERE user_id=$5`,
		ht.MinWater, ht.MaxWater, ht.MinHunger, ht.MaxHunger, userID,
	)
	return err
}

func (r *PlayerRepo) GetPoisonedUntil(ctx context.Context, userID int64) (time.Time, error) {
	var until *time.Time
	err := r.db.Pool.QueryRow(ctx,
		`SELECT poisoned_until FROM players WHERE user_id=$1`, userID,
	).Scan(&until)
	if err != nil {
		return time.Time{}, wrapNoRows(err)
	}
	if until == nil {
		return time.Time{}, nil
	}
	return *until, nil
}

func (r *PlayerRepo) UpdatePoisonedUntil(ctx context.Context, userID int64, until time.Time) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE players SET poisoned_until=$1 WHERE user_id=$2`, nullableTime(until), userID)
	return err
}

func (r *PlayerRepo) GetStrengthModifier(ctx context.Context, userID int64) (int32, error) {
	var v int32
	err := r.db.Pool.QueryRow(ctx,
		`SELECT strength_modifier FROM players WHERE user_id=$1 AND (strength_modifier_until IS NULL OR strength_modifier_until > NOW())`,
		userID,
	).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return v, err
}

func (r *PlayerRepo) SetStrengthModifier(ctx context.Context, userID int64, value int32, expires time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE players SET strength_modifier=$1, strength_modifier_until=$2 WHERE user_id=$3`,
		value, nullableTime(expires), userID,
	)
	return err
}

func (r *PlayerRepo) GetAgilityModifier(ctx context.Context, userID int64) (int32, error) {
	var v int32
	err := r.db.Pool.QueryRow(ctx,
		`SELECT agility_modifier FROM players WHERE user_id=$1 AND (agility_modifier_until IS NULL OR agility_modifier_until > NOW())`,
		userID,
	).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return v, err
}

func (r *PlayerRepo) SetAgilityModifier(ctx context.Context, userID int64, value int32, expires time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE players SET agility_modifier=$1, agility_modifier_until=$2 WHERE user_id=$3`,
		value, nullableTime(expires), userID,
	)
	return err
}

func (r *PlayerRepo) GetMorphedAppearance(ctx context.Context, userID int64) (model.MorphedAppearance, error) {
	var m model.MorphedAppearance
	var body, head *int16
	var until *time.Time
	err := r.db.Pool.QueryRow(ctx,
		`SELECT morph_body, morph_head, morph_until FROM players WHERE user_id=$1`, userID,
	).Scan(&body, &head, &until)
	if err != nil {
		return m, wrapNoRows(err)
	}
	if body != nil {
		m.Body = *body
	}
	if head != nil {
		m.Head = *head
	}
	if until != nil {
		m.Until = *until
	}
	return m, nil
}

func (r *PlayerRepo) ClearMorphedAppearance(ctx context.Context, userID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE players SET morph_body=NULL, morph_head=NULL, morph_until=NULL WHERE user_id=$1`, userID,
	)
	return err
}

func (r *PlayerRepo) IsAlive(ctx context.Context, userID int64) (bool, error) {
	var hp int16
	err := r.db.Pool.QueryRow(ctx, `SELECT min_hp FROM players WHERE user_id=$1`, userID).Scan(&hp)
	if err != nil {
		return false, wrapNoRows(err)
	}
	return hp > 0, nil
}

func (r *PlayerRepo) IsMeditating(ctx context.Context, userID int64) (bool, error) {
	var meditating bool
	err := r.db.Pool.QueryRow(ctx, `SELECT meditating FROM players WHERE user_id=$1`, userID).Scan(&meditating)
	return meditating, wrapNoRows(err)
}

func (r *PlayerRepo) SetMeditating(ctx context.Context, userID int64, meditating bool) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE players SET meditating=$1 WHERE user_id=$2`, meditating, userID)
	return err
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
