package pg

import (
	"context"
	"time"

	"github.com/pyao-go/server/internal/apperr"
	"github.com/pyao-go/server/internal/model"
)

// NPCRepo is the pgx-backed store.NPCRepo implementation.
type NPCRepo struct {
	db *DB
}

func NewNPCRepo(db *DB) *NPCRepo {
	return &NPCRepo{db: db}
}

func (r *NPCRepo) CreateNPCInstance(ctx context.Context, npc *model.NPC) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO npc_instances (template_id, map, x, y, heading, hp, max_hp, summoned_by, summoned_until)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING instance_id`,
		npc.TemplateID, npc.Pos.Map, npc.Pos.X, npc.Pos.Y, byte(npc.Heading), npc.HP, npc.MaxHP,
		npc.SummonedByUserID, nullableTime(npc.SummonedUntil),
	).Scan(&id)
	return id, err
}

func (r *NPCRepo) GetNPC(ctx context.Context, instanceID int64) (*model.NPC, error) {
	npc := &model.NPC{InstanceID: instanceID}
	var heading byte
	var poisonedUntil, paralyzedUntil, summonedUntil *time.Time
	err := r.db.Pool.QueryRow(ctx,
		`SELECT template_id, map, x, y, heading, hp, max_hp, poisoned_until, paralyzed_until, summoned_by, summoned_until
		 FROM npc_instances WHERE instance_id=$1`, instanceID,
	).Scan(&npc.TemplateID, &npc.Pos.Map, &npc.Pos.X, &npc.Pos.Y, &heading, &npc.HP, &npc.MaxHP,
		&poisonedUntil, &paralyzedUntil, &npc.SummonedByUserID, &summonedUntil)
	if err != nil {
		return nil, wrapNoRows(err)
	}
	npc.Heading = model.Heading(heading)
	if poisonedUntil != nil {
		npc.PoisonedUntil = *poisonedUntil
	}
	if paralyzedUntil != nil {
		npc.ParalyzedUntil = *paralyzedUntil
	}
	if summonedUntil != nil {
		npc.SummonedUntil = *summonedUntil
	}
	return npc, nil
}

func (r *NPCRepo) UpdateNPCHp(ctx context.Context, instanceID int64, hp int32) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE npc_instances SET hp=$1 WHERE instance_id=$2`, hp, instanceID)
	return err
}

func (r *NPCRepo) UpdateNPCPosition(ctx context.Context, instanceID int64, pos model.Position, heading model.Heading) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE npc_instances SET map=$1, x=$2, y=$3, heading=$4 WHERE instance_id=$5`,
		pos.Map, pos.X, pos.Y, byte(heading), instanceID,
	)
	return err
}

func (r *NPCRepo) UpdateNPCPoisonedUntil(ctx context.Context, instanceID int64, until time.Time) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE npc_instances SET poisoned_until=$1 WHERE instance_id=$2`, nullableTime(until), instanceID)
	return err
}

func (r *NPCRepo) RemoveNPC(ctx context.Context, instanceID int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM npc_instances WHERE instance_id=$1`, instanceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *NPCRepo) GetAllNPCs(ctx context.Context) ([]*model.NPC, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT instance_id, template_id, map, x, y, heading, hp, max_hp, poisoned_until, paralyzed_until, summoned_by, summoned_until
		 FROM npc_instances`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.NPC
	for rows.Next() {
		npc := &model.NPC{}
		var heading byte
		var poisonedUntil, paralyzedUntil, summonedUntil *time.Time
		if err := rows.Scan(&npc.InstanceID, &npc.TemplateID, &npc.Pos.Map, &npc.Pos.X, &npc.Pos.Y, &heading,
			&npc.HP, &npc.MaxHP, &poisonedUntil, &paralyzedUntil, &npc.SummonedByUserID, &summonedUntil); err != nil {
			return nil, err
		}
		npc.Heading = model.Heading(heading)
		if poisonedUntil != nil {
			npc.PoisonedUntil = *poisonedUntil
		}
		if paralyzedUntil != nil {
			npc.ParalyzedUntil = *paralyzedUntil
		}
		if summonedUntil != nil {
			npc.SummonedUntil = *summonedUntil
		}
		out = append(out, npc)
	}
	return out, rows.Err()
}

func (r *NPCRepo) ClearAllNPCs(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM npc_instances`)
	return err
}
