package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/pyao-go/server/internal/apperr"
	"github.com/pyao-go/server/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// AccountRepo is the pgx-backed store.AccountRepo implementation, grounded
// on the teacher's internal/persist.AccountRepo: a bcrypt hash alongside
// the username, checked with bcrypt.CompareHashAndPassword rather than a
// raw comparison.
type AccountRepo struct {
	db *DB
}

func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Authenticate(ctx context.Context, username, password string) (int64, bool, error) {
	var userID int64
	var hash string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT user_id, password_hash FROM accounts WHERE username=$1`, username,
	).Scan(&userID, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return 0, false, nil
	}
	return userID, true, nil
}

func (r *AccountRepo) CreateAccount(ctx context.Context, username, password string, p *model.Player) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var userID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO accounts (username, password_hash) VALUES ($1, $2) RETURNING user_id`,
		username, string(hash),
	).Scan(&userID)
	if err != nil {
		var pgErr interface{ SQLState() string }
		if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
			return 0, apperr.ErrInvalidInput
		}
		return 0, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO players (user_id, username, body, head, heading, map, x, y,
		                       min_hp, max_hp, min_mana, max_mana, min_sta, max_sta,
		                       str, agi, intl, cha, con, min_water, max_water, min_hunger, max_hunger)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
		         $9, $9, $10, $10, $11, $11,
		         $12, $13, $14, $15, $16, $17, $17, $18, $18)`,
		userID, username, p.Body, p.Head, byte(p.Heading), p.Pos.Map, p.Pos.X, p.Pos.Y,
		p.Vitals.MaxHP, p.Vitals.MaxMana, p.Vitals.MaxSta,
		p.Attrs.STR, p.Attrs.AGI, p.Attrs.INT, p.Attrs.CHA, p.Attrs.CON,
		p.HungerThirst.MaxWater, p.HungerThirst.MaxHunger,
	)
	if err != nil {
		return 0, err
	}

	return userID, tx.Commit(ctx)
}
