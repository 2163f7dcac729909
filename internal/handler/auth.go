package handler

import (
	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/wire"
	"go.uber.org/zap"
)

// DefaultSpawnMap/X/Y is where a freshly created character, or one with no
// persisted position yet, first appears.
const (
	DefaultSpawnMap int16 = 1
	DefaultSpawnX   int16 = 50
	DefaultSpawnY   int16 = 50
)

func rollAttribute(d *Deps) int16 {
	return int16(6 + d.Rng.Intn(13)) // 6..18
}

// handleThrowDices answers a pre-login attribute roll; the client calls
// this repeatedly until it likes the result, then submits CREATE_ACCOUNT.
func (d *Deps) handleThrowDices(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)
	sndr.DiceRoll(
		byte(rollAttribute(d)), byte(rollAttribute(d)), byte(rollAttribute(d)),
		byte(rollAttribute(d)), byte(rollAttribute(d)),
	)
	return nil
}

// handleLogin authenticates an existing account and brings the character
// into the world: spawn visibility, own stat packets, and an announcement
// to everyone already nearby (spec.md S1).
func (d *Deps) handleLogin(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)

	username, err := r.ReadString()
	if err != nil {
		return err
	}
	password, err := r.ReadString()
	if err != nil {
		return err
	}

	ctx := backgroundCtx()
	userID, ok, err := d.Accounts.Authenticate(ctx, username, password)
	if err != nil {
		d.Log.Error("authenticate", zap.Error(err))
		sndr.ErrorMsg("Error de conexión, intenta de nuevo.")
		return nil
	}
	if !ok {
		sndr.ErrorMsg("Usuario o contraseña incorrectos.")
		return nil
	}

	s.SetAuthenticated(userID, username)

	pos, err := d.Players.GetPosition(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}
	vitals, err := d.Players.GetStats(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}
	ht, err := d.Players.GetHungerThirst(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}
	body, head := d.appearanceOf(ctx, userID)

	existingPlayers := d.Index.PlayersInMap(pos.Map, 0)

	d.Index.AddPlayer(pos.Map, userID, sndr, username, pos.X, pos.Y)

	sndr.Logged(0)
	sndr.UserCharIndexInServer(int32(userID))
	sndr.ChangeMap(pos.Map, 0)
	sndr.PosUpdate(pos.X, pos.Y)
	sndr.UpdateUserStats(vitals.MaxHP, vitals.MinHP, vitals.MaxMana, vitals.MinMana, vitals.MaxSta, vitals.MinSta, 0, 1, 0, 0)
	sndr.UpdateHungerAndThirst(byte(ht.MaxWater), byte(ht.MinWater), byte(ht.MaxHunger), byte(ht.MinHunger))

	for _, otherID := range existingPlayers {
		otherBody, otherHead := d.appearanceOf(ctx, otherID)
		otherPos, ok := d.Index.PlayerPosition(pos.Map, otherID)
		if !ok {
			continue
		}
		sndr.CharacterCreate(int32(otherID), otherBody, otherHead, model.South, otherPos.X, otherPos.Y, 0, 0, 0, 0, 0, "", 0, 0)
	}
	d.NPCEngine.SendNPCsToPlayer(sndr, pos.Map)

	d.Broadcast.CharacterCreatePlayer(pos.Map, int32(userID), body, head, model.South, pos, username)
	return nil
}

// handleCreateAccount provisions a new account plus its paired character.
// Race/class/email validation is an external collaborator (spec.md §1);
// this handler only owns the credential/appearance/starting-stat plumbing
// CREATE_ACCOUNT needs from the core.
func (d *Deps) handleCreateAccount(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)

	username, err := r.ReadString()
	if err != nil {
		return err
	}
	password, err := r.ReadString()
	if err != nil {
		return err
	}
	// race, _, gender, job, _ : race/class/email validation is an external
	// collaborator (spec.md §1), but the bytes still have to be consumed in
	// order so the frame decodes correctly.
	if _, err := r.ReadByte(); err != nil {
		return err
	}
	if _, err := r.ReadInt16(); err != nil {
		return err
	}
	if _, err := r.ReadByte(); err != nil {
		return err
	}
	if _, err := r.ReadByte(); err != nil {
		return err
	}
	if _, err := r.ReadByte(); err != nil {
		return err
	}
	head, err := r.ReadInt16()
	if err != nil {
		return err
	}
	if _, err := r.ReadString(); err != nil { // email
		return err
	}
	if _, err := r.ReadByte(); err != nil { // home
		return err
	}

	p := model.NewPlayer(0, username)
	p.Head = head
	p.Body = 1
	p.Pos = model.Position{Map: DefaultSpawnMap, X: DefaultSpawnX, Y: DefaultSpawnY}
	p.Attrs = model.Attributes{
		STR: rollAttribute(d), AGI: rollAttribute(d), INT: rollAttribute(d),
		CHA: rollAttribute(d), CON: rollAttribute(d),
	}
	p.Vitals = model.Vitals{
		MinHP: 15 + p.Attrs.CON, MaxHP: 15 + p.Attrs.CON,
		MinMana: 10 + p.Attrs.INT*2, MaxMana: 10 + p.Attrs.INT*2,
		MinSta: 20, MaxSta: 20,
	}
	p.HungerThirst = model.HungerThirst{MinWater: 100, MaxWater: 100, MinHunger: 100, MaxHunger: 100}
	p.Level = 1

	ctx := backgroundCtx()
	userID, err := d.Accounts.CreateAccount(ctx, username, password, p)
	if err != nil {
		sndr.ErrorMsg("Ese nombre de usuario ya existe.")
		return nil
	}

	sndr.ConsoleMsg("Cuenta creada. Ya puedes conectarte.", 0)
	d.Log.Info("account created", zap.Int64("user_id", userID), zap.String("username", username))
	return nil
}
