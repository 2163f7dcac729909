package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pyao-go/server/internal/broadcast"
	"github.com/pyao-go/server/internal/catalog"
	"github.com/pyao-go/server/internal/combat"
	"github.com/pyao-go/server/internal/config"
	"github.com/pyao-go/server/internal/effects"
	"github.com/pyao-go/server/internal/ground"
	"github.com/pyao-go/server/internal/handler"
	"github.com/pyao-go/server/internal/npcai"
	"github.com/pyao-go/server/internal/npcengine"
	"github.com/pyao-go/server/internal/pathfind"
	"github.com/pyao-go/server/internal/protocol"
	"github.com/pyao-go/server/internal/session"
	"github.com/pyao-go/server/internal/spatial"
	"github.com/pyao-go/server/internal/spell"
	"github.com/pyao-go/server/internal/store/pg"
	"github.com/pyao-go/server/internal/tick"
	"github.com/pyao-go/server/internal/worldmap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(bindAddr string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              pyao-go server                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     servidor de mundo persistente 2D       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mescuchando en:\033[0m %s\n\n", bindAddr)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := strconv.Itoa(count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("PYAO_CONFIG"); p != "" {
		cfgPath = p
	}
	if _, err := os.Stat(cfgPath); err != nil {
		cfgPath = ""
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	bindAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	printBanner(bindAddr)

	// 3. Connect to PostgreSQL and run migrations
	printSection("base de datos")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := pg.NewDB(ctx, pg.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("conexión a PostgreSQL establecida")

	if err := pg.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migraciones aplicadas")
	fmt.Println()

	// 4. Repositories
	accountRepo := pg.NewAccountRepo(db)
	playerRepo := pg.NewPlayerRepo(db)
	npcRepo := pg.NewNPCRepo(db)
	configRepo := pg.NewConfigRepo(db)

	// 5. World state: maps, spatial index, ground loot
	printSection("mundo")

	maps := worldmap.NewRegistry()
	mapsDir := "data/maps"
	if d := os.Getenv("PYAO_MAPS_DIR"); d != "" {
		mapsDir = d
	}
	if _, statErr := os.Stat(mapsDir); statErr == nil {
		if err := maps.LoadDir(mapsDir); err != nil {
			return fmt.Errorf("load maps: %w", err)
		}
	} else {
		log.Warn("directorio de mapas no encontrado, arrancando sin mapas", zap.String("dir", mapsDir))
	}
	printStat("mapas", len(maps.MapIDs()))

	index := spatial.NewIndex()
	groundLedger := ground.NewLedger()
	bc := broadcast.NewBroadcaster(index)

	// 5a. Catalogues (items/NPC templates/spells). A deployment without a
	// data/*.toml file simply starts with an empty catalogue for that
	// concern rather than failing to boot.
	items, err := loadItemsOrEmpty(log, "data/items.toml")
	if err != nil {
		return err
	}
	printStat("plantillas de objetos", items.Count())

	npcTemplates, err := loadNPCTemplatesOrEmpty(log, "data/npcs.toml")
	if err != nil {
		return err
	}
	printStat("plantillas de NPCs", npcTemplates.Count())

	spells, err := loadSpellsOrEmpty(log, "data/spells.toml")
	if err != nil {
		return err
	}
	printStat("hechizos", spells.Count())
	fmt.Println()

	// 6. Game engines
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	npcEngine := npcengine.NewEngine(npcRepo, playerRepo, index, maps, npcTemplates, bc, rng)

	combatCfg := combat.Config{
		MeleeRange:               cfg.Game.Combat.MeleeRange,
		BaseCriticalChance:       cfg.Game.Combat.BaseCriticalChance,
		BaseDodgeChance:          cfg.Game.Combat.BaseDodgeChance,
		DefensePerLevel:          cfg.Game.Combat.DefensePerLevel,
		ArmorReduction:           cfg.Game.Combat.ArmorReduction,
		CriticalDamageMultiplier: cfg.Game.Combat.CriticalDamageMultiplier,
		CriticalAgiModifier:      cfg.Game.Combat.CriticalAgiModifier,
		DodgeAgiModifier:         cfg.Game.Combat.DodgeAgiModifier,
		MaxCriticalChance:        cfg.Game.Combat.MaxCriticalChance,
		MaxDodgeChance:           cfg.Game.Combat.MaxDodgeChance,
		BaseAgility:              int16(cfg.Game.Combat.BaseAgility),
	}
	combatEngine := combat.NewEngine(playerRepo, npcRepo, npcEngine, combatCfg, rng)

	spellEngine := spell.NewEngine(spells, playerRepo, npcRepo, index, npcEngine, npcEngine, rng)

	finder := pathfind.NewFinder(maps, index)
	ai := npcai.NewAI(index, playerRepo, combatEngine, npcEngine, finder, rng)

	// 7. Tick scheduler and effects
	scheduler := tick.NewScheduler(0, index, log,
		effects.NewStaminaRegenEffect(playerRepo, int16(cfg.Game.Stamina.RegenTick)),
		effects.NewHungerThirstEffect(playerRepo, configRepo),
		effects.NewGoldDecayEffect(playerRepo, configRepo),
		effects.NewMeditationEffect(playerRepo),
		effects.NewPoisonEffect(playerRepo),
		effects.NewAttributeModifiersEffect(playerRepo),
		effects.NewMorphExpiryEffect(playerRepo, index, bc),
		effects.NewNPCAIEffect(index, ai),
		effects.NewNPCMovementEffect(index, maps, npcEngine, rng),
		effects.NewNPCPoisonEffect(index, npcRepo, npcEngine),
		effects.NewPetFollowEffect(index, npcEngine),
		effects.NewSummonExpiryEffect(index, npcEngine),
		effects.NewRespawnEffect(npcEngine),
	)

	// 8. Packet registry and handlers
	reg := protocol.NewRegistry(log)
	deps := &handler.Deps{
		Log:       log,
		Accounts:  accountRepo,
		Players:   playerRepo,
		NPCs:      npcRepo,
		Index:     index,
		Maps:      maps,
		Ground:    groundLedger,
		Broadcast: bc,
		Combat:    combatEngine,
		Spells:    spellEngine,
		NPCEngine: npcEngine,
		AI:        ai,
		Items:     items,
		Rng:       rng,
		StartTime: time.Now(),
	}
	handler.RegisterAll(reg, deps)

	// 9. Network server
	netSrv, err := session.NewServer(bindAddr, cfg.Server.BufferSize, log)
	if err != nil {
		return fmt.Errorf("listen %s: %w", bindAddr, err)
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	go netSrv.AcceptLoop(func(sess *session.Session) {
		sess.Start(func(frame []byte) {
			if err := reg.Dispatch(sess, frame); err != nil {
				log.Debug("dispatch error", zap.Uint64("session", sess.ID), zap.Error(err))
			}
		})
		go watchDisconnect(sess, index, bc, log)
	})

	schedErrCh := make(chan error, 1)
	go func() { schedErrCh <- scheduler.Run(runCtx) }()

	printSection("servidor listo")
	printReady(fmt.Sprintf("escuchando en %s", netSrv.Addr().String()))
	fmt.Println()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdownCh:
		log.Info("señal de apagado recibida", zap.String("signal", sig.String()))
	case err := <-schedErrCh:
		if err != nil {
			log.Error("el planificador de ticks se detuvo inesperadamente", zap.Error(err))
		}
	}

	stop()
	netSrv.Shutdown()
	<-schedErrCh
	log.Info("servidor detenido")
	return nil
}

// watchDisconnect releases a session's spatial/broadcast footprint once its
// connection closes, so a dropped client doesn't linger as a phantom
// occupant other players can still collide with or see. handleQuit already
// performs this cleanup for a graceful /SALIR, so by the time this fires
// for that case the index lookup below simply finds nothing left to do.
func watchDisconnect(sess *session.Session, index *spatial.Index, bc *broadcast.Broadcaster, log *zap.Logger) {
	<-sess.Done()
	if !sess.Authenticated() {
		log.Info("conexión cerrada", zap.Uint64("session", sess.ID))
		return
	}

	userID := sess.UserID()
	if mapID, ok := index.MapOf(userID); ok {
		if pos, ok := index.PlayerPosition(mapID, userID); ok {
			bc.CharacterRemovePlayer(mapID, int32(userID), pos)
		}
	}
	index.RemovePlayerFromAllMaps(userID)
	log.Info("jugador desconectado", zap.Uint64("session", sess.ID), zap.Int64("user", userID))
}

func loadItemsOrEmpty(log *zap.Logger, path string) (*catalog.Items, error) {
	if _, err := os.Stat(path); err != nil {
		log.Warn("catálogo de objetos no encontrado, arrancando vacío", zap.String("path", path))
		return catalog.NewEmptyItems(), nil
	}
	items, err := catalog.LoadItems(path)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	return items, nil
}

func loadNPCTemplatesOrEmpty(log *zap.Logger, path string) (*catalog.NPCTemplates, error) {
	if _, err := os.Stat(path); err != nil {
		log.Warn("catálogo de NPCs no encontrado, arrancando vacío", zap.String("path", path))
		return catalog.NewEmptyNPCTemplates(), nil
	}
	tmpls, err := catalog.LoadNPCTemplates(path)
	if err != nil {
		return nil, fmt.Errorf("load npc templates: %w", err)
	}
	return tmpls, nil
}

func loadSpellsOrEmpty(log *zap.Logger, path string) (*catalog.Spells, error) {
	if _, err := os.Stat(path); err != nil {
		log.Warn("catálogo de hechizos no encontrado, arrancando vacío", zap.String("path", path))
		return catalog.NewEmptySpells(), nil
	}
	sp, err := catalog.LoadSpells(path)
	if err != nil {
		return nil, fmt.Errorf("load spells: %w", err)
	}
	return sp, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
