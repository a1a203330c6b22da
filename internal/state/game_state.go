// internal/state/game_state.go
package state

import (
	"fmt"
	"image/color"
	"math"

	"go-tower-defense-sim/internal/app"
	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/score"
	"go-tower-defense-sim/internal/storage"
	"go-tower-defense-sim/internal/system"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/internal/ui"
	"go-tower-defense-sim/pkg/logger"
	"go-tower-defense-sim/pkg/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
)

const (
	hudHeight       = 50
	quickSaveName   = "quick"
	messageDuration = 2.0
)

var kindKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// Session is what the viewer states share: definitions, runtime settings and
// where quick saves go. A nil Store disables quick save.
type Session struct {
	Library  *defs.Library
	Settings config.Settings
	Store    *storage.Store
}

// Убеждаемся, что GameState соответствует интерфейсу State
var _ State = (*GameState)(nil)

// GameState runs one game on screen: input, simulation and drawing.
type GameState struct {
	sm       *StateMachine
	session  Session
	mapName  string
	game     *app.Game
	ledger   *score.Ledger
	fx       *Effects
	renderer *render.GridRenderer
	kinds    []string
	kind     int

	speedButton    *ui.SpeedButton
	pauseButton    *ui.PauseButton
	stateIndicator *ui.StateIndicator
	waveIndicator  *ui.WaveIndicator
	healthBar      *ui.PlayerHealthIndicator
	infoPanel      *ui.InfoPanel

	message      string
	messageTimer float64
	log          *logrus.Entry
}

// NewGameState starts a fresh game on a built-in map.
func NewGameState(sm *StateMachine, session Session, mapName string) (*GameState, error) {
	level, err := defs.LoadBuiltinMap(mapName)
	if err != nil {
		return nil, err
	}
	return newGameState(sm, session, mapName, func(opts app.Options) (*app.Game, error) {
		return app.NewGame(level, opts)
	})
}

// RestoreGameState continues a saved game.
func RestoreGameState(sm *StateMachine, session Session, snap *app.Snapshot) (*GameState, error) {
	level, err := defs.LoadBuiltinMap(snap.Level)
	if err != nil {
		return nil, err
	}
	return newGameState(sm, session, snap.Level, func(opts app.Options) (*app.Game, error) {
		return app.Restore(level, snap, opts)
	})
}

func newGameState(sm *StateMachine, session Session, mapName string, build func(app.Options) (*app.Game, error)) (*GameState, error) {
	if session.Library == nil {
		session.Library = defs.DefaultLibrary()
	}
	ledger := score.NewLedger(session.Settings.StartGold, session.Settings.StartLives)
	fx := NewEffects(session.Library)
	game, err := build(app.Options{
		Library:   session.Library,
		Economy:   ledger,
		Presenter: fx,
		Seed:      session.Settings.Seed,
	})
	if err != nil {
		return nil, err
	}
	fx.Bind(game.Mob, game.Tower)

	boardW := float64(game.Grid.Cols) * config.CellSize
	offsetX := math.Max(0, (config.ScreenWidth-boardW)/2)
	colors := render.MapColors{
		BackgroundColor: config.BackgroundColor,
		PassableColor:   config.PassableColor,
		ImpassableColor: config.ImpassableColor,
		EntryColor:      config.EntryColor,
		ExitColor:       config.ExitColor,
		GridLineColor:   config.GridLineColor,
		StrokeWidth:     float32(config.StrokeWidth),
	}

	gs := &GameState{
		sm:             sm,
		session:        session,
		mapName:        mapName,
		game:           game,
		ledger:         ledger,
		fx:             fx,
		renderer:       render.NewGridRenderer(game.Grid, config.CellSize, offsetX, hudHeight, colors),
		kinds:          session.Library.TowerIDs(),
		speedButton:    ui.NewSpeedButton(config.ScreenWidth-110, 25, 10, config.SpeedButtonColors),
		pauseButton:    ui.NewPauseButton(config.ScreenWidth-60, 25, 8, config.BuildStateColor, config.WaveStateColor),
		stateIndicator: ui.NewStateIndicator(config.ScreenWidth-170, 25, 14),
		waveIndicator:  ui.NewWaveIndicator(config.ScreenWidth/2, 30),
		healthBar:      ui.NewPlayerHealthIndicator(10, 20),
		infoPanel:      ui.NewInfoPanel(),
		log:            logger.Component("viewer"),
	}
	gs.speedButton.SetState(game.SpeedIndex())
	gs.log.WithFields(logrus.Fields{"map": mapName, "towers": len(gs.kinds)}).Info("Viewer game started")
	return gs, nil
}

func (g *GameState) Enter() {
	g.game.SetPaused(false)
	g.pauseButton.SetPaused(false)
}

func (g *GameState) Exit() {}

// Game exposes the running simulation to other states.
func (g *GameState) Game() *app.Game { return g.game }

func (g *GameState) Update(deltaTime float64) {
	if g.game.Over() {
		g.fx.Update(deltaTime)
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.sm.SetState(NewMenuState(g.sm, g.session))
		}
		return
	}

	if g.handleKeys() {
		return
	}
	g.handleMouse()

	g.game.Update(deltaTime)
	g.fx.Update(deltaTime * g.game.SpeedMultiplier)
	g.refreshPanel()
	if g.messageTimer > 0 {
		g.messageTimer -= deltaTime
	}
}

// handleKeys returns true when the state was switched.
func (g *GameState) handleKeys() bool {
	for i, key := range kindKeys {
		if i >= len(g.kinds) {
			break
		}
		if inpututil.IsKeyJustPressed(key) {
			g.kind = i
			g.notify(g.kinds[i])
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyP), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.pause()
		return true
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.callNextWave()
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.cycleSpeed()
	case inpututil.IsKeyJustPressed(ebiten.KeyU):
		g.apply(ui.ActionUpgrade)
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.apply(ui.ActionSell)
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.apply(ui.ActionLock)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.apply(ui.ActionFire)
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		g.quickSave()
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		return g.quickLoad()
	}
	return false
}

func (g *GameState) handleMouse() {
	if action := g.infoPanel.Update(); action != ui.ActionNone {
		g.apply(action)
		return
	}
	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.infoPanel.Hide()
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	switch {
	case g.pauseButton.IsClicked():
		g.pause()
	case g.speedButton.IsClicked():
		g.cycleSpeed()
	case g.stateIndicator.IsClicked():
		g.stateIndicator.HandleClick()
		g.callNextWave()
	case g.infoPanel.Contains(x, y):
	default:
		g.handleBoardClick(x, y)
	}
}

func (g *GameState) handleBoardClick(x, y int) {
	cell, ok := g.renderer.CellAt(x, y)
	if !ok {
		g.infoPanel.Hide()
		return
	}
	if id, ok := g.game.TowerAt(cell.Row, cell.Col); ok {
		g.selectTower(id)
		return
	}
	if len(g.kinds) == 0 {
		return
	}
	kind := g.kinds[g.kind]
	id, res := g.game.BuildTower(kind, cell.Row, cell.Col)
	if !res.OK {
		g.notify(fmt.Sprintf("%s: %s", kind, res.Reason))
		return
	}
	g.selectTower(id)
}

func (g *GameState) selectTower(id types.EntityID) {
	t, ok := g.game.Tower(id)
	if !ok {
		g.infoPanel.Hide()
		return
	}
	def, _ := g.session.Library.Tower(t.Kind)
	g.infoPanel.SetTarget(t, def)
}

// refreshPanel keeps the shown tower current and hides it once sold.
func (g *GameState) refreshPanel() {
	sel := g.infoPanel.Target()
	if sel.ID == types.None {
		return
	}
	if _, ok := g.game.Tower(sel.ID); !ok {
		g.infoPanel.Hide()
		return
	}
	g.selectTower(sel.ID)
}

func (g *GameState) apply(action ui.Action) {
	id := g.infoPanel.Target().ID
	if id == types.None {
		return
	}
	var res system.Result
	switch action {
	case ui.ActionUpgrade:
		res = g.game.UpgradeTower(id)
	case ui.ActionSell:
		res = g.game.SellTower(id)
	case ui.ActionLock:
		res = g.game.LockTower(id)
	case ui.ActionFire:
		res = g.game.FireTower(id)
	default:
		return
	}
	if !res.OK {
		g.notify(res.Reason.String())
	}
}

func (g *GameState) callNextWave() {
	if res := g.game.CallNextWave(); !res.OK {
		g.notify(res.Reason.String())
	}
}

func (g *GameState) cycleSpeed() {
	g.game.CycleSpeed()
	g.speedButton.ToggleState()
}

func (g *GameState) pause() {
	g.game.SetPaused(true)
	g.pauseButton.SetPaused(true)
	g.sm.SetState(NewPauseState(g.sm, g))
}

func (g *GameState) quickSave() {
	if g.session.Store == nil {
		return
	}
	path, err := g.session.Store.Save(quickSaveName, g.game.Snapshot())
	if err != nil {
		g.log.WithError(err).Error("Quick save failed")
		g.notify("save failed")
		return
	}
	g.notify("saved to " + path)
}

func (g *GameState) quickLoad() bool {
	if g.session.Store == nil {
		return false
	}
	snap, err := g.session.Store.Load(quickSaveName)
	if err != nil {
		g.log.WithError(err).Warn("Quick load failed")
		g.notify("nothing to load")
		return false
	}
	next, err := RestoreGameState(g.sm, g.session, snap)
	if err != nil {
		g.log.WithError(err).Error("Quick load failed")
		g.notify("load failed")
		return false
	}
	g.sm.SetState(next)
	return true
}

func (g *GameState) notify(s string) {
	g.message = s
	g.messageTimer = messageDuration
}

func (g *GameState) Draw(screen *ebiten.Image) {
	screen.Fill(config.BackgroundColor)
	g.renderer.Draw(screen)
	g.drawGhost(screen)
	g.drawTowers(screen)
	g.drawMobs(screen)
	g.drawProjectiles(screen)
	g.drawEffects(screen)
	g.drawHUD(screen)
	g.infoPanel.Draw(screen)
	if g.game.Over() {
		g.drawGameOver(screen)
	}
}

// drawGhost shows where the selected tower kind would go.
func (g *GameState) drawGhost(screen *ebiten.Image) {
	if len(g.kinds) == 0 || g.game.Over() {
		return
	}
	x, y := ebiten.CursorPosition()
	if g.infoPanel.Contains(x, y) {
		return
	}
	cell, ok := g.renderer.CellAt(x, y)
	if !ok {
		return
	}
	if _, ok := g.game.TowerAt(cell.Row, cell.Col); ok {
		return
	}
	def, ok := g.session.Library.Tower(g.kinds[g.kind])
	if !ok {
		return
	}
	size := def.FootprintSize(config.TowerSize)
	clr := color.RGBA{60, 200, 60, 90}
	if !g.game.Grid.CanPlace(cell.Row, cell.Col, size) || g.game.Gold() < def.Level(1).Cost {
		clr = color.RGBA{200, 60, 60, 90}
	}
	g.renderer.DrawFootprint(screen, cell.Row, cell.Col, size, clr)
	half := float64(size) / 2
	g.renderer.DrawRange(screen, (float64(cell.Col)+half)*config.CellSize, (float64(cell.Row)+half)*config.CellSize,
		def.Level(1).Range*config.CellSize, config.RangeColor)
}

func (g *GameState) drawTowers(screen *ebiten.Image) {
	sel := g.infoPanel.Target().ID
	for _, t := range g.game.Towers() {
		def, ok := g.session.Library.Tower(t.Kind)
		if !ok {
			continue
		}
		outline := color.Color(config.TowerStrokeColor)
		switch {
		case g.game.ECS.Upgrading.Has(t.ID), g.game.ECS.Selling.Has(t.ID):
			outline = color.RGBA{150, 150, 150, 255}
		case t.Locked:
			outline = config.WaveStateColor
		}
		angle := t.Angle
		if t.Locked {
			angle = t.LockAngle
		}
		g.renderer.DrawTower(screen, t.Row, t.Col, t.Size, def.Visuals.Color, outline, angle, t.Level)
		if t.ID == sel {
			cx, cy := towerCenter(t)
			g.renderer.DrawRange(screen, cx, cy, def.Level(t.Level).Range*config.CellSize, config.RangeColor)
		}
	}
}

func (g *GameState) drawMobs(screen *ebiten.Image) {
	for _, m := range g.game.Mobs() {
		mob, ok := g.game.ECS.Mobs[m.ID]
		if !ok || mob.State == component.MobCreating {
			continue
		}
		def, _ := g.session.Library.Mob(m.Kind)
		fill := color.Color(config.MobColor)
		radiusFactor := 0.5
		if def != nil {
			fill = def.Visuals.Color
			if def.Visuals.RadiusFactor > 0 {
				radiusFactor = def.Visuals.RadiusFactor
			}
		}
		if m.Flying {
			fill = config.FlyerColor
		}
		if _, hit := g.fx.Flashes[m.ID]; hit {
			fill = color.White
		}
		frac := 1.0
		if m.MaxLife > 0 {
			frac = float64(m.Life) / float64(m.MaxLife)
		}
		g.renderer.DrawMob(screen, m.X, m.Y, radiusFactor*config.CellSize/2, fill, config.TextDarkColor, frac)
	}
}

func (g *GameState) drawProjectiles(screen *ebiten.Image) {
	for _, p := range g.game.Projectiles() {
		g.renderer.DrawProjectile(screen, p.X, p.Y, config.ProjectileRadius, config.ProjectileColor)
	}
}

func (g *GameState) drawEffects(screen *ebiten.Image) {
	for _, l := range g.fx.Lasers {
		g.renderer.DrawLine(screen, l.FromX, l.FromY, l.ToX, l.ToY, 2, render.WithAlpha(l.Color, uint8(255*(1-l.Fraction()))))
	}
	for _, im := range g.fx.Impacts {
		f := im.Fraction()
		clr := render.WithAlpha(config.ProjectileColor, uint8(255*(1-f)))
		g.renderer.DrawRing(screen, im.X, im.Y, im.Radius*(0.3+0.7*f), clr)
	}
}

func (g *GameState) drawHUD(screen *ebiten.Image) {
	g.healthBar.Draw(screen, g.game.Lives(), g.session.Settings.StartLives)
	text.Draw(screen, fmt.Sprintf("Gold %d   Lives %d", g.game.Gold(), g.game.Lives()), ui.DefaultFace, 150, 30, config.TextLightColor)
	if len(g.kinds) > 0 {
		kind := g.kinds[g.kind]
		cost := 0
		if def, ok := g.session.Library.Tower(kind); ok {
			cost = def.Level(1).Cost
		}
		text.Draw(screen, fmt.Sprintf("[%d] %s (%d)", g.kind+1, kind, cost), ui.DefaultFace, 300, 30, config.TextLightColor)
	}

	g.waveIndicator.Draw(screen, g.game.WaveNumber(), g.game.TotalWaves())
	stateColor := config.BuildStateColor
	if g.game.State() == component.WaveState {
		stateColor = config.WaveStateColor
	}
	g.stateIndicator.Draw(screen, stateColor, g.game.Countdown())
	g.speedButton.Draw(screen)
	g.pauseButton.Draw(screen)

	if g.fx.Banner != "" {
		text.Draw(screen, g.fx.Banner, ui.DefaultFace, 10, hudHeight-4, config.TextLightColor)
	}
	if g.messageTimer > 0 {
		text.Draw(screen, g.message, ui.DefaultFace, 10, config.ScreenHeight-10, config.TextLightColor)
	}
}

func (g *GameState) drawGameOver(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, config.ScreenWidth, config.ScreenHeight, color.RGBA{0, 0, 0, 160}, false)
	title := "DEFEAT"
	if g.game.Won() {
		title = "VICTORY"
	}
	earned, spent, leaked := g.ledger.Totals()
	lines := []string{
		title,
		fmt.Sprintf("waves %d / %d", g.game.WaveNumber(), g.game.TotalWaves()),
		fmt.Sprintf("gold earned %d, spent %d, mobs leaked %d", earned, spent, leaked),
		"click or press Enter for the menu",
	}
	y := config.ScreenHeight/2 - len(lines)*10
	for _, s := range lines {
		b := text.BoundString(ui.DefaultFace, s)
		text.Draw(screen, s, ui.DefaultFace, (config.ScreenWidth-b.Dx())/2, y, config.TextLightColor)
		y += 20
	}
}
