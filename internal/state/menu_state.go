// internal/state/menu_state.go
package state

import (
	"image"

	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/ui"
	"go-tower-defense-sim/pkg/logger"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
)

const (
	menuButtonWidth  = 240
	menuButtonHeight = 40
	menuButtonGap    = 12
)

// MenuState — выбор карты
type MenuState struct {
	sm       *StateMachine
	session  Session
	names    []string
	buttons  []*ui.Button
	loadBtn  *ui.Button
	errorMsg string
}

func NewMenuState(sm *StateMachine, session Session) *MenuState {
	m := &MenuState{sm: sm, session: session, names: defs.MapNames()}
	x := (config.ScreenWidth - menuButtonWidth) / 2
	y := config.ScreenHeight/3 - menuButtonHeight
	for _, name := range m.names {
		m.buttons = append(m.buttons, ui.NewButton(image.Rect(x, y, x+menuButtonWidth, y+menuButtonHeight), name))
		y += menuButtonHeight + menuButtonGap
	}
	if session.Store != nil {
		y += menuButtonGap
		m.loadBtn = ui.NewButton(image.Rect(x, y, x+menuButtonWidth, y+menuButtonHeight), "Continue (F9)")
	}
	return m
}

func (m *MenuState) Enter() {}

func (m *MenuState) Update(deltaTime float64) {
	for i, b := range m.buttons {
		if b.IsClicked() {
			m.start(m.names[i])
			return
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && len(m.names) > 0 {
		m.start(m.session.Settings.Map)
		return
	}
	if m.loadBtn != nil && (m.loadBtn.IsClicked() || inpututil.IsKeyJustPressed(ebiten.KeyF9)) {
		m.load()
	}
}

func (m *MenuState) start(name string) {
	gs, err := NewGameState(m.sm, m.session, name)
	if err != nil {
		logger.Component("viewer").WithError(err).WithField("map", name).Error("Failed to start game")
		m.errorMsg = err.Error()
		return
	}
	m.sm.SetState(gs)
}

func (m *MenuState) load() {
	snap, err := m.session.Store.Load(quickSaveName)
	if err != nil {
		m.errorMsg = "no saved game"
		return
	}
	gs, err := RestoreGameState(m.sm, m.session, snap)
	if err != nil {
		logger.Component("viewer").WithError(err).Error("Failed to restore game")
		m.errorMsg = err.Error()
		return
	}
	m.sm.SetState(gs)
}

func (m *MenuState) Draw(screen *ebiten.Image) {
	screen.Fill(config.BackgroundColor)
	title := "Choose a map"
	b := text.BoundString(ui.DefaultFace, title)
	text.Draw(screen, title, ui.DefaultFace, (config.ScreenWidth-b.Dx())/2, config.ScreenHeight/3-menuButtonHeight-20, config.TextLightColor)
	for _, btn := range m.buttons {
		btn.Draw(screen)
	}
	if m.loadBtn != nil {
		m.loadBtn.Draw(screen)
	}
	if m.errorMsg != "" {
		text.Draw(screen, m.errorMsg, ui.DefaultFace, 10, config.ScreenHeight-10, config.WaveStateColor)
	}
}

func (m *MenuState) Exit() {}
