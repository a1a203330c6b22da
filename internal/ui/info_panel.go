// internal/ui/info_panel.go
package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/interfaces"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	panelHeight    = 110
	panelMargin    = 5
	animationSpeed = 10.0
	lineHeight     = 16
	columnSpacing  = 220
	buttonWidth    = 90
	buttonHeight   = 24
)

// Action is what the player asked for in the panel.
type Action int

const (
	ActionNone Action = iota
	ActionUpgrade
	ActionSell
	ActionLock
	ActionFire
)

// InfoPanel displays information about the selected tower and its orders.
type InfoPanel struct {
	IsVisible bool
	tower     interfaces.TowerView
	def       *defs.TowerDefinition
	currentY  float64
	targetY   float64

	UpgradeButton *Button
	SellButton    *Button
	LockButton    *Button
	FireButton    *Button
}

// NewInfoPanel creates a hidden panel below the screen.
func NewInfoPanel() *InfoPanel {
	return &InfoPanel{
		currentY:      config.ScreenHeight,
		targetY:       config.ScreenHeight,
		UpgradeButton: NewButton(image.Rectangle{}, "Upgrade"),
		SellButton:    NewButton(image.Rectangle{}, "Sell"),
		LockButton:    NewButton(image.Rectangle{}, "Lock"),
		FireButton:    NewButton(image.Rectangle{}, "Fire"),
	}
}

// SetTarget shows the panel for a tower.
func (p *InfoPanel) SetTarget(t interfaces.TowerView, def *defs.TowerDefinition) {
	p.tower = t
	p.def = def
	p.IsVisible = true
	p.targetY = config.ScreenHeight - panelHeight
}

// Target returns the shown tower, a zero view when hidden.
func (p *InfoPanel) Target() interfaces.TowerView {
	if !p.IsVisible {
		return interfaces.TowerView{}
	}
	return p.tower
}

func (p *InfoPanel) Hide() {
	p.IsVisible = false
	p.targetY = config.ScreenHeight
}

// Contains reports whether a screen point falls on the visible panel.
func (p *InfoPanel) Contains(x, y int) bool {
	return p.IsVisible && y >= int(p.currentY)
}

// Update animates the panel and returns the clicked order, if any.
func (p *InfoPanel) Update() Action {
	if p.currentY != p.targetY {
		diff := p.targetY - p.currentY
		if math.Abs(diff) < animationSpeed {
			p.currentY = p.targetY
		} else {
			p.currentY += math.Copysign(animationSpeed, diff)
		}
	}
	if !p.IsVisible || p.def == nil {
		return ActionNone
	}
	p.layout()

	p.UpgradeButton.Disabled = p.tower.Level >= p.def.MaxLevel()
	p.LockButton.Disabled = !p.def.Lockable
	p.FireButton.Disabled = !p.def.SingleFire
	if p.tower.Locked {
		p.LockButton.Text = "Unlock"
	} else {
		p.LockButton.Text = "Lock"
	}

	switch {
	case p.UpgradeButton.IsClicked():
		return ActionUpgrade
	case p.SellButton.IsClicked():
		return ActionSell
	case p.LockButton.IsClicked():
		return ActionLock
	case p.FireButton.IsClicked():
		return ActionFire
	}
	return ActionNone
}

func (p *InfoPanel) layout() {
	x := config.ScreenWidth - panelMargin - buttonWidth
	y := int(p.currentY) + panelMargin + 4
	for _, b := range []*Button{p.UpgradeButton, p.SellButton, p.LockButton, p.FireButton} {
		b.Rect = image.Rect(x, y, x+buttonWidth, y+buttonHeight)
		y += buttonHeight + 2
	}
}

func (p *InfoPanel) Draw(screen *ebiten.Image) {
	if p.currentY >= config.ScreenHeight || p.def == nil {
		return
	}
	y := float32(p.currentY)
	vector.DrawFilledRect(screen, panelMargin, y, config.ScreenWidth-2*panelMargin, panelHeight-panelMargin, color.RGBA{30, 30, 40, 230}, false)
	vector.StrokeRect(screen, panelMargin, y, config.ScreenWidth-2*panelMargin, panelHeight-panelMargin, 2, config.IndicatorStroke, false)

	def := p.def
	cur := def.Level(p.tower.Level)
	left := []string{
		fmt.Sprintf("%s  #%d", def.Name, p.tower.ID),
		fmt.Sprintf("Level %d / %d", p.tower.Level, def.MaxLevel()),
		fmt.Sprintf("Targeting: %s", def.Targeting),
		fmt.Sprintf("Hits: %s", hitsString(def)),
	}
	right := []string{
		fmt.Sprintf("Damage: %d", cur.Damage),
		fmt.Sprintf("Range: %.1f", cur.Range),
		fmt.Sprintf("Speed: %.2f", cur.Speed),
	}
	if def.Effect != "" {
		right = append(right, fmt.Sprintf("Effect: %s", def.Effect))
	}
	if p.tower.Level < def.MaxLevel() {
		right = append(right, fmt.Sprintf("Upgrade: %d gold", def.Level(p.tower.Level+1).Cost))
	}
	if p.tower.Locked {
		left = append(left, fmt.Sprintf("Locked at %.0f deg", p.tower.LockAngle))
	}

	ty := int(p.currentY) + panelMargin + lineHeight
	for i, s := range left {
		text.Draw(screen, s, DefaultFace, panelMargin*3, ty+i*lineHeight, config.TextLightColor)
	}
	for i, s := range right {
		text.Draw(screen, s, DefaultFace, panelMargin*3+columnSpacing, ty+i*lineHeight, config.TextLightColor)
	}
	for _, b := range []*Button{p.UpgradeButton, p.SellButton, p.LockButton, p.FireButton} {
		b.Draw(screen)
	}
}

func hitsString(def *defs.TowerDefinition) string {
	switch {
	case def.HitsGround && def.HitsAir:
		return "ground, air"
	case def.HitsAir:
		return "air"
	case def.HitsGround:
		return "ground"
	}
	return "nothing"
}
