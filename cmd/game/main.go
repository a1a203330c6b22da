// cmd/game/main.go
package main

import (
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/state"
	"go-tower-defense-sim/internal/storage"
	"go-tower-defense-sim/pkg/logger"

	"github.com/hajimehoshi/ebiten/v2"
)

type AppGame struct {
	stateMachine   *state.StateMachine
	lastUpdateTime time.Time
}

func (a *AppGame) Update() error {
	now := time.Now()
	deltaTime := now.Sub(a.lastUpdateTime).Seconds()
	if deltaTime > config.MaxDeltaTime {
		deltaTime = config.MaxDeltaTime
	}
	a.lastUpdateTime = now
	a.stateMachine.Update(deltaTime)
	return nil
}

func (a *AppGame) Draw(screen *ebiten.Image) {
	a.stateMachine.Draw(screen)
}

func (a *AppGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

func main() {
	menu := flag.Bool("menu", false, "start from the map menu instead of TD_MAP")
	pprofAddr := flag.String("pprof", "", "serve pprof on this address, e.g. localhost:6060")
	flag.Parse()

	settings, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid configuration")
	}
	logger.Configure(settings.LogLevel, settings.LogFormat, os.Stdout)
	log := logger.Component("main")

	if *pprofAddr != "" {
		go func() {
			log.WithError(http.ListenAndServe(*pprofAddr, nil)).Warn("pprof stopped")
		}()
	}
	if settings.Seed == 0 {
		settings.Seed = time.Now().UnixNano()
	}

	lib := defs.DefaultLibrary()
	if settings.TowerDefs != "" || settings.MobDefs != "" {
		if lib, err = defs.LoadLibrary(settings.TowerDefs, settings.MobDefs); err != nil {
			log.WithError(err).Fatal("Failed to load definitions")
		}
	}
	session := state.Session{Library: lib, Settings: settings}
	if store, err := storage.NewStore(settings.SaveDir); err != nil {
		log.WithError(err).Warn("Quick save disabled")
	} else {
		session.Store = store
	}

	sm := state.NewStateMachine()
	if *menu {
		sm.SetState(state.NewMenuState(sm, session))
	} else {
		gs, err := state.NewGameState(sm, session, settings.Map)
		if err != nil {
			log.WithError(err).WithField("map", settings.Map).Fatal("Failed to start game")
		}
		sm.SetState(gs)
	}

	app := &AppGame{
		stateMachine:   sm,
		lastUpdateTime: time.Now(),
	}
	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Tower Defense")
	if err := ebiten.RunGame(app); err != nil {
		log.WithError(err).Fatal("Game loop failed")
	}
}
