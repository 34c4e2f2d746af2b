package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"smashlog/internal/config"
	"smashlog/internal/data"
	"smashlog/internal/logger"
	"smashlog/internal/match"
	"smashlog/internal/matchlog"
	"smashlog/internal/roster"
	"smashlog/internal/selection"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// App struct
type App struct {
	ctx        context.Context
	cfg        *config.Config
	log        zerolog.Logger
	roster     *roster.Repository
	store      *matchlog.Store
	matchDB    *data.MatchDB // nil when the index could not be opened
	machine    *selection.Machine

	windowMu   sync.Mutex
	fullscreen bool

	stopPoll  chan struct{}
	stopOnce  sync.Once
	watchMu   sync.Mutex
	lastWrite time.Time // Modification time of the log after our own last save

	// emit pushes an event to the frontend
	emit func(name string, payload interface{})
}

// NewApp creates a new App application struct
func NewApp(cfg *config.Config, log zerolog.Logger) *App {
	a := &App{
		cfg:        cfg,
		log:        logger.Component(log, "app"),
		fullscreen: true,
		stopPoll:   make(chan struct{}),
	}
	a.emit = func(name string, payload interface{}) {
		if a.ctx != nil {
			runtime.EventsEmit(a.ctx, name, payload)
		}
	}
	return a
}

// startup is called when the app starts
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	if err := a.load(); err != nil {
		a.log.Error().Err(err).Msg("Failed to load match data")
		a.emit("app:error", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	a.emitHistory()
	go a.watchGameLog()
	a.RegisterFullscreenHotkey()
}

// shutdown is called when the app is closing
func (a *App) shutdown(ctx context.Context) {
	a.stopOnce.Do(func() { close(a.stopPoll) })
	if a.matchDB != nil {
		if err := a.matchDB.Close(); err != nil {
			a.log.Warn().Err(err).Msg("Failed to close match index")
		}
	}
}

// load reads the rosters, prepares the game log and the statistics index,
// and starts a selection for the configured mode
func (a *App) load() error {
	repo, err := roster.Load(a.cfg.CharactersPath, a.cfg.StagesPath)
	if err != nil {
		return err
	}
	a.roster = repo
	a.log.Info().Int("characters", repo.Len()).Int("stages", len(repo.Stages())).Msg("Loaded rosters")

	a.store = matchlog.NewStore(a.cfg.GameLogPath, repo, a.log)
	// First run: a missing log is an empty log
	if err := a.store.Init(); err != nil {
		return err
	}
	if a.cfg.ArchiveKeep > 0 {
		if _, err := a.store.Archive(a.cfg.ArchiveDir(), a.cfg.ArchiveKeep); err != nil {
			a.log.Warn().Err(err).Msg("Failed to archive game log")
		}
	}

	matchDB, err := data.OpenMatchDB(a.cfg.IndexPath(), a.log)
	if err != nil {
		// Statistics are optional; history and saving still work
		a.log.Warn().Err(err).Msg("Match index unavailable, statistics disabled")
	} else {
		a.matchDB = matchDB
		if err := a.rebuildIndex(); err != nil {
			a.log.Warn().Err(err).Msg("Failed to rebuild match index")
		}
	}

	return a.SetMode(string(a.cfg.DefaultMode))
}

// SetMode discards the current selection and starts a new one for the mode
func (a *App) SetMode(tag string) error {
	mode, err := match.ParseMode(tag)
	if err != nil {
		return err
	}

	m, err := selection.New(mode)
	if err != nil {
		return err
	}
	m.Subscribe(a.onSelectionEvent)
	previous := a.machine
	a.machine = m
	// Banners of the discarded selection are cleared; snapshots already show the new machine
	if previous != nil {
		previous.DeselectAll()
	}

	a.log.Info().Str("mode", mode.Name()).Msg("Started selection")
	a.emitSelection()
	return nil
}

// Clear resets every selection and keeps the current mode
func (a *App) Clear() error {
	if a.machine == nil {
		return fmt.Errorf("no mode selected")
	}
	return a.SetMode(string(a.machine.Mode()))
}

// SaveMatch records the current selection as a finished match and starts the next one
func (a *App) SaveMatch() (string, error) {
	if a.machine == nil || !a.machine.ReadyToSave() {
		return "", fmt.Errorf("match is not ready to save")
	}

	record, err := match.Build(a.machine.AssembleRecord(), a.roster)
	if err != nil {
		return "", fmt.Errorf("failed to build match record: %w", err)
	}
	if err := a.store.Append(record); err != nil {
		return "", fmt.Errorf("failed to record game: %w", err)
	}
	a.noteWrite()
	a.log.Info().Str("game", record.String()).Msg("Created game")

	if a.matchDB != nil {
		if err := a.matchDB.Insert(record); err != nil {
			a.log.Warn().Err(err).Msg("Failed to index game")
		}
	}

	if err := a.Clear(); err != nil {
		return "", err
	}
	a.emitHistory()
	return record.String(), nil
}

// rebuildIndex reloads the whole log into the statistics index
func (a *App) rebuildIndex() error {
	records, _, err := a.store.LoadValidSorted(false)
	if err != nil {
		return err
	}
	return a.matchDB.Rebuild(records)
}
