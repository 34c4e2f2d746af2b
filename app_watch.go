package main

import (
	"os"
	"time"
)

// watchGameLog polls the game log and refreshes history and statistics
// when the file is changed by another process
func (a *App) watchGameLog() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	last := a.logModTime()

	for {
		select {
		case <-a.stopPoll:
			return
		case <-ticker.C:
			last, _ = a.pollGameLog(last)
		}
	}
}

// pollGameLog reloads history and statistics if the log was modified after last
// by someone other than this app. It returns the modification time to compare
// against next and whether a reload happened.
func (a *App) pollGameLog(last time.Time) (time.Time, bool) {
	mod := a.logModTime()
	if mod.IsZero() || !mod.After(last) {
		return last, false
	}

	a.watchMu.Lock()
	own := !mod.After(a.lastWrite)
	a.watchMu.Unlock()
	if own {
		return mod, false
	}

	a.log.Info().Str("path", a.store.Path()).Msg("Game log changed on disk, reloading")
	if a.matchDB != nil {
		if err := a.rebuildIndex(); err != nil {
			a.log.Warn().Err(err).Msg("Failed to rebuild match index")
		}
	}
	a.emitHistory()
	return mod, true
}

// noteWrite remembers the log's modification time after a save by this app
func (a *App) noteWrite() {
	mod := a.logModTime()

	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if mod.After(a.lastWrite) {
		a.lastWrite = mod
	}
}

// logModTime returns the modification time of the game log, or zero if it cannot be read
func (a *App) logModTime() time.Time {
	info, err := os.Stat(a.store.Path())
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
