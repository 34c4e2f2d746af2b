package main

import (
	"flag"
	"fmt"
	"os"

	"smashlog/internal/config"
	"smashlog/internal/data"
	"smashlog/internal/logger"
	"smashlog/internal/match"
	"smashlog/internal/matchlog"
	"smashlog/internal/roster"
)

func main() {
	logPath := flag.String("log", "", "Game log to read (defaults to SMASHLOG_GAME_LOG)")
	oldestFirst := flag.Bool("oldest-first", false, "Print the oldest game first")
	strict := flag.Bool("strict", false, "Fail on the first entry that cannot be decoded")
	modeFilter := flag.String("mode", "", "Only print games of this mode (sp, mp, ffa)")
	showStats := flag.Bool("stats", false, "Rebuild the statistics index and print a summary")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if *logPath != "" {
		cfg.GameLogPath = *logPath
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Out:    os.Stderr,
	})

	var mode match.Mode
	if *modeFilter != "" {
		mode, err = match.ParseMode(*modeFilter)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid mode filter")
		}
	}

	repo, err := roster.Load(cfg.CharactersPath, cfg.StagesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load rosters")
	}

	store := matchlog.NewStore(cfg.GameLogPath, repo, log)

	var records []match.Record
	if *strict {
		records, err = store.LoadAllSorted(!*oldestFirst)
	} else {
		var skipped []matchlog.EntryError
		records, skipped, err = store.LoadValidSorted(!*oldestFirst)
		for _, s := range skipped {
			fmt.Fprintf(os.Stderr, "skipped %s\n", s.Error())
		}
	}
	if err != nil {
		if matchlog.IsNotExist(err) {
			fmt.Println("No games recorded yet")
			return
		}
		log.Fatal().Err(err).Msg("Failed to read game log")
	}

	printed := 0
	for _, r := range records {
		if mode != "" && r.Mode() != mode {
			continue
		}
		fmt.Println(r.String())
		printed++
	}
	fmt.Printf("\n%d games\n", printed)

	if !*showStats {
		return
	}

	matchDB, err := data.OpenMatchDB(cfg.IndexPath(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open match index")
	}
	defer matchDB.Close()

	if err := matchDB.Rebuild(records); err != nil {
		log.Fatal().Err(err).Msg("Failed to rebuild match index")
	}

	summary, err := matchDB.Summary()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query summary")
	}
	fmt.Println("\n=== Summary ===")
	for _, s := range summary {
		fmt.Printf("  %-4s %4d games  %4dW %4dL  (%.1f%%)\n", s.Mode, s.Games, s.Wins, s.Losses, s.WinRate)
	}

	characters, err := matchDB.CharacterStats()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query character stats")
	}
	fmt.Println("\n=== Characters ===")
	for _, c := range characters {
		name := c.CharacterID
		if character, err := repo.Character(c.CharacterID); err == nil {
			name = character.DisplayName
		}
		fmt.Printf("  %-20s %4d games  %4dW  (%.1f%%)\n", name, c.Games, c.Wins, c.WinRate)
	}

	stages, err := matchDB.StageStats()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query stage stats")
	}
	fmt.Println("\n=== Stages ===")
	for _, s := range stages {
		fmt.Printf("  %-20s %4d games  %4dW  (%.1f%%)\n", s.StageID, s.Games, s.Wins, s.WinRate)
	}
}
