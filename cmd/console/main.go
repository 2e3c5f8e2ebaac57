package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jwebster45206/word-battle/internal/config"
	"github.com/jwebster45206/word-battle/pkg/battle"
	"github.com/jwebster45206/word-battle/pkg/question"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; debug logs go to a file when requested.
	var logOut io.Writer = io.Discard
	if path := os.Getenv("CONSOLE_LOG_FILE"); path != "" {
		f, err := tea.LogToFile(path, "console")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = f.Close()
		}()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.LogLevel}))

	bank := question.Default()
	if cfg.QuestionsFile != "" {
		bank, err = question.LoadFile(cfg.QuestionsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load question bank: %v\n", err)
			os.Exit(1)
		}
	}

	engine := battle.NewEngine(uuid.New(), bank, battle.WithTimings(cfg.Timings))
	logger.Info("Console started", "match_id", engine.Snapshot().ID.String(), "questions", bank.Len())

	p := tea.NewProgram(NewConsoleUI(engine, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
