package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/leaderboard"
	"github.com/pable/go-ocap-stats/internal/pipeline"
	"github.com/pable/go-ocap-stats/internal/report"
	"github.com/pable/go-ocap-stats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	engine, err := awardEngine()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("ocapstats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("ocapstats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <mission-id>")
				continue
			}
			if err := showMission(db, args[0]); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "seasons":
			windows := seasonWindows()
			if len(windows) == 0 {
				cMuted.Println("No seasons configured up to now.")
				continue
			}
			report.PrintWindows(os.Stdout, windows, windows[len(windows)-1])
		case "season", "awards":
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			shellSeason(db, engine, arg, cmd == "awards")
		case "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: player <name> [<name>...]")
				continue
			}
			if err := printPlayers(os.Stdout, db, engine, args); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "summary":
			if err := printSummary(db); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored missions"},
		{"show <mission-id>", "show a mission's player and squad rows"},
		{"seasons", "list season windows"},
		{"season [index|latest]", "season tables and awards"},
		{"awards [index|latest]", "season awards only"},
		{"player <name> [...]", "cross-mission stats for one or more players"},
		{"summary", "database overview"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-28s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	missions, err := db.ListMissions()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(missions) == 0 {
		cMuted.Println("No missions stored yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%-10s  %-8s  %-32s  %-14s  %s\n", "DATE", "ID", "MISSION", "MAP", "PLAYERS")
	cMuted.Fprintf(os.Stdout, "%-10s  %-8s  %-32s  %-14s  %s\n",
		"──────────", "────────", "────────────────────────────────", "──────────────", "───────")
	for _, m := range missions {
		fmt.Fprintf(os.Stdout, "%-10s  %-8s  %-32s  %-14s  %d\n", m.Date, m.ID, m.Name, m.Map, m.Players)
	}
}

func shellSeason(db *storage.DB, engine leaderboard.Engine, arg string, awardsOnly bool) {
	windows := seasonWindows()
	idx, err := pipeline.Select(windows, arg)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	records, err := loadRecords(db)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	res := pipeline.ComputeSeason(records, idx, windows[idx], engine)
	cHeader.Printf("\nSeason %d: %s (%d missions)\n\n", idx, res.Window.Label(), res.Snapshot.Missions)
	if !awardsOnly {
		report.PrintPlayerAggregates(os.Stdout, res.Snapshot.Players, 20, engine.Eligible)
		fmt.Println()
		report.PrintTeamAggregates(os.Stdout, res.Snapshot.Teams)
		fmt.Println()
	}
	report.PrintAwards(os.Stdout, res.Awards)
}
