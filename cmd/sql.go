package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the mission database",
	Long: `Run an arbitrary SQL query against the mission database and print results as a table.

Schema overview:
  missions(id, date, sort_date, name, map, source_file, ingested_at)
  player_entries(mission_id, seq, name, side, grp, frag_inf, frag_veh,
    destroyed_vehicles, teamkills, vehicle_kills, ai_kills)
  kill_events(mission_id, player_seq, seq, kind, kill_type, time, other_name,
    distance, weapon, frag_type, event_mission_id, event_mission_date)
  team_entries(mission_id, tag, side, frags, teamkills, deaths, total_players)
  snapshots(id, kind, label, missions, created_at, summary, awards)

Names are stored raw, before normalization. kind is 'victim' or 'death';
other_name is the victim for kills and the killer for deaths. sort_date is
the mission date as YYYY-MM-DD (empty when the date did not parse).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

