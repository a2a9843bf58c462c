package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-ocap-stats/internal/classifier"
	"github.com/pable/go-ocap-stats/internal/identity"
	"github.com/pable/go-ocap-stats/internal/leaderboard"
	"github.com/pable/go-ocap-stats/internal/model"
	"github.com/pable/go-ocap-stats/internal/pipeline"
)

const analyzeSystemPrompt = `You are an analyst for a community running Arma 3 tactical shooter missions.
You are given aggregated statistics recorded from mission replays and a question
from a community member.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise. Prefer comparisons between players or squads over general advice.

Metrics glossary:
- frags: infantry kills + kills from inside a vehicle + destroyed vehicles. Teamkills are not subtracted.
- frag_inf: infantry killed on foot.
- frag_veh: kills made while the shooter was in a vehicle.
- destroyed_vehicles: enemy vehicles destroyed.
- teamkills: friendly players killed.
- deaths_count: missions in which the player died (at most one death per mission).
- missions_played: distinct missions the player appeared in.
- frags_per_mission, kd_ratio: frags divided by missions or deaths. kd_ratio equals frags when the player never died.
- squad score: squad frags divided by the summed number of rostered players across its missions.
- eligible: a player with a squad tag and more than the minimum mission count; only eligible players receive awards.`

// analyzeTop caps the number of players sent as season context.
const analyzeTop = 40

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzeSeasonCmd = &cobra.Command{
	Use:   "season <index|latest> <question>",
	Short: "Analyze one season's tables and awards with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeSeason,
}

var analyzePlayerCmd = &cobra.Command{
	Use:   "player <name> <question>",
	Short: "Analyze a player's all-time and per-season stats with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzePlayer,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")

	analyzeCmd.AddCommand(analyzeSeasonCmd)
	analyzeCmd.AddCommand(analyzePlayerCmd)
}

func runAnalyzeSeason(cmd *cobra.Command, args []string) error {
	windows := seasonWindows()
	idx, err := pipeline.Select(windows, args[0])
	if err != nil {
		return err
	}
	engine, err := awardEngine()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := loadRecords(db)
	if err != nil {
		return err
	}
	res := pipeline.ComputeSeason(records, idx, windows[idx], engine)
	if res.Snapshot.Missions == 0 {
		return fmt.Errorf("season %d (%s) has no missions", idx, res.Window.Label())
	}

	contextJSON, err := buildSeasonContext(res, engine)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, args[1])
}

func runAnalyzePlayer(cmd *cobra.Command, args []string) error {
	name := identity.NormalizePlayerName(args[0])
	engine, err := awardEngine()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := loadRecords(db)
	if err != nil {
		return err
	}
	all := computeAllTime(records, engine)
	p, ok := all.Snapshot.Player(name)
	if !ok {
		return fmt.Errorf("no data found for player %q", name)
	}

	windows := seasonWindows()
	var seasons []map[string]any
	for i := range windows {
		res := pipeline.ComputeSeason(records, i, windows[i], engine)
		sp, ok := res.Snapshot.Player(name)
		if !ok {
			continue
		}
		entry := playerStats(&sp)
		entry["season"] = windows[i].Label()
		entry["season_missions"] = res.Snapshot.Missions
		var won []string
		for _, cat := range model.AwardCategories {
			if a, ok := res.Awards[cat]; ok && a.Name == name {
				won = append(won, cat)
			}
		}
		if len(won) > 0 {
			entry["awards"] = won
		}
		seasons = append(seasons, entry)
	}

	contextJSON, err := buildPlayerContext(&p, engine.Eligible(&p), all.Snapshot.Missions, seasons)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, args[1])
}

// buildSeasonContext serialises a season's tables and awards into compact JSON.
func buildSeasonContext(res pipeline.SeasonResult, engine leaderboard.Engine) (string, error) {
	players := make([]model.PlayerAggregate, len(res.Snapshot.Players))
	copy(players, res.Snapshot.Players)
	sort.SliceStable(players, func(i, j int) bool { return players[i].Frags > players[j].Frags })
	if len(players) > analyzeTop {
		players = players[:analyzeTop]
	}

	playerRows := make([]map[string]any, 0, len(players))
	for i := range players {
		row := playerStats(&players[i])
		row["name"] = players[i].Name
		row["eligible"] = engine.Eligible(&players[i])
		playerRows = append(playerRows, row)
	}

	teamRows := make([]map[string]any, 0, len(res.Snapshot.Teams))
	for _, t := range res.Snapshot.Teams {
		teamRows = append(teamRows, map[string]any{
			"tag":             t.Tag,
			"missions_played": t.MissionsPlayed,
			"frags":           t.Frags,
			"deaths":          t.Deaths,
			"teamkills":       t.Teamkills,
			"total_players":   t.TotalPlayers,
			"score":           round2(t.Score),
		})
	}

	awards := make(map[string]any, len(res.Awards))
	for cat, a := range res.Awards {
		awards[cat] = map[string]any{"name": a.Name, "value": a.Value}
	}

	data := map[string]any{
		"season":       res.Window.Label(),
		"missions":     res.Snapshot.Missions,
		"min_missions": engine.MinMissions,
		"players":      playerRows,
		"squads":       teamRows,
		"awards":       awards,
	}
	b, err := json.Marshal(data)
	return string(b), err
}

// buildPlayerContext serialises one player's totals, weapons and seasons.
func buildPlayerContext(p *model.PlayerAggregate, eligible bool, totalMissions int, seasons []map[string]any) (string, error) {
	data := map[string]any{
		"name":           p.Name,
		"eligible":       eligible,
		"total_missions": totalMissions,
		"all_time":       playerStats(p),
		"top_weapons":    topWeapons(p.Victims, 5),
		"seasons":        seasons,
	}
	if v, ok := longestVictim(p.Victims); ok {
		data["longest_kill"] = map[string]any{
			"victim":   v.VictimName,
			"distance": v.Distance,
			"weapon":   v.Weapon,
			"date":     v.MissionDate,
		}
	}
	b, err := json.Marshal(data)
	return string(b), err
}

func playerStats(p *model.PlayerAggregate) map[string]any {
	return map[string]any{
		"missions_played":    p.MissionsPlayed,
		"frags":              p.Frags,
		"frag_inf":           p.FragInf,
		"frag_veh":           p.FragVeh,
		"destroyed_vehicles": p.DestroyedVehicles,
		"teamkills":          p.Teamkills,
		"deaths_count":       p.DeathsCount,
		"frags_per_mission":  round2(p.FragsPerMission()),
		"kd_ratio":           round2(p.KDRatio()),
	}
}

func topWeapons(victims []model.VictimEvent, n int) []map[string]any {
	counts := make(map[string]int)
	var order []string
	for _, v := range victims {
		if v.FragType == model.FragTeamkill || v.Weapon == "" {
			continue
		}
		if _, ok := counts[v.Weapon]; !ok {
			order = append(order, v.Weapon)
		}
		counts[v.Weapon]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > n {
		order = order[:n]
	}
	out := make([]map[string]any, 0, len(order))
	for _, w := range order {
		out = append(out, map[string]any{"weapon": w, "kills": counts[w]})
	}
	return out
}

func longestVictim(victims []model.VictimEvent) (model.VictimEvent, bool) {
	var best model.VictimEvent
	bestDist, found := 0, false
	for _, v := range victims {
		if v.FragType == model.FragTeamkill {
			continue
		}
		if d, ok := classifier.ParseDistance(v.Distance); ok && d > bestDist {
			best, bestDist, found = v, d, true
		}
	}
	return best, found
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)
	log.Debug().Str("model", modelID).Int("context_bytes", len(dataJSON)).Msg("analyze request")

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
