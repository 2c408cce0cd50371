package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/richard-senior/canodds/internal/logger"
	"github.com/richard-senior/canodds/pkg/protocol"
	"github.com/richard-senior/canodds/pkg/util"
	"github.com/richard-senior/canodds/pkg/util/canodds"
)

// ErrMissingTeams is returned when a prediction request lacks a team name
var ErrMissingTeams = errors.New("missing teams")

// MatchRequest is a validated prediction request
type MatchRequest struct {
	HomeTeam     string
	AwayTeam     string
	IsGroupStage bool
}

// ParseMatchRequest reads home_team, away_team and is_group from tool or form style params.
// is_group defaults to true.
func ParseMatchRequest(params map[string]any) (MatchRequest, error) {
	req := MatchRequest{IsGroupStage: true}
	home, _ := params["home_team"].(string)
	away, _ := params["away_team"].(string)
	req.HomeTeam = strings.TrimSpace(home)
	req.AwayTeam = strings.TrimSpace(away)
	if req.HomeTeam == "" || req.AwayTeam == "" {
		return req, ErrMissingTeams
	}

	if v, ok := params["is_group"]; ok && v != nil {
		b, err := util.GetAsBool(v)
		if err != nil {
			return req, fmt.Errorf("is_group must be a boolean: %w", err)
		}
		req.IsGroupStage = b
	}
	return req, nil
}

// PredictionTools binds the prediction tools to a loaded predictor
type PredictionTools struct {
	predictor  *canodds.MatchPredictor
	statsLimit int
}

// NewPredictionTools creates the tool set; statsLimit caps the team_stats listing
func NewPredictionTools(p *canodds.MatchPredictor, statsLimit int) *PredictionTools {
	if statsLimit < 1 {
		statsLimit = canodds.DefaultConfig().Server.TeamStatsLimit
	}
	return &PredictionTools{predictor: p, statsLimit: statsLimit}
}

// Predictor returns the bound predictor
func (pt *PredictionTools) Predictor() *canodds.MatchPredictor {
	return pt.predictor
}

func PredictMatchTool() protocol.Tool {
	return protocol.Tool{
		Name: "predict_match",
		Description: `
		Estimates the win probabilities of an Africa Cup of Nations match.
		Team names must match the statistics table exactly, for example 'Maroc' or 'Côte d'Ivoire'.
		Unknown teams are scored with average statistics. There is no draw outcome.
		`,
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"home_team": {
					Type:        "string",
					Description: "The home side, which receives a small home advantage boost",
				},
				"away_team": {
					Type:        "string",
					Description: "The away side",
				},
				"is_group": {
					Type:        "boolean",
					Description: "Whether the match is played in the group stage",
					Default:     true,
				},
			},
			Required: []string{"home_team", "away_team"},
		},
	}
}

// HandlePredictMatch handles the predict_match tool invocation
func (pt *PredictionTools) HandlePredictMatch(params any) (any, error) {
	paramsMap, ok := params.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid parameters format")
	}
	req, err := ParseMatchRequest(paramsMap)
	if err != nil {
		return nil, err
	}
	logger.Info("Predicting", req.HomeTeam, "vs", req.AwayTeam)
	return pt.predictor.Predict(req.HomeTeam, req.AwayTeam, req.IsGroupStage), nil
}

func TeamStatsTool() protocol.Tool {
	return protocol.Tool{
		Name: "team_stats",
		Description: `
		Returns the all-time Africa Cup of Nations statistics table (Rank, Team, Pld, W, D, L, GF, GA, Pts).
		When 'team' is given, returns that team's per-match rates as used by predict_match instead.
		`,
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"team": {
					Type:        "string",
					Description: "Optional exact team name",
				},
				"limit": {
					Type:        "number",
					Description: "Number of table rows to return",
				},
			},
			Required: []string{},
		},
	}
}

// TeamStatsResult is one team's derived statistics.
// Suggestion names a close table entry when the team is unknown.
type TeamStatsResult struct {
	Team       string                 `json:"team"`
	Known      bool                   `json:"known"`
	Statistics canodds.TeamStatistics `json:"statistics"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

// maxSuggestionDistance bounds the edits allowed between a query and a suggested team
const maxSuggestionDistance = 3

// HandleTeamStats handles the team_stats tool invocation
func (pt *PredictionTools) HandleTeamStats(params any) (any, error) {
	paramsMap, _ := params.(map[string]any)

	if team, _ := paramsMap["team"].(string); strings.TrimSpace(team) != "" {
		return pt.TeamStatistics(team), nil
	}

	limit := pt.statsLimit
	if v, ok := paramsMap["limit"]; ok {
		n, err := util.GetAsInteger(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("limit must be a positive integer")
		}
		limit = n
	}
	return pt.StatsRows(limit), nil
}

// TeamStatistics derives a team's rates; Known is false when defaults were used
func (pt *PredictionTools) TeamStatistics(team string) TeamStatsResult {
	team = strings.TrimSpace(team)
	stats := pt.predictor.Stats()
	_, err := stats.Lookup(team)
	result := TeamStatsResult{
		Team:       team,
		Known:      err == nil,
		Statistics: stats.GetTeamStatistics(team),
	}
	if errors.Is(err, canodds.ErrUnknownTeam) {
		result.Suggestion, _ = util.ClosestMatch(team, stats.Teams(), maxSuggestionDistance)
	}
	return result
}

// StatsRows returns the first limit rows of the statistics table, empty when it is not loaded
func (pt *PredictionTools) StatsRows(limit int) []canodds.StatsRow {
	if limit < 1 {
		limit = pt.statsLimit
	}
	return pt.predictor.Stats().Rows(limit)
}

func TournamentGroupsTool() protocol.Tool {
	return protocol.Tool{
		Name:        "tournament_groups",
		Description: "Returns the CAN 2025 group draw, groups A to F with four teams each",
		InputSchema: protocol.InputSchema{
			Type:       "object",
			Properties: map[string]protocol.ToolProperty{},
			Required:   []string{},
		},
	}
}

// HandleTournamentGroups handles the tournament_groups tool invocation
func (pt *PredictionTools) HandleTournamentGroups(params any) (any, error) {
	return canodds.GroupsCopy(), nil
}
