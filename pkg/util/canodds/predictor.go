package canodds

import (
	"fmt"

	"github.com/richard-senior/canodds/internal/logger"
)

// PredictionResult is the outcome of a single match prediction
type PredictionResult struct {
	HomeWinProbability float64 `json:"home_win_prob"`
	AwayWinProbability float64 `json:"away_win_prob"`
	PredictedWinner    string  `json:"predicted_winner"`
	Confidence         float64 `json:"confidence"`
}

// FallbackResult is the neutral answer returned whenever a prediction cannot be computed
func FallbackResult(homeTeam string) PredictionResult {
	return PredictionResult{
		HomeWinProbability: 0.5,
		AwayWinProbability: 0.5,
		PredictedWinner:    homeTeam,
		Confidence:         0.5,
	}
}

// PredictorContext carries everything loaded at start up.
// Nothing in it is modified after construction.
type PredictorContext struct {
	Stats      *StatsTable
	Classifier OutcomeClassifier
	Manifest   []string
	HomeBoost  float64
}

// MatchPredictor turns two team names into a PredictionResult.
// It is safe for concurrent use.
type MatchPredictor struct {
	ctx PredictorContext
}

// NewMatchPredictor builds a predictor; a zero HomeBoost means HomeBoost
func NewMatchPredictor(ctx PredictorContext) *MatchPredictor {
	if ctx.HomeBoost == 0 {
		ctx.HomeBoost = HomeBoost
	}
	ctx.Manifest = append([]string(nil), ctx.Manifest...)
	return &MatchPredictor{ctx: ctx}
}

// Ready reports whether the classifier and its manifest are available
func (p *MatchPredictor) Ready() bool {
	return p.ctx.Classifier != nil && len(p.ctx.Manifest) > 0
}

// Stats returns the statistics table, nil when it failed to load
func (p *MatchPredictor) Stats() *StatsTable {
	return p.ctx.Stats
}

// Predict never fails. Any error from TryPredict produces FallbackResult(homeTeam).
func (p *MatchPredictor) Predict(homeTeam, awayTeam string, isGroupStage bool) (result PredictionResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Prediction panicked:", fmt.Sprint(r))
			result = FallbackResult(homeTeam)
		}
	}()

	result, err := p.TryPredict(homeTeam, awayTeam, isGroupStage)
	if err != nil {
		logger.Warn("Prediction fell back to 50/50:", homeTeam, awayTeam, err)
		return FallbackResult(homeTeam)
	}
	return result
}

// TryPredict runs the prediction and reports why it could not complete.
// Errors wrap ErrMissingResource or ErrComputation.
func (p *MatchPredictor) TryPredict(homeTeam, awayTeam string, isGroupStage bool) (PredictionResult, error) {
	if !p.Ready() {
		return PredictionResult{}, fmt.Errorf("%w: classifier or feature manifest not loaded", ErrMissingResource)
	}

	home := p.ctx.Stats.GetTeamStatistics(homeTeam)
	away := p.ctx.Stats.GetTeamStatistics(awayTeam)

	features := DeriveFeatures(home, away, isGroupStage)
	x, err := features.Project(p.ctx.Manifest)
	if err != nil {
		return PredictionResult{}, err
	}

	proba, err := p.ctx.Classifier.PredictProbabilities(x)
	if err != nil {
		return PredictionResult{}, fmt.Errorf("%w: classifier failed: %v", ErrComputation, err)
	}

	adjHome, adjAway, err := AdjustChecked(proba[0], proba[1], p.ctx.HomeBoost)
	if err != nil {
		return PredictionResult{}, err
	}

	winner := awayTeam
	if adjHome > adjAway {
		winner = homeTeam
	}
	confidence := adjAway
	if adjHome > adjAway {
		confidence = adjHome
	}

	logger.Debug("Prediction", homeTeam, awayTeam, adjHome, adjAway)
	return PredictionResult{
		HomeWinProbability: adjHome,
		AwayWinProbability: adjAway,
		PredictedWinner:    winner,
		Confidence:         confidence,
	}, nil
}
