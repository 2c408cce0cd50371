package canodds

import (
	"fmt"

	"github.com/richard-senior/canodds/internal/logger"
)

// LoadStats reads the statistics table from the configured source
func LoadStats(config *Config) (*StatsTable, error) {
	switch config.Stats.Source {
	case StatsSourceCSV:
		return LoadStatsCSV(config.Resolve(config.Stats.CSVPath))
	case StatsSourceSQLite, StatsSourcePostgres:
		dsn := config.Stats.DSN
		if config.Stats.Source == StatsSourceSQLite {
			dsn = config.Resolve(config.Stats.DBPath)
		}
		db, err := OpenStatsDB(config.Stats.Source, dsn)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMissingResource, err)
		}
		defer db.Close()
		return LoadStatsDB(db)
	default:
		return nil, fmt.Errorf("%w: unknown stats source %q", ErrMissingResource, config.Stats.Source)
	}
}

// LoadPredictor loads the classifier, manifest and statistics once at start up.
// Failures are logged and leave the matching part of the context empty, so the
// predictor degrades instead of refusing to start.
func LoadPredictor(config *Config) *MatchPredictor {
	ctx := PredictorContext{HomeBoost: config.Prediction.HomeBoost}

	classifier, err := LoadClassifier(config.Resolve(config.ModelPath))
	if err != nil {
		logger.Error("Failed to load classifier, predictions will be 50/50:", err)
	}
	manifest, err := LoadFeatureManifest(config.Resolve(config.FeaturesPath))
	if err != nil {
		logger.Error("Failed to load feature manifest, predictions will be 50/50:", err)
	}
	if classifier != nil && manifest != nil && classifier.NFeatures != len(manifest) {
		logger.Error(fmt.Sprintf("Classifier expects %d features but manifest lists %d, predictions will be 50/50",
			classifier.NFeatures, len(manifest)))
		classifier, manifest = nil, nil
	}
	if classifier != nil && manifest != nil {
		ctx.Classifier = classifier
		ctx.Manifest = manifest
	}

	stats, err := LoadStats(config)
	if err != nil {
		logger.Error("Failed to load team statistics, default statistics will be used:", err)
	} else {
		ctx.Stats = stats
		logger.Info("Loaded team statistics rows:", stats.Len())
	}

	p := NewMatchPredictor(ctx)
	if p.Ready() {
		logger.Info("Model and data loaded")
	}
	return p
}
