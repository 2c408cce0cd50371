package canodds

import "errors"

/**
* Canodds estimates win probabilities for Africa Cup of Nations matches.
* Team statistics are turned into differential features, scored by a pre-trained
* gradient boosted classifier and adjusted for home advantage.
 */

var (
	// ErrMissingResource marks a classifier, manifest or statistics table that could not be loaded
	ErrMissingResource = errors.New("missing resource")
	// ErrUnknownTeam marks a team name with no row in the statistics table
	ErrUnknownTeam = errors.New("unknown team")
	// ErrComputation marks malformed data or a failed numeric step during prediction
	ErrComputation = errors.New("computation failure")
)
