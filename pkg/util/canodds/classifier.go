package canodds

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// OutcomeClassifier scores an ordered feature vector.
// Index 0 is the home-win probability and index 1 the away-win probability.
type OutcomeClassifier interface {
	PredictProbabilities(x []float64) ([2]float64, error)
}

// TreeNode is a node of a regression tree. Leaves have Left == -1 and carry Value;
// split nodes send x[Feature] <= Threshold to Left, everything else to Right.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a regression tree rooted at node 0
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// GradientBoostingClassifier is a binary gradient boosted tree ensemble with a log-loss link:
// p(away) = sigmoid(InitScore + LearningRate * sum(tree outputs)).
type GradientBoostingClassifier struct {
	NFeatures    int     `json:"n_features"`
	LearningRate float64 `json:"learning_rate"`
	InitScore    float64 `json:"init_score"`
	Trees        []Tree  `json:"trees"`
}

// LoadClassifier reads and validates a JSON classifier artifact
func LoadClassifier(path string) (*GradientBoostingClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingResource, err)
	}
	var model GradientBoostingClassifier
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("%w: failed to decode classifier %s: %v", ErrMissingResource, path, err)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("%w: classifier %s: %v", ErrMissingResource, path, err)
	}
	return &model, nil
}

// Validate checks the ensemble is walkable for NFeatures inputs
func (m *GradientBoostingClassifier) Validate() error {
	if m.NFeatures < 1 {
		return fmt.Errorf("n_features must be positive, got %d", m.NFeatures)
	}
	if len(m.Trees) == 0 {
		return fmt.Errorf("classifier has no trees")
	}
	for t, tree := range m.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", t)
		}
		for n, node := range tree.Nodes {
			if node.Left == -1 {
				continue
			}
			if node.Feature < 0 || node.Feature >= m.NFeatures {
				return fmt.Errorf("tree %d node %d splits on feature %d of %d", t, n, node.Feature, m.NFeatures)
			}
			// children must come after their parent, which also rules out cycles
			if node.Left <= n || node.Left >= len(tree.Nodes) || node.Right <= n || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d has children out of range", t, n)
			}
		}
	}
	return nil
}

// DecisionFunction returns the raw log-odds of the away class
func (m *GradientBoostingClassifier) DecisionFunction(x []float64) (float64, error) {
	if len(x) != m.NFeatures {
		return 0, fmt.Errorf("%w: classifier expects %d features, got %d", ErrComputation, m.NFeatures, len(x))
	}
	sum := 0.0
	for _, tree := range m.Trees {
		i := 0
		for tree.Nodes[i].Left != -1 {
			node := tree.Nodes[i]
			if x[node.Feature] <= node.Threshold {
				i = node.Left
			} else {
				i = node.Right
			}
		}
		sum += tree.Nodes[i].Value
	}
	return m.InitScore + m.LearningRate*sum, nil
}

// PredictProbabilities implements OutcomeClassifier
func (m *GradientBoostingClassifier) PredictProbabilities(x []float64) ([2]float64, error) {
	raw, err := m.DecisionFunction(x)
	if err != nil {
		return [2]float64{}, err
	}
	away := 1 / (1 + math.Exp(-raw))
	return [2]float64{1 - away, away}, nil
}

// LoadFeatureManifest reads the JSON array naming the classifier's input columns in order
func LoadFeatureManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingResource, err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("%w: failed to decode feature manifest %s: %v", ErrMissingResource, path, err)
	}
	if err := ValidateManifest(names); err != nil {
		return nil, fmt.Errorf("%w: feature manifest %s: %v", ErrMissingResource, path, err)
	}
	return names, nil
}

// ValidateManifest rejects empty manifests, duplicates and unknown feature names
func ValidateManifest(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("manifest lists no features")
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := (FeatureVector{}).Get(name); !ok {
			return fmt.Errorf("unknown feature %q", name)
		}
		if seen[name] {
			return fmt.Errorf("feature %q listed twice", name)
		}
		seen[name] = true
	}
	return nil
}
