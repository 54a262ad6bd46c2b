package classifier

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"

	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ForestConfig holds the random forest hyperparameters.
type ForestConfig struct {
	// Trees is the number of trees in the ensemble.
	Trees int `yaml:"trees" json:"trees" jsonschema:"title=Trees,description=Number of trees,minimum=1,default=100" validate:"min=1"`
	// MaxFeatures is the number of features tried per split. Zero means floor(sqrt(width)).
	MaxFeatures int `yaml:"max_features" json:"max_features" jsonschema:"title=Max Features,description=Features tried per split (0 = sqrt),minimum=0" validate:"min=0"`
	// MaxDepth limits tree depth. Zero means unlimited.
	MaxDepth int `yaml:"max_depth" json:"max_depth" jsonschema:"title=Max Depth,description=Maximum tree depth (0 = unlimited),minimum=0" validate:"min=0"`
	// MinSamplesSplit is the smallest node that may be split.
	MinSamplesSplit int `yaml:"min_samples_split" json:"min_samples_split" jsonschema:"title=Min Samples Split,minimum=2,default=2" validate:"min=2"`
	// Seed makes training reproducible.
	Seed uint64 `yaml:"seed" json:"seed" jsonschema:"title=Seed,default=42"`
}

// DefaultForestConfig returns 100 unlimited-depth trees with seed 42.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           100,
		MaxFeatures:     0,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		Seed:            42,
	}
}

// RandomForest is a bagged ensemble of CART trees using Gini impurity.
// Classes are kept in lexicographic order.
type RandomForest struct {
	Config ForestConfig  `json:"config"`
	Labels []types.Label `json:"classes"`
	Forest []Tree        `json:"trees"`
	Width  int           `json:"width"`
}

// NewRandomForest creates an untrained forest.
func NewRandomForest(config ForestConfig) *RandomForest {
	return &RandomForest{Config: config}
}

// Fit grows every tree on its own bootstrap sample. Trees are grown
// concurrently, each with a generator derived from the seed and its index,
// so the result does not depend on scheduling.
func (f *RandomForest) Fit(X [][]float64, y []types.Label) error {
	if len(X) == 0 {
		return errors.New(errors.ErrCodeInsufficientData, "cannot fit forest on an empty matrix")
	}

	if len(X) != len(y) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "got %d rows but %d labels", len(X), len(y))
	}

	if f.Config.Trees < 1 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "forest needs at least one tree, got %d", f.Config.Trees)
	}

	classes := make([]types.Label, 0, 3)
	for _, l := range y {
		if !l.IsKnown() {
			return errors.Newf(errors.ErrCodeInvalidParameter, "cannot train on label %q", l)
		}

		if !slices.Contains(classes, l) {
			classes = append(classes, l)
		}
	}

	slices.Sort(classes)

	encoded := make([]int, len(y))
	for i, l := range y {
		encoded[i] = slices.Index(classes, l)
	}

	width := len(X[0])

	maxFeatures := f.Config.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = max(1, int(math.Sqrt(float64(width))))
	}

	minSplit := max(2, f.Config.MinSamplesSplit)

	trees := make([]Tree, f.Config.Trees)

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for t := range trees {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(f.Config.Seed, uint64(t)))

			bootstrap := make([]int, len(X))
			for i := range bootstrap {
				bootstrap[i] = rng.IntN(len(X))
			}

			builder := &treeBuilder{
				X:               X,
				y:               encoded,
				classes:         len(classes),
				maxFeatures:     maxFeatures,
				maxDepth:        f.Config.MaxDepth,
				minSamplesSplit: minSplit,
				rng:             rng,
			}
			trees[t] = builder.build(bootstrap)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Wrap(errors.ErrCodeTrainingFailed, "failed to grow forest", err)
	}

	f.Labels = classes
	f.Forest = trees
	f.Width = width

	return nil
}

// PredictProba averages the leaf distributions of every tree.
func (f *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if len(f.Forest) == 0 {
		return nil, errors.New(errors.ErrCodeModelNotTrained, "forest is not trained")
	}

	if len(x) != f.Width {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "expected %d features, got %d", f.Width, len(x))
	}

	out := make([]float64, len(f.Labels))
	for i := range f.Forest {
		for c, p := range f.Forest[i].proba(x) {
			out[c] += p
		}
	}

	for c := range out {
		out[c] /= float64(len(f.Forest))
	}

	return out, nil
}

// Classes returns the class order of PredictProba.
func (f *RandomForest) Classes() []types.Label {
	return slices.Clone(f.Labels)
}

var _ Classifier = (*RandomForest)(nil)
