// Package weights provides ordering weights for resource kinds.
// Resources with lower weights are realized first.
package weights

import "github.com/opmodel/geodeploy/internal/engine"

// Default weights. A kind's weight is below that of every kind that reads
// its outputs.
const (
	WeightResourceGroup      = 0
	WeightWorkspace          = 10
	WeightHostingEnvironment = 50
	WeightWorkload           = 100
	WeightRouter             = 150
	WeightDefault            = 1000
)

var kindWeights = map[engine.Kind]int{
	engine.KindResourceGroup:      WeightResourceGroup,
	engine.KindWorkspace:          WeightWorkspace,
	engine.KindHostingEnvironment: WeightHostingEnvironment,
	engine.KindWorkload:           WeightWorkload,
	engine.KindRouter:             WeightRouter,
}

// GetWeight returns the weight of kind, WeightDefault if it is unknown.
func GetWeight(kind engine.Kind) int {
	if w, ok := kindWeights[kind]; ok {
		return w
	}
	return WeightDefault
}
