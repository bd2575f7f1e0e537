// Package config loads and validates deployment settings.
package config

import (
	"fmt"
	"time"

	"github.com/opmodel/geodeploy/internal/core"
	oerrors "github.com/opmodel/geodeploy/internal/errors"
)

// EngineSettings tune the dry-run provisioning engine.
type EngineSettings struct {
	// Parallelism caps concurrent engine operations. Zero means unlimited.
	// Env: GEODEPLOY_ENGINE_PARALLELISM
	Parallelism int64 `mapstructure:"parallelism" json:"parallelism"`

	// Latency is the simulated duration of every engine operation.
	// Env: GEODEPLOY_ENGINE_LATENCY
	Latency time.Duration `mapstructure:"latency" json:"latency"`
}

// LogSettings contains logging-related settings.
type LogSettings struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" json:"timestamps,omitempty"`
}

// Settings is the deployment configuration of one run.
type Settings struct {
	ApplicationName string   `mapstructure:"applicationName" json:"applicationName"`
	Environment     string   `mapstructure:"environment" json:"environment"`
	CommonLocation  string   `mapstructure:"commonLocation" json:"commonLocation"`
	Locations       []string `mapstructure:"locations" json:"locations"`

	ContainerImageName          string  `mapstructure:"containerImageName" json:"containerImageName"`
	ContainerCPU                float64 `mapstructure:"containerCpu" json:"containerCpu"`
	ContainerMemory             string  `mapstructure:"containerMemory" json:"containerMemory"`
	ContainerMinReplicas        int     `mapstructure:"containerMinReplicas" json:"containerMinReplicas"`
	ContainerMaxReplicas        int     `mapstructure:"containerMaxReplicas" json:"containerMaxReplicas"`
	ContainerConcurrentRequests int     `mapstructure:"containerConcurrentRequests" json:"containerConcurrentRequests"`

	Engine EngineSettings `mapstructure:"engine" json:"engine"`
	Log    LogSettings    `mapstructure:"log" json:"log"`
}

// ToSpec converts validated settings into a DeploymentSpec. Failures match
// errors.ErrConfiguration.
func (s *Settings) ToSpec() (*core.DeploymentSpec, error) {
	spec, err := core.NewDeploymentSpec(core.DeploymentSpecInput{
		ApplicationName: s.ApplicationName,
		Environment:     s.Environment,
		CommonRegion:    s.CommonLocation,
		Regions:         s.Locations,
		Image:           s.ContainerImageName,
		Sizing: core.Sizing{
			CPU:                s.ContainerCPU,
			Memory:             s.ContainerMemory,
			MinReplicas:        s.ContainerMinReplicas,
			MaxReplicas:        s.ContainerMaxReplicas,
			ConcurrentRequests: s.ContainerConcurrentRequests,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", oerrors.ErrConfiguration, err)
	}
	return spec, nil
}
