package core

import (
	"fmt"
	"slices"
	"strings"
)

// EnvironmentProduction is the environment name that gets unsuffixed DNS names.
const EnvironmentProduction = "production"

// Sizing holds the workload resource request and autoscaling bounds.
type Sizing struct {
	// CPU is the container CPU share, e.g. 0.25.
	CPU float64

	// Memory is the container memory size in provider unit syntax, e.g. "0.5Gi".
	Memory string

	// MinReplicas is the autoscaling lower bound (>= 0).
	MinReplicas int

	// MaxReplicas is the autoscaling upper bound (>= MinReplicas).
	MaxReplicas int

	// ConcurrentRequests is the in-flight request count per replica that
	// triggers scale-out (> 0).
	ConcurrentRequests int
}

// DeploymentSpecInput is the mutable form used to construct a DeploymentSpec.
type DeploymentSpecInput struct {
	ApplicationName string
	Environment     string
	CommonRegion    string
	Regions         []string
	Image           string
	Sizing          Sizing
}

// DeploymentSpec is the immutable description of one deployment run.
type DeploymentSpec struct {
	applicationName string
	environment     string
	commonRegion    string
	regions         []string
	image           string
	sizing          Sizing
}

// NewDeploymentSpec validates in and returns the corresponding DeploymentSpec.
// Duplicate regions are dropped, keeping the first occurrence.
func NewDeploymentSpec(in DeploymentSpecInput) (*DeploymentSpec, error) {
	var problems []string
	require := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			problems = append(problems, field+" is required")
		}
	}
	require("application name", in.ApplicationName)
	require("environment", in.Environment)
	require("common region", in.CommonRegion)
	require("image", in.Image)

	regions := make([]string, 0, len(in.Regions))
	for _, r := range in.Regions {
		if strings.TrimSpace(r) == "" {
			problems = append(problems, "regions must not contain empty names")
			continue
		}
		if !slices.Contains(regions, r) {
			regions = append(regions, r)
		}
	}
	if len(regions) == 0 {
		problems = append(problems, "at least one region is required")
	}

	s := in.Sizing
	if s.CPU <= 0 {
		problems = append(problems, "cpu must be positive")
	}
	require("memory", s.Memory)
	if s.MinReplicas < 0 {
		problems = append(problems, "min replicas must not be negative")
	}
	if s.MaxReplicas < s.MinReplicas {
		problems = append(problems, "max replicas must be at least min replicas")
	}
	if s.ConcurrentRequests <= 0 {
		problems = append(problems, "concurrent requests must be positive")
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid deployment spec: %s", strings.Join(problems, "; "))
	}

	return &DeploymentSpec{
		applicationName: in.ApplicationName,
		environment:     in.Environment,
		commonRegion:    in.CommonRegion,
		regions:         regions,
		image:           in.Image,
		sizing:          s,
	}, nil
}

// ApplicationName returns the application identifier.
func (s *DeploymentSpec) ApplicationName() string { return s.applicationName }

// Environment returns the environment name, e.g. "production" or "test".
func (s *DeploymentSpec) Environment() string { return s.environment }

// CommonRegion returns the region hosting shared resources.
func (s *DeploymentSpec) CommonRegion() string { return s.commonRegion }

// Regions returns a copy of the target regions in declared order.
func (s *DeploymentSpec) Regions() []string { return slices.Clone(s.regions) }

// Image returns the container image reference.
func (s *DeploymentSpec) Image() string { return s.image }

// Sizing returns the workload sizing parameters.
func (s *DeploymentSpec) Sizing() Sizing { return s.sizing }

// IsProduction reports whether the spec targets the production environment.
func (s *DeploymentSpec) IsProduction() bool {
	return s.environment == EnvironmentProduction
}
