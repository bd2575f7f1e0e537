// Package core defines shared domain types used across geodeploy packages.
// It depends only on the standard library, never on the engine or config loading.
package core

// Tag keys applied to every provisioned resource.
const (
	// TagApplication carries DeploymentSpec.ApplicationName.
	TagApplication = "application"

	// TagEnvironment carries DeploymentSpec.Environment.
	TagEnvironment = "environment"

	// TagLocation carries the region of a region-scoped resource.
	// Shared resources do not carry it.
	TagLocation = "location"
)

// Tags is the label set attached to a provisioned resource.
type Tags map[string]string

// BuildTags derives the tag set for a resource of spec. An empty region yields
// only the application and environment tags; otherwise location is added.
//
// Every resource goes through this function so that discovery by tag is
// reliable across tooling.
func BuildTags(spec *DeploymentSpec, region string) Tags {
	tags := Tags{
		TagApplication: spec.ApplicationName(),
		TagEnvironment: spec.Environment(),
	}
	if region != "" {
		tags[TagLocation] = region
	}
	return tags
}

// Clone returns an independent copy of t.
func (t Tags) Clone() Tags {
	if t == nil {
		return nil
	}
	out := make(Tags, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// AsMap returns t as a generic property map value.
func (t Tags) AsMap() map[string]any {
	out := make(map[string]any, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
