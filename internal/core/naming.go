package core

import "fmt"

// Resource naming. Every regional name embeds its region so that rebuilding
// the same region converges on the same remote resources.

// ResourceGroupName returns the name of a resource group with the given role
// ("common" or "app") in region.
func ResourceGroupName(spec *DeploymentSpec, role, region string) string {
	return fmt.Sprintf("%s-%s-%s-%s", spec.ApplicationName(), role, region, spec.Environment())
}

// WorkspaceName returns the name of the shared logging workspace.
func WorkspaceName(spec *DeploymentSpec) string {
	return fmt.Sprintf("log-analytics-%s-%s", spec.CommonRegion(), spec.Environment())
}

// HostingEnvironmentName returns the name of the hosting environment in region.
func HostingEnvironmentName(spec *DeploymentSpec, region string) string {
	return fmt.Sprintf("hosting-env-%s-%s", region, spec.Environment())
}

// WorkloadName returns the name of the container workload in region.
func WorkloadName(spec *DeploymentSpec, region string) string {
	return fmt.Sprintf("app-%s-%s", region, spec.Environment())
}

// RouterRelativeName returns the DNS relative name of the global router.
// Production uses the bare application name; every other environment is
// suffixed so parallel environments never collide in DNS.
func RouterRelativeName(spec *DeploymentSpec) string {
	if spec.IsProduction() {
		return spec.ApplicationName()
	}
	return spec.ApplicationName() + "-" + spec.Environment()
}

// RouterEndpointName returns the router endpoint name for region.
func RouterEndpointName(region string) string {
	return "endpoint-" + region
}
