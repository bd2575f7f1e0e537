package memory

import (
	"fmt"

	"github.com/opmodel/geodeploy/internal/engine"
	"github.com/opmodel/geodeploy/internal/identity"
)

// DefaultDomain is the DNS suffix of synthesized workload hostnames.
const DefaultDomain = "containerapps.internal"

// RouterDomain is the DNS zone the router's relative name lives in.
const RouterDomain = "trafficmanager.net"

func workspaceOutputs(name string, outs engine.Properties) error {
	outs["customerId"] = identity.Derive("customer", name).String()
	return nil
}

func (e *Engine) workloadOutputs(name string, outs engine.Properties) error {
	loc, ok := outs.String(engine.PropLocation)
	if !ok || loc == "" {
		return fmt.Errorf("workload has no location")
	}
	outs.Set(fmt.Sprintf("%s.%s.%s", name, loc, e.domain), "configuration", "ingress", "fqdn")
	return nil
}

func routerOutputs(_ string, outs engine.Properties) error {
	rel, ok := outs.String("dnsConfig", "relativeName")
	if !ok || rel == "" {
		return fmt.Errorf("router has no DNS relative name")
	}
	outs.Set(rel+"."+RouterDomain, "dnsConfig", "fqdn")
	return nil
}

func workspaceSharedKeys(params engine.Properties) (engine.Properties, error) {
	group, _ := params.String("resourceGroupName")
	ws, _ := params.String("workspaceName")
	if group == "" || ws == "" {
		return nil, fmt.Errorf("resourceGroupName and workspaceName are required")
	}
	return engine.Properties{
		"primarySharedKey":   identity.Derive("key", "primary", group, ws).String(),
		"secondarySharedKey": identity.Derive("key", "secondary", group, ws).String(),
	}, nil
}
