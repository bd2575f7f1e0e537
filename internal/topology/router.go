package topology

import (
	"context"

	"github.com/opmodel/geodeploy/internal/core"
	"github.com/opmodel/geodeploy/internal/engine"
	"github.com/opmodel/geodeploy/internal/future"
	"github.com/opmodel/geodeploy/internal/output"
)

// Static router settings.
const (
	RouterLocation        = "global"
	RouterTTL             = 1
	RoutingMethod         = "Performance"
	ProfileStatus         = "Enabled"
	TrafficViewStatus     = "Disabled"
	RouterMaxReturn       = 0
	MonitorPath           = "/"
	MonitorPort           = 443
	MonitorProtocol       = "HTTPS"
	EndpointType          = "externalEndpoints"
	RouterDomain          = "trafficmanager.net"
	HostHeaderName        = "Host"
	expectedStatusMinimum = 200
	expectedStatusMaximum = 299
)

// RouteTarget is one router endpoint.
type RouteTarget struct {
	Name     string `json:"name" yaml:"name"`
	Target   string `json:"target" yaml:"target"`
	Location string `json:"location" yaml:"location"`
}

// RoutingConfiguration derives one route target per endpoint, in order.
func RoutingConfiguration(endpoints []core.RegionalEndpoint) []RouteTarget {
	targets := make([]RouteTarget, len(endpoints))
	for i, ep := range endpoints {
		targets[i] = RouteTarget{
			Name:     core.RouterEndpointName(ep.Region),
			Target:   ep.FQDN,
			Location: ep.Region,
		}
	}
	return targets
}

// Router is the global traffic router.
type Router struct {
	// RelativeName is both the resource name and the DNS relative name.
	RelativeName string

	// URL is the public URL of the router, known before it exists.
	URL string

	Targets  *future.Future[[]RouteTarget]
	Resource *future.Future[*engine.Resource]
}

// RouterURL returns the public URL for a router relative name.
func RouterURL(relativeName string) string {
	return "https://" + relativeName + "." + RouterDomain
}

// BuildRouter specifies the router in the common group with one endpoint per
// aggregated region. When the aggregate fails the router's properties fail
// with a RouterSynthesisError and the engine never sees a router to create.
func BuildRouter(ctx context.Context, eng engine.Engine, spec *core.DeploymentSpec, commonGroup *future.Future[*engine.Resource], aggregate *future.Future[[]core.RegionalEndpoint]) *Router {
	name := core.RouterRelativeName(spec)
	tags := core.BuildTags(spec, "")

	targets := future.Catch(future.Map(aggregate, func(eps []core.RegionalEndpoint) ([]RouteTarget, error) {
		return RoutingConfiguration(eps), nil
	}), func(err error) error {
		return &RouterSynthesisError{Name: name, Cause: err}
	})

	props := future.Map(future.After(targets, commonGroup), func(struct{}) (engine.Properties, error) {
		return routerProperties(name, future.Value(commonGroup).Name, future.Value(targets), tags), nil
	})
	// The create is only issued once the properties exist.
	resource := future.Then(props, func(p engine.Properties) *future.Future[*engine.Resource] {
		return create(ctx, eng, engine.KindRouter, name, "", future.Resolved(p), engine.Options{})
	})

	output.Debug("router requested", "name", name)

	return &Router{
		RelativeName: name,
		URL:          RouterURL(name),
		Targets:      targets,
		Resource:     resource,
	}
}

func routerProperties(name, groupName string, targets []RouteTarget, tags core.Tags) engine.Properties {
	endpoints := make([]any, len(targets))
	for i, t := range targets {
		endpoints[i] = map[string]any{
			"name":             t.Name,
			"type":             EndpointType,
			"target":           t.Target,
			"endpointLocation": t.Location,
			"customHeaders": []any{
				map[string]any{"name": HostHeaderName, "value": t.Target},
			},
		}
	}

	return engine.Properties{
		engine.PropLocation:           RouterLocation,
		"resourceGroupName":           groupName,
		"profileStatus":               ProfileStatus,
		"trafficRoutingMethod":        RoutingMethod,
		"trafficViewEnrollmentStatus": TrafficViewStatus,
		"maxReturn":                   RouterMaxReturn,
		"dnsConfig": map[string]any{
			"relativeName": name,
			"ttl":          RouterTTL,
		},
		"monitorConfig": map[string]any{
			"path":     MonitorPath,
			"port":     MonitorPort,
			"protocol": MonitorProtocol,
			"expectedStatusCodeRanges": []any{
				map[string]any{"min": expectedStatusMinimum, "max": expectedStatusMaximum},
			},
		},
		"endpoints":     endpoints,
		engine.PropTags: tags,
	}
}
