package topology

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/opmodel/geodeploy/internal/core"
	"github.com/opmodel/geodeploy/internal/engine"
	"github.com/opmodel/geodeploy/internal/future"
	"github.com/opmodel/geodeploy/internal/output"
)

// Hosting environment and workload settings.
const (
	HostingEnvironmentType = "Managed"
	LogsDestination        = "log-analytics"
	IngressTargetPort      = 80
	ScaleRuleName          = "http-scale-rule"
)

// OperationTimeout bounds create, update and delete of hosting environments
// and workloads. Managed container control planes are slow.
const OperationTimeout = time.Hour

// Region is one region's subgraph.
type Region struct {
	Name        string
	Group       *future.Future[*engine.Resource]
	Environment *future.Future[*engine.Resource]
	Workload    *future.Future[*engine.Resource]

	// Endpoint resolves once the workload reports its ingress hostname.
	Endpoint *future.Future[core.RegionalEndpoint]
}

func slowOperationOptions() engine.Options {
	return engine.Options{
		CustomTimeouts: &engine.CustomTimeouts{
			Create: OperationTimeout,
			Update: OperationTimeout,
			Delete: OperationTimeout,
		},
	}
}

// BuildRegion requests the resource group, hosting environment and workload
// of region and derives its endpoint. The hosting environment's properties
// are a join over the shared workspace and credential, so the engine cannot
// finalize it before the credential resolves.
func BuildRegion(ctx context.Context, eng engine.Engine, spec *core.DeploymentSpec, region string, shared *Shared) *Region {
	log := output.RegionLogger(region)
	tags := core.BuildTags(spec, region)

	groupName := core.ResourceGroupName(spec, "app", region)
	group := create(ctx, eng, engine.KindResourceGroup, groupName, region,
		future.Resolved(engine.Properties{
			engine.PropLocation: region,
			engine.PropTags:     tags,
		}), engine.Options{})

	envName := core.HostingEnvironmentName(spec, region)
	envProps := future.Map(future.After(group, shared.Workspace, shared.Credential),
		func(struct{}) (engine.Properties, error) {
			ws := future.Value(shared.Workspace)
			customerID, ok := ws.Outputs.String("customerId")
			if !ok || customerID == "" {
				return nil, &ProvisioningError{
					Op: "create", Kind: engine.KindWorkspace, Name: ws.Name,
					Cause: fmt.Errorf("customerId: %w", ErrMissingOutput),
				}
			}
			return engine.Properties{
				engine.PropLocation: region,
				"resourceGroupName": future.Value(group).Name,
				"type":              HostingEnvironmentType,
				"appLogsConfiguration": map[string]any{
					"destination": LogsDestination,
					"logAnalyticsConfiguration": map[string]any{
						"customerId": customerID,
						"sharedKey":  future.Value(shared.Credential),
					},
				},
				engine.PropTags: tags.Clone(),
			}, nil
		})
	environment := create(ctx, eng, engine.KindHostingEnvironment, envName, region, envProps, slowOperationOptions())

	workloadName := core.WorkloadName(spec, region)
	workloadProps := future.Map(future.After(group, environment), func(struct{}) (engine.Properties, error) {
		return workloadProperties(spec, region, future.Value(group), future.Value(environment), tags.Clone()), nil
	})
	workload := create(ctx, eng, engine.KindWorkload, workloadName, region, workloadProps, slowOperationOptions())

	endpoint := future.Map(workload, func(w *engine.Resource) (core.RegionalEndpoint, error) {
		fqdn, ok := w.Outputs.String("configuration", "ingress", "fqdn")
		if !ok || fqdn == "" {
			return core.RegionalEndpoint{}, &ProvisioningError{
				Op: "create", Kind: engine.KindWorkload, Name: w.Name, Region: region,
				Cause: fmt.Errorf("ingress fqdn: %w", ErrMissingOutput),
			}
		}
		ep := core.NewRegionalEndpoint(region, fqdn)
		log.Info("endpoint ready", "url", ep.URL)
		return ep, nil
	})

	log.Debug("regional subgraph requested",
		"group", groupName,
		"environment", envName,
		"workload", workloadName,
	)

	return &Region{
		Name:        region,
		Group:       group,
		Environment: environment,
		Workload:    workload,
		Endpoint:    endpoint,
	}
}

// workloadProperties specifies a single-container workload with external
// ingress and HTTP-concurrency autoscaling.
func workloadProperties(spec *core.DeploymentSpec, region string, group, environment *engine.Resource, tags core.Tags) engine.Properties {
	sizing := spec.Sizing()
	return engine.Properties{
		engine.PropLocation:    region,
		"resourceGroupName":    group.Name,
		"hostingEnvironmentId": environment.ID,
		"configuration": map[string]any{
			"ingress": map[string]any{
				"external":   true,
				"targetPort": IngressTargetPort,
			},
		},
		"template": map[string]any{
			"containers": []any{
				map[string]any{
					"name":  spec.ApplicationName(),
					"image": spec.Image(),
					"resources": map[string]any{
						"cpu":    sizing.CPU,
						"memory": sizing.Memory,
					},
				},
			},
			"scale": map[string]any{
				"minReplicas": sizing.MinReplicas,
				"maxReplicas": sizing.MaxReplicas,
				"rules": []any{
					map[string]any{
						"name": ScaleRuleName,
						"http": map[string]any{
							"metadata": map[string]any{
								"concurrentRequests": strconv.Itoa(sizing.ConcurrentRequests),
							},
						},
					},
				},
			},
		},
		engine.PropTags: tags,
	}
}
