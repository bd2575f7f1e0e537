package topology

import (
	"context"
	"fmt"

	"github.com/opmodel/geodeploy/internal/core"
	"github.com/opmodel/geodeploy/internal/engine"
	"github.com/opmodel/geodeploy/internal/future"
	"github.com/opmodel/geodeploy/internal/output"
)

// Workspace settings.
const (
	WorkspaceRetentionDays = 30
	WorkspaceSKU           = "PerGB2018"
)

// Shared holds the one-per-run prerequisites every region reads.
type Shared struct {
	CommonGroup *future.Future[*engine.Resource]
	Workspace   *future.Future[*engine.Resource]

	// Credential is the workspace primary shared key. Every region holds a
	// reference to this one Future; it is queried once.
	Credential *future.Future[string]
}

// ProvisionShared creates the common resource group and logging workspace and
// issues the credential query. It returns without waiting on any of them.
func ProvisionShared(ctx context.Context, eng engine.Engine, spec *core.DeploymentSpec) *Shared {
	common := spec.CommonRegion()
	tags := core.BuildTags(spec, "")

	groupName := core.ResourceGroupName(spec, "common", common)
	group := create(ctx, eng, engine.KindResourceGroup, groupName, "",
		future.Resolved(engine.Properties{
			engine.PropLocation: common,
			engine.PropTags:     tags,
		}), engine.Options{})

	wsName := core.WorkspaceName(spec)
	wsProps := future.Map(group, func(g *engine.Resource) (engine.Properties, error) {
		return engine.Properties{
			engine.PropLocation: common,
			"resourceGroupName": g.Name,
			"retentionInDays":   WorkspaceRetentionDays,
			"sku":               map[string]any{"name": WorkspaceSKU},
			engine.PropTags:     tags.Clone(),
		}, nil
	})
	workspace := create(ctx, eng, engine.KindWorkspace, wsName, "", wsProps, engine.Options{})

	params := future.Map(future.After(group, workspace), func(struct{}) (engine.Properties, error) {
		return engine.Properties{
			"resourceGroupName": future.Value(group).Name,
			"workspaceName":     future.Value(workspace).Name,
		}, nil
	})
	keys := query(ctx, eng, engine.QueryWorkspaceSharedKeys, params)
	credential := future.Map(keys, func(res engine.Properties) (string, error) {
		key, ok := res.String("primarySharedKey")
		if !ok || key == "" {
			return "", &ProvisioningError{
				Op:    "query",
				Name:  engine.QueryWorkspaceSharedKeys,
				Cause: fmt.Errorf("primarySharedKey: %w", ErrMissingOutput),
			}
		}
		output.Debug("workspace credential resolved", "workspace", wsName)
		return key, nil
	})

	output.Debug("shared prerequisites requested",
		"group", groupName,
		"workspace", wsName,
		"location", common,
	)

	return &Shared{
		CommonGroup: group,
		Workspace:   workspace,
		Credential:  credential,
	}
}
