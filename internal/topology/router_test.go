package topology_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/geodeploy/internal/core"
	"github.com/opmodel/geodeploy/internal/engine"
	"github.com/opmodel/geodeploy/internal/engine/memory"
	oerrors "github.com/opmodel/geodeploy/internal/errors"
	"github.com/opmodel/geodeploy/internal/future"
	"github.com/opmodel/geodeploy/internal/testutil"
	"github.com/opmodel/geodeploy/internal/topology"
)

func TestRoutingConfiguration(t *testing.T) {
	targets := topology.RoutingConfiguration([]core.RegionalEndpoint{
		core.NewRegionalEndpoint("northeurope", "a.example.net"),
		core.NewRegionalEndpoint("canadacentral", "b.example.net"),
	})
	assert.Equal(t, []topology.RouteTarget{
		{Name: "endpoint-northeurope", Target: "a.example.net", Location: "northeurope"},
		{Name: "endpoint-canadacentral", Target: "b.example.net", Location: "canadacentral"},
	}, targets)
}

func TestBuildRouter_Properties(t *testing.T) {
	spec := testutil.DeploymentSpec(t, "test")
	eng := memory.New()
	ctx := context.Background()

	group := eng.Create(ctx, engine.KindResourceGroup, "rg-common", future.Resolved(engine.Properties{
		engine.PropLocation: "westeurope",
	}), engine.Options{})
	aggregate := future.Resolved([]core.RegionalEndpoint{
		core.NewRegionalEndpoint("northeurope", "app-ne.example.net"),
	})

	router := topology.BuildRouter(ctx, eng, spec, group, aggregate)
	res, err := testutil.Await(t, router.Resource)
	require.NoError(t, err)

	in := res.Inputs
	assert.Equal(t, "shop-test", res.Name)
	assert.Equal(t, "global", res.Location())
	assert.Equal(t, "rg-common", in["resourceGroupName"])
	assert.Equal(t, "Performance", in["trafficRoutingMethod"])
	assert.Equal(t, "Enabled", in["profileStatus"])
	assert.Equal(t, "Disabled", in["trafficViewEnrollmentStatus"])
	assert.Equal(t, 0, in["maxReturn"])

	ttl, _ := in.Lookup("dnsConfig", "ttl")
	assert.Equal(t, 1, ttl)
	path, _ := in.String("monitorConfig", "path")
	assert.Equal(t, "/", path)
	port, _ := in.Lookup("monitorConfig", "port")
	assert.Equal(t, 443, port)
	proto, _ := in.String("monitorConfig", "protocol")
	assert.Equal(t, "HTTPS", proto)
	ranges, _ := in.Lookup("monitorConfig", "expectedStatusCodeRanges")
	assert.Equal(t, []any{map[string]any{"min": 200, "max": 299}}, ranges)

	endpoints, ok := in["endpoints"].([]any)
	require.True(t, ok)
	require.Len(t, endpoints, 1)
	assert.Equal(t, map[string]any{
		"name":             "endpoint-northeurope",
		"type":             "externalEndpoints",
		"target":           "app-ne.example.net",
		"endpointLocation": "northeurope",
		"customHeaders": []any{
			map[string]any{"name": "Host", "value": "app-ne.example.net"},
		},
	}, endpoints[0])

	tags, ok := res.Tags()
	require.True(t, ok)
	assert.Equal(t, core.BuildTags(spec, ""), tags)
}

func TestBuildRouter_WaitsForAggregate(t *testing.T) {
	spec := testutil.DeploymentSpec(t, "test")
	eng := memory.New()
	ctx := context.Background()

	group := future.Resolved(&engine.Resource{Name: "rg-common"})
	aggregate, promise := future.New[[]core.RegionalEndpoint]()

	router := topology.BuildRouter(ctx, eng, spec, group, aggregate)
	assert.Equal(t, "https://shop-test.trafficmanager.net", router.URL)

	time.Sleep(20 * time.Millisecond)
	_, done, _ := router.Targets.Poll()
	assert.False(t, done, "endpoint list is not observable before the aggregate resolves")
	assert.Empty(t, eng.RequestsOfKind(engine.KindRouter))

	promise.Reject(errBoom)
	_, err := testutil.Await(t, router.Resource)
	assert.ErrorIs(t, err, oerrors.ErrRouterSynthesis)
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, eng.RequestsOfKind(engine.KindRouter))
}

func TestAggregate(t *testing.T) {
	ep := func(region string) *topology.Region {
		return &topology.Region{
			Name:     region,
			Endpoint: future.Resolved(core.NewRegionalEndpoint(region, region+".example.net")),
		}
	}

	t.Run("empty", func(t *testing.T) {
		got, err := testutil.Await(t, topology.Aggregate(nil))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("failure names the region", func(t *testing.T) {
		failed := &topology.Region{
			Name:     "eastus",
			Endpoint: future.Failed[core.RegionalEndpoint](errBoom),
		}
		_, err := testutil.Await(t, topology.Aggregate([]*topology.Region{ep("northeurope"), failed}))

		var aggErr *topology.AggregationError
		require.ErrorAs(t, err, &aggErr)
		assert.Equal(t, "eastus", aggErr.Region)
		assert.Equal(t, 1, aggErr.Index)
		assert.ErrorIs(t, err, errBoom)
		assert.ErrorIs(t, err, oerrors.ErrAggregation)
	})
}
