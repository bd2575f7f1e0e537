package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/opmodel/geodeploy/internal/engine"
	"github.com/opmodel/geodeploy/internal/engine/memory"
	"github.com/opmodel/geodeploy/internal/future"
)

func await[T any](t *testing.T, f *future.Future[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return f.Await(ctx)
}

func props(p engine.Properties) *future.Future[engine.Properties] {
	return future.Resolved(p)
}

func TestCreate_StatusConverges(t *testing.T) {
	ctx := context.Background()
	eng := memory.New()
	in := engine.Properties{"location": "westeurope", "tags": map[string]string{"application": "shop"}}

	first, err := await(t, eng.Create(ctx, engine.KindResourceGroup, "rg", props(in), engine.Options{}))
	require.NoError(t, err)
	assert.Equal(t, "created", first.Status)
	assert.Equal(t, memory.ResourceID(engine.KindResourceGroup, "rg"), first.ID)

	second, err := await(t, eng.Create(ctx, engine.KindResourceGroup, "rg", props(in), engine.Options{}))
	require.NoError(t, err)
	assert.Equal(t, "unchanged", second.Status)
	assert.Equal(t, first.ID, second.ID, "same name converges on the same identity")

	changed := engine.Properties{"location": "northeurope"}
	third, err := await(t, eng.Create(ctx, engine.KindResourceGroup, "rg", props(changed), engine.Options{}))
	require.NoError(t, err)
	assert.Equal(t, "configured", third.Status)

	assert.Len(t, eng.Resources(), 1)
	assert.Len(t, eng.RequestsOfKind(engine.KindResourceGroup), 3)
}

func TestCreate_FailedInputsNeverApply(t *testing.T) {
	errUpstream := errors.New("upstream failed")
	eng := memory.New()

	_, err := await(t, eng.Create(context.Background(), engine.KindWorkspace, "ws",
		future.Failed[engine.Properties](errUpstream), engine.Options{}))
	assert.ErrorIs(t, err, errUpstream)

	_, ok := eng.Resource(engine.KindWorkspace, "ws")
	assert.False(t, ok)
	assert.Len(t, eng.RequestsOfKind(engine.KindWorkspace), 1, "the request is still recorded")
}

func TestCreate_InjectedFailure(t *testing.T) {
	errQuota := errors.New("quota exceeded")
	eng := memory.New(memory.FailCreate(engine.KindWorkload, "app", errQuota))

	_, err := await(t, eng.Create(context.Background(), engine.KindWorkload, "app",
		props(engine.Properties{"location": "northeurope"}), engine.Options{}))
	assert.ErrorIs(t, err, errQuota)
}

func TestCreate_Timeout(t *testing.T) {
	eng := memory.New(memory.WithResourceLatency(engine.KindWorkload, "slow", time.Second))

	_, err := await(t, eng.Create(context.Background(), engine.KindWorkload, "slow",
		props(engine.Properties{"location": "northeurope"}),
		engine.Options{CustomTimeouts: &engine.CustomTimeouts{Create: 10 * time.Millisecond}}))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCreate_SynthesizedOutputs(t *testing.T) {
	ctx := context.Background()
	eng := memory.New(memory.WithDomain("apps.test"))

	wl, err := await(t, eng.Create(ctx, engine.KindWorkload, "app-northeurope-test",
		props(engine.Properties{"location": "northeurope"}), engine.Options{}))
	require.NoError(t, err)
	fqdn, ok := wl.Outputs.String("configuration", "ingress", "fqdn")
	require.True(t, ok)
	assert.Equal(t, "app-northeurope-test.northeurope.apps.test", fqdn)

	ws, err := await(t, eng.Create(ctx, engine.KindWorkspace, "ws", props(engine.Properties{}), engine.Options{}))
	require.NoError(t, err)
	customerID, ok := ws.Outputs.String("customerId")
	require.True(t, ok)
	assert.NotEmpty(t, customerID)

	router, err := await(t, eng.Create(ctx, engine.KindRouter, "shop-test",
		props(engine.Properties{"dnsConfig": map[string]any{"relativeName": "shop-test"}}), engine.Options{}))
	require.NoError(t, err)
	routerFQDN, _ := router.Outputs.String("dnsConfig", "fqdn")
	assert.Equal(t, "shop-test.trafficmanager.net", routerFQDN)

	_, err = await(t, eng.Create(ctx, engine.KindWorkload, "nowhere", props(engine.Properties{}), engine.Options{}))
	assert.Error(t, err, "workload without location cannot get a hostname")
}

func TestQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("workspace shared keys are deterministic", func(t *testing.T) {
		eng := memory.New()
		params := props(engine.Properties{"resourceGroupName": "rg", "workspaceName": "ws"})
		a, err := await(t, eng.Query(ctx, engine.QueryWorkspaceSharedKeys, params))
		require.NoError(t, err)
		b, err := await(t, eng.Query(ctx, engine.QueryWorkspaceSharedKeys, params))
		require.NoError(t, err)
		assert.Equal(t, a["primarySharedKey"], b["primarySharedKey"])
	})

	t.Run("injected failure", func(t *testing.T) {
		errDenied := errors.New("denied")
		eng := memory.New(memory.FailQuery(engine.QueryWorkspaceSharedKeys, errDenied))
		_, err := await(t, eng.Query(ctx, engine.QueryWorkspaceSharedKeys, props(engine.Properties{})))
		assert.ErrorIs(t, err, errDenied)
	})

	t.Run("unknown query", func(t *testing.T) {
		_, err := await(t, memory.New().Query(ctx, "nope", props(engine.Properties{})))
		assert.Error(t, err)
	})

	t.Run("custom handler", func(t *testing.T) {
		eng := memory.New(memory.WithQuery("echo", func(p engine.Properties) (engine.Properties, error) {
			return p, nil
		}))
		out, err := await(t, eng.Query(ctx, "echo", props(engine.Properties{"k": "v"})))
		require.NoError(t, err)
		assert.Equal(t, "v", out["k"])
	})
}

func TestParallelism(t *testing.T) {
	ctx := context.Background()
	eng := memory.New(memory.WithParallelism(1), memory.WithLatency(20*time.Millisecond))

	start := time.Now()
	a := eng.Create(ctx, engine.KindResourceGroup, "a", props(engine.Properties{}), engine.Options{})
	b := eng.Create(ctx, engine.KindResourceGroup, "b", props(engine.Properties{}), engine.Options{})
	_, err := await(t, future.After(a, b))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond, "one slot serializes the two creates")
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	eng := memory.New()
	_, err := await(t, eng.Create(ctx, engine.KindHostingEnvironment, "env",
		props(engine.Properties{
			"location": "northeurope",
			"appLogsConfiguration": map[string]any{
				"logAnalyticsConfiguration": map[string]any{"sharedKey": "secret"},
			},
		}), engine.Options{}))
	require.NoError(t, err)

	data, err := eng.Snapshot()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	var entries []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "env", entries[0]["name"])
	assert.Equal(t, "created", entries[0]["status"])

	res, _ := eng.Resource(engine.KindHostingEnvironment, "env")
	key, _ := res.Outputs.String("appLogsConfiguration", "logAnalyticsConfiguration", "sharedKey")
	assert.Equal(t, "secret", key, "redaction does not touch the stored resource")
}

func TestSnapshot_OrderedByKindWeight(t *testing.T) {
	ctx := context.Background()
	eng := memory.New()
	_, err := await(t, eng.Create(ctx, engine.KindWorkload, "app",
		props(engine.Properties{"location": "northeurope"}), engine.Options{}))
	require.NoError(t, err)
	_, err = await(t, eng.Create(ctx, engine.KindResourceGroup, "rg-b", props(engine.Properties{}), engine.Options{}))
	require.NoError(t, err)
	_, err = await(t, eng.Create(ctx, engine.KindResourceGroup, "rg-a", props(engine.Properties{}), engine.Options{}))
	require.NoError(t, err)

	data, err := eng.Snapshot()
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "rg-a", entries[0]["name"])
	assert.Equal(t, "rg-b", entries[1]["name"])
	assert.Equal(t, "app", entries[2]["name"])
}
