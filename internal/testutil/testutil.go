// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opmodel/geodeploy/internal/core"
	"github.com/opmodel/geodeploy/internal/future"
)

// AwaitTimeout bounds every Await in tests.
const AwaitTimeout = 5 * time.Second

// TempDir creates a temporary directory removed when the test ends.
func TempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "geodeploy-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Logf("warning: failed to remove temp dir %s: %v", dir, err)
		}
	})
	return dir
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// DeploymentSpec returns a valid spec for application "shop" in env.
// Regions default to northeurope and canadacentral.
func DeploymentSpec(t *testing.T, env string, regions ...string) *core.DeploymentSpec {
	t.Helper()
	if len(regions) == 0 {
		regions = []string{"northeurope", "canadacentral"}
	}
	spec, err := core.NewDeploymentSpec(core.DeploymentSpecInput{
		ApplicationName: "shop",
		Environment:     env,
		CommonRegion:    "westeurope",
		Regions:         regions,
		Image:           "ghcr.io/example/shop:1.0.0",
		Sizing: core.Sizing{
			CPU:                0.25,
			Memory:             "0.5Gi",
			MinReplicas:        1,
			MaxReplicas:        10,
			ConcurrentRequests: 30,
		},
	})
	if err != nil {
		t.Fatalf("invalid test spec: %v", err)
	}
	return spec
}

// Await waits for f with AwaitTimeout.
func Await[T any](t *testing.T, f *future.Future[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), AwaitTimeout)
	defer cancel()
	v, err := f.Await(ctx)
	if ctx.Err() != nil {
		t.Fatalf("future did not settle within %s", AwaitTimeout)
	}
	return v, err
}
