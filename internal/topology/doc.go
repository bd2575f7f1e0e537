// Package topology builds the multi-region deployment graph.
//
// A run expands one DeploymentSpec into:
//
//   - shared prerequisites: a common resource group, a logging workspace and
//     the workspace credential (ProvisionShared);
//   - one subgraph per region: resource group, hosting environment bound to
//     the shared workspace, container workload, and the region's public
//     endpoint (BuildRegion);
//   - an ordered fail-fast join of every regional endpoint (Aggregate);
//   - a global latency-routed router whose endpoint list is computed from
//     the join (BuildRouter).
//
// Every stage is a future.Future registered on the Futures it reads, so the
// order of remote operations is implied by data dependencies alone. Regions
// share nothing but the shared prerequisites and never wait on each other.
package topology
