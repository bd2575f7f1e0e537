// Package identity provides deterministic identities for provisioned resources.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// NamespaceDomain seeds NamespaceUUID.
const NamespaceDomain = "geodeploy.opmodel.dev"

// NamespaceUUID is the UUID v5 namespace every derived identity lives in.
// Computed as: uuid.NewSHA1(uuid.NameSpaceDNS, NamespaceDomain)
var NamespaceUUID = uuid.NewSHA1(uuid.NameSpaceDNS, []byte(NamespaceDomain))

// Derive returns the UUID v5 of parts joined with "/". Equal parts always
// derive the same UUID, so re-running a deployment converges on the same
// identities.
func Derive(parts ...string) uuid.UUID {
	return uuid.NewSHA1(NamespaceUUID, []byte(strings.Join(parts, "/")))
}
