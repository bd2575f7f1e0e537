package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	a := Derive("resource-group", "shop-app-northeurope-test")
	assert.Equal(t, a, Derive("resource-group", "shop-app-northeurope-test"))
	assert.NotEqual(t, a, Derive("resource-group", "shop-app-canadacentral-test"))
	assert.Equal(t, uuid.Version(5), a.Version())
}

func TestNamespaceUUID(t *testing.T) {
	assert.Equal(t, uuid.NewSHA1(uuid.NameSpaceDNS, []byte("geodeploy.opmodel.dev")), NamespaceUUID)
}
