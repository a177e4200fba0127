package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/growthsystem/erpchat/core/infrastructure/permissions"
)

func TestStaticOracle_ExplicitGrants(t *testing.T) {
	o := permissions.NewStaticOracle([]string{"Customer", "Item"}, []string{"Lead"})

	assert.True(t, o.HasReadPermission("Customer"))
	assert.True(t, o.HasReadPermission("Item"))
	assert.False(t, o.HasReadPermission("Supplier"))

	assert.True(t, o.HasCreatePermission("Lead"))
	assert.False(t, o.HasCreatePermission("Customer"))
}

func TestStaticOracle_Wildcard(t *testing.T) {
	o := permissions.NewStaticOracle([]string{"*"}, []string{"*"})

	assert.True(t, o.HasReadPermission("Anything"))
	assert.True(t, o.HasCreatePermission("Anything"))
}

func TestStaticOracle_Empty(t *testing.T) {
	o := permissions.NewStaticOracle(nil, nil)

	assert.False(t, o.HasReadPermission("Customer"))
	assert.False(t, o.HasCreatePermission("Customer"))
}
