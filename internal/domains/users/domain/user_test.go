package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleSales.Can(CapConfirmOrders))
	assert.True(t, RoleSales.Can(CapManagePromotions))
	assert.False(t, RoleSales.Can(CapDeliver))

	assert.True(t, RoleWarehouse.Can(CapAssignShipper))
	assert.False(t, RoleWarehouse.Can(CapConfirmOrders))

	assert.True(t, RoleOrderManager.Can(CapCancelOrders))
	assert.True(t, RoleShipper.Can(CapDeliver))
	assert.False(t, RoleShipper.Can(CapCancelOrders))

	assert.Empty(t, RoleCustomer.Capabilities())
}

func TestRoleByID(t *testing.T) {
	role, ok := RoleByID(4)
	require.True(t, ok)
	assert.Equal(t, RoleShipper, role)

	_, ok = RoleByID(99)
	assert.False(t, ok)
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser(0, "", "Lan Pham", "", RoleSales)
	require.ErrorIs(t, err, ErrEmptyUsername)

	_, err = NewUser(0, "lan", "", "", RoleSales)
	require.ErrorIs(t, err, ErrEmptyFullName)

	_, err = NewUser(0, "lan", "Lan Pham", "", Role{ID: 99, Name: "admin"})
	require.ErrorIs(t, err, ErrUnknownRole)

	user, err := NewUser(0, "lan", "Lan Pham", "0901234567", RoleSales)
	require.NoError(t, err)
	assert.True(t, user.Can(CapConfirmOrders))
}
