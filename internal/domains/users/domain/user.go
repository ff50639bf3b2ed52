package domain

import (
	"errors"
	"time"
)

// Capability is a coarse permission checked by handlers before invoking a use
// case.
type Capability string

const (
	CapConfirmOrders    Capability = "orders:confirm"
	CapAssignShipper    Capability = "orders:assign-shipper"
	CapDeliver          Capability = "orders:deliver"
	CapCancelOrders     Capability = "orders:cancel"
	CapManagePromotions Capability = "promotions:manage"
)

// Role groups users by function. The role set is fixed.
type Role struct {
	ID   int64
	Name string
}

var (
	RoleSales        = Role{ID: 1, Name: "sales"}
	RoleWarehouse    = Role{ID: 2, Name: "warehouse"}
	RoleOrderManager = Role{ID: 3, Name: "order-manager"}
	RoleShipper      = Role{ID: 4, Name: "shipper"}
	RoleCustomer     = Role{ID: 5, Name: "customer"}
)

// Roles lists every known role in id order.
func Roles() []Role {
	return []Role{RoleSales, RoleWarehouse, RoleOrderManager, RoleShipper, RoleCustomer}
}

// RoleByID resolves a role from its identifier.
func RoleByID(id int64) (Role, bool) {
	for _, role := range Roles() {
		if role.ID == id {
			return role, true
		}
	}
	return Role{}, false
}

var roleCapabilities = map[int64][]Capability{
	RoleSales.ID:        {CapConfirmOrders, CapCancelOrders, CapManagePromotions},
	RoleWarehouse.ID:    {CapAssignShipper},
	RoleOrderManager.ID: {CapConfirmOrders, CapAssignShipper, CapCancelOrders, CapManagePromotions},
	RoleShipper.ID:      {CapDeliver},
	RoleCustomer.ID:     nil,
}

// Capabilities returns the permissions the role grants.
func (r Role) Capabilities() []Capability {
	return append([]Capability(nil), roleCapabilities[r.ID]...)
}

// Can reports whether the role grants the capability.
func (r Role) Can(capability Capability) bool {
	for _, granted := range roleCapabilities[r.ID] {
		if granted == capability {
			return true
		}
	}
	return false
}

var (
	ErrEmptyUsername = errors.New("username must not be empty")
	ErrEmptyFullName = errors.New("full name must not be empty")
	ErrUnknownRole   = errors.New("role is not known")
)

// User is a system account: staff or customer.
type User struct {
	ID        int64
	Username  string
	FullName  string
	Phone     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser validates and builds a user.
func NewUser(id int64, username, fullName, phone string, role Role) (*User, error) {
	user := &User{
		ID:       id,
		Username: username,
		FullName: fullName,
		Phone:    phone,
		Role:     role,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *User) Validate() error {
	if u.Username == "" {
		return ErrEmptyUsername
	}
	if u.FullName == "" {
		return ErrEmptyFullName
	}
	if _, ok := RoleByID(u.Role.ID); !ok {
		return ErrUnknownRole
	}
	return nil
}

// Can reports whether the user's role grants the capability.
func (u *User) Can(capability Capability) bool {
	return u.Role.Can(capability)
}
