package bookstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersdomain "github.com/bookhaven/bookstore-api/internal/domains/users/domain"
	usersports "github.com/bookhaven/bookstore-api/internal/domains/users/ports"
)

// UsersAPI wires HTTP transport with the users bounded context.
type UsersAPI struct {
	service usersports.Service
}

// NewUsersAPI creates a UsersAPI backed by the provided service.
func NewUsersAPI(service usersports.Service) UsersAPI {
	return UsersAPI{service: service}
}

// User is the wire shape of a user account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone"`
	RoleID   int64  `json:"roleId" binding:"required"`
	RoleName string `json:"roleName,omitempty"`
}

func fromUser(user *usersdomain.User) User {
	return User{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Phone:    user.Phone,
		RoleID:   user.Role.ID,
		RoleName: user.Role.Name,
	}
}

func fromUserList(users []*usersdomain.User) []User {
	out := make([]User, 0, len(users))
	for _, user := range users {
		out = append(out, fromUser(user))
	}
	return out
}

func toUserInput(payload User) usersports.UserInput {
	return usersports.UserInput{
		Username: payload.Username,
		FullName: payload.FullName,
		Phone:    payload.Phone,
		RoleID:   payload.RoleID,
	}
}

// Get /v2/users
// List all users
func (api *UsersAPI) ListUsers(c *gin.Context) {
	users, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromUserList(users))
}

// Get /v2/users/shippers
// List users holding the shipper role
func (api *UsersAPI) ListShippers(c *gin.Context) {
	shippers, err := api.service.ListShippers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromUserList(shippers))
}

// Get /v2/users/role/:roleId
// List users holding a role
func (api *UsersAPI) ListUsersByRole(c *gin.Context) {
	roleID, ok := parseIDParam(c, "roleId")
	if !ok {
		return
	}
	users, err := api.service.ListByRole(c.Request.Context(), roleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromUserList(users))
}

// Get /v2/users/:userId
// Find user by ID
func (api *UsersAPI) GetUserById(c *gin.Context) {
	id, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	user, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromUser(user))
}

// Post /v2/users
// Create a user
func (api *UsersAPI) CreateUser(c *gin.Context) {
	var payload User
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	created, err := api.service.Create(c.Request.Context(), toUserInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromUser(created))
}

// Put /v2/users/:userId
// Update an existing user
func (api *UsersAPI) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	var payload User
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.Update(c.Request.Context(), id, toUserInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromUser(updated))
}

// Delete /v2/users/:userId
// Remove a user
func (api *UsersAPI) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
