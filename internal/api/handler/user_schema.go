package handler

import (
	"time"

	"github.com/dars410/catalog-api/internal/api/validation"
	"github.com/dars410/catalog-api/internal/core/domain"
)

var createUserSchema = validation.Schema{
	Name: "CreateUser",
	Fields: []validation.Field{
		{Name: "fullName", Column: "full_name", Kind: validation.String, Required: true, Rules: "min=1,max=64"},
		{Name: "login", Kind: validation.String, Required: true, Rules: "min=3,max=64"},
		{Name: "password", Kind: validation.String, Required: true, Rules: "min=6,max=64"},
	},
}

// avatarPrefix is where uploaded files are served from; a user's image
// must point at one of them.
const avatarPrefix = "/uploads/"

var updateUserSchema = validation.Schema{
	Name: "UpdateUser",
	Fields: []validation.Field{
		{Name: "fullName", Column: "full_name", Kind: validation.String, Rules: "min=1,max=64"},
		{Name: "login", Kind: validation.String, Rules: "min=3,max=64"},
		{Name: "password", Kind: validation.String, Rules: "min=6,max=64"},
		{Name: "image", Kind: validation.String, Rules: "max=128,startswith=" + avatarPrefix + ",excludes=.."},
		{Name: "role", Kind: validation.String, Rules: "oneof=user admin"},
	},
}

var loginSchema = validation.Schema{
	Name: "Login",
	Fields: []validation.Field{
		{Name: "login", Kind: validation.String, Required: true, Rules: "min=1,max=64"},
		{Name: "password", Kind: validation.String, Required: true, Rules: "min=1,max=64"},
	},
}

var refreshSchema = validation.Schema{
	Name: "Refresh",
	Fields: []validation.Field{
		{Name: "refreshToken", Kind: validation.String, Required: true, Rules: "min=1"},
	},
}

// Schemas used by the router to mount ValidateBody.
func CreateUserSchema() validation.Schema { return createUserSchema }
func UpdateUserSchema() validation.Schema { return updateUserSchema }
func LoginSchema() validation.Schema      { return loginSchema }
func RefreshSchema() validation.Schema    { return refreshSchema }

// userResponse is the only shape a user leaves the API in.
type userResponse struct {
	ID        int64      `json:"id"`
	FullName  string     `json:"fullName"`
	Login     string     `json:"login"`
	Image     *string    `json:"image"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Login:     u.Login,
		Image:     u.Image,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type createUserRequest struct {
	FullName string `json:"fullName"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	FullName string `json:"fullName,omitempty"`
	Login    string `json:"login,omitempty"`
	Password string `json:"password,omitempty"`
	Image    string `json:"image,omitempty"`
	Role     string `json:"role,omitempty" enums:"user,admin"`
}
