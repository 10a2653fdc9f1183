package dto

import "github.com/GlebRadaev/betstream/internal/domain"

type RegisterRequestDTO struct {
	Login    string `json:"login" validate:"required,min=3,max=50" example:"player1"`
	Password string `json:"password" validate:"required,min=8,max=72" example:"secret123"`
}

type LoginRequestDTO struct {
	Login    string `json:"login" validate:"required" example:"player1"`
	Password string `json:"password" validate:"required" example:"secret123"`
}

type UserDTO struct {
	ID    int    `json:"id" example:"1"`
	Login string `json:"login" example:"player1"`
	Role  string `json:"role" example:"user"`
}

type AuthResponseDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

func NewUserDTO(u *domain.User) UserDTO {
	return UserDTO{ID: u.ID, Login: u.Login, Role: string(u.Role)}
}
