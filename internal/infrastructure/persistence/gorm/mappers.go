package gorm

import "github.com/alchemorsel/recipe-explorer/internal/domain/user"

// UserToModel converts a domain user to a GORM model
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID(),
		Username:     u.Username(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
		LastLoginAt:  u.LastLoginAt(),
	}
}

// ModelToUser converts a GORM model back to a domain user
func ModelToUser(model *UserModel) *user.User {
	return user.Reconstruct(
		model.ID,
		model.Username,
		model.Email,
		model.PasswordHash,
		model.CreatedAt,
		model.UpdatedAt,
		model.LastLoginAt,
	)
}
