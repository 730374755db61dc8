package users

import (
	"context"

	"github.com/filecove/filecove/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateAvatarKey(ctx context.Context, id int64, avatarKey string) (*models.User, error)
}
