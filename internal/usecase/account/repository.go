package account

import (
	"context"

	"github.com/spa-sentirse-bien/spa-server/internal/models"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(Repository) error) error

	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserExists(ctx context.Context, email, username string) (bool, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUserEmail(ctx context.Context, userID uint, email string) error

	GetClient(ctx context.Context, clientID uint) (*models.Client, error)
	CreateClient(ctx context.Context, c *models.Client) error
	UpdateClient(ctx context.Context, c *models.Client) error
	DeleteClient(ctx context.Context, clientID uint) error

	// GetEmployee returns the client profile linked to an Empleado login.
	GetEmployee(ctx context.Context, clientID uint) (*models.Client, error)
	DeleteUsersByClient(ctx context.Context, clientID uint, role string) error

	GetProfessional(ctx context.Context, id uint) (*models.Professional, error)
	CreateProfessional(ctx context.Context, p *models.Professional) error
	DeleteProfessional(ctx context.Context, id uint) error
	DeleteUsersByEmail(ctx context.Context, email string, role string) error
}
