package account

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/validators"
)

type Login struct {
	repo Repository
}

func NewLogin(repo Repository) *Login {
	return &Login{repo: repo}
}

// Execute returns the user when the password matches. Unknown emails and
// wrong passwords fail the same way.
func (uc *Login) Execute(ctx context.Context, email, password string) (*models.User, error) {
	user, err := uc.repo.FindUserByEmail(ctx, validators.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, httperr.ErrBusiness("invalid_credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, httperr.ErrBusiness("invalid_credentials")
	}

	return user, nil
}
