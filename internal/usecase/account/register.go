package account

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/validators"
)

// Profile holds the personal data shared by clients and employees.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

type Credentials struct {
	Username string
	Password string
}

// Register creates a client profile and its login in one transaction. The
// role is always Cliente.
type Register struct {
	repo        Repository
	checkDomain func(email string) bool
}

// NewRegister builds the use case; checkDomain may be nil to skip the
// email domain lookup.
func NewRegister(repo Repository, checkDomain func(email string) bool) *Register {
	return &Register{
		repo:        repo,
		checkDomain: checkDomain,
	}
}

func (uc *Register) Execute(ctx context.Context, p Profile, cred Credentials) (*models.User, error) {
	p.Email = validators.NormalizeEmail(p.Email)
	if p.FirstName == "" || p.LastName == "" || p.Email == "" || cred.Username == "" || cred.Password == "" {
		return nil, httperr.ErrBusiness("missing_fields")
	}
	if uc.checkDomain != nil && !uc.checkDomain(p.Email) {
		return nil, httperr.ErrBusiness("invalid_email_domain")
	}

	return createLogin(ctx, uc.repo, p, cred, models.RoleClient)
}

// createLogin inserts a client profile plus a user bound to it.
func createLogin(
	ctx context.Context,
	repo Repository,
	p Profile,
	cred Credentials,
	role string,
) (*models.User, error) {

	hashed, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = repo.WithTx(ctx, func(tx Repository) error {
		taken, err := tx.UserExists(ctx, p.Email, cred.Username)
		if err != nil {
			return err
		}
		if taken {
			return httperr.ErrBusiness("account_exists")
		}

		client := &models.Client{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
			Phone:     p.Phone,
			Address:   p.Address,
		}
		if err := tx.CreateClient(ctx, client); err != nil {
			return err
		}

		user = &models.User{
			ClientID:     &client.ID,
			Username:     cred.Username,
			Email:        p.Email,
			PasswordHash: string(hashed),
			Role:         role,
		}
		return tx.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
