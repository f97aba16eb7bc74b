package account

import (
	"context"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/validators"
)

type UpdateProfile struct {
	repo Repository
}

func NewUpdateProfile(repo Repository) *UpdateProfile {
	return &UpdateProfile{repo: repo}
}

// Execute rewrites the login email and the client profile together.
func (uc *UpdateProfile) Execute(ctx context.Context, userID, clientID uint, p Profile) error {
	if clientID == 0 {
		return httperr.ErrBusiness("no_client_profile")
	}

	p.Email = validators.NormalizeEmail(p.Email)
	if p.FirstName == "" || p.LastName == "" || p.Email == "" {
		return httperr.ErrBusiness("missing_fields")
	}

	return uc.repo.WithTx(ctx, func(tx Repository) error {
		client, err := tx.GetClient(ctx, clientID)
		if err != nil {
			return err
		}

		if err := tx.UpdateUserEmail(ctx, userID, p.Email); err != nil {
			return err
		}

		client.FirstName = p.FirstName
		client.LastName = p.LastName
		client.Email = p.Email
		client.Phone = p.Phone
		client.Address = p.Address
		return tx.UpdateClient(ctx, client)
	})
}
