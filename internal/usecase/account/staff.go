package account

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/spa-sentirse-bien/spa-server/internal/audit"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/validators"
)

type ProfessionalInput struct {
	FirstName string
	LastName  string
	Specialty string
	Email     string
	Phone     string
}

// Staff adds and removes employees and professionals. Each call touches
// the profile row and its login in a single transaction.
type Staff struct {
	repo  Repository
	audit *audit.Dispatcher
}

func NewStaff(repo Repository, audit *audit.Dispatcher) *Staff {
	return &Staff{
		repo:  repo,
		audit: audit,
	}
}

func (uc *Staff) AddEmployee(ctx context.Context, actorID uint, p Profile, cred Credentials) (*models.User, error) {
	p.Email = validators.NormalizeEmail(p.Email)
	if p.FirstName == "" || p.LastName == "" || p.Email == "" || cred.Username == "" || cred.Password == "" {
		return nil, httperr.ErrBusiness("missing_fields")
	}

	user, err := createLogin(ctx, uc.repo, p, cred, models.RoleEmployee)
	if err != nil {
		return nil, err
	}

	uc.record(actorID, audit.ActionStaffAdded, "employee", *user.ClientID, map[string]any{"email": user.Email})
	return user, nil
}

// RemoveEmployee deletes the Empleado login and its client profile.
func (uc *Staff) RemoveEmployee(ctx context.Context, actorID, clientID uint) error {
	err := uc.repo.WithTx(ctx, func(tx Repository) error {
		if _, err := tx.GetEmployee(ctx, clientID); err != nil {
			return err
		}
		if err := tx.DeleteUsersByClient(ctx, clientID, models.RoleEmployee); err != nil {
			return err
		}
		return tx.DeleteClient(ctx, clientID)
	})
	if err != nil {
		return err
	}

	uc.record(actorID, audit.ActionStaffRemoved, "employee", clientID, nil)
	return nil
}

// AddProfessional creates the professional and a Profesional login with no
// client profile. The two are paired by email.
func (uc *Staff) AddProfessional(
	ctx context.Context,
	actorID uint,
	in ProfessionalInput,
	cred Credentials,
) (*models.Professional, error) {

	in.Email = validators.NormalizeEmail(in.Email)
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || cred.Username == "" || cred.Password == "" {
		return nil, httperr.ErrBusiness("missing_fields")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	pro := &models.Professional{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Specialty: in.Specialty,
		Email:     in.Email,
		Phone:     in.Phone,
	}

	err = uc.repo.WithTx(ctx, func(tx Repository) error {
		taken, err := tx.UserExists(ctx, in.Email, cred.Username)
		if err != nil {
			return err
		}
		if taken {
			return httperr.ErrBusiness("account_exists")
		}

		if err := tx.CreateProfessional(ctx, pro); err != nil {
			return err
		}

		return tx.CreateUser(ctx, &models.User{
			Username:     cred.Username,
			Email:        in.Email,
			PasswordHash: string(hashed),
			Role:         models.RoleProfessional,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.record(actorID, audit.ActionStaffAdded, "professional", pro.ID, map[string]any{"email": pro.Email})
	return pro, nil
}

func (uc *Staff) RemoveProfessional(ctx context.Context, actorID, id uint) error {
	err := uc.repo.WithTx(ctx, func(tx Repository) error {
		pro, err := tx.GetProfessional(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteProfessional(ctx, id); err != nil {
			return err
		}
		return tx.DeleteUsersByEmail(ctx, pro.Email, models.RoleProfessional)
	})
	if err != nil {
		return err
	}

	uc.record(actorID, audit.ActionStaffRemoved, "professional", id, nil)
	return nil
}

func (uc *Staff) record(actorID uint, action, entity string, entityID uint, meta any) {
	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Metadata: meta,
	})
}
