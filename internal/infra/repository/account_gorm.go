package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/usecase/account"
)

type AccountGormRepository struct {
	db *gorm.DB
}

func NewAccountGormRepository(db *gorm.DB) *AccountGormRepository {
	return &AccountGormRepository{db: db}
}

func (r *AccountGormRepository) WithTx(
	ctx context.Context,
	fn func(account.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AccountGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Users
// --------------------------------------------------

// FindUserByEmail returns nil, nil when no user has the email.
func (r *AccountGormRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AccountGormRepository) UserExists(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ? OR nombre_usuario = ?", email, username).
		Count(&count).Error
	return count > 0, err
}

func (r *AccountGormRepository) CreateUser(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrBusiness("account_exists")
	}
	return err
}

func (r *AccountGormRepository) UpdateUserEmail(ctx context.Context, userID uint, email string) error {
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id_usuario = ?", userID).
		Update("email", email).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrBusiness("account_exists")
	}
	return err
}

// --------------------------------------------------
// Clients and employees
// --------------------------------------------------

func (r *AccountGormRepository) GetClient(ctx context.Context, clientID uint) (*models.Client, error) {
	var c models.Client
	err := r.db.WithContext(ctx).Where("id_cliente = ?", clientID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("profile_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AccountGormRepository) CreateClient(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *AccountGormRepository) UpdateClient(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *AccountGormRepository) DeleteClient(ctx context.Context, clientID uint) error {
	return r.db.WithContext(ctx).
		Where("id_cliente = ?", clientID).
		Delete(&models.Client{}).Error
}

func (r *AccountGormRepository) GetEmployee(ctx context.Context, clientID uint) (*models.Client, error) {
	var c models.Client
	err := r.db.WithContext(ctx).
		Table("clientes c").
		Select("c.*").
		Joins("JOIN usuarios u ON u.id_cliente = c.id_cliente").
		Where("c.id_cliente = ? AND u.rol = ?", clientID, models.RoleEmployee).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("employee_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AccountGormRepository) DeleteUsersByClient(ctx context.Context, clientID uint, role string) error {
	return r.db.WithContext(ctx).
		Where("id_cliente = ? AND rol = ?", clientID, role).
		Delete(&models.User{}).Error
}

// --------------------------------------------------
// Professionals
// --------------------------------------------------

func (r *AccountGormRepository) GetProfessional(ctx context.Context, id uint) (*models.Professional, error) {
	var p models.Professional
	err := r.db.WithContext(ctx).Where("id_profesional = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("professional_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *AccountGormRepository) CreateProfessional(ctx context.Context, p *models.Professional) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *AccountGormRepository) DeleteProfessional(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Where("id_profesional = ?", id).
		Delete(&models.Professional{}).Error
}

func (r *AccountGormRepository) DeleteUsersByEmail(ctx context.Context, email string, role string) error {
	return r.db.WithContext(ctx).
		Where("email = ? AND rol = ?", email, role).
		Delete(&models.User{}).Error
}

var _ account.Repository = (*AccountGormRepository)(nil)
