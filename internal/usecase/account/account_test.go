package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/infra/repository"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/testutil"
	"github.com/spa-sentirse-bien/spa-server/internal/usecase/account"
)

func profile() account.Profile {
	return account.Profile{
		FirstName: "Ana",
		LastName:  "Gómez",
		Email:     "  Ana@Example.com ",
		Phone:     "3624000000",
		Address:   "French 414",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewAccountGormRepository(db)
	ctx := context.Background()

	user, err := account.NewRegister(repo, nil).Execute(ctx, profile(), account.Credentials{Username: "ana", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, user.Role)
	assert.Equal(t, "ana@example.com", user.Email)
	require.NotNil(t, user.ClientID)

	var client models.Client
	require.NoError(t, db.First(&client, *user.ClientID).Error)
	assert.Equal(t, "Ana", client.FirstName)

	login := account.NewLogin(repo)

	got, err := login.Execute(ctx, "ANA@example.com", "secreto1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = login.Execute(ctx, "ana@example.com", "wrong")
	assert.True(t, httperr.IsBusiness(err, "invalid_credentials"))

	_, err = login.Execute(ctx, "nobody@example.com", "secreto1")
	assert.True(t, httperr.IsBusiness(err, "invalid_credentials"))
}

func TestRegisterRejectsDuplicatesAndMissingFields(t *testing.T) {
	db := testutil.NewDB(t)
	register := account.NewRegister(repository.NewAccountGormRepository(db), nil)
	ctx := context.Background()

	_, err := register.Execute(ctx, profile(), account.Credentials{Username: "ana", Password: "secreto1"})
	require.NoError(t, err)

	_, err = register.Execute(ctx, profile(), account.Credentials{Username: "otra", Password: "secreto1"})
	assert.True(t, httperr.IsBusiness(err, "account_exists"))

	var clients int64
	db.Model(&models.Client{}).Count(&clients)
	assert.Equal(t, int64(1), clients)

	p := profile()
	p.LastName = ""
	_, err = register.Execute(ctx, p, account.Credentials{Username: "x", Password: "y"})
	assert.True(t, httperr.IsBusiness(err, "missing_fields"))
}

func TestRegisterChecksEmailDomain(t *testing.T) {
	db := testutil.NewDB(t)
	register := account.NewRegister(repository.NewAccountGormRepository(db), func(string) bool { return false })

	_, err := register.Execute(context.Background(), profile(), account.Credentials{Username: "ana", Password: "secreto1"})
	assert.True(t, httperr.IsBusiness(err, "invalid_email_domain"))
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewAccountGormRepository(db)
	ctx := context.Background()

	user, err := account.NewRegister(repo, nil).Execute(ctx, profile(), account.Credentials{Username: "ana", Password: "secreto1"})
	require.NoError(t, err)

	p := profile()
	p.Email = "ana.gomez@example.com"
	p.Address = "Güemes 200"
	require.NoError(t, account.NewUpdateProfile(repo).Execute(ctx, user.ID, *user.ClientID, p))

	var u models.User
	require.NoError(t, db.First(&u, user.ID).Error)
	assert.Equal(t, "ana.gomez@example.com", u.Email)

	var c models.Client
	require.NoError(t, db.First(&c, *user.ClientID).Error)
	assert.Equal(t, "Güemes 200", c.Address)

	err = account.NewUpdateProfile(repo).Execute(ctx, user.ID, 0, p)
	assert.True(t, httperr.IsBusiness(err, "no_client_profile"))
}

func TestStaffLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	staff := account.NewStaff(repository.NewAccountGormRepository(db), nil)
	ctx := context.Background()

	emp, err := staff.AddEmployee(ctx, 1, profile(), account.Credentials{Username: "recepcion", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, emp.Role)

	pro, err := staff.AddProfessional(ctx, 1, account.ProfessionalInput{
		FirstName: "Laura",
		LastName:  "Paz",
		Specialty: "Masajes",
		Email:     "laura@spa.com",
	}, account.Credentials{Username: "laura", Password: "secreto1"})
	require.NoError(t, err)

	var proUser models.User
	require.NoError(t, db.Where("email = ?", "laura@spa.com").First(&proUser).Error)
	assert.Equal(t, models.RoleProfessional, proUser.Role)
	assert.Nil(t, proUser.ClientID)

	require.NoError(t, staff.RemoveProfessional(ctx, 1, pro.ID))
	err = staff.RemoveProfessional(ctx, 1, pro.ID)
	assert.True(t, httperr.IsBusiness(err, "professional_not_found"))

	require.NoError(t, staff.RemoveEmployee(ctx, 1, *emp.ClientID))
	err = staff.RemoveEmployee(ctx, 1, *emp.ClientID)
	assert.True(t, httperr.IsBusiness(err, "employee_not_found"))

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.Zero(t, users)
}

func TestRemoveEmployeeIgnoresPlainClients(t *testing.T) {
	db := testutil.NewDB(t)
	client := testutil.CreateClient(t, db, "ana")

	err := account.NewStaff(repository.NewAccountGormRepository(db), nil).RemoveEmployee(context.Background(), 1, client.ID)
	assert.True(t, httperr.IsBusiness(err, "employee_not_found"))
}
