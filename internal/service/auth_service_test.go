package service

import (
	"context"
	"testing"
	"time"

	"parkwatch/internal/domain"
	"parkwatch/internal/repository"
	"parkwatch/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAuthService(t *testing.T) (AuthService, store.SessionStore, *repository.MemoryVehiclesRepo) {
	t.Helper()
	users := repository.NewMemoryUsersRepo()
	vehicles := repository.NewMemoryVehiclesRepo()
	sessions := store.NewKVSessionStore(store.NewMemoryKV(), time.Hour)
	svc := NewAuthService(users, vehicles, sessions, zap.NewNop())
	return svc, sessions, vehicles
}

func TestRegisterAndLogin(t *testing.T) {
	svc, sessions, _ := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Name:       "Alice",
		Phone:      "555-0100",
		Password:   "hunter22",
		Role:       domain.RoleResident,
		UnitNumber: "1204",
	})
	require.NoError(t, err)
	require.NotEmpty(t, reg.UserID)

	login, err := svc.Login(ctx, LoginRequest{Phone: "555-0100", Password: "hunter22"})
	require.NoError(t, err)
	require.Equal(t, reg.UserID, login.UserID)
	require.Equal(t, domain.RoleResident, login.Role)
	require.NotEmpty(t, login.Token)

	sess, err := sessions.Get(ctx, login.Token)
	require.NoError(t, err)
	require.Equal(t, reg.UserID, sess.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Phone: "555-0100", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Phone: "555-0100", Password: "wrong"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginRequest{Phone: "555-0199", Password: "hunter22"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Phone: "555-0100", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Bob", Phone: "555-0100", Password: "hunter33"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Phone: "555-0100", Password: "hunter22"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Alice", Phone: "555-0100", Password: "short"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Alice", Phone: "555-0100", Password: "hunter22", Role: "superuser"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegisterWithVehicle(t *testing.T) {
	svc, _, vehicles := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Name:     "Visitor",
		Phone:    "555-0101",
		Password: "hunter22",
		Role:     domain.RoleVisitor,
		Vehicle:  &VehicleRegistration{Province: "on", LicensePlate: "abc 123"},
	})
	require.NoError(t, err)

	v, err := vehicles.GetVehicleByPlate(ctx, "ON", "ABC123", "")
	require.NoError(t, err)
	require.Equal(t, reg.UserID, v.UserID)
}

func TestLogoutClearsSession(t *testing.T) {
	svc, sessions, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Phone: "555-0100", Password: "hunter22"})
	require.NoError(t, err)
	login, err := svc.Login(ctx, LoginRequest{Phone: "555-0100", Password: "hunter22"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.Token))
	_, err = sessions.Get(ctx, login.Token)
	require.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Phone: "555-0100", Password: "hunter22"})
	require.NoError(t, err)

	newName := "Alice B"
	newPassword := "hunter33"
	err = svc.UpdateProfile(ctx, UpdateProfileRequest{
		UserID:   reg.UserID,
		Name:     &newName,
		Password: &newPassword,
	})
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, reg.UserID)
	require.NoError(t, err)
	require.Equal(t, "Alice B", profile.Name)

	// Old password no longer works, the new one does.
	_, err = svc.Login(ctx, LoginRequest{Phone: "555-0100", Password: "hunter22"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Login(ctx, LoginRequest{Phone: "555-0100", Password: "hunter33"})
	require.NoError(t, err)
}

func TestUpdateProfilePhoneConflict(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Phone: "555-0100", Password: "hunter22"})
	require.NoError(t, err)
	reg, err := svc.Register(ctx, RegisterRequest{Name: "Bob", Phone: "555-0101", Password: "hunter22"})
	require.NoError(t, err)

	taken := "555-0100"
	err = svc.UpdateProfile(ctx, UpdateProfileRequest{UserID: reg.UserID, Phone: &taken})
	require.ErrorIs(t, err, domain.ErrValidation)
}
