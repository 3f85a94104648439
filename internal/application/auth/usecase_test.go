package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/uranusgroup/uranus-web/internal/application/apptest"
	"github.com/uranusgroup/uranus-web/internal/application/auth"
	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	pkgjwt "github.com/uranusgroup/uranus-web/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuth(s *apptest.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "uranus-test"}).
		WithBcryptCost(bcrypt.MinCost)
}

func validRegister() dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:        "acme",
		Email:           "Contact@Acme.com",
		Password:        "s3cretpass",
		PasswordConfirm: "s3cretpass",
		Company:         "ACME",
	}
}

func TestRegister_SiempreCliente(t *testing.T) {
	s := apptest.NewStore()
	uc := newAuth(s)

	out, err := uc.RegisterUser(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleClient), out.Role)
	assert.Equal(t, "contact@acme.com", out.Email)
	assert.True(t, out.IsActive)

	stored, err := s.Users().GetByUsername(context.Background(), "acme")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", stored.PasswordHash, "nunca se guarda en claro")
}

func TestRegister_Rechazos(t *testing.T) {
	s := apptest.NewStore()
	uc := newAuth(s)
	ctx := context.Background()

	in := validRegister()
	in.PasswordConfirm = "different1"
	_, err := uc.RegisterUser(ctx, in)
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)

	_, err = uc.RegisterUser(ctx, validRegister())
	require.NoError(t, err)

	in = validRegister()
	in.Email = "other@acme.com"
	_, err = uc.RegisterUser(ctx, in)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	in = validRegister()
	in.Username = "acme2"
	_, err = uc.RegisterUser(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	in = validRegister()
	in.Username, in.Email = "shorty", "short@acme.com"
	in.Password, in.PasswordConfirm = "abc", "abc"
	_, err = uc.RegisterUser(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_UsuarioOCorreo(t *testing.T) {
	s := apptest.NewStore()
	uc := newAuth(s)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, validRegister())
	require.NoError(t, err)

	for _, login := range []string{"acme", "CONTACT@acme.com"} {
		out, err := uc.Login(ctx, dto.LoginRequest{Login: login, Password: "s3cretpass"})
		require.NoError(t, err, login)
		uid, username, role, err := pkgjwt.Parse(testSecret, out.Token)
		require.NoError(t, err)
		assert.Equal(t, out.User.ID, uid)
		assert.Equal(t, "acme", username)
		assert.Equal(t, "client", role)
	}

	_, err = uc.Login(ctx, dto.LoginRequest{Login: "acme", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Login: "ghost", Password: "s3cretpass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_InactivoProhibido(t *testing.T) {
	s := apptest.NewStore()
	uc := newAuth(s)
	ctx := context.Background()
	out, err := uc.RegisterUser(ctx, validRegister())
	require.NoError(t, err)

	u, err := s.Users().GetByID(ctx, out.ID)
	require.NoError(t, err)
	u.IsActive = false
	require.NoError(t, s.Users().Update(ctx, u))

	_, err = uc.Login(ctx, dto.LoginRequest{Login: "acme", Password: "s3cretpass"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cur, err := uc.CurrentUser(ctx, out.ID)
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestUpdateProfile_ActualizaPerfil(t *testing.T) {
	s := apptest.NewStore()
	uc := newAuth(s)
	ctx := context.Background()
	s.AddUser("u-other", "globex", entity.RoleClient)
	out, err := uc.RegisterUser(ctx, validRegister())
	require.NoError(t, err)
	actor, err := uc.CurrentUser(ctx, out.ID)
	require.NoError(t, err)

	upd, err := uc.UpdateProfile(ctx, actor, dto.UpdateProfileRequest{
		FirstName: "Awa", LastName: "Diallo", Email: "awa@acme.com", Position: "DG",
	})
	require.NoError(t, err)
	assert.Equal(t, "Awa", upd.FirstName)
	assert.Equal(t, "awa@acme.com", upd.Email)
	assert.Equal(t, string(entity.RoleClient), upd.Role)

	_, err = uc.UpdateProfile(ctx, actor, dto.UpdateProfileRequest{Email: "globex@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.UpdateProfile(ctx, nil, dto.UpdateProfileRequest{Email: "x@y.z"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
