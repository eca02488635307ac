package user

import (
	"context"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) SendMail(toEmail, _, _ string) error {
	m.sent = append(m.sent, toEmail)
	return nil
}

func (m *recordingMailer) SendWelcome(toEmail, _ string) error {
	m.sent = append(m.sent, toEmail)
	return nil
}

var _ mailing.Mailer = (*recordingMailer)(nil)

func newService(t *testing.T) (UserService, jwt.JWTService, *recordingMailer, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	jwtService := jwt.NewJWTService("test-secret", time.Hour, testutil.NewMemoryCache())
	mailer := &recordingMailer{}
	svc := NewUserService(NewUserRepository(db), jwtService, mailer, testutil.Logger(t))
	return svc, jwtService, mailer, db
}

func register(t *testing.T, svc UserService, username string) domain.UserResponse {
	t.Helper()
	res, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Anna",
		LastName:  "Cook",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	svc, _, mailer, db := newService(t)
	ctx := context.Background()

	res := register(t, svc, "anna")
	assert.Equal(t, "anna", res.Username)
	assert.Equal(t, "anna@example.com", res.Email)
	assert.False(t, res.IsSubscribed)
	assert.Equal(t, []string{"anna@example.com"}, mailer.sent)

	var stored entities.User
	require.NoError(t, db.Where("username = ?", "anna").First(&stored).Error)
	assert.NotEqual(t, "s3cret-pass", stored.Password)
	assert.Equal(t, domain.RoleUser, stored.Role)

	_, err := svc.Register(ctx, domain.RegisterRequest{
		Email: "ANNA@example.com", Username: "other", FirstName: "a", LastName: "b", Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.Register(ctx, domain.RegisterRequest{
		Email: "other@example.com", Username: "anna", FirstName: "a", LastName: "b", Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLoginLogout(t *testing.T) {
	svc, jwtService, _, _ := newService(t)
	ctx := context.Background()
	registered := register(t, svc, "anna")

	_, err := svc.Login(ctx, domain.LoginRequest{Email: "anna@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	login, err := svc.Login(ctx, domain.LoginRequest{Email: "anna@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, login.AuthToken)

	userID, role, err := jwtService.GetUserIDByToken(login.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, domain.RoleUser, role)

	assert.False(t, jwtService.IsTokenRevoked(ctx, login.AuthToken))
	require.NoError(t, svc.Logout(ctx, login.AuthToken))
	assert.True(t, jwtService.IsTokenRevoked(ctx, login.AuthToken))
}

func TestSetPassword(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()
	registered := register(t, svc, "anna")

	err := svc.SetPassword(ctx, registered.ID, domain.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "another-pass"})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	require.NoError(t, svc.SetPassword(ctx, registered.ID, domain.SetPasswordRequest{
		CurrentPassword: "s3cret-pass",
		NewPassword:     "another-pass",
	}))

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "anna@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, domain.LoginRequest{Email: "anna@example.com", Password: "another-pass"})
	assert.NoError(t, err)
}

func TestGetUser_IsSubscribed(t *testing.T) {
	svc, _, _, db := newService(t)
	ctx := context.Background()
	author := register(t, svc, "anna")
	reader := register(t, svc, "reader")

	var authorRow, readerRow entities.User
	require.NoError(t, db.Where("username = ?", "anna").First(&authorRow).Error)
	require.NoError(t, db.Where("username = ?", "reader").First(&readerRow).Error)
	require.NoError(t, db.Create(&entities.Follow{UserID: readerRow.ID, AuthorID: authorRow.ID}).Error)

	seen, err := svc.GetUser(ctx, author.ID, reader.ID)
	require.NoError(t, err)
	assert.True(t, seen.IsSubscribed)

	anonymous, err := svc.GetUser(ctx, author.ID, "")
	require.NoError(t, err)
	assert.False(t, anonymous.IsSubscribed)

	_, err = svc.GetUser(ctx, "0b0c3a9e-5d3f-4a8e-9f77-2c1b9e6a4d10", "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	list, err := svc.GetUsers(ctx, domain.PageRequest{}, reader.ID)
	require.NoError(t, err)
	require.Len(t, list.Users, 2)
	assert.Equal(t, "anna", list.Users[0].Username)
	assert.True(t, list.Users[0].IsSubscribed)
	assert.False(t, list.Users[1].IsSubscribed)
	assert.EqualValues(t, 2, list.Pagination.Total)
}
