package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"meditrack/internal/core/apperror"
	appctx "meditrack/internal/core/context"
	"meditrack/internal/core/id"
)

// --- Fakes ---

type fakeRepo struct {
	users map[id.ID]User
}

func newFakeRepo(users ...User) *fakeRepo {
	repo := &fakeRepo{users: make(map[id.ID]User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, apperror.NewNotFound("user", email)
}

func (r *fakeRepo) GetByID(_ context.Context, userID id.ID) (User, error) {
	u, ok := r.users[userID]
	if !ok {
		return User{}, apperror.NewNotFound("user", userID.String())
	}
	return u, nil
}

func (r *fakeRepo) ExistsByEmailOrCPF(_ context.Context, email, cpf string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email || u.CPF == cpf {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) Create(_ context.Context, user User) error {
	r.users[user.ID] = user
	return nil
}

type fakeLocations struct {
	known map[id.ID]bool
}

func (l *fakeLocations) Exists(_ context.Context, locationID id.ID) (bool, error) {
	return l.known[locationID], nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func testUser(t *testing.T, email, password string) User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return User{
		ID:           id.New(),
		FullName:     "Maria Silva",
		Email:        email,
		CPF:          "12345678901",
		PasswordHash: string(hash),
		Role:         appctx.RoleEmployee,
		CreatedAt:    time.Now().UTC(),
	}
}

func newTestService(repo Repository, locations LocationChecker, mailer Mailer) *Service {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, locations, jwtService, mailer)
}

// --- Login ---

func TestLogin(t *testing.T) {
	user := testUser(t, "maria@example.com", "s3cret")
	svc := newTestService(newFakeRepo(user), &fakeLocations{}, &fakeMailer{})

	session, err := svc.Login(context.Background(), "maria@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, user.ID, session.User.ID)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), session.ExpiresAt, time.Minute)
}

func TestLoginWrongPassword(t *testing.T) {
	user := testUser(t, "maria@example.com", "s3cret")
	svc := newTestService(newFakeRepo(user), &fakeLocations{}, &fakeMailer{})

	_, err := svc.Login(context.Background(), "maria@example.com", "wrong")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLoginUnknownEmailMatchesWrongPassword(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeLocations{}, &fakeMailer{})

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	// Unknown account and bad password must be indistinguishable.
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

// --- Token round trip ---

func TestTokenRoundTrip(t *testing.T) {
	locID := id.New()
	user := testUser(t, "maria@example.com", "s3cret")
	user.LocationID = &locID

	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	token, _, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "maria@example.com", claims.Email)
	assert.Equal(t, appctx.RoleEmployee, claims.Role)
	assert.Equal(t, locID.String(), claims.LocationID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	user := testUser(t, "maria@example.com", "s3cret")

	token, _, err := NewJWTService(DefaultJWTConfig("secret-a")).GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = NewJWTService(DefaultJWTConfig("secret-b")).ValidateToken(token)
	assert.Error(t, err)
}

// --- Employee registration ---

func TestRegisterEmployee(t *testing.T) {
	locID := id.New()
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, &fakeLocations{known: map[id.ID]bool{locID: true}}, mailer)

	user, err := svc.RegisterEmployee(context.Background(), RegisterEmployeeInput{
		FullName:   "João Souza",
		Email:      "joao@example.com",
		CPF:        "98765432100",
		LocationID: locID,
	})
	require.NoError(t, err)

	assert.Equal(t, appctx.RoleEmployee, user.Role)
	require.NotNil(t, user.LocationID)
	assert.Equal(t, locID, *user.LocationID)
	assert.NotEmpty(t, user.PasswordHash)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "joao@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, "João Souza")

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.PasswordHash, stored.PasswordHash)
}

func TestRegisterEmployeeDuplicate(t *testing.T) {
	locID := id.New()
	existing := testUser(t, "maria@example.com", "s3cret")
	svc := newTestService(newFakeRepo(existing), &fakeLocations{known: map[id.ID]bool{locID: true}}, &fakeMailer{})

	_, err := svc.RegisterEmployee(context.Background(), RegisterEmployeeInput{
		FullName:   "Other Maria",
		Email:      "maria@example.com",
		CPF:        "11122233344",
		LocationID: locID,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestRegisterEmployeeUnknownLocation(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(newFakeRepo(), &fakeLocations{known: map[id.ID]bool{}}, mailer)

	_, err := svc.RegisterEmployee(context.Background(), RegisterEmployeeInput{
		FullName:   "João Souza",
		Email:      "joao@example.com",
		CPF:        "98765432100",
		LocationID: id.New(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, mailer.sent)
}

func TestGeneratePasswordLengthAndCharset(t *testing.T) {
	password, err := generatePassword(10)
	require.NoError(t, err)
	assert.Len(t, password, 10)
	for _, c := range password {
		assert.Contains(t, passwordCharset, string(c))
	}
}
