package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	appctx "meditrack/internal/core/context"
	"meditrack/internal/core/apperror"
	"meditrack/internal/core/id"
	"meditrack/pkg/logger"
)

const passwordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*()-_+=<>?"

// Service provides login and employee registration.
type Service struct {
	repo      Repository
	locations LocationChecker
	jwt       *JWTService
	mailer    Mailer
}

// NewService creates a new auth service.
func NewService(repo Repository, locations LocationChecker, jwtService *JWTService, mailer Mailer) *Service {
	return &Service{
		repo:      repo,
		locations: locations,
		jwt:       jwtService,
		mailer:    mailer,
	}
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return Session{}, apperror.NewUnauthorized("invalid credentials")
		}
		return Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, apperror.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return Session{}, apperror.NewInternal(err)
	}

	return Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// RegisterEmployee creates an employee account assigned to a location, with a
// generated password delivered through the Mailer. Admin-only; the calling
// layer enforces the role.
func (s *Service) RegisterEmployee(ctx context.Context, input RegisterEmployeeInput) (User, error) {
	taken, err := s.repo.ExistsByEmailOrCPF(ctx, input.Email, input.CPF)
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, apperror.NewDuplicate("user", "email or cpf", input.Email)
	}

	exists, err := s.locations.Exists(ctx, input.LocationID)
	if err != nil {
		return User{}, err
	}
	if !exists {
		return User{}, apperror.NewNotFound("location", input.LocationID.String())
	}

	password, err := generatePassword(10)
	if err != nil {
		return User{}, apperror.NewInternal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, apperror.NewInternal(err)
	}

	locationID := input.LocationID
	user := User{
		ID:           id.New(),
		FullName:     input.FullName,
		Email:        input.Email,
		CPF:          input.CPF,
		PasswordHash: string(hash),
		Role:         appctx.RoleEmployee,
		LocationID:   &locationID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	body := fmt.Sprintf("Olá, %s. Você foi cadastrado por um administrador. Sua senha de acesso é: %s",
		input.FullName, password)
	if err := s.mailer.Send(ctx, input.Email, "Cadastro Meditrack", body); err != nil {
		// The account exists either way; delivery failure must not roll it back.
		logger.Warn(ctx, "welcome mail delivery failed", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// GetByID returns a user by id.
func (s *Service) GetByID(ctx context.Context, userID id.ID) (User, error) {
	return s.repo.GetByID(ctx, userID)
}

func generatePassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordCharset[n.Int64()]
	}
	return string(out), nil
}
