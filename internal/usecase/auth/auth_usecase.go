package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"docuchat/internal/domain/entity"
	"docuchat/internal/domain/repository"
	"docuchat/pkg/jwt"
	"docuchat/pkg/password"
)

type AuthUsecase struct {
	userRepo  repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthUsecase(
	userRepo repository.UserRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// register user
func (uc *AuthUsecase) Register(
	ctx context.Context,
	email, username, pass, fullName string,
) (*entity.User, error) {
	// Validate input
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)
	if email == "" || username == "" || pass == "" {
		return nil, errors.New("email, username and password are required")
	}
	if len(username) < 3 {
		return nil, errors.New("username must be at least 3 characters")
	}
	if len(pass) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	// Check uniqueness
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	existing, err = uc.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("username already taken")
	}

	// Hash password
	hashedPassword, err := password.HashPassword(pass)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:    email,
		Username: username,
		FullName: fullName,
		Password: hashedPassword,
		IsActive: true,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// login user
func (uc *AuthUsecase) Login(
	ctx context.Context,
	email, pass string,
) (string, *entity.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || pass == "" {
		return "", nil, errors.New("email and password are required")
	}

	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, errors.New("invalid credentials")
	}

	if err := password.ComparePassword(user.Password, pass); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	if !user.IsActive {
		return "", nil, errors.New("account is inactive")
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, uc.jwtSecret, uc.jwtExpiry)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// UpdateProfile changes the caller's email, username or full name. Nil
// fields stay untouched; changed email and username re-run the uniqueness
// checks, ignoring the caller's own row.
func (uc *AuthUsecase) UpdateProfile(
	ctx context.Context,
	userID string,
	email, username, fullName *string,
) (*entity.User, error) {
	if email == nil && username == nil && fullName == nil {
		return nil, errors.New("no data to update")
	}

	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	if email != nil {
		newEmail := strings.TrimSpace(strings.ToLower(*email))
		if newEmail == "" {
			return nil, errors.New("email must not be empty")
		}
		existing, err := uc.userRepo.FindByEmail(ctx, newEmail)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != userID {
			return nil, errors.New("email already registered")
		}
		user.Email = newEmail
	}

	if username != nil {
		newUsername := strings.TrimSpace(*username)
		if len(newUsername) < 3 {
			return nil, errors.New("username must be at least 3 characters")
		}
		existing, err := uc.userRepo.FindByUsername(ctx, newUsername)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != userID {
			return nil, errors.New("username already taken")
		}
		user.Username = newUsername
	}

	if fullName != nil {
		user.FullName = strings.TrimSpace(*fullName)
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// current user lookup for /me
func (uc *AuthUsecase) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}
