package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"outrexo/internal/model"
)

// ErrBadCredentials covers both unknown users and wrong passwords so
// login responses cannot be used to probe for accounts.
var ErrBadCredentials = errors.New("invalid email or password")

// UserService owns signup, credential login and linking of Google
// accounts.
type UserService struct {
	db         *gorm.DB
	bcryptCost int
}

// NewUserService creates a user service.
func NewUserService(db *gorm.DB, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{db: db, bcryptCost: bcryptCost}
}

// Signup registers a credentials user with a bcrypt-hashed password.
func (s *UserService) Signup(name, email, password string) (*model.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	var existing model.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: user already exists", ErrValidation)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{Name: name, Email: email, Password: string(hash)}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate checks a credentials login.
func (s *UserService) Authenticate(email, password string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Password == "" {
		// OAuth-only account, no password login
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return &user, nil
}

// GoogleProfile is the subset of the userinfo response the callback
// needs.
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// GoogleTokens are the OAuth tokens persisted to the Account row.
type GoogleTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

// UpsertGoogleUser links a Google sign-in: it creates or finds the user
// by email and creates or refreshes the provider Account row.
func (s *UserService) UpsertGoogleUser(profile GoogleProfile, tokens GoogleTokens) (*model.User, error) {
	if profile.Email == "" || profile.Subject == "" {
		return nil, fmt.Errorf("%w: google profile is incomplete", ErrValidation)
	}

	var user model.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", profile.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = model.User{Name: profile.Name, Email: profile.Email, Image: profile.Picture}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to look up user: %w", err)
		}

		var account model.Account
		err = tx.Where("provider = ? AND provider_account_id = ?", "google", profile.Subject).First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			account = model.Account{
				UserID:            user.ID,
				Provider:          "google",
				ProviderAccountID: profile.Subject,
				AccessToken:       tokens.AccessToken,
				RefreshToken:      tokens.RefreshToken,
				ExpiresAt:         tokens.ExpiresAt,
			}
			return tx.Create(&account).Error
		}
		if err != nil {
			return fmt.Errorf("failed to look up account: %w", err)
		}

		account.AccessToken = tokens.AccessToken
		account.ExpiresAt = tokens.ExpiresAt
		if tokens.RefreshToken != "" {
			account.RefreshToken = tokens.RefreshToken
		}
		return tx.Save(&account).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
