// Package identity manages login accounts for the platform. Profiles reference
// an account by id; the admin API provisions accounts when creating patients
// and resets their credentials on request.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrAccountNotFound indicates no account exists for the given id.
var ErrAccountNotFound = errors.New("account not found")

// ErrEmailTaken indicates an account already exists for the email.
var ErrEmailTaken = errors.New("email already registered")

// Provider abstracts the identity backend used for account provisioning.
type Provider interface {
	CreateAccount(ctx context.Context, email, password string) (string, error)
	UpdatePassword(ctx context.Context, accountID, password string) error
	DeleteAccount(ctx context.Context, accountID string) error
}

// Account is a login credential record. Profile rows share its id.
type Account struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName keeps the account relation separate from application profiles.
func (Account) TableName() string {
	return "auth_accounts"
}

type gormProvider struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewGormProvider constructs an identity provider backed by the relational store.
func NewGormProvider(db *gorm.DB, logger zerolog.Logger) Provider {
	return &gormProvider{
		db:     db,
		logger: logger.With().Str("component", "identity_provider").Logger(),
	}
}

func (p *gormProvider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	var existing int64
	if err := p.db.WithContext(ctx).Model(&Account{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return "", fmt.Errorf("failed to check account email: %w", err)
	}
	if existing > 0 {
		return "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := p.db.WithContext(ctx).Create(&account).Error; err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}

	p.logger.Info().Str("account_id", account.ID).Msg("account provisioned")
	return account.ID, nil
}

func (p *gormProvider) UpdatePassword(ctx context.Context, accountID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	update := p.db.WithContext(ctx).Model(&Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"password_hash": string(hash),
			"updated_at":    time.Now(),
		})
	if update.Error != nil {
		return fmt.Errorf("failed to update password: %w", update.Error)
	}

	if update.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (p *gormProvider) DeleteAccount(ctx context.Context, accountID string) error {
	result := p.db.WithContext(ctx).Where("id = ?", accountID).Delete(&Account{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete account: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}
