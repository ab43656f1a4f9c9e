package identity

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProvider(t *testing.T) (Provider, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Account{}))
	require.NoError(t, db.Exec("DELETE FROM auth_accounts").Error)
	return NewGormProvider(db, zerolog.Nop()), db
}

func TestGormProviderCreateAccountHashesPassword(t *testing.T) {
	provider, db := setupProvider(t)

	id, err := provider.CreateAccount(context.Background(), "thandi@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var account Account
	require.NoError(t, db.First(&account, "id = ?", id).Error)
	require.Equal(t, "thandi@example.com", account.Email)
	require.NotEqual(t, "s3cret-pass", account.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("s3cret-pass")))
}

func TestGormProviderCreateAccountRejectsDuplicateEmail(t *testing.T) {
	provider, _ := setupProvider(t)

	_, err := provider.CreateAccount(context.Background(), "dup@example.com", "first")
	require.NoError(t, err)

	_, err = provider.CreateAccount(context.Background(), "dup@example.com", "second")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestGormProviderUpdatePassword(t *testing.T) {
	provider, db := setupProvider(t)

	id, err := provider.CreateAccount(context.Background(), "reset@example.com", "old-pass")
	require.NoError(t, err)

	require.NoError(t, provider.UpdatePassword(context.Background(), id, "new-pass"))

	var account Account
	require.NoError(t, db.First(&account, "id = ?", id).Error)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("new-pass")))

	require.ErrorIs(t, provider.UpdatePassword(context.Background(), "missing", "x"), ErrAccountNotFound)
}

func TestGormProviderDeleteAccount(t *testing.T) {
	provider, db := setupProvider(t)

	id, err := provider.CreateAccount(context.Background(), "gone@example.com", "pass")
	require.NoError(t, err)

	require.NoError(t, provider.DeleteAccount(context.Background(), id))

	var count int64
	require.NoError(t, db.Model(&Account{}).Count(&count).Error)
	require.Zero(t, count)

	require.ErrorIs(t, provider.DeleteAccount(context.Background(), id), ErrAccountNotFound)
}
