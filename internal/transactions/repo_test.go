package transactions

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTransactionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Transaction{}, &models.TransactionSequence{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	u := models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@swapsafe.test",
		PasswordHash: "hash",
		FullName:     name,
		UserType:     enums.UserTypeBuyer,
		Rating:       decimal.RequireFromString("4.8"),
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func newRow(id string, buyer, seller models.User, created time.Time) *models.Transaction {
	return &models.Transaction{
		ID:           id,
		ProductName:  "Sony WH-1000XM4",
		BuyerID:      buyer.ID,
		SellerID:     seller.ID,
		Amount:       decimal.RequireFromString("280.00"),
		Fee:          decimal.RequireFromString("8.40"),
		Status:       enums.TransactionStatusDelivered,
		EscrowStatus: enums.EscrowStatusSecured,
		RiskLevel:    enums.RiskLevelMedium,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestRepositoryCreateFindAndList(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	buyer := createUser(t, db, "Jordan Buyer")
	seller := createUser(t, db, "Alex Rodriguez")
	other := createUser(t, db, "Someone Else")
	base := time.Date(2024, 1, 12, 9, 15, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newRow("SW-2024-001", buyer, seller, base)))
	require.NoError(t, repo.Create(ctx, newRow("SW-2024-002", seller, buyer, base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newRow("SW-2024-003", other, seller, base.Add(2*time.Hour))))

	found, err := repo.FindByID(ctx, "SW-2024-001")
	require.NoError(t, err)
	require.NotNil(t, found.Seller)
	assert.Equal(t, "Alex Rodriguez", found.Seller.FullName)
	assert.True(t, found.Fee.Equal(decimal.RequireFromString("8.40")))

	_, err = repo.FindByID(ctx, "SW-2024-999")
	assert.ErrorIs(t, err, ErrNotFound)

	rows, err := repo.ListForUser(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SW-2024-002", rows[0].ID)
}

func TestRepositoryUpdateStateIsConditional(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	buyer := createUser(t, db, "Jordan Buyer")
	seller := createUser(t, db, "Alex Rodriguez")
	require.NoError(t, repo.Create(ctx, newRow("SW-2024-003", buyer, seller, time.Now().UTC())))

	from := State{Status: enums.TransactionStatusDelivered, Escrow: enums.EscrowStatusSecured}
	origin := enums.TransactionStatusDelivered
	to := State{Status: enums.TransactionStatusDisputed, Escrow: enums.EscrowStatusHeld, BranchedFrom: &origin}

	ok, err := repo.UpdateState(ctx, "SW-2024-003", from, to, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateState(ctx, "SW-2024-003", from, to, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, ok, "second update from a stale status must not apply")

	found, err := repo.FindByID(ctx, "SW-2024-003")
	require.NoError(t, err)
	assert.Equal(t, enums.TransactionStatusDisputed, found.Status)
	assert.Equal(t, enums.EscrowStatusHeld, found.EscrowStatus)
	require.NotNil(t, found.BranchedFrom)
	assert.Equal(t, enums.TransactionStatusDelivered, *found.BranchedFrom)
}

func TestRepositoryNextSequence(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.NextSequence(ctx, 2024)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := repo.NextSequence(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "each year has its own counter")
}

func TestRepositoryNextSequencePostgres(t *testing.T) {
	dsn := os.Getenv("SWAPSAFE_DB_DSN")
	if dsn == "" {
		t.Skip("SWAPSAFE_DB_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.TransactionSequence{}))

	year := 3000 + int(time.Now().UnixNano()%1000)
	t.Cleanup(func() { db.Where("year = ?", year).Delete(&models.TransactionSequence{}) })

	repo := NewRepository(db)
	first, err := repo.NextSequence(context.Background(), year)
	require.NoError(t, err)
	second, err := repo.NextSequence(context.Background(), year)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}
