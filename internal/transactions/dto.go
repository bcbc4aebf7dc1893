package transactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// Party is the counterparty as shown to the viewer.
type Party struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"reviewCount"`
}

// ProductSnapshot is the product as it was when the transaction was created.
type ProductSnapshot struct {
	ID    *uuid.UUID `json:"id,omitempty"`
	Name  string     `json:"name"`
	Image string     `json:"image"`
}

// Transaction is a transaction seen from one of its parties.
type Transaction struct {
	ID               string                    `json:"id"`
	Product          ProductSnapshot           `json:"product"`
	Amount           decimal.Decimal           `json:"amount"`
	Fee              decimal.Decimal           `json:"fee"`
	Status           enums.TransactionStatus   `json:"status"`
	EscrowStatus     enums.EscrowStatus        `json:"escrowStatus"`
	UserRole         enums.TransactionRole     `json:"userRole"`
	OtherParty       Party                     `json:"otherParty"`
	AIScamRisk       enums.RiskLevel           `json:"aiScamRisk"`
	PaymentMethod    string                    `json:"paymentMethod"`
	TrackingNumber   *string                   `json:"trackingNumber,omitempty"`
	Notes            *string                   `json:"notes,omitempty"`
	CreatedAt        time.Time                 `json:"createdAt"`
	UpdatedAt        time.Time                 `json:"updatedAt"`
	Timeline         []Checkpoint              `json:"timeline"`
	AvailableActions []enums.TransactionAction `json:"availableActions"`
}

// RoleOf returns viewer's side of the transaction; ok is false for strangers.
func RoleOf(row models.Transaction, viewer uuid.UUID) (enums.TransactionRole, bool) {
	switch viewer {
	case row.BuyerID:
		return enums.TransactionRoleBuyer, true
	case row.SellerID:
		return enums.TransactionRoleSeller, true
	}
	return "", false
}

// StateOf extracts the machine state from a stored row.
func StateOf(row models.Transaction) State {
	return State{Status: row.Status, Escrow: row.EscrowStatus, BranchedFrom: row.BranchedFrom}
}

// View projects row for a viewer whose role has already been resolved.
func View(row models.Transaction, role enums.TransactionRole, machine *Machine) Transaction {
	other := row.Seller
	if role == enums.TransactionRoleSeller {
		other = row.Buyer
	}
	view := Transaction{
		ID: row.ID,
		Product: ProductSnapshot{
			ID:    row.ProductID,
			Name:  row.ProductName,
			Image: row.ProductImage,
		},
		Amount:           row.Amount,
		Fee:              row.Fee,
		Status:           row.Status,
		EscrowStatus:     row.EscrowStatus,
		UserRole:         role,
		AIScamRisk:       row.RiskLevel,
		PaymentMethod:    row.PaymentMethod,
		TrackingNumber:   row.TrackingNumber,
		Notes:            row.Notes,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
		Timeline:         Project(row.Status, row.BranchedFrom),
		AvailableActions: machine.Available(row.Status, role),
	}
	if other != nil {
		view.OtherParty = partyFromUser(*other)
	}
	return view
}

func partyFromUser(u models.User) Party {
	avatar := ""
	if u.AvatarURL != nil {
		avatar = *u.AvatarURL
	}
	return Party{
		ID:          u.ID,
		Name:        u.FullName,
		Avatar:      avatar,
		Rating:      u.Rating.InexactFloat64(),
		ReviewCount: u.ReviewCount,
	}
}
