package enums

import "fmt"

// TransactionStatus is the order lifecycle status of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusShipped    TransactionStatus = "shipped"
	TransactionStatusDelivered  TransactionStatus = "delivered"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusDisputed   TransactionStatus = "disputed"
	TransactionStatusCancelled  TransactionStatus = "cancelled"
	TransactionStatusRefunded   TransactionStatus = "refunded"
)

var validTransactionStatuses = []TransactionStatus{
	TransactionStatusPending,
	TransactionStatusProcessing,
	TransactionStatusShipped,
	TransactionStatusDelivered,
	TransactionStatusCompleted,
	TransactionStatusDisputed,
	TransactionStatusCancelled,
	TransactionStatusRefunded,
}

// TransactionStatuses returns every status in declaration order.
func TransactionStatuses() []TransactionStatus {
	out := make([]TransactionStatus, len(validTransactionStatuses))
	copy(out, validTransactionStatuses)
	return out
}

func (s TransactionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TransactionStatus.
func (s TransactionStatus) IsValid() bool {
	for _, candidate := range validTransactionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports statuses that accept no further transition.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusCancelled, TransactionStatusRefunded:
		return true
	default:
		return false
	}
}

// IsBranch reports statuses that leave the linear pending→completed lane.
func (s TransactionStatus) IsBranch() bool {
	switch s {
	case TransactionStatusDisputed, TransactionStatusCancelled, TransactionStatusRefunded:
		return true
	default:
		return false
	}
}

// IsActive reports statuses grouped under the "active" tab.
func (s TransactionStatus) IsActive() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusProcessing, TransactionStatusShipped:
		return true
	default:
		return false
	}
}

// ParseTransactionStatus converts raw input into a TransactionStatus.
func ParseTransactionStatus(value string) (TransactionStatus, error) {
	for _, candidate := range validTransactionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction status %q", value)
}

// EscrowStatus tracks held funds independently of the order status.
type EscrowStatus string

const (
	EscrowStatusProcessing EscrowStatus = "processing"
	EscrowStatusSecured    EscrowStatus = "secured"
	EscrowStatusHeld       EscrowStatus = "held"
	EscrowStatusReleased   EscrowStatus = "released"
)

var validEscrowStatuses = []EscrowStatus{
	EscrowStatusProcessing,
	EscrowStatusSecured,
	EscrowStatusHeld,
	EscrowStatusReleased,
}

func (s EscrowStatus) IsValid() bool {
	for _, candidate := range validEscrowStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseEscrowStatus(value string) (EscrowStatus, error) {
	for _, candidate := range validEscrowStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid escrow status %q", value)
}

// TransactionRole is the viewer's side of a transaction.
type TransactionRole string

const (
	TransactionRoleBuyer  TransactionRole = "buyer"
	TransactionRoleSeller TransactionRole = "seller"
)

func (r TransactionRole) IsValid() bool {
	return r == TransactionRoleBuyer || r == TransactionRoleSeller
}

// ParseTransactionRole accepts both role names and the buying/selling filter
// aliases used by the transaction list.
func ParseTransactionRole(value string) (TransactionRole, error) {
	switch value {
	case "buyer", "buying":
		return TransactionRoleBuyer, nil
	case "seller", "selling":
		return TransactionRoleSeller, nil
	}
	return "", fmt.Errorf("invalid transaction role %q", value)
}

// TransactionAction is a user-facing action dispatched against a transaction.
type TransactionAction string

const (
	TransactionActionConfirm        TransactionAction = "confirm"
	TransactionActionCancel         TransactionAction = "cancel"
	TransactionActionShip           TransactionAction = "ship"
	TransactionActionConfirmReceipt TransactionAction = "confirm_receipt"
	TransactionActionDispute        TransactionAction = "dispute"
	TransactionActionReview         TransactionAction = "review"
	TransactionActionViewDispute    TransactionAction = "view_dispute"
)

var validTransactionActions = []TransactionAction{
	TransactionActionConfirm,
	TransactionActionCancel,
	TransactionActionShip,
	TransactionActionConfirmReceipt,
	TransactionActionDispute,
	TransactionActionReview,
	TransactionActionViewDispute,
}

func (a TransactionAction) IsValid() bool {
	for _, candidate := range validTransactionActions {
		if candidate == a {
			return true
		}
	}
	return false
}

func ParseTransactionAction(value string) (TransactionAction, error) {
	for _, candidate := range validTransactionActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction action %q", value)
}

// TransactionTab groups statuses for the transaction list tabs.
type TransactionTab string

const (
	TransactionTabAll       TransactionTab = "all"
	TransactionTabActive    TransactionTab = "active"
	TransactionTabCompleted TransactionTab = "completed"
	TransactionTabDisputed  TransactionTab = "disputed"
	TransactionTabCancelled TransactionTab = "cancelled"
)

var validTransactionTabs = []TransactionTab{
	TransactionTabAll,
	TransactionTabActive,
	TransactionTabCompleted,
	TransactionTabDisputed,
	TransactionTabCancelled,
}

// TransactionTabs returns the tabs in display order.
func TransactionTabs() []TransactionTab {
	out := make([]TransactionTab, len(validTransactionTabs))
	copy(out, validTransactionTabs)
	return out
}

// Includes reports whether a transaction in status s belongs on the tab.
func (t TransactionTab) Includes(s TransactionStatus) bool {
	switch t {
	case TransactionTabAll, "":
		return true
	case TransactionTabActive:
		return s.IsActive()
	case TransactionTabCompleted:
		return s == TransactionStatusCompleted
	case TransactionTabDisputed:
		return s == TransactionStatusDisputed
	case TransactionTabCancelled:
		return s == TransactionStatusCancelled
	}
	return false
}

func ParseTransactionTab(value string) (TransactionTab, error) {
	for _, candidate := range validTransactionTabs {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction tab %q", value)
}

// AmountBucket is a named inclusive amount range used by the transaction filters.
type AmountBucket string

const (
	AmountBucketUnder50  AmountBucket = "0-50"
	AmountBucket50To200  AmountBucket = "50-200"
	AmountBucket200To500 AmountBucket = "200-500"
	AmountBucketAbove500 AmountBucket = "500+"
)

// Bounds returns the inclusive range; max is nil for the open-ended bucket.
func (b AmountBucket) Bounds() (min float64, max *float64, ok bool) {
	bound := func(v float64) *float64 { return &v }
	switch b {
	case AmountBucketUnder50:
		return 0, bound(50), true
	case AmountBucket50To200:
		return 50, bound(200), true
	case AmountBucket200To500:
		return 200, bound(500), true
	case AmountBucketAbove500:
		return 500, nil, true
	}
	return 0, nil, false
}

func ParseAmountBucket(value string) (AmountBucket, error) {
	b := AmountBucket(value)
	if _, _, ok := b.Bounds(); !ok {
		return "", fmt.Errorf("invalid amount bucket %q", value)
	}
	return b, nil
}
