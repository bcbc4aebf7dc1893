package transactions

import (
	"fmt"

	"github.com/swapsafe/swapsafe-backend/internal/notifications"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// Notice is the notification produced when a rule fires. Message is a format
// string taking the transaction id.
type Notice struct {
	Type     enums.NotificationType
	Priority enums.NotificationPriority
	Title    string
	Message  string
}

// Input renders the notice for one transaction.
func (n Notice) Input(transactionID string) notifications.Input {
	return notifications.Input{
		Type:      n.Type,
		Title:     n.Title,
		Message:   fmt.Sprintf(n.Message, transactionID),
		Priority:  n.Priority,
		ActionURL: "/transaction-management",
	}
}

// Rule is one row of the action table. An empty Role matches either party,
// an empty To keeps the status and an empty Escrow keeps the escrow status.
type Rule struct {
	From   enums.TransactionStatus
	Role   enums.TransactionRole
	Action enums.TransactionAction
	To     enums.TransactionStatus
	Escrow enums.EscrowStatus
	Notice Notice
}

func (r Rule) matches(status enums.TransactionStatus, role enums.TransactionRole, action enums.TransactionAction) bool {
	return r.From == status && r.Action == action && (r.Role == "" || r.Role == role)
}

var (
	noticeConfirmed = Notice{
		Type: enums.NotificationTypeTransaction, Priority: enums.NotificationPriorityNormal,
		Title: "Order Confirmed", Message: "Order %s has been confirmed and is being processed.",
	}
	noticeCancelled = Notice{
		Type: enums.NotificationTypeTransaction, Priority: enums.NotificationPriorityNormal,
		Title: "Order Cancelled", Message: "Order %s has been cancelled.",
	}
	noticeShipped = Notice{
		Type: enums.NotificationTypeTransaction, Priority: enums.NotificationPriorityNormal,
		Title: "Order Shipped", Message: "Order %s has been marked as shipped.",
	}
	noticeReleased = Notice{
		Type: enums.NotificationTypeEscrow, Priority: enums.NotificationPriorityHigh,
		Title: "Payment Released", Message: "Funds for order %s have been released to the seller.",
	}
	noticeDisputed = Notice{
		Type: enums.NotificationTypeTransaction, Priority: enums.NotificationPriorityHigh,
		Title: "Dispute Submitted", Message: "Your dispute for order %s has been submitted and is under review.",
	}
	noticeReview = Notice{
		Type: enums.NotificationTypeTransaction, Priority: enums.NotificationPriorityNormal,
		Title: "Review Requested", Message: "Leave a review for order %s to help other traders.",
	}
	noticeDisputeStatus = Notice{
		Type: enums.NotificationTypeTransaction, Priority: enums.NotificationPriorityNormal,
		Title: "Dispute Under Review", Message: "Your dispute for order %s is being reviewed by our team.",
	}

	noticePlaced = Notice{
		Type: enums.NotificationTypeTransaction, Priority: enums.NotificationPriorityNormal,
		Title: "Order Placed", Message: "Order %s has been placed. Funds are held in escrow until delivery.",
	}
	noticeNewOrder = Notice{
		Type: enums.NotificationTypeTransaction, Priority: enums.NotificationPriorityNormal,
		Title: "New Order", Message: "You have a new order %s awaiting confirmation.",
	}
)

// DefaultRules is the marketplace action table.
var DefaultRules = []Rule{
	{From: enums.TransactionStatusPending, Role: enums.TransactionRoleSeller, Action: enums.TransactionActionConfirm, To: enums.TransactionStatusProcessing, Notice: noticeConfirmed},
	{From: enums.TransactionStatusPending, Role: enums.TransactionRoleSeller, Action: enums.TransactionActionCancel, To: enums.TransactionStatusCancelled, Notice: noticeCancelled},
	{From: enums.TransactionStatusProcessing, Role: enums.TransactionRoleSeller, Action: enums.TransactionActionShip, To: enums.TransactionStatusShipped, Notice: noticeShipped},
	{From: enums.TransactionStatusShipped, Role: enums.TransactionRoleBuyer, Action: enums.TransactionActionConfirmReceipt, To: enums.TransactionStatusCompleted, Escrow: enums.EscrowStatusReleased, Notice: noticeReleased},
	{From: enums.TransactionStatusShipped, Role: enums.TransactionRoleBuyer, Action: enums.TransactionActionDispute, To: enums.TransactionStatusDisputed, Escrow: enums.EscrowStatusHeld, Notice: noticeDisputed},
	{From: enums.TransactionStatusDelivered, Action: enums.TransactionActionReview, Notice: noticeReview},
	{From: enums.TransactionStatusDelivered, Action: enums.TransactionActionDispute, To: enums.TransactionStatusDisputed, Escrow: enums.EscrowStatusHeld, Notice: noticeDisputed},
	{From: enums.TransactionStatusDisputed, Action: enums.TransactionActionViewDispute, Notice: noticeDisputeStatus},
}

// State is the part of a transaction the machine reads and writes.
type State struct {
	Status       enums.TransactionStatus
	Escrow       enums.EscrowStatus
	BranchedFrom *enums.TransactionStatus
}

// Outcome reports what Apply did. When Applied is false State is the input
// state, untouched.
type Outcome struct {
	Applied bool
	Changed bool
	Rule    Rule
	State   State
}

// Machine evaluates actions against a rule table.
type Machine struct {
	rules []Rule
}

// NewMachine returns a machine over rules, or DefaultRules when none are given.
func NewMachine(rules ...Rule) *Machine {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Machine{rules: append([]Rule(nil), rules...)}
}

func (m *Machine) Lookup(status enums.TransactionStatus, role enums.TransactionRole, action enums.TransactionAction) (Rule, bool) {
	for _, rule := range m.rules {
		if rule.matches(status, role, action) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Available lists the actions role may take while the transaction is in status.
func (m *Machine) Available(status enums.TransactionStatus, role enums.TransactionRole) []enums.TransactionAction {
	actions := []enums.TransactionAction{}
	for _, rule := range m.rules {
		if rule.From == status && (rule.Role == "" || rule.Role == role) {
			actions = append(actions, rule.Action)
		}
	}
	return actions
}

// Apply runs action as role against state. Actions outside the table leave
// state unchanged and report Applied=false.
func (m *Machine) Apply(state State, role enums.TransactionRole, action enums.TransactionAction) Outcome {
	rule, ok := m.Lookup(state.Status, role, action)
	if !ok {
		return Outcome{State: state}
	}
	next := state
	if rule.To != "" && rule.To != state.Status {
		if rule.To.IsBranch() {
			from := state.Status
			next.BranchedFrom = &from
		}
		next.Status = rule.To
	}
	if rule.Escrow != "" {
		next.Escrow = rule.Escrow
	}
	return Outcome{
		Applied: true,
		Changed: next.Status != state.Status || next.Escrow != state.Escrow,
		Rule:    rule,
		State:   next,
	}
}
