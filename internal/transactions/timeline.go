package transactions

import "github.com/swapsafe/swapsafe-backend/pkg/enums"

// Checkpoint is one step of a projected timeline. Terminal marks the branch
// lane entry appended for disputed, cancelled and refunded transactions.
type Checkpoint struct {
	Status    enums.TransactionStatus `json:"status"`
	Completed bool                    `json:"completed"`
	Current   bool                    `json:"current"`
	Terminal  bool                    `json:"terminal,omitempty"`
}

var linearLane = []enums.TransactionStatus{
	enums.TransactionStatusPending,
	enums.TransactionStatusProcessing,
	enums.TransactionStatusShipped,
	enums.TransactionStatusDelivered,
}

func linearRank(status enums.TransactionStatus) int {
	if status == enums.TransactionStatusCompleted {
		return len(linearLane) - 1
	}
	for i, s := range linearLane {
		if s == status {
			return i
		}
	}
	return -1
}

// Project renders the timeline for a transaction in status. branchedFrom is
// the linear status a branch status was entered from; it is ignored for
// linear statuses and defaults to pending for branch statuses.
func Project(status enums.TransactionStatus, branchedFrom *enums.TransactionStatus) []Checkpoint {
	if status.IsBranch() {
		return projectBranch(status, branchedFrom)
	}
	rank := linearRank(status)
	if rank < 0 {
		rank = 0
	}
	out := make([]Checkpoint, 0, len(linearLane))
	for i, slot := range linearLane {
		if i == len(linearLane)-1 && status == enums.TransactionStatusCompleted {
			slot = enums.TransactionStatusCompleted
		}
		out = append(out, Checkpoint{
			Status:    slot,
			Completed: i < rank || (i == rank && status.IsTerminal()),
			Current:   i == rank,
		})
	}
	return out
}

func projectBranch(status enums.TransactionStatus, branchedFrom *enums.TransactionStatus) []Checkpoint {
	reached := 0
	if branchedFrom != nil {
		if rank := linearRank(*branchedFrom); rank >= 0 {
			reached = rank
		}
	}
	out := make([]Checkpoint, 0, reached+2)
	for i := 0; i <= reached; i++ {
		out = append(out, Checkpoint{Status: linearLane[i], Completed: true})
	}
	return append(out, Checkpoint{
		Status:    status,
		Completed: status.IsTerminal(),
		Current:   true,
		Terminal:  true,
	})
}
