package enums

import "testing"

func TestTransactionTabIncludes(t *testing.T) {
	cases := []struct {
		tab    TransactionTab
		status TransactionStatus
		want   bool
	}{
		{TransactionTabAll, TransactionStatusRefunded, true},
		{TransactionTabActive, TransactionStatusPending, true},
		{TransactionTabActive, TransactionStatusShipped, true},
		{TransactionTabActive, TransactionStatusDelivered, false},
		{TransactionTabCompleted, TransactionStatusCompleted, true},
		{TransactionTabDisputed, TransactionStatusCancelled, false},
		{TransactionTabCancelled, TransactionStatusCancelled, true},
	}
	for _, tc := range cases {
		if got := tc.tab.Includes(tc.status); got != tc.want {
			t.Fatalf("tab %s status %s: expected %v got %v", tc.tab, tc.status, tc.want, got)
		}
	}
}

func TestAmountBucketBounds(t *testing.T) {
	min, max, ok := AmountBucketAbove500.Bounds()
	if !ok || min != 500 || max != nil {
		t.Fatalf("unexpected open bucket bounds min=%v max=%v ok=%v", min, max, ok)
	}
	min, max, ok = AmountBucket50To200.Bounds()
	if !ok || min != 50 || max == nil || *max != 200 {
		t.Fatalf("unexpected 50-200 bounds")
	}
	if _, err := ParseAmountBucket("1000+"); err == nil {
		t.Fatalf("expected unknown bucket to fail")
	}
}

func TestParseTransactionRoleAliases(t *testing.T) {
	if r, err := ParseTransactionRole("buying"); err != nil || r != TransactionRoleBuyer {
		t.Fatalf("buying should map to buyer, got %q err=%v", r, err)
	}
	if r, err := ParseTransactionRole("selling"); err != nil || r != TransactionRoleSeller {
		t.Fatalf("selling should map to seller, got %q err=%v", r, err)
	}
	if _, err := ParseTransactionRole("admin"); err == nil {
		t.Fatalf("admin is not a transaction role")
	}
}

func TestStatusClassification(t *testing.T) {
	if !TransactionStatusCompleted.IsTerminal() || TransactionStatusDisputed.IsTerminal() {
		t.Fatalf("completed is terminal, disputed is semi-terminal")
	}
	if !TransactionStatusDisputed.IsBranch() || TransactionStatusCompleted.IsBranch() {
		t.Fatalf("unexpected branch classification")
	}
	if ShieldFor(RiskLevelLow) != ScamShieldSafe || ShieldFor(RiskLevelHigh) != ScamShieldDanger {
		t.Fatalf("unexpected shield mapping")
	}
}
