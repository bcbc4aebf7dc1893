package models

// All lists every persisted model. sqlite deployments sync the schema from
// this list; Postgres uses the goose migrations.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&Transaction{},
		&TransactionSequence{},
		&Dispute{},
		&DisputeEvidence{},
		&Notification{},
		&WishlistItem{},
	}
}
