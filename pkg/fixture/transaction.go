package fixture

// Transaction is a budget entry as stored in the transactions collection.
type Transaction struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      int    `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

// TransactionUpdate is the partial document sent when editing a transaction.
type TransactionUpdate struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      int    `json:"amount"`
}

// NewTransaction returns a random transaction dated today.
func (f *Fixtures) NewTransaction() Transaction {
	return Transaction{
		ID:          f.NewID(),
		Description: "Test Transaction " + f.RandomString(8),
		Amount:      f.amount(),
		Type:        transactionTypes[f.rng.Intn(len(transactionTypes))],
		Category:    categories[f.rng.Intn(len(categories))],
		Date:        f.now().Format(DateLayout),
	}
}

// UpdatedTransaction returns a random edit for the transaction with the given ID.
func (f *Fixtures) UpdatedTransaction(id string) TransactionUpdate {
	return TransactionUpdate{
		ID:          id,
		Description: "Updated Transaction " + f.RandomString(8),
		Amount:      f.amount(),
	}
}

// amount returns a value in [10, 1000].
func (f *Fixtures) amount() int {
	return 10 + f.rng.Intn(991)
}
