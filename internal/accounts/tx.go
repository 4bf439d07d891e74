package accounts

// TxType tags a Tx as either side of a balance movement.
type TxType string

const (
	TxDeposit  TxType = "Deposit"
	TxWithdraw TxType = "Withdraw"
)

// Tx is an append-only, account-level transaction record. Replaying a Tx
// log against an empty Accounts ledger in order reproduces the final
// balances exactly.
type Tx struct {
	Type    TxType `json:"type"`
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}
