package accounts

import "fmt"

// NotFoundError is returned when an operation references a signer that has
// never successfully deposited.
type NotFoundError struct {
	Signer string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account not found: %s", e.Signer)
}

// OverFundedError is returned when a deposit would overflow a balance.
type OverFundedError struct {
	Signer string
	Amount uint64
}

func (e *OverFundedError) Error() string {
	return fmt.Sprintf("account over funded: depositing %d into %s would overflow", e.Amount, e.Signer)
}

// UnderFundedError is returned when a withdrawal (or a sell-side solvency
// precheck) would take a balance below zero.
type UnderFundedError struct {
	Signer string
	Amount uint64
}

func (e *UnderFundedError) Error() string {
	return fmt.Sprintf("account under funded: %s cannot cover %d", e.Signer, e.Amount)
}
