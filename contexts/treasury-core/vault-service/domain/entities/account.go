package entities

import "time"

// VaultAccount is the single authoritative pool balance. It never goes
// negative and never exceeds total deposits minus total withdrawals.
type VaultAccount struct {
	VaultID   string
	Balance   uint64
	UpdatedAt time.Time
}

// DepositorBalance is an informational per-depositor sub-balance. It is not
// enforced as a withdrawal limit.
type DepositorBalance struct {
	VaultID   string
	Depositor string
	Balance   uint64
	UpdatedAt time.Time
}
