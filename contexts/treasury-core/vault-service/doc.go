// Package vaultservice implements the vault inside the treasury-core
// context.
//
// The module has custody of the pooled balance and is the only component
// allowed to move funds. Every withdrawal is gated on the authorization
// ledger's verdict, the balance debit commits strictly before the outbound
// transfer, and a failed transfer is compensated inside the same critical
// section. Deposits, balances, and the one-shot ledger binding live here too.
package vaultservice
