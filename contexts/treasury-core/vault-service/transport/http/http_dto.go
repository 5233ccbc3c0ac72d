package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DepositRequest struct {
	DepositorID string `json:"depositor_id,omitempty"`
	Amount      uint64 `json:"amount"`
}

type DepositReceiptDTO struct {
	ReceiptID  string `json:"receipt_id"`
	Depositor  string `json:"depositor,omitempty"`
	Amount     uint64 `json:"amount"`
	Balance    uint64 `json:"balance"`
	RecordedAt string `json:"recorded_at"`
}

type DepositResponse struct {
	Status string            `json:"status"`
	Data   DepositReceiptDTO `json:"data"`
}

type WithdrawRequest struct {
	Recipient       string `json:"recipient"`
	Amount          uint64 `json:"amount"`
	AuthorizationID uint64 `json:"authorization_id"`
	Credential      string `json:"credential"`
}

type WithdrawalReceiptDTO struct {
	ReceiptID        string `json:"receipt_id"`
	Recipient        string `json:"recipient"`
	Amount           uint64 `json:"amount"`
	Balance          uint64 `json:"balance"`
	AuthorizationID  uint64 `json:"authorization_id"`
	AuthorizationKey string `json:"authorization_key"`
	CompletedAt      string `json:"completed_at"`
}

type WithdrawResponse struct {
	Status string               `json:"status"`
	Data   WithdrawalReceiptDTO `json:"data"`
}

type BalanceResponse struct {
	Status string `json:"status"`
	Data   struct {
		VaultID string `json:"vault_id"`
		Balance uint64 `json:"balance"`
	} `json:"data"`
}

type DepositorBalanceResponse struct {
	Status string `json:"status"`
	Data   struct {
		VaultID   string `json:"vault_id"`
		Depositor string `json:"depositor"`
		Balance   uint64 `json:"balance"`
	} `json:"data"`
}

type VaultStatusResponse struct {
	Status string `json:"status"`
	Data   struct {
		VaultID     string `json:"vault_id"`
		DomainID    string `json:"domain_id"`
		Initialized bool   `json:"initialized"`
	} `json:"data"`
}
