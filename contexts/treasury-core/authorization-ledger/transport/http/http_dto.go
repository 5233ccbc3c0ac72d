package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ConsumeRequest struct {
	Recipient       string `json:"recipient"`
	Amount          uint64 `json:"amount"`
	AuthorizationID uint64 `json:"authorization_id"`
	Credential      string `json:"credential"`
}

type ConsumptionDTO struct {
	AuthorizationKey string `json:"authorization_key"`
	VaultID          string `json:"vault_id"`
	Recipient        string `json:"recipient"`
	Amount           uint64 `json:"amount"`
	AuthorizationID  uint64 `json:"authorization_id"`
	DomainID         string `json:"domain_id"`
	ConsumedAt       string `json:"consumed_at"`
}

type ConsumeResponse struct {
	Status string         `json:"status"`
	Data   ConsumptionDTO `json:"data"`
}

type StatusRequest struct {
	Recipient       string
	Amount          uint64
	AuthorizationID uint64
}

type StatusResponse struct {
	Status string `json:"status"`
	Data   struct {
		AuthorizationKey string `json:"authorization_key"`
		Consumed         bool   `json:"consumed"`
	} `json:"data"`
}
