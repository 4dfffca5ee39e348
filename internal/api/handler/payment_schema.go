package handler

type initiatePaymentRequest struct {
	Amount   float64 `json:"amount"   validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"required,len=3"`
	Phone    string  `json:"phone"    validate:"required"`
	Provider string  `json:"provider" validate:"required,oneof=orange_money mtn_momo moov_money wave"`
}

type initiatePaymentResponse struct {
	TransactionID string `json:"transaction_id"`
	State         string `json:"state"`
}

type paymentStatusResponse struct {
	TransactionID string `json:"transaction_id"`
	State         string `json:"state"`
	Message       string `json:"message,omitempty"`
}
