package verify

// SendCodeRequest is the body of POST /verify/send-code
type SendCodeRequest struct {
	Phone string `json:"phone" validate:"required,phone"`
}

// VerifyCodeRequest is the body of POST /verify/verify-code
type VerifyCodeRequest struct {
	Phone string `json:"phone" validate:"required,phone"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// StatusResponse reports the outcome of a verification call
type StatusResponse struct {
	Status    string `json:"status"`
	ExpiresIn int    `json:"expires_in,omitempty"`
}
