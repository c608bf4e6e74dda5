package event

const PhoneVerifiedDestination string = "phone_verified"
const PhoneVerifiedConsumerAudit string = "phone_verified_audit"

type PhoneVerifiedMessage struct {
	AccountID  int64  `json:"account_id"`
	Phone      string `json:"phone"`
	NewAccount bool   `json:"new_account"`
	VerifiedAt int64  `json:"verified_at"`
	ClientIP   string `json:"client_ip,omitempty"`
}
