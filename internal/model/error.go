package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error codes returned in ErrorResponse.Code
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidAmount        = "INVALID_AMOUNT"
	CodeInvalidAddress       = "INVALID_ADDRESS"
	CodeInvalidMemo          = "INVALID_MEMO"
	CodeWeakPassword         = "WEAK_PASSWORD"
	CodeInvalidSeedPhrase    = "INVALID_SEED_PHRASE"
	CodeKeystoreExists       = "KEYSTORE_EXISTS"
	CodeKeystoreNotFound     = "KEYSTORE_NOT_FOUND"
	CodeDecryptionFailed     = "DECRYPTION_FAILED"
	CodeCorruptKeystore      = "CORRUPT_KEYSTORE"
	CodeUnsupportedVersion   = "UNSUPPORTED_VERSION"
	CodePolicyDenied         = "POLICY_DENIED"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeLimitExceeded        = "LIMIT_EXCEEDED"
	CodeCooldown             = "COOLDOWN"
	CodeTxRejected           = "TX_REJECTED"
	CodeTxPending            = "TX_PENDING"
	CodeChainUnavailable     = "CHAIN_UNAVAILABLE"
	CodeInternal             = "INTERNAL"
)
