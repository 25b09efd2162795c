package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/AlexZinkM/neutaro-wallet/internal/client"
	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/config"
	"github.com/AlexZinkM/neutaro-wallet/internal/crypto"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"
	"github.com/AlexZinkM/neutaro-wallet/internal/validate"
	"github.com/AlexZinkM/neutaro-wallet/neutaro"

	log "github.com/sirupsen/logrus"
)

// Deps are the collaborators a NeutaroHandler works with.
type Deps struct {
	KeystorePath  string
	PriceCurrency string
	Password      *config.PasswordHolder
	Chain         neutaro.BalanceSource
	Prices        neutaro.PriceSource // optional
	Receipts      neutaro.ReceiptLister
	Sender        *neutaro.Sender
	KeystoreOpts  []crypto.Option

	// AllowOverride lets request bodies skip the allowlist and the
	// confirmation threshold. Off unless the operator starts the server
	// with --allow-override.
	AllowOverride bool
}

// NeutaroHandler serves the wallet over HTTP
type NeutaroHandler struct {
	deps Deps
}

// NewNeutaroHandler creates a new NeutaroHandler
func NewNeutaroHandler(deps Deps) (*NeutaroHandler, error) {
	if deps.Password == nil {
		return nil, errors.New("password holder is required")
	}
	if deps.Chain == nil || deps.Receipts == nil || deps.Sender == nil {
		return nil, errors.New("chain client, receipt store and sender are required")
	}
	return &NeutaroHandler{deps: deps}, nil
}

// Generate handles POST /neutaro/generate
// @Summary      Generate new wallet
// @Description  Generates a new 24-word Neutaro wallet and saves it to the encrypted keystore. Back up the seed phrase with the export command.
// @Tags         neutaro
// @Accept       json
// @Produce      json
// @Success      200  {object}  model.GenerateResponse
// @Failure      409  {object}  model.ErrorResponse
// @Failure      415  {object}  model.ErrorResponse
// @Router       /neutaro/generate [post]
func (h *NeutaroHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. should be POST", http.StatusMethodNotAllowed)
		return
	}
	if !requireJSON(w, r) {
		return
	}

	// Get password as []byte, use it, then zero it immediately
	passwordBytes, err := h.deps.Password.Bytes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.CodeInternal, err)
		return
	}
	defer clear(passwordBytes)

	address, mnemonic, err := neutaro.GenerateWallet(h.deps.KeystorePath, passwordBytes, h.deps.KeystoreOpts...)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	// never sent over HTTP
	clear(mnemonic)

	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Success: true,
		Message: "Wallet generated successfully. Run 'neutaro-wallet export' to back up the seed phrase.",
		Address: address,
	})
}

// GetBalance handles GET /neutaro/balance
// @Summary      Get wallet balance
// @Description  Gets the NTMPI balance of the wallet, or of the given address, with an optional fiat value
// @Tags         neutaro
// @Produce      json
// @Param        address  query     string  false  "Address to query instead of the wallet address"
// @Success      200      {object}  model.BalanceResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /neutaro/balance [get]
func (h *NeutaroHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	address := r.URL.Query().Get("address")
	if address != "" {
		if err := validate.Address(address); err != nil {
			writeMappedError(w, err)
			return
		}
	}

	balance, err := neutaro.GetBalance(r.Context(), h.deps.KeystorePath, address, h.deps.Chain, h.deps.Prices, h.deps.PriceCurrency)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balance)
}

// Pay handles POST /neutaro/pay
// @Summary      Send NTMPI
// @Description  Sends NTMPI to the specified address after the limit and allowlist checks. overrideAllowlist and confirm are ignored unless the server runs with --allow-override.
// @Tags         neutaro
// @Accept       json
// @Produce      json
// @Param        request  body      model.PayRequest  true  "Payment data"
// @Success      200      {object}  model.PayResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      403      {object}  model.ErrorResponse
// @Failure      415      {object}  model.ErrorResponse
// @Failure      428      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Failure      504      {object}  model.ErrorResponse
// @Router       /neutaro/pay [post]
func (h *NeutaroHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}
	if !requireJSON(w, r) {
		return
	}

	var req model.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err)
		return
	}

	passwordBytes, err := h.deps.Password.Bytes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.CodeInternal, err)
		return
	}
	defer clear(passwordBytes) // Always clear password from memory

	unit := common.UnitDisplay
	if req.BaseUnits {
		unit = common.UnitBase
	}

	override, confirmed := req.OverrideAllowlist, req.Confirm
	if !h.deps.AllowOverride && (override || confirmed) {
		log.WithField("to", req.ToAddress).Warn("ignoring overrideAllowlist/confirm: server started without --allow-override")
		override, confirmed = false, false
	}

	receipt, err := h.deps.Sender.Send(r.Context(), neutaro.SendRequest{
		To:                req.ToAddress,
		Amount:            req.Amount,
		Unit:              unit,
		Memo:              req.Memo,
		Password:          passwordBytes,
		OverrideAllowlist: override,
		Confirmed:         confirmed,
	})
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.PayResponse{
		TxHash:  receipt.TxHash,
		Height:  receipt.Height,
		GasUsed: receipt.GasUsed,
		Amount:  receipt.DisplayAmount,
	})
}

// Receive handles GET /neutaro/receive
// @Summary      Receive NTMPI
// @Description  Returns the wallet address with a neutaro: payment URI and its QR code
// @Tags         neutaro
// @Produce      json
// @Param        amount  query     string  false  "Requested amount in NTMPI"
// @Param        memo    query     string  false  "Requested memo"
// @Success      200     {object}  model.ReceiveResponse
// @Failure      404     {object}  model.ErrorResponse
// @Router       /neutaro/receive [get]
func (h *NeutaroHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	resp, err := neutaro.Receive(h.deps.KeystorePath, r.URL.Query().Get("amount"), r.URL.Query().Get("memo"))
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// TransactionHistory handles GET /neutaro/transactions
// @Summary      Get wallet transactions
// @Description  Gets the receipts of transactions sent from this wallet, newest first
// @Tags         neutaro
// @Produce      json
// @Param        type       query     string   false  "Receipt type: send or receive"
// @Param        txHash     query     string   false  "Transaction hash"
// @Param        status     query     string   false  "Status: confirmed, pending or failed"
// @Param        from       query     string   false  "Start date (YYYY-MM-DD)"
// @Param        to         query     string   false  "End date (YYYY-MM-DD)"
// @Param        minAmount  query     string   false  "Minimum amount in NTMPI"
// @Param        maxAmount  query     string   false  "Maximum amount in NTMPI"
// @Param        limit      query     int      false  "Maximum number of receipts"
// @Success      200  {object}  model.LogResponse
// @Failure      400  {object}  model.ErrorResponse
// @Router       /neutaro/transactions [get]
func (h *NeutaroHandler) TransactionHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	req, err := parseLogRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err)
		return
	}

	// Validate
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err)
		return
	}

	logResp, err := neutaro.GetTransactions(h.deps.KeystorePath, h.deps.Receipts, req)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, logResp)
}

func parseLogRequest(r *http.Request) (*model.LogRequest, error) {
	var req model.LogRequest
	q := r.URL.Query()

	// Parse date parameters (YYYY-MM-DD)
	const dateLayout = "2006-01-02"
	if fromStr := q.Get("from"); fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return nil, errors.New("invalid from date: use YYYY-MM-DD (e.g. 2006-01-02)")
		}
		req.From = &t
	}
	if toStr := q.Get("to"); toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return nil, errors.New("invalid to date: use YYYY-MM-DD (e.g. 2006-01-02)")
		}
		// End of day so filter is inclusive
		t = t.Add(24*time.Hour - time.Nanosecond)
		req.To = &t
	}

	if typeStr := q.Get("type"); typeStr != "" {
		receiptType := model.ReceiptType(typeStr)
		req.Type = &receiptType
	}
	if statusStr := q.Get("status"); statusStr != "" {
		status := model.ReceiptStatus(statusStr)
		req.Status = &status
	}
	if txHash := q.Get("txHash"); txHash != "" {
		req.TxHash = &txHash
	}

	if minAmount := q.Get("minAmount"); minAmount != "" {
		req.MinAmount = &minAmount
	}
	if maxAmount := q.Get("maxAmount"); maxAmount != "" {
		req.MaxAmount = &maxAmount
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, errors.New("invalid limit: must be a whole number")
		}
		req.Limit = limit
	}

	return &req, nil
}

// requireJSON refuses bodies a browser can send cross-origin without a
// preflight (text/plain, form encodings).
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		writeError(w, http.StatusUnsupportedMediaType, model.CodeInvalidRequest,
			errors.New("Content-Type must be application/json"))
		return false
	}
	return true
}

// errorStatus maps an error to its HTTP status and ErrorResponse code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidAmount):
		return http.StatusBadRequest, model.CodeInvalidAmount
	case errors.Is(err, validate.ErrInvalidAddress):
		return http.StatusBadRequest, model.CodeInvalidAddress
	case errors.Is(err, validate.ErrInvalidMemo):
		return http.StatusBadRequest, model.CodeInvalidMemo
	case errors.Is(err, validate.ErrWeakPassword):
		return http.StatusBadRequest, model.CodeWeakPassword
	case errors.Is(err, validate.ErrInvalidSeedPhrase):
		return http.StatusBadRequest, model.CodeInvalidSeedPhrase
	case errors.Is(err, crypto.ErrKeystoreExists):
		return http.StatusConflict, model.CodeKeystoreExists
	case errors.Is(err, crypto.ErrKeystoreNotFound):
		return http.StatusNotFound, model.CodeKeystoreNotFound
	case errors.Is(err, crypto.ErrDecryptionFailed):
		return http.StatusUnauthorized, model.CodeDecryptionFailed
	case errors.Is(err, crypto.ErrCorruptKeystore):
		return http.StatusInternalServerError, model.CodeCorruptKeystore
	case errors.Is(err, crypto.ErrUnsupportedVersion):
		return http.StatusInternalServerError, model.CodeUnsupportedVersion
	case neutaro.IsPolicyDeniedError(err):
		return http.StatusForbidden, model.CodePolicyDenied
	case errors.Is(err, neutaro.ErrConfirmationRequired):
		return http.StatusPreconditionRequired, model.CodeConfirmationRequired
	case errors.Is(err, neutaro.ErrLimitExceeded):
		return http.StatusUnprocessableEntity, model.CodeLimitExceeded
	case neutaro.IsCooldownError(err):
		return http.StatusTooManyRequests, model.CodeCooldown
	case errors.Is(err, neutaro.ErrTxRejected):
		return http.StatusBadGateway, model.CodeTxRejected
	case errors.Is(err, neutaro.ErrTxPending):
		return http.StatusGatewayTimeout, model.CodeTxPending
	}

	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		return http.StatusBadGateway, model.CodeChainUnavailable
	}
	return http.StatusInternalServerError, model.CodeInternal
}

func writeMappedError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithField("code", code).Error("request failed")
	}
	writeError(w, status, code, err)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
