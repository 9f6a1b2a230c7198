// Package gateway talks to the hosted payment page provider. Initiate
// creates a gateway order and returns the redirect URL + reference;
// VerifySignature checks the callback checksum. Sandbox mode skips the
// signature check so local callbacks can be tested.
package gateway

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "gateway").Logger()

// InitiateResult is what the checkout flow needs back from the provider.
type InitiateResult struct {
	PaymentURL string
	GatewayRef string
	Raw        string
}

type gatewayResponse struct {
	Order struct {
		Ref string `json:"ref"`
		URL string `json:"url"`
	} `json:"order"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func config() (storeID, authKey, apiURL string, sandbox bool, err error) {
	storeID = os.Getenv("GATEWAY_STORE_ID")
	authKey = os.Getenv("GATEWAY_AUTH_KEY")
	apiURL = os.Getenv("GATEWAY_API_URL")

	mode := strings.ToLower(os.Getenv("GATEWAY_MODE"))
	sandbox = mode == "sandbox" || mode == "dev"

	if storeID == "" || authKey == "" || apiURL == "" {
		return "", "", "", false, fmt.Errorf("gateway configuration missing")
	}
	return storeID, authKey, apiURL, sandbox, nil
}

// Initiate registers the order with the gateway and returns the hosted
// payment URL plus the gateway's reference.
func Initiate(orderNumber string, amount float64, customerName, customerPhone string) (*InitiateResult, error) {
	storeID, authKey, apiURL, sandbox, err := config()
	if err != nil {
		return nil, err
	}

	test := 0
	if sandbox {
		test = 1
	}

	payload := map[string]interface{}{
		"method":  "create",
		"store":   storeID,
		"authkey": authKey,
		"order": map[string]interface{}{
			"cartid":   orderNumber,
			"test":     test,
			"amount":   fmt.Sprintf("%.2f", amount),
			"currency": currency(),
		},
		"customer": map[string]string{
			"name":  customerName,
			"phone": customerPhone,
		},
		"return": map[string]string{
			"authorised": os.Getenv("GATEWAY_SUCCESS_URL"),
			"declined":   os.Getenv("GATEWAY_FAILURE_URL"),
			"cancelled":  os.Getenv("GATEWAY_CANCEL_URL"),
		},
	}

	jsonData, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", apiURL, bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach gateway: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway API error (%d): %s", resp.StatusCode, string(body))
	}

	var gwResp gatewayResponse
	if err := json.Unmarshal(body, &gwResp); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %v", err)
	}
	if gwResp.Error != nil {
		return nil, fmt.Errorf("gateway error: %s", gwResp.Error.Message)
	}
	if gwResp.Order.URL == "" {
		return nil, fmt.Errorf("gateway returned empty payment URL")
	}

	logger.Info().Str("order", orderNumber).Str("ref", gwResp.Order.Ref).Msg("gateway order created")
	return &InitiateResult{
		PaymentURL: gwResp.Order.URL,
		GatewayRef: gwResp.Order.Ref,
		Raw:        string(body),
	}, nil
}

// signedFields is the ordered field list the provider hashes into the
// callback checksum.
var signedFields = []string{
	"txn_store", "txn_type", "txn_ref", "txn_order", "txn_currency",
	"txn_amount", "txn_cartid", "txn_status", "txn_authcode",
}

// VerifySignature recomputes the SHA-1 checksum over the callback fields and
// compares it against the provided one. Sandbox mode always passes.
func VerifySignature(form map[string]string, providedCheck string) bool {
	mode := strings.ToLower(os.Getenv("GATEWAY_MODE"))
	if mode == "sandbox" || mode == "dev" {
		logger.Warn().Msg("sandbox mode: skipping gateway signature verification")
		return true
	}

	secret := os.Getenv("GATEWAY_WEBHOOK_SECRET")
	if secret == "" || providedCheck == "" {
		return false
	}

	parts := []string{secret}
	for _, f := range signedFields {
		parts = append(parts, strings.TrimSpace(form[f]))
	}

	h := sha1.New()
	h.Write([]byte(strings.Join(parts, ":")))
	calculated := hex.EncodeToString(h.Sum(nil))

	return strings.EqualFold(calculated, providedCheck)
}

func currency() string {
	if c := os.Getenv("GATEWAY_CURRENCY"); c != "" {
		return c
	}
	return "INR"
}
