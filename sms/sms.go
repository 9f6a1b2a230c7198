// Package sms is the OTP delivery collaborator. The real provider sits
// behind SMS_API_URL; without it the message is only logged, which keeps
// local development working.
package sms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "sms").Logger()

type Sender interface {
	Send(phone, message string) error
}

type Client struct {
	apiURL string
	apiKey string
	sender string
	http   *http.Client
}

func NewClient() *Client {
	return &Client{
		apiURL: os.Getenv("SMS_API_URL"),
		apiKey: os.Getenv("SMS_API_KEY"),
		sender: os.Getenv("SMS_SENDER_ID"),
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send delivers the message to the phone via the configured provider.
func (c *Client) Send(phone, message string) error {
	if c.apiURL == "" {
		logger.Info().Str("phone", phone).Str("message", message).Msg("SMS_API_URL not set, skipping delivery")
		return nil
	}

	payload := map[string]string{
		"to":      phone,
		"message": message,
		"sender":  c.sender,
	}
	jsonData, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach SMS provider: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms API error (%d): %s", resp.StatusCode, string(body))
	}

	logger.Info().Str("phone", phone).Msg("sms delivered")
	return nil
}
