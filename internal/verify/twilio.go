package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioVerifyBaseURL = "https://verify.twilio.com/v2"

// TwilioGateway talks to the Twilio Verify REST API. Construct it once at
// startup and share it; the embedded http.Client is safe for concurrent use.
type TwilioGateway struct {
	accountSID string
	authToken  string
	serviceSID string
	baseURL    string
	httpClient *http.Client
}

// NewTwilioGateway constructs a TwilioGateway from provider credentials.
func NewTwilioGateway(accountSID, authToken, serviceSID string) *TwilioGateway {
	return &TwilioGateway{
		accountSID: accountSID,
		authToken:  authToken,
		serviceSID: serviceSID,
		baseURL:    twilioVerifyBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type twilioVerificationResponse struct {
	Sid    string `json:"sid"`
	Status string `json:"status"`
	Valid  bool   `json:"valid"`
}

type twilioErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SendCode asks the provider to dispatch an OTP over SMS. Rapid repeats for
// the same number may be rejected by provider-side rate limiting; that
// surfaces as a GatewayError and is not retried here.
func (g *TwilioGateway) SendCode(ctx context.Context, phone string) (SendResult, error) {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Channel", "sms")

	endpoint := fmt.Sprintf("%s/Services/%s/Verifications", g.baseURL, g.serviceSID)
	var parsed twilioVerificationResponse
	if err := g.post(ctx, "send", endpoint, form, &parsed); err != nil {
		return SendResult{}, err
	}

	return SendResult{AttemptID: parsed.Sid, Status: parsed.Status}, nil
}

// CheckCode submits an OTP for validation. An expired, wrong, or
// already-consumed code comes back as Approved=false, not an error.
func (g *TwilioGateway) CheckCode(ctx context.Context, phone, code string) (CheckResult, error) {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Code", code)

	endpoint := fmt.Sprintf("%s/Services/%s/VerificationCheck", g.baseURL, g.serviceSID)
	var parsed twilioVerificationResponse
	if err := g.post(ctx, "check", endpoint, form, &parsed); err != nil {
		return CheckResult{}, err
	}

	return CheckResult{Approved: parsed.Status == "approved", Status: parsed.Status}, nil
}

func (g *TwilioGateway) post(ctx context.Context, op, endpoint string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio %s request build: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(g.accountSID, g.authToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &GatewayError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var twErr twilioErrorResponse
		_ = json.Unmarshal(body, &twErr)
		return &GatewayError{Op: op, StatusCode: resp.StatusCode, Code: twErr.Code, Message: twErr.Message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &GatewayError{Op: op, StatusCode: resp.StatusCode, Message: "unexpected response body"}
	}

	return nil
}
