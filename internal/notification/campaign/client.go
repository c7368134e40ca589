// Package campaign wraps the outbound campaign-send HTTP API used for
// WhatsApp template messages to parents and staff.
package campaign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/phone"
)

type Client struct {
	apiURL string
	apiKey string
	http   *http.Client
	log    *logger.Logger
}

type sendRequest struct {
	APIKey         string   `json:"apiKey"`
	CampaignName   string   `json:"campaignName"`
	Destination    string   `json:"destination"`
	UserName       string   `json:"userName"`
	TemplateParams []string `json:"templateParams"`
	Media          *Media   `json:"media,omitempty"`
}

// Media attaches a document or image to a campaign message.
type Media struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// NewClient returns nil when the campaign API is not configured; a nil
// client reports every send as unavailable rather than panicking.
func NewClient(cfg config.CampaignConfig, log *logger.Logger) *Client {
	if !cfg.IsCampaignEnabled() {
		return nil
	}

	return &Client{
		apiURL: strings.TrimRight(cfg.GetCampaignAPIURL(), "/"),
		apiKey: cfg.GetCampaignAPIKey(),
		http:   &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// Send posts one campaign message. destination must be a raw phone number;
// it is normalized before dispatch. A non-2xx response is an error.
func (c *Client) Send(ctx context.Context, campaignName, destination, userName string, templateParams []string, media *Media) error {
	if c == nil {
		return fmt.Errorf("campaign api not configured")
	}

	payload := sendRequest{
		APIKey:         c.apiKey,
		CampaignName:   campaignName,
		Destination:    phone.Digits(destination),
		UserName:       userName,
		TemplateParams: templateParams,
		Media:          media,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal campaign payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("campaign request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("campaign api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("campaign message sent", "campaign", campaignName)
	return nil
}
