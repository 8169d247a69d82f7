package frame

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/cc-courses/internal/logger"
)

const (
	// DefaultHubURL is a public Farcaster hub HTTP API.
	DefaultHubURL = "https://hub.pinata.cloud"
	hubTimeout    = 10 * time.Second

	signerEventAdd    = "SIGNER_EVENT_TYPE_ADD"
	signerEventRemove = "SIGNER_EVENT_TYPE_REMOVE"
)

// HubKeyChecker asks a Farcaster hub for the fid's on-chain signer events.
type HubKeyChecker struct {
	hubURL string
	client *http.Client
}

var _ KeyChecker = (*HubKeyChecker)(nil)

// NewHubKeyChecker creates a checker against hubURL (DefaultHubURL if empty).
func NewHubKeyChecker(hubURL string) *HubKeyChecker {
	if hubURL == "" {
		hubURL = DefaultHubURL
	}
	return &HubKeyChecker{
		hubURL: strings.TrimRight(hubURL, "/"),
		client: &http.Client{Timeout: hubTimeout},
	}
}

type onChainSignersResponse struct {
	Events []struct {
		BlockNumber     int64 `json:"blockNumber"`
		SignerEventBody struct {
			Key       string `json:"key"`
			EventType string `json:"eventType"`
		} `json:"signerEventBody"`
	} `json:"events"`
}

// IsActiveAppKey reports whether the latest signer event for key is an add.
func (h *HubKeyChecker) IsActiveAppKey(ctx context.Context, fid int64, key string) (bool, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("frame.hub_lookup", time.Since(start)) }()

	endpoint := h.hubURL + "/v1/onChainSignersByFid?" + url.Values{"fid": {strconv.FormatInt(fid, 10)}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("querying hub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("hub returned status %d", resp.StatusCode)
	}

	var signers onChainSignersResponse
	if err := json.NewDecoder(resp.Body).Decode(&signers); err != nil {
		return false, fmt.Errorf("decoding hub response: %w", err)
	}

	active := false
	var latest int64 = -1
	for _, ev := range signers.Events {
		if !strings.EqualFold(ev.SignerEventBody.Key, key) || ev.BlockNumber < latest {
			continue
		}
		latest = ev.BlockNumber
		switch ev.SignerEventBody.EventType {
		case signerEventAdd:
			active = true
		case signerEventRemove:
			active = false
		}
	}

	logger.Debug("checked app key", logger.Fields{"fid": fid, "active": active, "events": len(signers.Events)})
	return active, nil
}

// AnyKey accepts every key. Only for local development.
type AnyKey struct{}

func (AnyKey) IsActiveAppKey(context.Context, int64, string) (bool, error) {
	return true, nil
}
