package bravia

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"braviad/internal"
	"braviad/internal/logger"
)

// defaultTimeout is deliberately short: the television is a LAN device
// and must answer quickly or be considered unreachable
const defaultTimeout = 1 * time.Second

const (
	pskHeader      = "X-Auth-PSK"
	soapActionName = "SOAPAction"
	// The SOAP action header is attached to every request; REST
	// endpoints ignore it
	soapActionValue = `"urn:schemas-sony-com:service:IRCC:1#X_SendIRCC"`
)

// BraviaClient performs single HTTP POSTs against the television.
// It owns no retry policy; that lives in the session poll loop.
type BraviaClient struct {
	httpClient *http.Client
	host       string
	credential string
	debug      bool
	logger     zerolog.Logger
}

// NewBraviaClient creates a new transport for one television
func NewBraviaClient(host string, credential string, options *internal.FnModeOptions) *BraviaClient {
	if options == nil {
		options = internal.NewModeOptions()
	}
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &BraviaClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		host:       host,
		credential: credential,
		debug:      options.Debug,
		logger:     logger.GetLogger("bravia.client"),
	}
}

// Host returns the device address this client talks to
func (c *BraviaClient) Host() string {
	return c.host
}

// Post sends one request body to a service path and returns the raw
// response body. Network-level failures are reported as ErrUnreachable;
// non-200 statuses are classified by classifyStatus.
func (c *BraviaClient) Post(service BraviaService, contentType string, body []byte) ([]byte, error) {
	url := fmt.Sprintf("http://%s/sony/%s", c.host, service)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set(pskHeader, c.credential)
	req.Header.Set(soapActionName, soapActionValue)

	if c.debug {
		c.logger.Debug().
			Str("url", url).
			Str("body", string(body)).
			Msg("Sending request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnreachable, err)
	}

	if resp.StatusCode != http.StatusOK {
		if c.debug {
			c.logger.Debug().
				Int("status", resp.StatusCode).
				Str("body", string(respBody)).
				Msg("Request failed")
		}
		return nil, classifyStatus(resp.StatusCode, string(respBody))
	}

	if c.debug {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Msg("Request successful")
	}

	return respBody, nil
}
