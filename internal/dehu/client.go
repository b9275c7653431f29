// Package dehu is a client for the LEMA web service of the DEHú notification authority.
// It covers the four operations the synchronization needs and nothing more.
package dehu

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"dehusync/internal/model"
)

// Wire names of the remote operations.
const (
	OpLocate          = "localiza"
	OpRequestAccess   = "peticionAcceso"
	OpQueryAttachment = "consultaAnexos"
	OpQueryReceiptPDF = "consultaAcusePdf"
)

// ExtraHeaders are attached to every request sent to the service.
// net/http computes the real Content-Length of the wire request itself.
var ExtraHeaders = map[string]string{
	"Expect":         "100-continue",
	"Content-Length": "0",
}

// Service is an authenticated session to the remote notification service.
type Service interface {
	Locate(ctx context.Context, req LocateRequest) (*LocateResponse, error)
	RequestAccess(ctx context.Context, req RequestAccessRequest) (*RequestAccessResponse, error)
	QueryAttachment(ctx context.Context, req QueryAttachmentRequest) (*QueryAttachmentResponse, error)
	QueryReceiptPDF(ctx context.Context, req QueryReceiptRequest) (*QueryReceiptResponse, error)
}

// Factory builds sessions from a configuration record.
type Factory interface {
	New(ctx context.Context, cfg *model.Configuration) (Service, error)
}

// HTTPFactory builds SOAP sessions over HTTP.
type HTTPFactory struct {
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Factory = (*HTTPFactory)(nil)

// NewFactory creates a factory. A nil httpClient gets a traced client with transport defaults.
func NewFactory(httpClient *http.Client, logger *zap.Logger) *HTTPFactory {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPFactory{httpClient: httpClient, logger: logger.Named("dehu")}
}

// New loads the service descriptor at the configuration endpoint and returns a session bound
// to the address it publishes. Every failure is returned as *ClientCreationError.
func (f *HTTPFactory) New(ctx context.Context, cfg *model.Configuration) (Service, error) {
	svc, err := f.newClient(ctx, cfg)
	if err != nil {
		f.logger.Error("error creating DEHU client", zap.Error(err))
		return nil, &ClientCreationError{Err: err}
	}
	return svc, nil
}

func (f *HTTPFactory) newClient(ctx context.Context, cfg *model.Configuration) (*client, error) {
	if cfg == nil {
		return nil, ErrEndpointRequired
	}
	endpoint := cfg.EndpointURL()
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	descriptorURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint url: %w", err)
	}

	address, err := f.loadAddress(ctx, descriptorURL.String())
	if err != nil {
		return nil, err
	}
	if address == "" {
		base := *descriptorURL
		base.RawQuery = ""
		address = base.String()
	}

	return &client{
		httpClient: f.httpClient,
		address:    address,
		apiKey:     cfg.APIKey,
		logger:     f.logger.With(zap.String("address", address)),
	}, nil
}

func (f *HTTPFactory) loadAddress(ctx context.Context, descriptorURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, descriptorURL, nil)
	if err != nil {
		return "", fmt.Errorf("create descriptor request: %w", err)
	}
	setExtraHeaders(req)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch service descriptor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("service descriptor returned status %d: %s", resp.StatusCode, string(body))
	}
	return soapAddress(resp.Body)
}

func setExtraHeaders(req *http.Request) {
	for k, v := range ExtraHeaders {
		req.Header.Set(k, v)
	}
}

// client is a Service bound to one SOAP address.
type client struct {
	httpClient *http.Client
	address    string
	apiKey     string
	logger     *zap.Logger
}

func (c *client) Locate(ctx context.Context, req LocateRequest) (*LocateResponse, error) {
	var out LocateResponse
	if err := c.call(ctx, OpLocate, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) RequestAccess(ctx context.Context, req RequestAccessRequest) (*RequestAccessResponse, error) {
	var out RequestAccessResponse
	if err := c.call(ctx, OpRequestAccess, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) QueryAttachment(ctx context.Context, req QueryAttachmentRequest) (*QueryAttachmentResponse, error) {
	var out QueryAttachmentResponse
	if err := c.call(ctx, OpQueryAttachment, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) QueryReceiptPDF(ctx context.Context, req QueryReceiptRequest) (*QueryReceiptResponse, error) {
	var out QueryReceiptResponse
	if err := c.call(ctx, OpQueryReceiptPDF, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// call posts one operation and decodes the first body element into out.
// Faults are decoded whatever the HTTP status; other non-2xx replies are errors.
func (c *client) call(ctx context.Context, operation string, payload, out any) error {
	start := time.Now()

	body, err := buildEnvelope(operation, c.apiKey, payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.address, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	setExtraHeaders(req)
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", `"`+operation+`"`)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", operation, err)
	}

	decodeErr := decodeEnvelope(bytes.NewReader(raw), operation, out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if fe, ok := decodeErr.(*FaultError); ok {
			return fe
		}
		return fmt.Errorf("%s returned status %d", operation, resp.StatusCode)
	}
	if decodeErr != nil {
		return decodeErr
	}

	c.logger.Debug("remote call completed",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
