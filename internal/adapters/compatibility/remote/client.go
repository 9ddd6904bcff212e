package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"rabbit-pedigree/internal/domain/breeding"
	"rabbit-pedigree/internal/platform/httpclient"
	"rabbit-pedigree/internal/platform/logger"
)

const compatibilityPath = "/breeding/compatibility"

var ErrInvalidVerdict = errors.New("remote: invalid verdict")

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper // opcional (tests)
	Logger    logger.Logger
}

// Client consulta la compatibilidad contra un servidor de pedigree remoto.
type Client struct {
	http *httpclient.Client
	log  logger.Logger
}

func New(opts Options) (*Client, error) {
	hc, err := httpclient.NewWithTransport(opts.BaseURL, opts.Timeout, opts.Transport)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		http: hc,
		log:  log.With(map[string]any{"component": "remote_compatibility"}),
	}, nil
}

// CheckCompatibility hace un único request. Cualquier falla (red, status,
// body inválido) se informa como breeding.FailClosed(); nunca devuelve error.
func (c *Client) CheckCompatibility(ctx context.Context, maleID, femaleID int64) breeding.Verdict {
	v, err := c.check(ctx, maleID, femaleID)
	if err != nil {
		c.log.Warn("remote compatibility check failed", map[string]any{
			"male_id":   maleID,
			"female_id": femaleID,
			"err":       err,
		})
		return breeding.FailClosed()
	}
	return v
}

func (c *Client) check(ctx context.Context, maleID, femaleID int64) (breeding.Verdict, error) {
	q := url.Values{}
	q.Set("maleId", strconv.FormatInt(maleID, 10))
	q.Set("femaleId", strconv.FormatInt(femaleID, 10))

	var v breeding.Verdict
	if err := c.http.GetJSON(ctx, compatibilityPath, q, &v); err != nil {
		return breeding.Verdict{}, err
	}
	if !v.RiskLevel.Valid() {
		return breeding.Verdict{}, fmt.Errorf("%w: risk level %q", ErrInvalidVerdict, v.RiskLevel)
	}
	return v, nil
}
