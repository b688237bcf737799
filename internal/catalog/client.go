// Package catalog talks to the third-party adoptable-animal API.
package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"pawfinder/web/internal/metrics"
)

var (
	ErrNotFound = errors.New("animal not found")
	ErrUpstream = errors.New("catalog upstream failure")
)

type TokenSource interface {
	Get() (*oauth2.Token, error)
}

type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(baseURL string, tokens TokenSource, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: httpClient,
		log:        log,
	}
}

func (c *Client) ListAnimals(ctx context.Context, q ListQuery) ([]Animal, error) {
	params := url.Values{}
	if q.Type != "" {
		params.Set("type", q.Type)
	}
	if q.Location != "" {
		params.Set("location", q.Location)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	var resp listResponse
	if err := c.get(ctx, "list_animals", "/animals", params, &resp); err != nil {
		return nil, err
	}
	return resp.Animals, nil
}

func (c *Client) GetAnimal(ctx context.Context, id int64) (Animal, error) {
	var resp animalResponse
	path := "/animals/" + strconv.FormatInt(id, 10)
	if err := c.get(ctx, "get_animal", path, nil, &resp); err != nil {
		return Animal{}, err
	}
	return resp.Animal, nil
}

func (c *Client) get(ctx context.Context, op string, path string, params url.Values, out any) (err error) {
	defer func() {
		outcome := metrics.OutcomeSuccess
		switch {
		case errors.Is(err, ErrNotFound):
			outcome = metrics.OutcomeMissing
		case err != nil:
			outcome = metrics.OutcomeFailure
		}
		metrics.CatalogRequests.WithLabelValues(op, outcome).Inc()
	}()

	tok, err := c.tokens.Get()
	if err != nil {
		return errors.Wrapf(ErrUpstream, "%s: %v", op, err)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrapf(err, "%s: build request", op)
	}
	tok.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(ErrUpstream, "%s: %v", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.Wrapf(ErrNotFound, "%s %s", op, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn().
			Str("operation", op).
			Int("status", resp.StatusCode).
			Str("body", string(excerpt)).
			Msg("catalog request rejected")
		return errors.Wrapf(ErrUpstream, "%s: status %d", op, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(ErrUpstream, "%s: decode response: %v", op, err)
	}
	return nil
}
