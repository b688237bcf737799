package catalog

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"pawfinder/web/internal/metrics"
)

var (
	ErrNoToken           = errors.New("catalog access token not yet obtained")
	ErrRefreshInProgress = errors.New("catalog token refresh already running")
)

type TokenState string

const (
	TokenUnset      TokenState = "unset"
	TokenValid      TokenState = "valid"
	TokenExpired    TokenState = "expired"
	TokenRefreshing TokenState = "refreshing"
)

// TokenStore is the single-writer cell holding the catalog bearer token.
// Readers call Get on every request; only Refresh replaces the token, and a
// failed refresh leaves the previous token in place.
type TokenStore struct {
	creds      clientcredentials.Config
	httpClient *http.Client
	log        zerolog.Logger

	token      atomic.Pointer[oauth2.Token]
	refreshing atomic.Bool
}

func NewTokenStore(clientID, clientSecret, tokenURL string, httpClient *http.Client, log zerolog.Logger) *TokenStore {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenStore{
		creds: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: httpClient,
		log:        log,
	}
}

// Get returns the current token. An expired token is still returned; the
// upstream rejects it and the next scheduled refresh replaces it.
func (s *TokenStore) Get() (*oauth2.Token, error) {
	tok := s.token.Load()
	if tok == nil {
		return nil, ErrNoToken
	}
	return tok, nil
}

func (s *TokenStore) State() TokenState {
	if s.refreshing.Load() {
		return TokenRefreshing
	}
	tok := s.token.Load()
	switch {
	case tok == nil:
		return TokenUnset
	case !tok.Valid():
		return TokenExpired
	default:
		return TokenValid
	}
}

// Refresh performs a client-credentials exchange and swaps in the new token.
func (s *TokenStore) Refresh(ctx context.Context) error {
	if !s.refreshing.CompareAndSwap(false, true) {
		return ErrRefreshInProgress
	}
	defer s.refreshing.Store(false)

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	tok, err := s.creds.Token(ctx)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues(metrics.OutcomeFailure).Inc()
		return errors.Wrap(err, "client credentials exchange")
	}

	s.token.Store(tok)
	metrics.TokenRefreshes.WithLabelValues(metrics.OutcomeSuccess).Inc()
	if !tok.Expiry.IsZero() {
		metrics.TokenExpiry.Set(float64(tok.Expiry.Unix()))
	}

	s.log.Info().
		Time("expires_at", tok.Expiry).
		Dur("lifetime", time.Until(tok.Expiry).Round(time.Second)).
		Msg("catalog token refreshed")
	return nil
}
