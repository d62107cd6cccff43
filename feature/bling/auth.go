package bling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Names of the stored OAuth values.
const (
	ConstCode         = "code"
	ConstAccessToken  = "access_token"
	ConstRefreshToken = "refresh_token"
)

// ErrNoAuthorizationCode is returned when no token and no code are stored.
var ErrNoAuthorizationCode = errors.New("no authorization code registered")

// AuthConstant is one stored OAuth value.
type AuthConstant struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"column:nome;size:50;uniqueIndex;not null" json:"name"`
	Value     string     `gorm:"column:valor;type:text;not null" json:"-"`
	ExpiresAt *time.Time `gorm:"column:expira" json:"expiresAt,omitempty"`
}

// TableName overrides the table name used by AuthConstant.
func (AuthConstant) TableName() string {
	return "auth_constants"
}

// TokenStore persists the authorization code and tokens.
type TokenStore struct {
	db *gorm.DB
}

// NewTokenStore creates a store over db.
func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) upsert(ctx context.Context, rows ...AuthConstant) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "nome"}},
		DoUpdates: clause.AssignmentColumns([]string{"valor", "expira"}),
	}).Create(&rows).Error
}

// SaveCode stores a new authorization code and forgets the previous tokens,
// so the next call exchanges the code.
func (s *TokenStore) SaveCode(ctx context.Context, code string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("nome IN ?", []string{ConstAccessToken, ConstRefreshToken}).
			Delete(&AuthConstant{}).Error; err != nil {
			return err
		}
		return (&TokenStore{db: tx}).upsert(ctx, AuthConstant{Name: ConstCode, Value: code})
	})
}

// SaveToken stores the access and refresh tokens of tok.
func (s *TokenStore) SaveToken(ctx context.Context, tok *oauth2.Token) error {
	var expiry *time.Time
	if !tok.Expiry.IsZero() {
		e := tok.Expiry
		expiry = &e
	}
	rows := []AuthConstant{{Name: ConstAccessToken, Value: tok.AccessToken, ExpiresAt: expiry}}
	if tok.RefreshToken != "" {
		rows = append(rows, AuthConstant{Name: ConstRefreshToken, Value: tok.RefreshToken})
	}
	return s.upsert(ctx, rows...)
}

// Load returns the stored code and token. The token is nil when no refresh
// token is stored.
func (s *TokenStore) Load(ctx context.Context) (string, *oauth2.Token, error) {
	var rows []AuthConstant
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return "", nil, fmt.Errorf("load auth constants: %w", err)
	}

	var code string
	tok := &oauth2.Token{TokenType: "Bearer"}
	for _, r := range rows {
		switch r.Name {
		case ConstCode:
			code = r.Value
		case ConstAccessToken:
			tok.AccessToken = r.Value
			if r.ExpiresAt != nil {
				tok.Expiry = *r.ExpiresAt
			} else {
				// Unknown expiry, refresh on first use.
				tok.Expiry = time.Unix(1, 0)
			}
		case ConstRefreshToken:
			tok.RefreshToken = r.Value
		}
	}
	if tok.RefreshToken == "" {
		return code, nil, nil
	}
	return code, tok, nil
}

// TokenProvider serves access tokens, exchanging the stored code on first
// use and refreshing afterwards. It is safe for concurrent use.
type TokenProvider struct {
	oauth  *oauth2.Config
	store  *TokenStore
	logger *zap.Logger

	mu  sync.Mutex
	src oauth2.TokenSource
}

// OAuthConfig builds the oauth2 configuration of cfg.
func OAuthConfig(cfg Config) *oauth2.Config {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// NewTokenProvider creates a provider for cfg backed by store.
func NewTokenProvider(cfg Config, store *TokenStore, logger *zap.Logger) *TokenProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenProvider{oauth: OAuthConfig(cfg), store: store, logger: logger}
}

// AccessToken returns a valid access token.
func (p *TokenProvider) AccessToken(ctx context.Context) (string, error) {
	src, err := p.source(ctx)
	if err != nil {
		return "", err
	}
	tok, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	return tok.AccessToken, nil
}

// Reset drops the cached source so the next call reloads the store.
func (p *TokenProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.src = nil
}

func (p *TokenProvider) source(ctx context.Context) (oauth2.TokenSource, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.src != nil {
		return p.src, nil
	}

	code, tok, err := p.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	// The source outlives this call; keep the context values only.
	bg := context.WithoutCancel(ctx)

	if tok == nil {
		if code == "" {
			return nil, ErrNoAuthorizationCode
		}
		tok, err = p.oauth.Exchange(bg, code)
		if err != nil {
			return nil, fmt.Errorf("exchange authorization code: %w", err)
		}
		if err := p.store.SaveToken(ctx, tok); err != nil {
			return nil, fmt.Errorf("save token: %w", err)
		}
		p.logger.Info("Authorization code exchanged", zap.Time("expiry", tok.Expiry))
	}

	persisting := &persistingSource{
		base:   p.oauth.TokenSource(bg, tok),
		store:  p.store,
		ctx:    bg,
		last:   tok.AccessToken,
		logger: p.logger,
	}
	p.src = oauth2.ReuseTokenSource(tok, persisting)
	return p.src, nil
}

// persistingSource stores every token its base source hands out for the
// first time.
type persistingSource struct {
	base   oauth2.TokenSource
	store  *TokenStore
	ctx    context.Context
	logger *zap.Logger

	mu   sync.Mutex
	last string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken == s.last {
		return tok, nil
	}
	if err := s.store.SaveToken(s.ctx, tok); err != nil {
		return nil, fmt.Errorf("save refreshed token: %w", err)
	}
	s.last = tok.AccessToken
	s.logger.Info("Access token refreshed", zap.Time("expiry", tok.Expiry))
	return tok, nil
}
