// Package auth runs the Google OAuth2 installed-app flow and keeps the resulting token
// next to the configuration file.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/harrisonrobin/gantta/pkg/config"
	"github.com/harrisonrobin/gantta/pkg/logger"
)

const (
	// ClientSecretsFile holds the OAuth client downloaded from the Google Cloud console.
	ClientSecretsFile = "credentials.json"
	// TokenFile holds the user's access and refresh tokens.
	TokenFile = "token.json"
	// LocalhostAuthPort is where the redirect of the consent screen is captured.
	LocalhostAuthPort = "6789"

	authTimeout = 5 * time.Minute
)

// Scopes needed to list calendars and write events.
var Scopes = []string{
	calendar.CalendarEventsScope,
	calendar.CalendarReadonlyScope,
}

// Flow holds the files and logger of one authorization.
type Flow struct {
	Dir string
	// Prompt receives the consent URL the user has to open.
	Prompt io.Writer
	Log    *zap.Logger
}

// NewFlow uses the configuration directory.
func NewFlow(prompt io.Writer, log *zap.Logger) (*Flow, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("could not find configuration directory: %w", err)
	}
	return NewFlowIn(dir, prompt, log), nil
}

// NewFlowIn keeps credentials and token in dir.
func NewFlowIn(dir string, prompt io.Writer, log *zap.Logger) *Flow {
	return &Flow{Dir: dir, Prompt: prompt, Log: logger.OrNop(log)}
}

func (f *Flow) tokenPath() string { return filepath.Join(f.Dir, TokenFile) }

// Config reads the OAuth client and points its redirect at the local listener.
func (f *Flow) Config(scopes []string) (*oauth2.Config, error) {
	path := filepath.Join(f.Dir, ClientSecretsFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", path, err)
	}
	cfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	redirect, err := LocalRedirect(cfg.RedirectURL)
	if err != nil {
		f.Log.Warn("redirect URL is not a localhost callback, using it as is",
			zap.String("redirect", cfg.RedirectURL), zap.Error(err))
	} else if redirect != cfg.RedirectURL {
		f.Log.Debug("redirect URL rewritten", zap.String("from", cfg.RedirectURL), zap.String("to", redirect))
		cfg.RedirectURL = redirect
	}
	return cfg, nil
}

var errNotLocal = errors.New("not a localhost redirect")

// LocalRedirect forces a localhost or out-of-band redirect onto LocalhostAuthPort.
func LocalRedirect(raw string) (string, error) {
	if raw == "urn:ietf:wg:oauth:2.0:oob" || raw == "" {
		return fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort), nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw, err
	}
	if h := u.Hostname(); h != "localhost" && h != "127.0.0.1" {
		return raw, errNotLocal
	}
	u.Host = net.JoinHostPort(u.Hostname(), LocalhostAuthPort)
	return u.String(), nil
}

// Reset removes the stored token so the next Client call asks for consent again.
func (f *Flow) Reset() error {
	err := os.Remove(f.tokenPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not delete token file %s: %w", f.tokenPath(), err)
	}
	if err == nil {
		f.Log.Info("removed existing token", zap.String("path", f.tokenPath()))
	}
	return nil
}

// Client returns an HTTP client authorized for scopes. A stored token is reused and
// refreshed; without one the browser flow runs. Refreshed tokens are written back.
func (f *Flow) Client(ctx context.Context, scopes []string) (*http.Client, error) {
	cfg, err := f.Config(scopes)
	if err != nil {
		return nil, err
	}

	tok, err := TokenFromFile(f.tokenPath())
	if err != nil {
		f.Log.Info("no usable token, starting web authorization", zap.String("path", f.tokenPath()), zap.Error(err))
		tok, err = f.tokenFromWeb(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		if err := SaveToken(f.tokenPath(), tok); err != nil {
			return nil, err
		}
	}

	src := &savingSource{
		base: cfg.TokenSource(ctx, tok),
		path: f.tokenPath(),
		last: tok,
		log:  f.Log,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

// CalendarService returns an authorized Calendar API client.
func (f *Flow) CalendarService(ctx context.Context) (*calendar.Service, error) {
	client, err := f.Client(ctx, Scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated client for Calendar API: %w", err)
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google Calendar service: %w", err)
	}
	return srv, nil
}

// savingSource persists every token that differs from the previous one.
type savingSource struct {
	base oauth2.TokenSource
	path string
	log  *zap.Logger

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || tok.AccessToken != s.last.AccessToken || tok.RefreshToken != s.last.RefreshToken {
		if err := SaveToken(s.path, tok); err != nil {
			s.log.Warn("could not save refreshed token", zap.Error(err))
		} else {
			s.log.Debug("saved refreshed token", zap.String("path", s.path))
		}
		s.last = tok
	}
	return tok, nil
}

// tokenFromWeb captures the authorization code on a local listener and exchanges it.
func (f *Flow) tokenFromWeb(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", net.JoinHostPort("localhost", LocalhostAuthPort))
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}
	defer listener.Close()

	state := uuid.NewString()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	server := &http.Server{
		Handler:      callbackHandler(state, codeCh, errCh),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- fmt.Errorf("HTTP server error: %w", err):
			default:
			}
		}
	}()
	defer server.Close()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Fprintf(f.Prompt, "Open the following URL in your browser to authorize gantta:\n%s\n", authURL)
	f.Log.Info("waiting for authorization code", zap.String("redirect", cfg.RedirectURL))

	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	select {
	case code := <-codeCh:
		tok, err := cfg.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("authorization timed out: %w", ctx.Err())
	}
}

func callbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		fail := func(err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			select {
			case errCh <- err:
			default:
			}
		}
		if q.Get("state") != state {
			fail(errors.New("state mismatch in redirect"))
			return
		}
		code := q.Get("code")
		if code == "" {
			fail(errors.New("authorization code not found in redirect URL"))
			return
		}
		fmt.Fprintln(w, "Authentication successful! You can close this window.")
		select {
		case codeCh <- code:
		default:
		}
	})
}

// TokenFromFile reads a token saved by SaveToken.
func TokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", path, err)
	}
	return tok, nil
}

// SaveToken writes tok to path, readable by the owner only.
func SaveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token to %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("unable to encode OAuth token: %w", err)
	}
	return nil
}
