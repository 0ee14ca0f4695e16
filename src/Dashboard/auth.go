package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/streampulse/streampulse/src/internal/config"
)

const (
	tokenCookie = "streampulse_token"
	stateCookie = "streampulse_state"
)

type AuthService struct {
	Provider *oidc.Provider
	Config   oauth2.Config
	Enabled  bool
	log      zerolog.Logger
}

// NewAuthService wires optional OIDC login. With no provider configured the
// dashboard is open, matching a single-operator deployment.
func NewAuthService(cfg config.OIDCConfig, log zerolog.Logger) *AuthService {
	if cfg.ProviderURL == "" {
		log.Info().Msg("OIDC provider not set, dashboard auth disabled")
		return &AuthService{Enabled: false, log: log}
	}

	provider, err := oidc.NewProvider(context.Background(), cfg.ProviderURL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to init OIDC provider, auth disabled")
		return &AuthService{Enabled: false, log: log}
	}

	conf := oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	return &AuthService{
		Provider: provider,
		Config:   conf,
		Enabled:  true,
		log:      log,
	}
}

func (s *AuthService) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.Enabled {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	buf := make([]byte, 16)
	rand.Read(buf)
	state := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		HttpOnly: true,
		Path:     "/",
		MaxAge:   300,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.Config.AuthCodeURL(state), http.StatusFound)
}

func (s *AuthService) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if !s.Enabled {
		http.Error(w, "Auth disabled", http.StatusBadRequest)
		return
	}

	stateC, err := r.Cookie(stateCookie)
	if err != nil || r.URL.Query().Get("state") != stateC.Value {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}

	oauth2Token, err := s.Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		http.Error(w, "Failed to exchange token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Verify the ID token when present; the access token is what gets
	// forwarded to the API.
	if rawIDToken, ok := oauth2Token.Extra("id_token").(string); ok {
		verifier := s.Provider.Verifier(&oidc.Config{ClientID: s.Config.ClientID})
		if _, err := verifier.Verify(r.Context(), rawIDToken); err != nil {
			s.log.Warn().Err(err).Msg("ID token verification failed")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    oauth2Token.AccessToken,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *AuthService) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		HttpOnly: true,
		Path:     "/",
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// TokenMiddleware injects the Authorization header if the cookie is present
func (s *AuthService) TokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(tokenCookie)
		if err == nil && cookie.Value != "" {
			r.Header.Set("Authorization", "Bearer "+cookie.Value)
		}
		next.ServeHTTP(w, r)
	})
}
