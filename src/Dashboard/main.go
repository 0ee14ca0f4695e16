package main

import (
	"embed"
	"html/template"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/streampulse/streampulse/src/internal/config"
)

//go:embed templates/index.html
var templateFS embed.FS

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().
		Timestamp().Str("service", "dashboard").Logger()

	log.Info().Msg("Starting StreamPulse dashboard...")

	configFile := "config.yaml"
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}

	var cfg config.DashboardConfig
	if err := config.Load(configFile, &cfg); err != nil {
		log.Warn().Err(err).Str("file", configFile).Msg("No config file, using env")
	}
	if cfg.APIServerURL == "" {
		cfg.APIServerURL = os.Getenv("API_SERVER_URL")
	}
	if cfg.APIServerURL == "" {
		cfg.APIServerURL = "http://localhost:8080"
	}
	if cfg.Port == "" {
		cfg.Port = os.Getenv("PORT")
	}
	if cfg.Port == "" {
		cfg.Port = "8090"
	}
	if cfg.OIDC.ProviderURL == "" {
		cfg.OIDC = config.OIDCConfig{
			ProviderURL:  os.Getenv("OIDC_PROVIDER"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		}
	}

	tmpl := template.Must(template.ParseFS(templateFS, "templates/index.html"))
	auth := NewAuthService(cfg.OIDC, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		data := map[string]interface{}{
			"Time":        time.Now().Format(time.RFC3339),
			"AuthEnabled": auth.Enabled,
		}
		if err := tmpl.Execute(w, data); err != nil {
			log.Error().Err(err).Msg("Error executing template")
		}
	})

	// Proxy API requests to the API server so the page stays same-origin.
	target, err := url.Parse(cfg.APIServerURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid API_SERVER_URL")
	}
	proxy := httputil.NewSingleHostReverseProxy(target)

	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = target.Host
	}
	mux.Handle("/api/", auth.TokenMiddleware(proxy))

	mux.HandleFunc("/auth/login", auth.HandleLogin)
	mux.HandleFunc("/auth/callback", auth.HandleCallback)
	mux.HandleFunc("/auth/logout", auth.HandleLogout)

	log.Info().Str("port", cfg.Port).Str("api", cfg.APIServerURL).Msg("Dashboard listening")
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
