package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"askdoc/internal/api"
	"askdoc/internal/chat"
	"askdoc/internal/config"
	"askdoc/internal/ui"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	fs := flag.NewFlagSet("askdoc", flag.ExitOnError)
	baseURL := fs.String("base-url", "", "Backend base URL (default: stored config or "+api.DefaultBaseURL+")")
	personality := fs.String("personality", "", "Assistant personality: factual, friendly or humorous")
	timeoutSecs := fs.Int("timeout", 0, "Per-request timeout in seconds (default: 120)")
	fs.Parse(os.Args[1:])

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Flags win over environment and stored config.
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *personality != "" {
		cfg.Personality = *personality
	}
	if *timeoutSecs > 0 {
		cfg.RequestTimeoutSeconds = *timeoutSecs
	}
	if cfg.Personality != "" && !chat.Personality(cfg.Personality).Valid() {
		log.Fatalf("invalid personality %q, expected one of %v", cfg.Personality, chat.Personalities())
	}

	client := api.NewClient(cfg.BaseURL, &http.Client{
		// The controller bounds every call with a context deadline; this is a
		// backstop for leaked requests only, kept above the configured
		// deadline so it can never preempt it.
		Timeout: backstopTimeout(cfg.Timeout()),
	})

	events := make(chan chat.Event, 64)
	ctrl, err := chat.NewController(chat.ControllerConfig{
		Uploader:    client,
		Assistant:   client,
		Personality: chat.Personality(cfg.Personality),
		Hooks:       chat.ChannelHook{Ch: events},
		Timeout:     cfg.Timeout(),
	})
	if err != nil {
		log.Fatalf("failed to create chat controller: %v", err)
	}

	p := tea.NewProgram(ui.NewModel(ctrl, events), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("ui error: %v", err)
	}
}

// backstopTimeout sizes the http.Client timeout one minute past the
// per-request deadline, whatever that is configured to.
func backstopTimeout(requestTimeout time.Duration) time.Duration {
	if requestTimeout <= 0 {
		requestTimeout = chat.DefaultTimeout
	}
	return requestTimeout + time.Minute
}

func loadConfig() (*config.Config, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	return mgr.Load()
}
