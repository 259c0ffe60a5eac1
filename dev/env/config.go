package devenv

import "os"

// BrowserTestConfig configures the tests that drive a real browser, it is read
// from <dev_state>/browser_test.json5.
type BrowserTestConfig struct {
	// RemoteURL is the devtools websocket (or http) url of a running Chrome.
	RemoteURL string `json:"remote_url"`
	// Exec launches a local Chrome instead when RemoteURL is empty.
	Exec bool `json:"exec"`
}

// GetBrowserTestConfig returns the browser test config, the CHROME_URL
// environment variable takes precedence over the state file. ok is false when
// no browser is configured.
func GetBrowserTestConfig() (config BrowserTestConfig, ok bool) {
	if remote := os.Getenv("CHROME_URL"); remote != "" {
		return BrowserTestConfig{RemoteURL: remote}, true
	}
	config, err := GetStateConfig[BrowserTestConfig]("browser_test.json5")
	if err != nil {
		return BrowserTestConfig{}, false
	}
	return config, config.RemoteURL != "" || config.Exec
}
