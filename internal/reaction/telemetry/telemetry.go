// Package telemetry sends an anonymous launch ping.
package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
)

const pingTimeout = 5 * time.Second

// Version is the reported server version.
const Version = "0.1.0"

// deviceIDPath returns the path of the persisted anonymous device id.
func deviceIDPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "moon-reaction-server", "device_id"), nil
}

// getOrCreateDeviceID reads the persisted device id, creating a fresh
// random one on first run.
func getOrCreateDeviceID() (string, error) {
	path, err := deviceIDPath()
	if err != nil {
		return "", err
	}

	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(id), 0o644); err != nil {
		return "", err
	}

	return id, nil
}

// SendLaunchPing fires a best-effort launch ping in the background.
// Skipped entirely when no endpoint or token is configured; failures are
// logged at debug and otherwise ignored.
func SendLaunchPing(endpoint, token string, logger *slog.Logger) {
	if endpoint == "" || token == "" {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	go func() {
		deviceID, err := getOrCreateDeviceID()
		if err != nil {
			logger.Debug("telemetry skipped", "error", err)
			return
		}

		payload, err := json.Marshal(map[string]string{
			"device_id": deviceID,
			"version":   Version,
			"os":        runtime.GOOS,
		})
		if err != nil {
			logger.Debug("telemetry skipped", "error", err)
			return
		}

		req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			logger.Debug("telemetry skipped", "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{Timeout: pingTimeout}
		resp, err := client.Do(req)
		if err != nil {
			logger.Debug("telemetry ping failed", "error", err)
			return
		}
		_ = resp.Body.Close()
	}()
}
