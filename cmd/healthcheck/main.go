// Command healthcheck is the container health check. It reads the same DDADMIN_
// configuration as the server, asks /healthz, and exits non-zero unless the
// console reports itself healthy.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	httphandler "github.com/ericfisherdev/dongdong-admin/internal/adapter/driving/http"
	"github.com/ericfisherdev/dongdong-admin/internal/config"
)

const checkTimeout = 2 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	health, err := checkHealth(ctx, http.DefaultClient, healthURL(cfg.ListenAddr))
	if err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck:", err)
		os.Exit(1)
	}
	fmt.Printf("%s (storage %s, sessions in %s)\n", health.Status, health.Storage, health.SessionBackend)
}

// checkHealth fetches the health document. Any status other than 200 with
// "status":"ok" is an error; a degraded body is still decoded for the message.
func checkHealth(ctx context.Context, client *http.Client, url string) (*httphandler.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var health httphandler.HealthResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&health); err != nil {
		return nil, fmt.Errorf("%s returned %d with an unreadable body: %w", url, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || health.Status != "ok" {
		return &health, fmt.Errorf("%s returned %d: status %q, storage %q", url, resp.StatusCode, health.Status, health.Storage)
	}
	return &health, nil
}

// healthURL targets loopback when the server binds every interface, since
// the check runs inside the same container.
func healthURL(listenAddr string) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		host, port = "", "8080"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/healthz"
}
