// Command eventsadmin is a terminal admin table for the events API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/Shivanand-hulikatti/event-manager/internal/admin"
	"github.com/Shivanand-hulikatti/event-manager/internal/client"
)

func main() {
	defaultURL := client.DefaultBaseURL
	if v := os.Getenv("API_URL"); v != "" {
		defaultURL = v
	}
	apiURL := pflag.String("api-url", defaultURL, "events API base URL")
	timeout := pflag.Duration("timeout", 10*time.Second, "per-request timeout")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	c := client.New(*apiURL, client.WithTimeout(*timeout))
	if err := admin.New(ctx, c).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "eventsadmin:", err)
		os.Exit(1)
	}
}
