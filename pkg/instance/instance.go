package instance

import (
	"os"

	"github.com/swapsafe/swapsafe-backend/pkg/env"
)

// ID identifies the running process in logs and cron lock ownership.
// SWAPSAFE_INSTANCE_ID wins, then the platform dyno name, then the hostname.
func ID() string {
	if id := env.Get("SWAPSAFE_INSTANCE_ID", ""); id != "" {
		return id
	}
	if dyno := os.Getenv("DYNO"); dyno != "" {
		return dyno
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "swapsafe-0"
}
