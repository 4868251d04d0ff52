package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// ServiceConfig drives the long-running planner service.
type ServiceConfig struct {
	// HTTPAddr is the listen address of the read API.
	HTTPAddr string `json:"http_addr"`
	// RebuildCron is a standard cron expression (or descriptor such as
	// "@hourly") scheduling automatic rebuilds. "off" disables them.
	RebuildCron string `json:"rebuild_cron"`
	// TasksFile is an optional backlog imported at startup.
	TasksFile string `json:"tasks_file"`
	// APIToken protects the event log endpoint when set.
	APIToken string `json:"api_token"`
}

// SetDefaults fills unset fields.
func (c *ServiceConfig) SetDefaults() {
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.RebuildCron == "" {
		c.RebuildCron = "5 0 * * *"
	}
}

// RebuildEnabled reports whether periodic rebuilds are configured.
func (c ServiceConfig) RebuildEnabled() bool { return c.RebuildCron != "off" }

// Validate checks the cron expression.
func (c ServiceConfig) Validate() error {
	if !c.RebuildEnabled() {
		return nil
	}
	if _, err := cron.ParseStandard(c.RebuildCron); err != nil {
		return fmt.Errorf("service: rebuild_cron %q: %w", c.RebuildCron, err)
	}
	return nil
}
