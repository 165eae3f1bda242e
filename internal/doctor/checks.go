package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mcpdock/mcpdock/internal/agent"
	"github.com/mcpdock/mcpdock/internal/installation"
	"github.com/mcpdock/mcpdock/internal/paths"
	"github.com/mcpdock/mcpdock/internal/server"
)

// ConfigCheck verifies that the configuration loaded and validated.
type ConfigCheck struct {
	LoadErr error
}

func (c *ConfigCheck) Name() string     { return "config" }
func (c *ConfigCheck) Category() string { return "config" }

func (c *ConfigCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if c.LoadErr != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("configuration failed to load: %v", c.LoadErr)
		result.FixHint = "Fix the reported problem in your mcpdock config file"
		return result
	}

	result.Status = SeverityPass
	result.Message = "configuration loads and validates"
	return result
}

// DataDirCheck verifies that the data directory exists and is writable.
type DataDirCheck struct {
	Dir string
}

func (c *DataDirCheck) Name() string     { return "data-dir" }
func (c *DataDirCheck) Category() string { return "storage" }

func (c *DataDirCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("data directory %s cannot be created: %v", c.Dir, err)
		result.FixHint = "Check permissions or set data_dir in your config"
		return result
	}

	probe := filepath.Join(c.Dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("data directory %s is not writable: %v", c.Dir, err)
		result.FixHint = "Check permissions or set data_dir in your config"
		return result
	}
	_ = os.Remove(probe)

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("data directory %s is writable", c.Dir)
	return result
}

// AgentCheck verifies that one agent's config file is readable when present.
type AgentCheck struct {
	Agents  *agent.Manager
	AgentID string
}

func (c *AgentCheck) Name() string     { return "agent-" + c.AgentID }
func (c *AgentCheck) Category() string { return "agents" }

func (c *AgentCheck) Run(ctx context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	ag, err := c.Agents.GetAgent(ctx, c.AgentID)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%s: config file %s is unreadable: %v",
			c.AgentID, c.Agents.ConfigPath(c.AgentID), err)
		result.FixHint = "Repair or remove the file; mcpdock keeps backups next to its data files"
		return result
	}
	if ag == nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%q is not a supported agent", c.AgentID)
		return result
	}

	if !ag.IsDetected {
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("%s is not detected on this machine", paths.AgentDisplayName(c.AgentID))
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%s: %d configured server(s)",
		paths.AgentDisplayName(c.AgentID), len(ag.ConfiguredServerIDs))
	return result
}

// RegistryCacheCheck reports on the registry cache's freshness.
type RegistryCacheCheck struct {
	Path string
	TTL  time.Duration
}

func (c *RegistryCacheCheck) Name() string     { return "registry-cache" }
func (c *RegistryCacheCheck) Category() string { return "registry" }

func (c *RegistryCacheCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	info, err := os.Stat(c.Path)
	if err != nil {
		result.Status = SeverityInfo
		result.Message = "no registry cache yet"
		result.FixHint = "Run 'mcpdock registry refresh' or 'mcpdock search' to fetch it"
		return result
	}

	age := time.Since(info.ModTime())
	if c.TTL > 0 && age > c.TTL {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("registry cache is stale (%s old)", age.Round(time.Minute))
		result.FixHint = "Run 'mcpdock registry refresh'"
		return result
	}

	result.Status = SeverityPass
	result.Message = "registry cache is fresh"
	return result
}

// RecordsCheck cross-references installation records against the catalog
// and the agents' config files.
type RecordsCheck struct {
	Store   installation.Store
	Catalog *server.Store
	Agents  *agent.Manager
}

func (c *RecordsCheck) Name() string     { return "installation-records" }
func (c *RecordsCheck) Category() string { return "installations" }

func (c *RecordsCheck) Run(ctx context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	records, err := c.Store.All(ctx)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("installation records are unreadable: %v", err)
		return result
	}

	var problems []string
	for _, rec := range records {
		srv, err := c.Catalog.Get(ctx, rec.ServerID)
		if err == nil && srv == nil {
			problems = append(problems,
				fmt.Sprintf("%s on %s references a server missing from the catalog", rec.ServerID, rec.AgentID))
		}

		ag, err := c.Agents.GetAgent(ctx, rec.AgentID)
		if err != nil || ag == nil {
			continue
		}
		if rec.IsEnabled && !slices.Contains(ag.ConfiguredServerIDs, rec.ServerID) {
			problems = append(problems,
				fmt.Sprintf("%s is recorded for %s but absent from its config file", rec.ServerID, rec.AgentID))
		}
	}

	if len(problems) > 0 {
		result.Status = SeverityWarning
		result.Message = strings.Join(problems, "; ")
		result.FixHint = "Run 'mcpdock sync' to reconcile records with agent files"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d installation record(s) consistent", len(records))
	return result
}
