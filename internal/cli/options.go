package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/treeflat/internal/config"
	"github.com/spf13/pflag"
)

// Flag names shared by every command.
const (
	FlagConfig      = "config"
	FlagLookup      = "lookup"
	FlagRoot        = "root"
	FlagVisitLimit  = "visit-limit"
	FlagLogLevel    = "log-level"
	FlagMetricsFile = "metrics-file"
	FlagRedisAddr   = "redis-addr"
	FlagRedisKey    = "redis-key"
)

// Options carries the resolved configuration and the streams a command writes to.
type Options struct {
	Config config.Config
	Stdout io.Writer
	Stderr io.Writer
	Quiet  bool
}

// NewOptions returns Options bound to the process streams.
func NewOptions(cfg config.Config) Options {
	return Options{Config: cfg, Stdout: os.Stdout, Stderr: os.Stderr}
}

// RegisterFlags declares the configuration flags on fs.
// Defaults are left empty so that only explicitly set flags override the file.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", fmt.Sprintf("Configuration file (default %q if present)", config.DefaultPath))
	fs.String(FlagLookup, "", "Node lookup strategy: scan or indexed (default scan)")
	fs.Int(FlagRoot, 0, "Entry node id")
	fs.Int(FlagVisitLimit, 0, "Abort after this many node visits (0 = unlimited)")
	fs.String(FlagLogLevel, "", "Log level: debug, info, warn or error (default info)")
	fs.String(FlagMetricsFile, "", "Write Prometheus metrics to this textfile after the run")
	fs.String(FlagRedisAddr, "", "Also push rules to the Redis list at this address")
	fs.String(FlagRedisKey, "", "Redis list receiving the rules (default treeflat:rules)")
}

// ResolveConfig loads the configuration file named by --config (or the default
// file, if present) and applies every flag the user set explicitly.
func ResolveConfig(fs *pflag.FlagSet) (config.Config, error) {
	path, _ := fs.GetString(FlagConfig)
	explicit := fs.Changed(FlagConfig)
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return cfg, err
	}

	if fs.Changed(FlagLookup) {
		cfg.Lookup, _ = fs.GetString(FlagLookup)
	}
	if fs.Changed(FlagRoot) {
		cfg.Root, _ = fs.GetInt(FlagRoot)
	}
	if fs.Changed(FlagVisitLimit) {
		cfg.VisitLimit, _ = fs.GetInt(FlagVisitLimit)
	}
	if fs.Changed(FlagLogLevel) {
		cfg.LogLevel, _ = fs.GetString(FlagLogLevel)
	}
	if fs.Changed(FlagMetricsFile) {
		cfg.MetricsFile, _ = fs.GetString(FlagMetricsFile)
	}
	if fs.Changed(FlagRedisAddr) {
		cfg.Redis.Addr, _ = fs.GetString(FlagRedisAddr)
	}
	if fs.Changed(FlagRedisKey) {
		cfg.Redis.Key, _ = fs.GetString(FlagRedisKey)
	}
	return cfg, nil
}
