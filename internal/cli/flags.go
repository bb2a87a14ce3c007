package cli

import (
	"flag"

	"github.com/eshaffer321/pos-register/internal/infrastructure/config"
)

// CommonFlags are shared by every register command.
type CommonFlags struct {
	ConfigPath string
	DBPath     string
	Verbose    bool
}

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	CommonFlags
	Port int
}

func (f *CommonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "config.yaml", "Configuration file path (falls back to environment variables)")
	fs.StringVar(&f.DBPath, "db", "", "SQLite database path (overrides config)")
	fs.BoolVar(&f.Verbose, "verbose", false, "Verbose output")
}

// ParseServeFlags parses command line flags for the serve command.
// A zero port keeps the configured one.
func ParseServeFlags(fs *flag.FlagSet, args []string) (*ServeFlags, error) {
	flags := &ServeFlags{}
	flags.register(fs)
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (overrides config)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// ParseRegisterFlags parses command line flags for the terminal register.
func ParseRegisterFlags(fs *flag.FlagSet, args []string) (*CommonFlags, error) {
	flags := &CommonFlags{}
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// LoadConfig loads the config file named by the flags (or the environment)
// and applies flag overrides.
func (f *CommonFlags) LoadConfig() (*config.Config, error) {
	cfg := config.LoadOrEnv_WithPath(f.ConfigPath)
	if f.DBPath != "" {
		cfg.Storage.DatabasePath = f.DBPath
	}
	if f.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
