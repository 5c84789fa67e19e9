package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the application.
type Config struct {
	// Server settings
	ListenAddress   string        `yaml:"listen_address"`
	ListenPort      string        `yaml:"listen_port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Storage settings
	DataDir      string `yaml:"data_dir"`      // Private, never served over HTTP
	ContactsFile string `yaml:"contacts_file"` // File name inside DataDir
	StatsFile    string `yaml:"stats_file"`    // File name inside DataDir
	MaxContacts  int    `yaml:"max_contacts"`
	EnableBackup bool   `yaml:"enable_backup"`

	// Offline tool settings
	ExportDir string `yaml:"export_dir"`

	// Notification settings
	NotifyEnabled bool   `yaml:"notify_enabled"`
	NotifyTo      string `yaml:"notify_to"`
	NotifyFrom    string `yaml:"notify_from"`
}

const (
	envPrefix = "VISIONARYIQ_"

	defaultAddress         = "0.0.0.0"
	defaultPort            = "8080"
	defaultShutdownTimeout = 10 * time.Second
	defaultDataDir         = "./private_data"
	defaultContactsFile    = "contacts.json"
	defaultStatsFile       = "stats.json"
	defaultMaxContacts     = 500
	defaultEnableBackup    = false
	defaultExportDir       = "./exports"
	defaultNotifyEnabled   = true
	defaultNotifyTo        = "your-admin-email@gmail.com"
	defaultNotifyFrom      = "VisionaryIQ Website <no-reply@visionaryiq.local>"
)

// ContactsPath returns the absolute path of the contacts file.
func (c *Config) ContactsPath() string {
	return filepath.Join(c.DataDir, c.ContactsFile)
}

// StatsPath returns the absolute path of the stats file.
func (c *Config) StatsPath() string {
	return filepath.Join(c.DataDir, c.StatsFile)
}

// Default returns a Config populated with built-in defaults only.
func Default() *Config {
	return &Config{
		ListenAddress:   defaultAddress,
		ListenPort:      defaultPort,
		ShutdownTimeout: defaultShutdownTimeout,
		DataDir:         defaultDataDir,
		ContactsFile:    defaultContactsFile,
		StatsFile:       defaultStatsFile,
		MaxContacts:     defaultMaxContacts,
		EnableBackup:    defaultEnableBackup,
		ExportDir:       defaultExportDir,
		NotifyEnabled:   defaultNotifyEnabled,
		NotifyTo:        defaultNotifyTo,
		NotifyFrom:      defaultNotifyFrom,
	}
}

// LoadConfig loads the server configuration from defaults, an optional YAML file,
// environment variables (including a .env file) and command-line flags.
// Flags take precedence over environment variables, which take precedence over the
// YAML file, which takes precedence over defaults.
func LoadConfig() (*Config, error) {
	cfg, err := loadBase()
	if err != nil {
		return nil, err
	}

	// Flags default to the values resolved so far, so an unset flag keeps env/file values.
	flag.StringVar(&cfg.ListenAddress, "address", cfg.ListenAddress, "Server listen address (Env: VISIONARYIQ_LISTEN_ADDRESS)")
	flag.StringVar(&cfg.ListenPort, "port", cfg.ListenPort, "Server listen port (Env: VISIONARYIQ_LISTEN_PORT)")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding contacts and stats files (Env: VISIONARYIQ_DATA_DIR)")
	flag.IntVar(&cfg.MaxContacts, "max-contacts", cfg.MaxContacts, "Maximum number of contacts retained (Env: VISIONARYIQ_MAX_CONTACTS)")
	flag.BoolVar(&cfg.EnableBackup, "enable-backup", cfg.EnableBackup, "Keep a .bak copy of each file before rewriting it (Env: VISIONARYIQ_ENABLE_BACKUP)")
	flag.BoolVar(&cfg.NotifyEnabled, "notify", cfg.NotifyEnabled, "Prepare notification emails for new contacts (Env: VISIONARYIQ_NOTIFY_ENABLED)")
	flag.Parse()

	if err := finalize(cfg); err != nil {
		return nil, err
	}
	logConfiguration(cfg)
	return cfg, nil
}

// LoadToolConfig loads configuration for the offline tools. It reads the same
// sources as LoadConfig except command-line flags, which the tools do not accept.
func LoadToolConfig() (*Config, error) {
	cfg, err := loadBase()
	if err != nil {
		return nil, err
	}
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadBase applies defaults, the optional YAML file and environment variables.
func loadBase() (*Config, error) {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	cfg := Default()

	if path := getEnv(envPrefix+"CONFIG_FILE", ""); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.ListenAddress = getEnv(envPrefix+"LISTEN_ADDRESS", cfg.ListenAddress)
	cfg.ListenPort = getEnv(envPrefix+"LISTEN_PORT", cfg.ListenPort)
	cfg.ShutdownTimeout = getEnvDuration(envPrefix+"SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.DataDir = getEnv(envPrefix+"DATA_DIR", cfg.DataDir)
	cfg.ContactsFile = getEnv(envPrefix+"CONTACTS_FILE", cfg.ContactsFile)
	cfg.StatsFile = getEnv(envPrefix+"STATS_FILE", cfg.StatsFile)
	cfg.MaxContacts = getEnvInt(envPrefix+"MAX_CONTACTS", cfg.MaxContacts)
	cfg.EnableBackup = getEnvBool(envPrefix+"ENABLE_BACKUP", cfg.EnableBackup)
	cfg.ExportDir = getEnv(envPrefix+"EXPORT_DIR", cfg.ExportDir)
	cfg.NotifyEnabled = getEnvBool(envPrefix+"NOTIFY_ENABLED", cfg.NotifyEnabled)
	cfg.NotifyTo = getEnv(envPrefix+"NOTIFY_TO", cfg.NotifyTo)
	cfg.NotifyFrom = getEnv(envPrefix+"NOTIFY_FROM", cfg.NotifyFrom)

	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg. Keys absent from the file keep their current values.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	log.Printf("INFO: Loaded configuration file: %s", path)
	return nil
}

// finalize validates the merged configuration and resolves paths.
func finalize(cfg *Config) error {
	if cfg.MaxContacts <= 0 {
		log.Printf("WARN: Invalid max contacts %d. Using default %d.", cfg.MaxContacts, defaultMaxContacts)
		cfg.MaxContacts = defaultMaxContacts
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if strings.TrimSpace(cfg.ContactsFile) == "" {
		cfg.ContactsFile = defaultContactsFile
	}
	if strings.TrimSpace(cfg.StatsFile) == "" {
		cfg.StatsFile = defaultStatsFile
	}
	if cfg.ContactsFile == cfg.StatsFile {
		return fmt.Errorf("contacts file and stats file must differ (both '%s')", cfg.ContactsFile)
	}

	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("could not determine absolute path for data-dir '%s': %w", cfg.DataDir, err)
	}
	cfg.DataDir = absDataDir

	// The directory itself is created lazily on the first submission.
	if info, err := os.Stat(cfg.DataDir); err == nil && !info.IsDir() {
		return fmt.Errorf("data directory '%s' points to a file, not a directory", cfg.DataDir)
	}

	absExportDir, err := filepath.Abs(cfg.ExportDir)
	if err != nil {
		return fmt.Errorf("could not determine absolute path for export-dir '%s': %w", cfg.ExportDir, err)
	}
	cfg.ExportDir = absExportDir

	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvBool retrieves a boolean environment variable or returns a default value.
// Recognizes "true", "1", "yes" and "false", "0", "no" (case-insensitive).
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(value) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
		log.Printf("WARN: Invalid boolean value for environment variable %s: '%s'. Using default: %t", key, value, fallback)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		log.Printf("WARN: Invalid integer value for environment variable %s: '%s'. Using default: %d", key, value, fallback)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
		log.Printf("WARN: Invalid duration in %s: '%s'. Using default: %s", key, value, fallback)
	}
	return fallback
}

// logConfiguration prints the loaded configuration settings.
func logConfiguration(cfg *Config) {
	log.Println("--- Configuration ---")
	log.Printf("Server Address: %s", cfg.ListenAddress)
	log.Printf("Server Port: %s", cfg.ListenPort)
	log.Printf("Data Directory: %s", cfg.DataDir)
	log.Printf("Contacts File: %s", cfg.ContactsPath())
	log.Printf("Stats File: %s", cfg.StatsPath())
	log.Printf("Max Contacts: %d", cfg.MaxContacts)
	log.Printf("Backup Enabled: %t", cfg.EnableBackup)
	log.Printf("Notifications Enabled: %t (to %s)", cfg.NotifyEnabled, cfg.NotifyTo)
	log.Println("---------------------")
}
