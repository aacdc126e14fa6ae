package configs

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
)

const (
	defaultServerAddress  = "localhost:8080"
	defaultGuidesAPIURL   = "https://www.ifixit.com/api/2.0"
	defaultGuideURLPrefix = "https://www.ifixit.com/Guide/"
	defaultMongoDatabase  = "repairs"
	defaultLogLevel       = "info"
)

// Application configs
type Config struct {
	ServerAddress   string `json:"server_address,omitempty"`
	GuidesAPIURL    string `json:"guides_api_url,omitempty"`
	GuideURLPrefix  string `json:"guide_url_prefix,omitempty"`
	MongoURI        string `json:"mongo_uri,omitempty"`
	MongoDatabase   string `json:"mongo_database,omitempty"`
	DatabaseDSN     string `json:"database_dsn,omitempty"`
	FileStoragePath string `json:"file_storage_path,omitempty"`
	LogLevel        string `json:"log_level,omitempty"`
	TrustedSubnet   string `json:"trusted_subnet,omitempty"`
	TLSHost         string `json:"tls_host,omitempty"`
	EnableHTTPS     bool   `json:"enable_https"`
}

// Default configs
func Default() Config {
	return Config{
		ServerAddress:  defaultServerAddress,
		GuidesAPIURL:   defaultGuidesAPIURL,
		GuideURLPrefix: defaultGuideURLPrefix,
		MongoDatabase:  defaultMongoDatabase,
		LogLevel:       defaultLogLevel,
	}
}

// Parse configs from the command line, environment and config file
func Parse() Config {
	config, err := ParseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Printf("failed to parse flags: %s\n", err.Error())
	}

	return config
}

// ParseArgs parses configs using fs. Config file values are overridden by flags,
// flags are overridden by environment variables.
func ParseArgs(fs *flag.FlagSet, args []string) (Config, error) {
	var flags Config
	var configFilePath string
	fs.StringVar(&flags.ServerAddress, "a", "", "server's address")
	fs.StringVar(&flags.GuidesAPIURL, "g", "", "base URL of the repair guides API")
	fs.StringVar(&flags.GuideURLPrefix, "p", "", "prefix of the stored guide URLs")
	fs.StringVar(&flags.MongoURI, "m", "", "MongoDB connection URI")
	fs.StringVar(&flags.MongoDatabase, "n", "", "MongoDB database name")
	fs.StringVar(&flags.DatabaseDSN, "d", "", "database URL")
	fs.StringVar(&flags.FileStoragePath, "f", "", "file storage path")
	fs.StringVar(&flags.LogLevel, "l", "", "log level")
	fs.StringVar(&flags.TrustedSubnet, "t", "", "trusted subnet in CIDR notation")
	fs.StringVar(&flags.TLSHost, "host", "", "host name for the TLS certificate")
	fs.BoolVar(&flags.EnableHTTPS, "s", false, "enable HTTPS")
	fs.StringVar(&configFilePath, "c", "", "file path with json application configs")
	parseErr := fs.Parse(args)

	if envConfigFilePath := os.Getenv("CONFIG"); envConfigFilePath != "" {
		configFilePath = envConfigFilePath
	}

	config := Default()
	if configFilePath != "" {
		configData, err := os.ReadFile(configFilePath)
		if err == nil {
			if err = json.Unmarshal(configData, &config); err != nil {
				log.Printf("failed to parse configs: %s\n", err.Error())
			}
		} else {
			log.Printf("failed to read configs: %s\n", err.Error())
		}
	}

	override(&config.ServerAddress, flags.ServerAddress, "SERVER_ADDRESS")
	override(&config.GuidesAPIURL, flags.GuidesAPIURL, "GUIDES_API_URL")
	override(&config.GuideURLPrefix, flags.GuideURLPrefix, "GUIDE_URL_PREFIX")
	override(&config.MongoURI, flags.MongoURI, "MONGO_URI")
	override(&config.MongoDatabase, flags.MongoDatabase, "MONGO_DATABASE")
	override(&config.DatabaseDSN, flags.DatabaseDSN, "DATABASE_DSN")
	override(&config.FileStoragePath, flags.FileStoragePath, "FILE_STORAGE_PATH")
	override(&config.LogLevel, flags.LogLevel, "LOG_LEVEL")
	override(&config.TrustedSubnet, flags.TrustedSubnet, "TRUSTED_SUBNET")
	override(&config.TLSHost, flags.TLSHost, "TLS_HOST")

	envEnableHTTPS, err := strconv.ParseBool(os.Getenv("ENABLE_HTTPS"))
	if err == nil {
		config.EnableHTTPS = config.EnableHTTPS || flags.EnableHTTPS || envEnableHTTPS
	} else {
		config.EnableHTTPS = config.EnableHTTPS || flags.EnableHTTPS
	}

	return config, parseErr
}

func override(dst *string, flagValue, envKey string) {
	if flagValue != "" {
		*dst = flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		*dst = envValue
	}
}

// Use MongoDB storage
func (c Config) UseMongoStorage() bool {
	return c.MongoURI != ""
}

// Use database storage
func (c Config) UseDBStorage() bool {
	return c.DatabaseDSN != ""
}

// Use file storage
func (c Config) UseFileStorage() bool {
	return c.FileStoragePath != ""
}

// Use HTTPS
func (c Config) UseHTTPS() bool {
	return c.EnableHTTPS
}
