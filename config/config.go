// config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	PhishStats    PhishStatsConfiguration
	Cache         CacheConfiguration
	Upstream      UpstreamConfiguration
	Database      DatabaseConfiguration
	Elasticsearch ElasticsearchConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port           string
	FrontendOrigin string
}

// PhishStatsConfiguration stores settings for the PhishStats upstream API
type PhishStatsConfiguration struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// CacheConfiguration stores freshness cache settings
type CacheConfiguration struct {
	TTL time.Duration
}

// UpstreamConfiguration stores the call budget and retry settings
type UpstreamConfiguration struct {
	QuotaPerWindow int
	WindowLength   time.Duration
	RetryCount     int
	RetryBackoff   time.Duration
	FetchTimeout   time.Duration
}

// DatabaseConfiguration stores data for the SQLite database
type DatabaseConfiguration struct {
	Path              string
	RetentionDays     int
	RetentionInterval time.Duration
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL string
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.frontendOrigin", "http://localhost:3000")
	viper.SetDefault("phishstats.url", "https://phishstats.info:20443/api/v1/")
	viper.SetDefault("phishstats.timeout", "10s")
	viper.SetDefault("cache.ttl", "5m")
	viper.SetDefault("upstream.quotaPerWindow", 20)
	viper.SetDefault("upstream.windowLength", "1m")
	viper.SetDefault("upstream.retryCount", 3)
	viper.SetDefault("upstream.retryBackoff", "2s")
	viper.SetDefault("upstream.fetchTimeout", "30s")
	viper.SetDefault("database.path", "./data/phishing.db")
	viper.SetDefault("database.retentionDays", 30)
	viper.SetDefault("database.retentionInterval", "24h")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("audit.enabled", false)
	viper.SetDefault("ratelimit.requests", 100)
	viper.SetDefault("ratelimit.window", "1m")
	viper.SetDefault("api.maxIncidentsPerRequest", 1000)
	viper.SetDefault("log.dir", "logging")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
