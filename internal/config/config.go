// Package config loads server configuration from a .env file plus
// defaults, generalizing the teacher's KEY=value loader onto
// godotenv for parsing (spec §6's Configuration key list).
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration recognized by spec §6.
type Config struct {
	ServerName    string
	ServerVersion string

	TelnetPort int
	WebPort    int
	WebHost    string

	InboundChannelCapacity       int
	OutboundChannelCapacity      int
	SessionOutboundQueueCapacity int

	TelnetLineMaxLength          int
	TelnetMaxNonPrintablePerLine int
	TelnetReadBufferBytes        int

	WebStopGracePeriodMillis int
	WebStopTimeoutMillis     int
	WebMaxCloseReasonLength  int

	PromptText string

	EngineTickMillis           int
	InboundBudgetMs            int
	SchedulerMaxActionsPerTick int

	DBType           string
	DBHost           string
	DBPort           int
	DBName           string
	DBUser           string
	DBPassword       string
	DBMaxConnections int
	DBMaxIdleConns   int

	RedisEnabled bool
	RedisHost    string
	RedisPort    int
	RedisDB      int

	MultiGatewayEnabled bool
	GatewayLeaseCount   int
	GatewayLeaseTtlSecs int

	// ClusterSelfNode is this process's own address in the rendezvous
	// ring; ClusterNodes is the full comma-separated ring membership.
	// Only consulted when MultiGatewayEnabled.
	ClusterSelfNode string
	ClusterNodes    string

	MaxPlayers          int
	ShutdownTimeoutSecs int

	LogFormat string // "json" or "console"

	MetricsEndpoint string
}

var defaultConfig = Config{
	ServerName:    "AmbonMUD",
	ServerVersion: "0.1.0",

	TelnetPort: 4000,
	WebPort:    8080,
	WebHost:    "",

	InboundChannelCapacity:       1024,
	OutboundChannelCapacity:      1024,
	SessionOutboundQueueCapacity: 64,

	TelnetLineMaxLength:          1024,
	TelnetMaxNonPrintablePerLine: 16,
	TelnetReadBufferBytes:        4096,

	WebStopGracePeriodMillis: 2000,
	WebStopTimeoutMillis:     5000,
	WebMaxCloseReasonLength:  123,

	PromptText: "> ",

	EngineTickMillis:           100,
	InboundBudgetMs:            50,
	SchedulerMaxActionsPerTick: 256,

	DBType:           "sqlite",
	DBHost:           "localhost",
	DBPort:           5432,
	DBName:           "data/ambonmud.db",
	DBUser:           "ambonmud",
	DBPassword:       "",
	DBMaxConnections: 25,
	DBMaxIdleConns:   5,

	RedisEnabled: false,
	RedisHost:    "localhost",
	RedisPort:    6379,
	RedisDB:      0,

	MultiGatewayEnabled: false,
	GatewayLeaseCount:   65536,
	GatewayLeaseTtlSecs: 30,

	ClusterSelfNode: "node-1",
	ClusterNodes:    "node-1",

	MaxPlayers:          100,
	ShutdownTimeoutSecs: 30,

	LogFormat: "json",

	MetricsEndpoint: "",
}

// Load parses the -env flag (defaulting to ".env", exactly like the
// teacher's LoadConfig) and returns the resolved configuration,
// creating the file with defaults if it doesn't exist yet.
func Load() (*Config, error) {
	envFile := flag.String("env", ".env", "Path to environment configuration file")
	flag.Parse()
	return LoadFile(*envFile)
}

// LoadFile loads configuration from a specific env file path.
func LoadFile(envFile string) (*Config, error) {
	config := defaultConfig

	values, err := godotenv.Read(envFile)
	if err != nil {
		if os.IsNotExist(err) {
			if werr := writeDefaultEnvFile(envFile); werr != nil {
				return nil, fmt.Errorf("failed to create default config: %w", werr)
			}
			values = map[string]string{}
		} else {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	for key, value := range values {
		if err := setConfigValue(&config, key, value); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setConfigValue(c *Config, key, value string) error {
	atoi := func(dst *int) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	boolOf := func() bool { return value == "true" || value == "1" }

	switch key {
	case "SERVER_NAME":
		c.ServerName = value
	case "SERVER_VERSION":
		c.ServerVersion = value
	case "TELNET_PORT":
		return atoi(&c.TelnetPort)
	case "WEB_PORT":
		return atoi(&c.WebPort)
	case "WEB_HOST":
		c.WebHost = value
	case "INBOUND_CHANNEL_CAPACITY":
		return atoi(&c.InboundChannelCapacity)
	case "OUTBOUND_CHANNEL_CAPACITY":
		return atoi(&c.OutboundChannelCapacity)
	case "SESSION_OUTBOUND_QUEUE_CAPACITY":
		return atoi(&c.SessionOutboundQueueCapacity)
	case "TELNET_LINE_MAX_LENGTH":
		return atoi(&c.TelnetLineMaxLength)
	case "TELNET_MAX_NON_PRINTABLE_PER_LINE":
		return atoi(&c.TelnetMaxNonPrintablePerLine)
	case "TELNET_READ_BUFFER_BYTES":
		return atoi(&c.TelnetReadBufferBytes)
	case "WEB_STOP_GRACE_PERIOD_MILLIS":
		return atoi(&c.WebStopGracePeriodMillis)
	case "WEB_STOP_TIMEOUT_MILLIS":
		return atoi(&c.WebStopTimeoutMillis)
	case "WEB_MAX_CLOSE_REASON_LENGTH":
		return atoi(&c.WebMaxCloseReasonLength)
	case "PROMPT_TEXT":
		c.PromptText = value
	case "ENGINE_TICK_MILLIS":
		return atoi(&c.EngineTickMillis)
	case "INBOUND_BUDGET_MS":
		return atoi(&c.InboundBudgetMs)
	case "SCHEDULER_MAX_ACTIONS_PER_TICK":
		return atoi(&c.SchedulerMaxActionsPerTick)
	case "DB_TYPE":
		c.DBType = value
	case "DB_HOST":
		c.DBHost = value
	case "DB_PORT":
		return atoi(&c.DBPort)
	case "DB_NAME":
		c.DBName = value
	case "DB_USER":
		c.DBUser = value
	case "DB_PASSWORD":
		c.DBPassword = value
	case "DB_MAX_CONNECTIONS":
		return atoi(&c.DBMaxConnections)
	case "DB_MAX_IDLE_CONNS":
		return atoi(&c.DBMaxIdleConns)
	case "REDIS_ENABLED":
		c.RedisEnabled = boolOf()
	case "REDIS_HOST":
		c.RedisHost = value
	case "REDIS_PORT":
		return atoi(&c.RedisPort)
	case "REDIS_DB":
		return atoi(&c.RedisDB)
	case "MULTI_GATEWAY_ENABLED":
		c.MultiGatewayEnabled = boolOf()
	case "GATEWAY_LEASE_COUNT":
		return atoi(&c.GatewayLeaseCount)
	case "GATEWAY_LEASE_TTL_SECS":
		return atoi(&c.GatewayLeaseTtlSecs)
	case "CLUSTER_SELF_NODE":
		c.ClusterSelfNode = value
	case "CLUSTER_NODES":
		c.ClusterNodes = value
	case "MAX_PLAYERS":
		return atoi(&c.MaxPlayers)
	case "SHUTDOWN_TIMEOUT_SECS":
		return atoi(&c.ShutdownTimeoutSecs)
	case "LOG_FORMAT":
		c.LogFormat = value
	case "METRICS_ENDPOINT":
		c.MetricsEndpoint = value
	default:
		// unknown key: ignored, same as the teacher's warn-and-continue
	}
	return nil
}

func validate(c *Config) error {
	if c.TelnetPort < 1 || c.TelnetPort > 65535 {
		return fmt.Errorf("invalid TELNET_PORT: must be between 1 and 65535")
	}
	if c.WebPort < 1 || c.WebPort > 65535 {
		return fmt.Errorf("invalid WEB_PORT: must be between 1 and 65535")
	}
	if c.DBType != "sqlite" && c.DBType != "postgres" {
		return fmt.Errorf("invalid DB_TYPE: must be 'sqlite' or 'postgres'")
	}
	if c.DBName == "" {
		return fmt.Errorf("DB_NAME cannot be empty")
	}
	if c.InboundBudgetMs <= 0 || c.InboundBudgetMs >= c.EngineTickMillis {
		return fmt.Errorf("INBOUND_BUDGET_MS must be > 0 and < ENGINE_TICK_MILLIS")
	}
	if c.MaxPlayers < 1 {
		return fmt.Errorf("MAX_PLAYERS must be at least 1")
	}
	if c.ShutdownTimeoutSecs < 5 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECS must be at least 5 seconds")
	}
	return nil
}

func writeDefaultEnvFile(filename string) error {
	content := `# AmbonMUD Configuration File
# Automatically created with defaults if missing.

SERVER_NAME=AmbonMUD
SERVER_VERSION=0.1.0

TELNET_PORT=4000
WEB_PORT=8080
WEB_HOST=

INBOUND_CHANNEL_CAPACITY=1024
OUTBOUND_CHANNEL_CAPACITY=1024
SESSION_OUTBOUND_QUEUE_CAPACITY=64

TELNET_LINE_MAX_LENGTH=1024
TELNET_MAX_NON_PRINTABLE_PER_LINE=16
TELNET_READ_BUFFER_BYTES=4096

WEB_STOP_GRACE_PERIOD_MILLIS=2000
WEB_STOP_TIMEOUT_MILLIS=5000
WEB_MAX_CLOSE_REASON_LENGTH=123

PROMPT_TEXT=>

ENGINE_TICK_MILLIS=100
INBOUND_BUDGET_MS=50
SCHEDULER_MAX_ACTIONS_PER_TICK=256

DB_TYPE=sqlite
DB_NAME=data/ambonmud.db
DB_MAX_CONNECTIONS=25
DB_MAX_IDLE_CONNS=5

REDIS_ENABLED=false
REDIS_HOST=localhost
REDIS_PORT=6379
REDIS_DB=0

MULTI_GATEWAY_ENABLED=false
GATEWAY_LEASE_COUNT=65536
GATEWAY_LEASE_TTL_SECS=30
CLUSTER_SELF_NODE=node-1
CLUSTER_NODES=node-1

MAX_PLAYERS=100
SHUTDOWN_TIMEOUT_SECS=30

LOG_FORMAT=json
METRICS_ENDPOINT=
`
	return os.WriteFile(filename, []byte(content), 0644)
}

func (c *Config) TelnetListenAddress() string {
	return fmt.Sprintf(":%d", c.TelnetPort)
}

func (c *Config) WebListenAddress() string {
	host := c.WebHost
	if host == "" {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", host, c.WebPort)
}
