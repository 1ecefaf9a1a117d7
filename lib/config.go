package lib

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/units"
)

/* This file implements logic for 'user controlled' configurations of each module of the node */

const (
	// FILE NAMES in the 'data directory'
	ConfigFilePath  = "config.json"  // the file path for the node configuration
	GenesisFilePath = "genesis.yaml" // the file path for the genesis balances and contracts
)

// Config is the structure of the user configuration options for a liquidity helper node
type Config struct {
	MainConfig    // main options spanning over all modules
	RPCConfig     // rpc API options
	StoreConfig   // persistence options
	JournalConfig // transaction result journal options
	MetricsConfig // prometheus exporter options
}

// DefaultConfig() returns a Config with developer set options
func DefaultConfig() Config {
	return Config{
		MainConfig:    DefaultMainConfig(),
		RPCConfig:     DefaultRPCConfig(),
		StoreConfig:   DefaultStoreConfig(),
		JournalConfig: DefaultJournalConfig(),
		MetricsConfig: DefaultMetricsConfig(),
	}
}

// MAIN CONFIG BELOW

type MainConfig struct {
	LogLevel string `json:"logLevel"` // any level includes the levels above it: debug < info < warning < error
	MaxDepth int    `json:"maxDepth"` // the maximum nesting of messages dispatched by contracts within one transaction
}

// DefaultMainConfig() sets log level to 'info'
func DefaultMainConfig() MainConfig {
	return MainConfig{
		LogLevel: "info",
		MaxDepth: 16,
	}
}

// GetLogLevel() parses the log string in the config file into a LogLevel Enum
func (m *MainConfig) GetLogLevel() int32 {
	switch {
	case strings.Contains(strings.ToLower(m.LogLevel), "deb"):
		return DebugLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "inf"):
		return InfoLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "war"):
		return WarnLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "err"):
		return ErrorLevel
	default:
		return DebugLevel
	}
}

// RPC CONFIG BELOW

type RPCConfig struct {
	RPCPort         string `json:"rpcPort"`         // the port where the rpc server is hosted
	RPCUrl          string `json:"rpcURL"`          // the url where the rpc server is hosted
	TimeoutS        int    `json:"timeoutS"`        // the rpc request timeout in seconds
	MaxRequestBytes int64  `json:"maxRequestBytes"` // the largest accepted request body
}

// DefaultRPCConfig() sets rpc url to localhost
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		RPCPort:         "50102",
		RPCUrl:          "http://localhost:50102",
		TimeoutS:        3,
		MaxRequestBytes: int64(units.MiB),
	}
}

// STORE CONFIG BELOW

type StoreConfig struct {
	DataDirPath      string `json:"dataDirPath"`      // path of the designated folder where the application stores its data
	DBName           string `json:"dbName"`           // name of the database
	InMemory         bool   `json:"inMemory"`         // non-disk database, only for testing
	ValueLogFileSize int64  `json:"valueLogFileSize"` // the size of each badger value log file
}

// DefaultDataDirPath() is $USERHOME/.lphelper
func DefaultDataDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(home, ".lphelper")
}

// DefaultStoreConfig() returns the developer recommended store configuration
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		DataDirPath:      DefaultDataDirPath(),
		DBName:           "lphelper",
		InMemory:         false,
		ValueLogFileSize: int64(64 * units.MiB),
	}
}

// JOURNAL CONFIG BELOW

type JournalConfig struct {
	JournalDir       string `json:"journalDir"`       // directory under the data dir holding the write ahead log segments
	SegmentThreshold int    `json:"segmentThreshold"` // the number of records per segment
	MaxSegments      int    `json:"maxSegments"`      // the number of segments retained
	SyncWrites       bool   `json:"syncWrites"`       // fsync every record
	CacheSize        int    `json:"cacheSize"`        // the number of results kept in the read cache
}

// DefaultJournalConfig() returns the developer recommended journal configuration
func DefaultJournalConfig() JournalConfig {
	return JournalConfig{
		JournalDir:       "journal",
		SegmentThreshold: 1000,
		MaxSegments:      100,
		SyncWrites:       true,
		CacheSize:        512,
	}
}

// METRICS CONFIG BELOW

type MetricsConfig struct {
	MetricsEnabled    bool   `json:"metricsEnabled"`    // serve the prometheus exporter
	PrometheusAddress string `json:"prometheusAddress"` // the listen address of the exporter
}

// DefaultMetricsConfig() enables the exporter on the prometheus default port
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MetricsEnabled:    true,
		PrometheusAddress: "0.0.0.0:9090",
	}
}

// WriteToFile() saves the Config object to a JSON file
func (c Config) WriteToFile(filepath string) error {
	jsonBytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, jsonBytes, os.ModePerm)
}

// NewConfigFromFile() populates a Config object from a JSON file
func NewConfigFromFile(filepath string) (Config, error) {
	fileBytes, err := os.ReadFile(filepath)
	if err != nil {
		return Config{}, err
	}
	// start from the defaults to fill in any blanks in the file
	c := DefaultConfig()
	if err = json.Unmarshal(fileBytes, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
