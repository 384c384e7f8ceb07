package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/halcyon-wallet/keyring-daemon/pkg/keyring"
)

const (
	// DatadirKey is the local data directory to store the internal state of
	// the daemon. An empty value keeps all state in memory.
	DatadirKey = "DATA_DIR_PATH"
	// LogLevelKey are the different logging levels. For reference on the
	// values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// RPCEndpointKey is the JSON-RPC node endpoint used to probe account
	// balances while scanning a mnemonic
	RPCEndpointKey = "RPC_ENDPOINT"
	// RPCRequestTimeoutKey are the milliseconds to wait for RPC responses
	// before timing out
	RPCRequestTimeoutKey = "RPC_REQUEST_TIMEOUT"
	// ScryptNKey, ScryptRKey, ScryptPKey override the vault key-stretching
	// parameters. Lowering them is only meant for tests.
	ScryptNKey = "SCRYPT_N"
	// ScryptRKey ...
	ScryptRKey = "SCRYPT_R"
	// ScryptPKey ...
	ScryptPKey = "SCRYPT_P"

	// DbLocation is the subfolder of the datadir containing the database
	DbLocation = "db"
)

var vip *viper.Viper

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("KEYRING")
	vip.AutomaticEnv()

	defaultDatadir := ""
	if home, err := os.UserHomeDir(); err == nil {
		defaultDatadir = filepath.Join(home, ".keyring-daemon")
	}

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, int(log.InfoLevel))
	vip.SetDefault(RPCEndpointKey, "https://api.mainnet-beta.solana.com")
	vip.SetDefault(RPCRequestTimeoutKey, 15000)
	vip.SetDefault(ScryptNKey, keyring.DefaultKDFParams.N)
	vip.SetDefault(ScryptRKey, keyring.DefaultKDFParams.R)
	vip.SetDefault(ScryptPKey, keyring.DefaultKDFParams.P)
}

// GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

// GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

// GetDatadir returns the data directory, created if missing
func GetDatadir() string {
	return vip.GetString(DatadirKey)
}

// GetDbDir returns the database location inside the datadir, or an empty
// string when running stateless
func GetDbDir() string {
	datadir := GetDatadir()
	if len(datadir) <= 0 {
		return ""
	}
	return filepath.Join(datadir, DbLocation)
}

// GetRPCRequestTimeout ...
func GetRPCRequestTimeout() time.Duration {
	return time.Duration(vip.GetInt(RPCRequestTimeoutKey)) * time.Millisecond
}

// GetKDFParams returns the configured vault key-stretching parameters
func GetKDFParams() keyring.KDFParams {
	return keyring.KDFParams{
		N: vip.GetInt(ScryptNKey),
		R: vip.GetInt(ScryptRKey),
		P: vip.GetInt(ScryptPKey),
	}
}

// Validate checks the daemon configuration, creating the datadir if needed
func Validate() error {
	if endpoint := GetString(RPCEndpointKey); len(endpoint) > 0 {
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return fmt.Errorf("%s is not a valid url: %w", RPCEndpointKey, err)
		}
	}

	if datadir := GetDatadir(); len(datadir) > 0 {
		if err := os.MkdirAll(filepath.Join(datadir, DbLocation), 0700); err != nil {
			return fmt.Errorf("creating datadir: %w", err)
		}
	}

	return nil
}

// Set overrides a config value, used by tests
func Set(key string, value interface{}) {
	vip.Set(key, value)
}
