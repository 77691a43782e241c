package network

import "fmt"

// Environment variables read by ResolveConfig.
const (
	EnvRPCURL  = "LIBRAFFLE_RPC_URL"
	EnvRPCUser = "LIBRAFFLE_RPC_USER"
	EnvRPCPass = "LIBRAFFLE_RPC_PASS"
)

// RPCConfig holds the connection parameters for a node's JSON-RPC interface.
type RPCConfig struct {
	URL      string `json:"url"`
	User     string `json:"user"`
	Password string `json:"password"`
	Network  string `json:"network"`
}

// NetworkPresets contains default RPC configurations for local networks.
// Mainnet has no preset and must be configured explicitly.
var NetworkPresets = map[string]RPCConfig{
	"regtest": {URL: "http://localhost:18332", User: "raffle", Password: "raffle"},
	"testnet": {URL: "http://localhost:18333", User: "raffle", Password: "raffle"},
}

// ResolveConfig merges RPC configuration from explicit values, then env, then
// the network preset, in decreasing priority.
func ResolveConfig(explicit *RPCConfig, env map[string]string, network string) (*RPCConfig, error) {
	result := RPCConfig{Network: network}
	if preset, ok := NetworkPresets[network]; ok {
		result = preset
		result.Network = network
	}

	if v := env[EnvRPCURL]; v != "" {
		result.URL = v
	}
	if v := env[EnvRPCUser]; v != "" {
		result.User = v
	}
	if v := env[EnvRPCPass]; v != "" {
		result.Password = v
	}

	if explicit != nil {
		if explicit.URL != "" {
			result.URL = explicit.URL
		}
		if explicit.User != "" {
			result.User = explicit.User
		}
		if explicit.Password != "" {
			result.Password = explicit.Password
		}
	}

	if result.URL == "" {
		return nil, fmt.Errorf("%w: %s needs %s or an explicit url", ErrMissingRPCConfig, network, EnvRPCURL)
	}
	return &result, nil
}
