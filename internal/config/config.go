package config

import (
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	NodeInfo NodeInfo `yaml:"nodeInfo"`
	Server   Server   `yaml:"server"`
	Proxy    Proxy    `yaml:"proxy"`
	Agent    Agent    `yaml:"agent"`
	Pointer  Pointer  `yaml:"pointer"`
}

type NodeInfo struct {
	FQDN                      string `yaml:"fqdn"`
	WebsocketAddress          string `yaml:"websocketAddress"`
	WebsocketPresentedAddress string `yaml:"websocketPresentedAddress"`
	AnalyticsAccount          string `yaml:"analyticsAccount"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

// Proxy names the headers injected by the trusted reverse proxy. The server
// does not authenticate these values itself; the deployment contract is that
// only the proxy can reach this process.
type Proxy struct {
	UsernameHeader string `yaml:"usernameHeader"`
	UserIDHeader   string `yaml:"userIdHeader"`
}

// Agent describes the well-known automated account that authors the welcome
// document on behalf of the platform.
type Agent struct {
	Name          string `yaml:"name"`
	RPCURL        string `yaml:"rpcUrl"`
	SharedSecret  string `yaml:"sharedSecret"`
	AutoProvision bool   `yaml:"autoProvision"`
}

// Pointer selects where the welcome document pointer is persisted.
// "redis" uses a conditional write and is safe under concurrent first
// requests; "file" reproduces the legacy read-then-write behavior and
// assumes a single writer.
type Pointer struct {
	Backend string `yaml:"backend"` // redis, file
	Path    string `yaml:"path"`
	Key     string `yaml:"key"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.Listen == "" {
		config.Server.Listen = ":8000"
	}
	if config.NodeInfo.WebsocketAddress == "" {
		config.NodeInfo.WebsocketAddress = config.NodeInfo.FQDN
	}
	if config.NodeInfo.WebsocketPresentedAddress == "" {
		config.NodeInfo.WebsocketPresentedAddress = config.NodeInfo.WebsocketAddress
	}
	if config.Proxy.UsernameHeader == "" {
		config.Proxy.UsernameHeader = "X-Host-Username"
	}
	if config.Proxy.UserIDHeader == "" {
		config.Proxy.UserIDHeader = "X-Host-User-Id"
	}
	if config.Agent.Name == "" {
		config.Agent.Name = "welcome-agent"
	}
	if config.Pointer.Backend == "" {
		config.Pointer.Backend = "redis"
	}
	if config.Pointer.Key == "" {
		config.Pointer.Key = "welcome-document-id"
	}

	return config, nil
}
