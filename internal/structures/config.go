package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	PricesPath string `yaml:"pricesPath" validate:"required|unixPath"`
	LedgerPath string `yaml:"ledgerPath" validate:"required|unixPath"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type WatchConfig struct {
	Interval     time.Duration `yaml:"interval" validate:"required|min:1"`
	MaxAttempts  int           `yaml:"maxAttempts" validate:"required|min:1"`
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
}

type PriceConfig struct {
	URL      string        `yaml:"url" validate:"required|fullUrl"`
	Interval time.Duration `yaml:"interval" validate:"required|min:1"`
	Timeout  time.Duration `yaml:"timeout"`
}

type WalletConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	ReceiptPoll time.Duration `yaml:"receiptPoll"`
}

type ProviderConfig struct {
	Kind string `yaml:"kind"`
	URL  string `yaml:"url"`
}

type ChainConfig struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	Kind         string            `yaml:"kind"`
	NativeSymbol string            `yaml:"nativeSymbol"`
	Explorer     string            `yaml:"explorer"`
	RPC          string            `yaml:"rpc"`
	Address      string            `yaml:"address"`
	Tokens       map[string]string `yaml:"tokens"`
	Providers    []ProviderConfig  `yaml:"providers"`
	Disabled     bool              `yaml:"disabled"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Watch       WatchConfig   `yaml:"watch"`
	Prices      PriceConfig   `yaml:"prices"`
	Wallet      WalletConfig  `yaml:"wallet"`
	Chains      []ChainConfig `yaml:"chains"`
}
