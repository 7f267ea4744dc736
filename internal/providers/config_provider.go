package providers

import (
	"donwatch/internal/structures"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultPriceURL = "https://api.coingecko.com/api/v3/simple/price"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("watch.interval", 12*time.Second)
	v.SetDefault("watch.maxAttempts", 30)
	v.SetDefault("watch.fetchTimeout", 10*time.Second)
	v.SetDefault("prices.url", defaultPriceURL)
	v.SetDefault("prices.interval", 60*time.Second)
	v.SetDefault("prices.timeout", 10*time.Second)
	v.SetDefault("wallet.receiptPoll", 2*time.Second)

	v.BindEnv("logger.level", "DONWATCH_LOG_LEVEL")
	v.BindEnv("watch.interval", "DONWATCH_WATCH_INTERVAL")
	v.BindEnv("prices.interval", "DONWATCH_PRICE_INTERVAL")
	v.BindEnv("cache.enabled", "DONWATCH_CACHE_ENABLED")
	v.BindEnv("wallet.endpoint", "DONWATCH_WALLET_ENDPOINT")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "DonationWatchDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
