//go:build wireinject
// +build wireinject

package di

import (
	"donwatch/internal"
	"donwatch/internal/adapters"
	"donwatch/internal/assets"
	"donwatch/internal/controllers"
	"donwatch/internal/ledger"
	"donwatch/internal/pricing"
	"donwatch/internal/providers"
	"donwatch/internal/scheduler"
	"donwatch/internal/storage"
	"donwatch/internal/structures"
	"donwatch/internal/wallet"
	"donwatch/internal/watch"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		assets.NewRegistry,
		storage.NewZstdCompressor,
		storage.NewFileManager,
		wire.Bind(new(storage.Store), new(*storage.FileManager)),

		pricing.NewCoinGeckoSource,
		wire.Bind(new(pricing.Source), new(*pricing.CoinGeckoSource)),
		pricing.NewOracle,
		wire.Bind(new(ledger.PriceSource), new(*pricing.Oracle)),
		wire.Bind(new(scheduler.PriceRefresher), new(*pricing.Oracle)),
		wire.Bind(new(controllers.PriceReader), new(*pricing.Oracle)),

		ledger.NewLedger,
		wire.Bind(new(watch.Recorder), new(*ledger.Ledger)),
		wire.Bind(new(wallet.Recorder), new(*ledger.Ledger)),
		wire.Bind(new(scheduler.LedgerStore), new(*ledger.Ledger)),
		wire.Bind(new(controllers.LedgerReader), new(*ledger.Ledger)),

		adapters.NewFactory,
		watch.NewManager,
		wire.Bind(new(controllers.Watcher), new(*watch.Manager)),
		wire.Bind(new(internal.SessionCloser), new(*watch.Manager)),

		wallet.NewWalletProvider,
		wallet.NewFlow,
		wire.Bind(new(controllers.Donor), new(*wallet.Flow)),
		wire.Bind(new(controllers.ChainLister), new(*assets.Registry)),

		scheduler.NewScheduler,
		controllers.NewApiController,
		controllers.NewDonationController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
