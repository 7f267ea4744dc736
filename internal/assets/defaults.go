package assets

import "donwatch/internal/structures"

const defaultEVMAddress = "0x111a60e587C811A05e13c3a26dC02A456Ad4D23e"

// DefaultChains is the built-in chain table. Configured chains overlay it by id.
func DefaultChains() []structures.ChainConfig {
	return []structures.ChainConfig{
		{
			ID: "1", Name: "Ethereum", Kind: string(KindEVM), NativeSymbol: "ETH",
			Explorer: "https://etherscan.io", RPC: "https://cloudflare-eth.com",
			Address: defaultEVMAddress,
			Tokens: map[string]string{
				"USDC": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
				"USDT": "0xdAC17F958D2ee523a2206206994597C13D831ec7",
			},
		},
		{
			ID: "137", Name: "Polygon", Kind: string(KindEVM), NativeSymbol: "MATIC",
			Explorer: "https://polygonscan.com", RPC: "https://polygon-rpc.com",
			Address: defaultEVMAddress,
			Tokens: map[string]string{
				"USDC": "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
				"USDT": "0xC2132D05D31c914a87C6611C10748AEB04B58e8F",
			},
		},
		{
			ID: "42161", Name: "Arbitrum", Kind: string(KindEVM), NativeSymbol: "ETH",
			Explorer: "https://arbiscan.io", RPC: "https://arb1.arbitrum.io/rpc",
			Address: defaultEVMAddress,
			Tokens: map[string]string{
				"USDC": "0xaf88d065e77c8cC2239327C5EDb3A432268e5831",
				"USDT": "0xfd086bc7cd5c481dcc9c85ebe478a1c0b69fcbb9",
			},
		},
		{
			ID: "56", Name: "BNB Smart Chain", Kind: string(KindEVM), NativeSymbol: "BNB",
			Explorer: "https://bscscan.com", RPC: "https://bsc-dataseed.binance.org",
			Address: defaultEVMAddress,
			Tokens: map[string]string{
				"USDC": "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d",
				"USDT": "0x55d398326f99059fF775485246999027B3197955",
			},
		},
		{
			ID: "btc", Name: "Bitcoin", Kind: string(KindBTC), NativeSymbol: "BTC",
			Explorer: "https://blockstream.info",
			Address:  "bc1q995w9gqc8ae67v7yy8qj9r980vapwvp28wkagx",
			Providers: []structures.ProviderConfig{
				{Kind: "blockstream", URL: "https://blockstream.info"},
				{Kind: "blockchair", URL: "https://api.blockchair.com"},
			},
		},
		{
			ID: "ltc", Name: "Litecoin", Kind: string(KindLTC), NativeSymbol: "LTC",
			Explorer: "https://blockchair.com/litecoin",
			Address:  "LahEALVAF3g3UE61D5ikfoXMoHRfy6tojX",
			Providers: []structures.ProviderConfig{
				{Kind: "blockcypher", URL: "https://api.blockcypher.com"},
				{Kind: "blockchair", URL: "https://api.blockchair.com"},
			},
		},
		{
			ID: "sol", Name: "Solana", Kind: string(KindSOL), NativeSymbol: "SOL",
			Explorer: "https://solscan.io",
			Address:  "HzGvnMAFTLtC574b6bQ5XegFVmdP38kgQqqDK54mLx9z",
			Providers: []structures.ProviderConfig{
				{Kind: "solana-rpc", URL: "https://api.mainnet-beta.solana.com"},
			},
		},
		{
			ID: "tron", Name: "Tron", Kind: string(KindTRON), NativeSymbol: "TRX",
			Explorer: "https://tronscan.org/#",
			Address:  "TCEGeAxcpxdj7Q5hzxD1sEVTB8xxktqGT5",
			Providers: []structures.ProviderConfig{
				{Kind: "tronscan", URL: "https://apilist.tronscanapi.com"},
				{Kind: "tronscan", URL: "https://apilist.tronscan.org"},
			},
		},
	}
}
