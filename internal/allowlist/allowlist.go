// Package allowlist holds the curated reference tables for canonical
// assets: wrapped-native tokens, major stablecoins and long-established
// bluechips. The tables suppress false positives for assets whose age
// and provenance are settled facts, and supply trusted launch dates when
// live lookups fail.
//
// All tables are built once at init and never mutated; lookups are keyed
// by lower-cased address.
package allowlist

import (
	"strings"
	"time"
)

// Entry is one curated token.
type Entry struct {
	Address string
	Chain   string
	Name    string
	Symbol  string
	Core    bool      // wrapped-native or major stablecoin
	Launch  time.Time // zero when unknown
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var entries = []Entry{
	// Core: wrapped natives and major stablecoins.
	{Address: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", Chain: "ethereum", Name: "Wrapped Ether", Symbol: "WETH", Core: true, Launch: day(2017, time.December, 18)},
	{Address: "0xdac17f958d2ee523a2206206994597c13d831ec7", Chain: "ethereum", Name: "Tether USD", Symbol: "USDT", Core: true, Launch: day(2017, time.November, 28)},
	{Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", Chain: "ethereum", Name: "USD Coin", Symbol: "USDC", Core: true, Launch: day(2018, time.September, 10)},
	{Address: "0x6b175474e89094c44da98b954eedeac495271d0f", Chain: "ethereum", Name: "Dai Stablecoin", Symbol: "DAI", Core: true, Launch: day(2019, time.November, 18)},
	{Address: "0x2260fac5e5542a773aa44fbcfedf7c193bc2c599", Chain: "ethereum", Name: "Wrapped BTC", Symbol: "WBTC", Core: true, Launch: day(2018, time.November, 24)},
	{Address: "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c", Chain: "bsc", Name: "Wrapped BNB", Symbol: "WBNB", Core: true, Launch: day(2019, time.September, 4)},
	{Address: "0xe9e7cea3dedca5984780bafc599bd69add087d56", Chain: "bsc", Name: "BUSD Token", Symbol: "BUSD", Core: true, Launch: day(2019, time.September, 9)},
	{Address: "0x4200000000000000000000000000000000000006", Chain: "base", Name: "Wrapped Ether", Symbol: "WETH", Core: true, Launch: day(2023, time.June, 15)},
	{Address: "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913", Chain: "base", Name: "USD Coin", Symbol: "USDC", Core: true, Launch: day(2023, time.August, 16)},
	{Address: "0x0d500b1d8e8ef31e21c99d1db9a6444d3adf1270", Chain: "polygon", Name: "Wrapped Matic", Symbol: "WMATIC", Core: true, Launch: day(2020, time.June, 9)},
	{Address: "0x82af49447d8a07e3bd95bd0d56f35241523fbab1", Chain: "arbitrum", Name: "Wrapped Ether", Symbol: "WETH", Core: true, Launch: day(2021, time.May, 28)},
	{Address: "So11111111111111111111111111111111111111112", Chain: "solana", Name: "Wrapped SOL", Symbol: "SOL", Core: true, Launch: day(2020, time.March, 16)},
	{Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Chain: "solana", Name: "USD Coin", Symbol: "USDC", Core: true, Launch: day(2020, time.October, 1)},
	{Address: "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", Chain: "solana", Name: "Tether USD", Symbol: "USDT", Core: true, Launch: day(2021, time.February, 9)},

	// Extended bluechips: established, widely listed, not quote assets.
	{Address: "0x514910771af9ca656af840dff83e8264ecf986ca", Chain: "ethereum", Name: "ChainLink Token", Symbol: "LINK", Launch: day(2017, time.September, 16)},
	{Address: "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984", Chain: "ethereum", Name: "Uniswap", Symbol: "UNI", Launch: day(2020, time.September, 16)},
	{Address: "0x7fc66500c84a76ad7e9c93437bfc5ac33e2ddae9", Chain: "ethereum", Name: "Aave Token", Symbol: "AAVE", Launch: day(2020, time.September, 25)},
	{Address: "0x95ad61b0a150d79219dcf64e1e6cc01f0b64c4ce", Chain: "ethereum", Name: "SHIBA INU", Symbol: "SHIB", Launch: day(2020, time.August, 1)},
	{Address: "0x6982508145454ce325ddbe47a25d4ec3d2311933", Chain: "ethereum", Name: "Pepe", Symbol: "PEPE", Launch: day(2023, time.April, 14)},
	{Address: "0x0e09fabb73bd3ade0a17ecc321fd13a19e81ce82", Chain: "bsc", Name: "PancakeSwap Token", Symbol: "CAKE", Launch: day(2020, time.September, 25)},
	{Address: "0x912ce59144191c1204e64559fe8253a0e49e6548", Chain: "arbitrum", Name: "Arbitrum", Symbol: "ARB", Launch: day(2023, time.March, 16)},
}

// quoteSymbols are the recognized quote-asset legs of trading pairs.
var quoteSymbols = map[string]struct{}{
	"WETH": {}, "ETH": {}, "WBNB": {}, "BNB": {}, "WMATIC": {}, "MATIC": {},
	"WAVAX": {}, "SOL": {}, "WSOL": {},
	"USDT": {}, "USDC": {}, "BUSD": {}, "DAI": {}, "FDUSD": {}, "TUSD": {},
}

var byAddress = func() map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[key(e.Address)] = e
	}
	return m
}()

func key(address string) string { return strings.ToLower(strings.TrimSpace(address)) }

// Lookup returns the curated entry for an address, if any.
func Lookup(address string) (Entry, bool) {
	e, ok := byAddress[key(address)]
	return e, ok
}

// Contains reports whether the address is on any curated list.
func Contains(address string) bool {
	_, ok := byAddress[key(address)]
	return ok
}

// IsCore reports whether the address is a wrapped-native token or a
// major stablecoin.
func IsCore(address string) bool {
	e, ok := byAddress[key(address)]
	return ok && e.Core
}

// LaunchDate returns the curated launch date for an address. The date is
// treated as ground truth and bypasses live age sources.
func LaunchDate(address string) (time.Time, bool) {
	e, ok := byAddress[key(address)]
	if !ok || e.Launch.IsZero() {
		return time.Time{}, false
	}
	return e.Launch, true
}

// ChainOf returns the curated home chain of an address. Satisfies the
// chain detector's KnownChains contract.
type Table struct{}

func (Table) ChainOf(address string) (string, bool) {
	e, ok := byAddress[key(address)]
	if !ok {
		return "", false
	}
	return e.Chain, true
}

// IsQuoteSymbol reports whether a pair-leg symbol is a recognized
// quote asset.
func IsQuoteSymbol(symbol string) bool {
	_, ok := quoteSymbols[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}
