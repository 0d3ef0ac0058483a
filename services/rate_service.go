package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const coingeckoURL = "https://api.coingecko.com/api/v3/simple/price?ids=the-open-network&vs_currencies=usd"

var rateHTTPClient = &http.Client{Timeout: 10 * time.Second}

var (
	rateCache     decimal.Decimal
	rateCacheMu   sync.RWMutex
	lastRateFetch time.Time
)

// fetchRate is swapped out in tests; production always hits CoinGecko.
var fetchRate = fetchRateFromCoinGecko

// FetchTonUsdRate returns the current TON/USD rate, cached for a few
// minutes so a burst of purchases does not hammer the price API. Any
// failure surfaces as ErrRateUnavailable; callers must not write partial
// state after seeing it.
func FetchTonUsdRate() (decimal.Decimal, error) {
	rateCacheMu.RLock()
	if time.Since(lastRateFetch) < 5*time.Minute && !rateCache.IsZero() {
		defer rateCacheMu.RUnlock()
		return rateCache, nil
	}
	rateCacheMu.RUnlock()

	log.Println("Fetching fresh TON/USD rate from API...")
	rate, err := fetchRate()
	if err != nil {
		log.Printf("🔥 TON/USD rate fetch failed: %v", err)
		return decimal.Zero, ErrRateUnavailable
	}

	rateCacheMu.Lock()
	rateCache = rate
	lastRateFetch = time.Now()
	rateCacheMu.Unlock()

	return rate, nil
}

func fetchRateFromCoinGecko() (decimal.Decimal, error) {
	resp, err := rateHTTPClient.Get(coingeckoURL)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("price API returned status %d", resp.StatusCode)
	}

	var data map[string]map[string]json.Number
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return decimal.Zero, err
	}

	raw, ok := data["the-open-network"]["usd"]
	if !ok {
		return decimal.Zero, fmt.Errorf("TON/USD rate missing from API response")
	}

	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, err
	}
	return rate, nil
}
