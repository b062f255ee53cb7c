// Package shipping provides the deterministic cost/ETA estimate used at
// checkout. It has no state and no I/O.
package shipping

import (
	"math"
	"strings"
)

type Quote struct {
	Cost int64  `json:"cost"`
	ETA  string `json:"eta"`
}

var regionBase = map[string]int64{
	"rm":   4990,
	"v":    6990,
	"viii": 7990,
}

const (
	defaultBase       int64   = 9900
	weightThresholdKg float64 = 5
	surchargePerKg    int64   = 1500
)

// Estimate maps a region code, cart subtotal and total shipment weight to a
// shipping quote. Unrecognized regions pay the default base rate. A weight
// surcharge applies per whole kilogram above the threshold, and the
// subtotal-tiered discount applies to base plus surcharge.
func Estimate(region string, subtotal int64, weightKg float64) Quote {
	normalized := strings.ToLower(strings.TrimSpace(region))

	base, ok := regionBase[normalized]
	if !ok {
		base = defaultBase
	}

	var surcharge int64
	if weightKg > weightThresholdKg {
		surcharge = int64(math.Ceil(weightKg-weightThresholdKg)) * surchargePerKg
	}

	var discount float64
	switch {
	case subtotal > 1_500_000:
		discount = 0.40
	case subtotal > 800_000:
		discount = 0.25
	case subtotal > 400_000:
		discount = 0.15
	}

	cost := int64(math.Round(float64(base+surcharge) * (1 - discount)))
	if cost < 0 {
		cost = 0
	}

	eta := "3-5 dias"
	if normalized == "rm" {
		eta = "24-48 horas"
	}

	return Quote{Cost: cost, ETA: eta}
}
