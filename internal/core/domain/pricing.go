package domain

// PricingStrategy selects the rate table used to price a shipment.
type PricingStrategy string

const (
	PricingGround PricingStrategy = "ground"
	PricingAir    PricingStrategy = "air"
)

// pricingRates holds the per-kg and per-km rates for one strategy.
type pricingRates struct {
	PerKg float64
	PerKm float64
}

// Air rates are higher, reflecting the fuel/speed trade-off.
var strategyRates = map[PricingStrategy]pricingRates{
	PricingGround: {PerKg: 0.5, PerKm: 0.1},
	PricingAir:    {PerKg: 1.5, PerKm: 0.3},
}

const (
	expressMultiplier  = 1.5
	standardMultiplier = 1.0
	insuranceRate      = 0.02
)

// StrategyForVariant maps a vehicle variant to the pricing strategy the
// factory applies: drones fly, everything else goes by ground rates.
func StrategyForVariant(v VehicleVariant) PricingStrategy {
	if v == VariantDrone {
		return PricingAir
	}
	return PricingGround
}

// CalculateCost computes the shipment cost for the given strategy:
// base = weight*perKg + distance*perKm, multiplied by the shipment type
// factor, plus 2% of the insured value when insured.
func CalculateCost(strategy PricingStrategy, weightKg, distanceKm float64, shipmentType ShipmentType, insured bool, insuranceValue float64) float64 {
	rates, ok := strategyRates[strategy]
	if !ok {
		rates = strategyRates[PricingGround]
	}

	base := weightKg*rates.PerKg + distanceKm*rates.PerKm

	multiplier := standardMultiplier
	if shipmentType == TypeExpress {
		multiplier = expressMultiplier
	}
	cost := base * multiplier

	if insured {
		cost += insuranceValue * insuranceRate
	}
	return cost
}
