package domain

import (
	"math"
	"testing"
)

const costTolerance = 1e-9

func TestCalculateCost_BaseFormula(t *testing.T) {
	// base = 25*0.5 + 100*0.1 = 22.5
	got := CalculateCost(PricingGround, 25, 100, TypeStandard, false, 0)
	if math.Abs(got-22.5) > costTolerance {
		t.Errorf("ground standard cost = %.4f, want 22.5", got)
	}

	// air: 25*1.5 + 100*0.3 = 67.5
	got = CalculateCost(PricingAir, 25, 100, TypeStandard, false, 0)
	if math.Abs(got-67.5) > costTolerance {
		t.Errorf("air standard cost = %.4f, want 67.5", got)
	}
}

func TestCalculateCost_ExpressCostsMore(t *testing.T) {
	for _, strategy := range []PricingStrategy{PricingGround, PricingAir} {
		standard := CalculateCost(strategy, 25, 500, TypeStandard, false, 0)
		express := CalculateCost(strategy, 25, 500, TypeExpress, false, 0)
		if express <= standard {
			t.Errorf("%s: express (%.2f) must exceed standard (%.2f)", strategy, express, standard)
		}
		if math.Abs(express-standard*1.5) > costTolerance {
			t.Errorf("%s: express multiplier wrong: %.4f vs %.4f", strategy, express, standard*1.5)
		}
	}
}

func TestCalculateCost_InsuranceSurcharge(t *testing.T) {
	uninsured := CalculateCost(PricingGround, 25, 500, TypeStandard, false, 0)
	insured := CalculateCost(PricingGround, 25, 500, TypeStandard, true, 1000)
	if math.Abs(insured-(uninsured+20)) > costTolerance {
		t.Errorf("insured cost = %.4f, want uninsured + 20 = %.4f", insured, uninsured+20)
	}
}

// Insuring 1000 on the NYC -> LA route adds exactly 20 to the ground cost.
func TestApplyCost_InsuredScenario(t *testing.T) {
	base, err := NewShipment("cust_1", 25, testOrigin, testDestination)
	if err != nil {
		t.Fatalf("NewShipment: %v", err)
	}
	uninsured := base.ApplyCost(PricingGround)

	insuredShipment, _ := NewShipment("cust_1", 25, testOrigin, testDestination)
	if err := insuredShipment.AddInsurance(1000); err != nil {
		t.Fatalf("AddInsurance: %v", err)
	}
	insured := insuredShipment.ApplyCost(PricingGround)

	if math.Abs(insured-(uninsured+20)) > costTolerance {
		t.Errorf("insured cost = %.4f, want %.4f", insured, uninsured+20)
	}
	if uninsured <= 0 {
		t.Errorf("cost must be positive, got %.4f", uninsured)
	}
}

func TestStrategyForVariant(t *testing.T) {
	if StrategyForVariant(VariantDrone) != PricingAir {
		t.Error("drones must price as air")
	}
	if StrategyForVariant(VariantTruck) != PricingGround {
		t.Error("trucks must price as ground")
	}
	if StrategyForVariant(VariantShip) != PricingGround {
		t.Error("ships must price as ground")
	}
}

func TestCalculateCost_UnknownStrategyFallsBackToGround(t *testing.T) {
	got := CalculateCost(PricingStrategy("rail"), 25, 100, TypeStandard, false, 0)
	want := CalculateCost(PricingGround, 25, 100, TypeStandard, false, 0)
	if math.Abs(got-want) > costTolerance {
		t.Errorf("unknown strategy cost = %.4f, want ground %.4f", got, want)
	}
}
