package strategy

import (
	"math"
	"testing"

	"github.com/evdnx/stratbook/config"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestProtectionLongStop(t *testing.T) {
	p := NewProtection(ProtectionConfig{StopLoss: 0.02, Unit: Percent})
	p.Track(1, 100)
	if !approx(p.Stop(), 98) {
		t.Fatalf("stop = %v", p.Stop())
	}
	if _, _, hit := p.Check(99, 99.5, 98.5); hit {
		t.Fatal("low above the stop must not trigger")
	}
	kind, price, hit := p.Check(99, 99, 97)
	if !hit || kind != exitStopLoss || !approx(price, 98) {
		t.Fatalf("got %s %v %v", kind, price, hit)
	}
	if p.Armed() {
		t.Fatal("protection must disarm after a hit")
	}
}

func TestProtectionGapFillsAtOpen(t *testing.T) {
	p := NewProtection(ProtectionConfig{StopLoss: 0.02, Unit: Percent})
	p.Track(1, 100)
	if _, price, hit := p.Check(95, 96, 94); !hit || price != 95 {
		t.Fatalf("gap through the stop fills at the open, got %v %v", price, hit)
	}
}

func TestProtectionShortStopAndAbsoluteTarget(t *testing.T) {
	p := NewProtection(ProtectionConfig{StopLoss: 2, TakeProfit: 5, Unit: Absolute})
	p.Track(-3, 100)
	if p.Stop() != 102 || p.Target() != 95 {
		t.Fatalf("levels = %v / %v", p.Stop(), p.Target())
	}
	kind, price, hit := p.Check(101, 102.5, 100.5)
	if !hit || kind != exitStopLoss || price != 102 {
		t.Fatalf("short stop: %s %v %v", kind, price, hit)
	}

	p.Track(-3, 100)
	kind, price, hit = p.Check(96, 96, 94)
	if !hit || kind != exitTakeProfit || price != 95 {
		t.Fatalf("short target: %s %v %v", kind, price, hit)
	}
}

func TestProtectionTrailingNeverLoosens(t *testing.T) {
	p := NewProtection(ProtectionConfig{StopLoss: 0.02, Unit: Percent, Trailing: true})
	p.Track(1, 100)
	if _, _, hit := p.Check(100, 110, 100); hit {
		t.Fatal("unexpected hit")
	}
	if !approx(p.Stop(), 108) {
		t.Fatalf("trailing stop should follow the high: %v", p.Stop())
	}
	p.Check(109, 109.5, 108.5)
	if !approx(p.Stop(), 108) {
		t.Fatalf("stop moved without a new high: %v", p.Stop())
	}
	// adding at a higher price lowers nothing
	p.Track(2, 104)
	if !approx(p.Stop(), 108) {
		t.Fatalf("re-tracking loosened the stop: %v", p.Stop())
	}
	kind, price, hit := p.Check(108, 108, 107.5)
	if !hit || kind != exitTrailing || !approx(price, 108) {
		t.Fatalf("got %s %v %v", kind, price, hit)
	}
}

func TestProtectionFlatIsIdle(t *testing.T) {
	p := NewProtection(ProtectionConfig{StopLoss: 0.01, Unit: Percent})
	p.Track(0, 0)
	if _, _, hit := p.Check(1, 1000, 0.1); hit {
		t.Fatal("flat protection must never trigger")
	}
}

func TestProtectionFromConfig(t *testing.T) {
	cfg := config.Default()
	if _, ok := protectionFromConfig(cfg); ok {
		t.Fatal("a stop-loss alone only sizes positions")
	}
	cfg.TakeProfitPct = 0.05
	pc, ok := protectionFromConfig(cfg)
	if !ok || pc.StopLoss != cfg.StopLossPct || pc.TakeProfit != 0.05 || pc.Trailing {
		t.Fatalf("unexpected %+v", pc)
	}
	cfg.TrailingPct = 0.03
	pc, _ = protectionFromConfig(cfg)
	if !pc.Trailing || pc.StopLoss != 0.03 {
		t.Fatalf("trailing must replace the stop distance: %+v", pc)
	}
}
