package strategy

import (
	"math"

	"github.com/evdnx/stratbook/config"
)

// Unit selects how protection distances are measured.
type Unit int

const (
	Percent  Unit = iota // fraction of the entry price (0.02 = 2%)
	Absolute             // price points
)

// ProtectionConfig describes the exits armed for every new position.
// Zero distances disable the corresponding exit.
type ProtectionConfig struct {
	StopLoss   float64
	TakeProfit float64
	Unit       Unit
	Trailing   bool // the stop follows the best price since entry
}

func (c ProtectionConfig) Enabled() bool { return c.StopLoss > 0 || c.TakeProfit > 0 }

// protectionFromConfig arms percent exits when take-profit or trailing is
// configured; the stop-loss alone only drives position sizing.
func protectionFromConfig(cfg config.StrategyConfig) (ProtectionConfig, bool) {
	if cfg.TakeProfitPct <= 0 && cfg.TrailingPct <= 0 {
		return ProtectionConfig{}, false
	}
	pc := ProtectionConfig{StopLoss: cfg.StopLossPct, TakeProfit: cfg.TakeProfitPct, Unit: Percent}
	if cfg.TrailingPct > 0 {
		pc.StopLoss, pc.Trailing = cfg.TrailingPct, true
	}
	return pc, true
}

const (
	exitStopLoss   = "stop_loss"
	exitTrailing   = "trailing_stop"
	exitTakeProfit = "take_profit"
)

// Protection tracks one position and reports when an exit level is traded
// through. A trailing stop only ever moves toward the price.
type Protection struct {
	cfg    ProtectionConfig
	sign   float64 // +1 long, -1 short, 0 flat
	entry  float64
	dist   float64
	best   float64
	stop   float64
	target float64
}

func NewProtection(cfg ProtectionConfig) *Protection {
	return &Protection{cfg: cfg}
}

func (p *Protection) Config() ProtectionConfig { return p.cfg }
func (p *Protection) Armed() bool              { return p.sign != 0 }
func (p *Protection) Stop() float64            { return p.stop }
func (p *Protection) Target() float64          { return p.target }

func (p *Protection) distance(v float64) float64 {
	if p.cfg.Unit == Percent {
		return p.entry * v
	}
	return v
}

// Track syncs the exit levels with the current position. Adding to a
// position moves the entry but never loosens a trailing stop.
func (p *Protection) Track(qty, avg float64) {
	if qty == 0 || avg <= 0 {
		p.sign = 0
		return
	}
	sign := math.Copysign(1, qty)
	if sign == p.sign && avg == p.entry {
		return
	}
	same := sign == p.sign
	prevStop := p.stop

	p.sign, p.entry = sign, avg
	p.stop, p.target, p.dist = 0, 0, 0
	if p.cfg.StopLoss > 0 {
		p.dist = p.distance(p.cfg.StopLoss)
		p.stop = avg - sign*p.dist
	}
	if p.cfg.TakeProfit > 0 {
		p.target = avg + sign*p.distance(p.cfg.TakeProfit)
	}
	if !same {
		p.best = avg
		return
	}
	if p.cfg.Trailing && prevStop != 0 {
		if sign > 0 {
			p.stop = math.Max(p.stop, prevStop)
		} else {
			p.stop = math.Min(p.stop, prevStop)
		}
	}
}

// Check evaluates one bar (or one quote with open=high=low). It returns the
// exit kind and the fill price; a bar gapping through a level fills at the open.
// The stop is tested before the take-profit, and the trailing stop ratchets
// only after both survive the bar.
func (p *Protection) Check(open, high, low float64) (kind string, price float64, hit bool) {
	if p.sign == 0 {
		return "", 0, false
	}
	stopKind := exitStopLoss
	if p.cfg.Trailing {
		stopKind = exitTrailing
	}
	if p.sign > 0 {
		switch {
		case p.stop > 0 && low <= p.stop:
			p.sign = 0
			return stopKind, math.Min(p.stop, open), true
		case p.target > 0 && high >= p.target:
			p.sign = 0
			return exitTakeProfit, math.Max(p.target, open), true
		}
		if p.cfg.Trailing && p.dist > 0 && high > p.best {
			p.best = high
			p.stop = math.Max(p.stop, high-p.dist)
		}
		return "", 0, false
	}
	switch {
	case p.stop > 0 && high >= p.stop:
		p.sign = 0
		return stopKind, math.Max(p.stop, open), true
	case p.target > 0 && low <= p.target:
		p.sign = 0
		return exitTakeProfit, math.Min(p.target, open), true
	}
	if p.cfg.Trailing && p.dist > 0 && low < p.best {
		p.best = low
		p.stop = math.Min(p.stop, low+p.dist)
	}
	return "", 0, false
}

func (p *Protection) reset() {
	p.sign, p.entry, p.dist, p.best, p.stop, p.target = 0, 0, 0, 0, 0, 0
}
