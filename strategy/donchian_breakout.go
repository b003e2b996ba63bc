package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("donchian_breakout", NewDonchianBreakout) }

// DonchianBreakout enters when the close breaks the channel of the previous
// EntryPeriod bars and exits on a break of the shorter ExitPeriod channel in
// the opposite direction.
type DonchianBreakout struct {
	*BaseStrategy
	entryPeriod *Param[int]
	exitPeriod  *Param[int]

	entry, exit *indicator.Donchian
}

func NewDonchianBreakout(d Deps) (*DonchianBreakout, error) {
	base, err := NewBaseStrategy("donchian_breakout", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &DonchianBreakout{BaseStrategy: base}
	s.entryPeriod = NewParam(&base.Params, "EntryPeriod", 20, Between(2, 500)).Optimize()
	s.exitPeriod = NewParam(&base.Params, "ExitPeriod", 10, Between(1, 500)).Optimize()
	return s, nil
}

func (s *DonchianBreakout) OnStarted() error {
	s.entry = indicator.NewDonchian(s.entryPeriod.Get())
	s.exit = indicator.NewDonchian(s.exitPeriod.Get())
	return nil
}

func (s *DonchianBreakout) ProcessCandle(c types.Candle) {
	// levels come from the bars before this one
	if s.entry.Ready() && s.exit.Ready() {
		pos := s.Position()
		switch {
		case c.Close > s.entry.Upper() && pos <= 0:
			_ = s.EnterLong("channel_break_up")
		case c.Close < s.entry.Lower() && pos >= 0:
			_ = s.EnterShort("channel_break_down")
		case pos > 0 && c.Close < s.exit.Lower():
			_ = s.ClosePosition("exit_channel_low")
		case pos < 0 && c.Close > s.exit.Upper():
			_ = s.ClosePosition("exit_channel_high")
		}
	}
	s.entry.Process(c)
	s.exit.Process(c)
}
