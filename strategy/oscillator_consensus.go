package strategy

import (
	"fmt"

	"github.com/evdnx/goti"
	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/types"
)

func init() { register("oscillator_consensus", NewOscillatorConsensus) }

// OscillatorConsensus enters only when RSI, MFI and HMA crossovers of the
// goti indicator suite agree. Each vote falls back to the recent price trend
// while its indicator is still warming up, and RSI/MFI readings beyond the
// configured extremes veto entries in that direction.
type OscillatorConsensus struct {
	*BaseStrategy
	rsiOverbought *Param[float64]
	rsiOversold   *Param[float64]
	mfiOverbought *Param[float64]
	mfiOversold   *Param[float64]
	minBars       *Param[int]

	suite *goti.IndicatorSuite
	bars  int
}

func NewOscillatorConsensus(d Deps) (*OscillatorConsensus, error) {
	base, err := NewBaseStrategy("oscillator_consensus", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &OscillatorConsensus{BaseStrategy: base}
	s.rsiOverbought = NewParam(&base.Params, "RSIOverbought", 70.0, Between(50.0, 100.0))
	s.rsiOversold = NewParam(&base.Params, "RSIOversold", 30.0, Between(0.0, 50.0))
	s.mfiOverbought = NewParam(&base.Params, "MFIOverbought", 80.0, Between(50.0, 100.0))
	s.mfiOversold = NewParam(&base.Params, "MFIOversold", 20.0, Between(0.0, 50.0))
	s.minBars = NewParam(&base.Params, "WarmupBars", 15, Between(3, defaultHistory))
	return s, nil
}

func (s *OscillatorConsensus) OnStarted() error {
	ic := goti.DefaultConfig()
	ic.RSIOverbought = s.rsiOverbought.Get()
	ic.RSIOversold = s.rsiOversold.Get()
	ic.MFIOverbought = s.mfiOverbought.Get()
	ic.MFIOversold = s.mfiOversold.Get()
	suite, err := goti.NewIndicatorSuiteWithConfig(ic)
	if err != nil {
		return fmt.Errorf("indicator suite: %w", err)
	}
	s.suite = suite
	return nil
}

func (s *OscillatorConsensus) OnReseted() { s.bars = 0 }

func (s *OscillatorConsensus) ProcessCandle(c types.Candle) {
	if err := s.suite.Add(c.High, c.Low, c.Close, c.Volume); err != nil {
		s.Log.Warn("suite_add_error", logger.Err(err))
		return
	}
	s.bars++
	if s.bars < s.minBars.Get() {
		return
	}

	trendUp := s.prices.Trend() > 0 && s.prices.Slope() > 0
	trendDown := s.prices.Trend() < 0 && s.prices.Slope() < 0

	rsiBull, rsiBear := trendUp, trendDown
	if ok, err := s.suite.GetRSI().IsBullishCrossover(); err == nil {
		rsiBull = rsiBull || ok
	}
	if ok, err := s.suite.GetRSI().IsBearishCrossover(); err == nil {
		rsiBear = rsiBear || ok
	}
	mfiBull, mfiBear := trendUp, trendDown
	if ok, err := s.suite.GetMFI().IsBullishCrossover(); err == nil {
		mfiBull = mfiBull || ok
	}
	if ok, err := s.suite.GetMFI().IsBearishCrossover(); err == nil {
		mfiBear = mfiBear || ok
	}
	hmaBull, hmaBear := trendUp, trendDown
	if ok, err := s.suite.GetHMA().IsBullishCrossover(); err == nil {
		hmaBull = hmaBull || ok
	}
	if ok, err := s.suite.GetHMA().IsBearishCrossover(); err == nil {
		hmaBear = hmaBear || ok
	}

	longOK, shortOK := true, true
	if rsi, err := s.suite.GetRSI().Calculate(); err == nil {
		longOK = longOK && rsi <= s.rsiOverbought.Get()
		shortOK = shortOK && rsi >= s.rsiOversold.Get()
	}
	if mfi, err := s.suite.GetMFI().Calculate(); err == nil {
		longOK = longOK && mfi <= s.mfiOverbought.Get()
		shortOK = shortOK && mfi >= s.mfiOversold.Get()
	}

	pos := s.Position()
	switch {
	case rsiBull && mfiBull && hmaBull && longOK && pos <= 0:
		_ = s.EnterLong("consensus_long")
	case rsiBear && mfiBear && hmaBear && shortOK && pos >= 0:
		_ = s.EnterShort("consensus_short")
	}
}
