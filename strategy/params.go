package strategy

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	ErrUnknownParam = errors.New("unknown parameter")
	ErrParamType    = errors.New("parameter type mismatch")
	ErrParamRange   = errors.New("parameter out of range")
)

// ParamType lists the value kinds a strategy parameter may hold.
type ParamType interface {
	int | float64 | bool | string | time.Duration
}

// ParamInfo is the read-only view of a parameter used by listings.
type ParamInfo struct {
	Name        string `json:"name"`
	Value       any    `json:"value"`
	Default     any    `json:"default"`
	CanOptimize bool   `json:"can_optimize"`
	Description string `json:"description,omitempty"`
}

type param interface {
	name() string
	setAny(v any) error
	validate() error
	reset()
	info() ParamInfo
}

// Param is a named, typed strategy setting with a default and optional checks.
type Param[T ParamType] struct {
	key      string
	value    T
	def      T
	checks   []func(T) error
	optimize bool
	desc     string
}

// NewParam declares a parameter on set and returns it for the strategy to keep.
func NewParam[T ParamType](set *ParamSet, name string, def T, checks ...func(T) error) *Param[T] {
	p := &Param[T]{key: name, value: def, def: def, checks: checks}
	set.add(p)
	return p
}

func (p *Param[T]) Get() T     { return p.value }
func (p *Param[T]) Set(v T)    { p.value = v }
func (p *Param[T]) Default() T { return p.def }
func (p *Param[T]) Name() string { return p.key }

// Optimize marks the parameter as a candidate for optimisation runs.
func (p *Param[T]) Optimize() *Param[T] {
	p.optimize = true
	return p
}

func (p *Param[T]) Describe(s string) *Param[T] {
	p.desc = s
	return p
}

func (p *Param[T]) CanOptimize() bool { return p.optimize }

func (p *Param[T]) name() string { return p.key }
func (p *Param[T]) reset()       { p.value = p.def }

func (p *Param[T]) info() ParamInfo {
	return ParamInfo{Name: p.key, Value: p.value, Default: p.def, CanOptimize: p.optimize, Description: p.desc}
}

func (p *Param[T]) validate() error {
	for _, check := range p.checks {
		if err := check(p.value); err != nil {
			return fmt.Errorf("param %s: %w", p.key, err)
		}
	}
	return nil
}

// setAny converts host supplied values (usually decoded JSON) into T.
func (p *Param[T]) setAny(v any) error {
	var out T
	var err error
	switch dst := any(&out).(type) {
	case *int:
		*dst, err = toInt(v)
	case *float64:
		*dst, err = toFloat(v)
	case *bool:
		b, ok := v.(bool)
		if !ok {
			err = ErrParamType
		}
		*dst = b
	case *string:
		s, ok := v.(string)
		if !ok {
			err = ErrParamType
		}
		*dst = s
	case *time.Duration:
		*dst, err = toDuration(v)
	}
	if err != nil {
		return fmt.Errorf("param %s: %w (got %T)", p.key, err, v)
	}
	p.value = out
	return nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	}
	return 0, ErrParamType
}

func toInt(v any) (int, error) {
	if i, ok := v.(int); ok {
		return i, nil
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, ErrParamType
	}
	return int(f), nil
}

// toDuration accepts Go duration strings ("5m") or a number of seconds.
func toDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		return time.ParseDuration(d)
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	return time.Duration(f * float64(time.Second)), nil
}

// Between rejects values outside [lo, hi].
func Between[T int | float64 | time.Duration](lo, hi T) func(T) error {
	return func(v T) error {
		if v < lo || v > hi {
			return fmt.Errorf("%w: %v not in [%v, %v]", ErrParamRange, v, lo, hi)
		}
		return nil
	}
}

// Positive rejects zero and negative values.
func Positive[T int | float64 | time.Duration]() func(T) error {
	return func(v T) error {
		if v <= 0 {
			return fmt.Errorf("%w: %v must be positive", ErrParamRange, v)
		}
		return nil
	}
}

// OneOf restricts a string parameter to the given choices.
func OneOf(choices ...string) func(string) error {
	return func(v string) error {
		for _, c := range choices {
			if v == c {
				return nil
			}
		}
		return fmt.Errorf("%w: %q not one of %v", ErrParamRange, v, choices)
	}
}

// ParamSet holds the parameters of one strategy in declaration order.
type ParamSet struct {
	list  []param
	index map[string]param
}

func (s *ParamSet) add(p param) {
	if s.index == nil {
		s.index = make(map[string]param)
	}
	if _, dup := s.index[p.name()]; dup {
		panic("strategy: duplicate parameter " + p.name())
	}
	s.list = append(s.list, p)
	s.index[p.name()] = p
}

// Apply sets parameters by name. Names are matched exactly; the first failure
// aborts and leaves earlier assignments in place.
func (s *ParamSet) Apply(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p, ok := s.index[k]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownParam, k)
		}
		if err := p.setAny(values[k]); err != nil {
			return err
		}
	}
	return nil
}

// ApplyJSON decodes a JSON object and applies it.
func (s *ParamSet) ApplyJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("decode params: %w", err)
	}
	return s.Apply(values)
}

func (s *ParamSet) Validate() error {
	var errs []error
	for _, p := range s.list {
		if err := p.validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Defaults restores every parameter to its declared default.
func (s *ParamSet) Defaults() {
	for _, p := range s.list {
		p.reset()
	}
}

func (s *ParamSet) List() []ParamInfo {
	out := make([]ParamInfo, 0, len(s.list))
	for _, p := range s.list {
		out = append(out, p.info())
	}
	return out
}

func (s *ParamSet) Len() int { return len(s.list) }
