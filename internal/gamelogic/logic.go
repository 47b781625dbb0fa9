// Package gamelogic holds the simulation-wide state every locomotor reads:
// global tuning, the logic frame counter and the deterministic random source.
package gamelogic

import (
	"math/rand/v2"

	"github.com/udisondev/rtsloco/internal/constants"
	"github.com/udisondev/rtsloco/internal/model"
)

// Options configures a Logic.
type Options struct {
	FrameRate int // logic frames per second

	// Gravity in units/s², negative is down.
	Gravity float64

	// MovementPenaltyDamageState is the first damage state that uses damaged locomotor values.
	MovementPenaltyDamageState model.DamageState

	Seed uint64
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		FrameRate:                  constants.LogicFramesPerSecond,
		Gravity:                    -100,
		MovementPenaltyDamageState: model.DamageReallyDamaged,
		Seed:                       1,
	}
}

// Logic is the simulation clock plus global tuning.
//
// Not safe for concurrent use: it belongs to the tick goroutine.
type Logic struct {
	frameRate int
	gravity   float64 // per frame²
	penalty   model.DamageState

	frame uint32
	rng   *rand.Rand
}

// New creates a Logic at frame 0.
func New(opts Options) *Logic {
	if opts.FrameRate <= 0 {
		opts.FrameRate = constants.LogicFramesPerSecond
	}
	perFrame := 1.0 / float64(opts.FrameRate)
	return &Logic{
		frameRate: opts.FrameRate,
		gravity:   opts.Gravity * perFrame * perFrame,
		penalty:   opts.MovementPenaltyDamageState,
		rng:       rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}
}

// Gravity returns the gravity acceleration in units per frame².
func (l *Logic) Gravity() float64 { return l.gravity }

// MovementPenaltyDamageState returns the damage threshold for damaged locomotor values.
func (l *Logic) MovementPenaltyDamageState() model.DamageState { return l.penalty }

// FrameRate returns logic frames per second.
func (l *Logic) FrameRate() int { return l.frameRate }

// Frame returns the current logic frame.
func (l *Logic) Frame() uint32 { return l.frame }

// Advance moves the clock one frame forward and returns the new frame.
func (l *Logic) Advance() uint32 {
	l.frame++
	return l.frame
}

// SetFrame restores the frame counter (snapshot resume).
func (l *Logic) SetFrame(frame uint32) { l.frame = frame }

// Real returns a uniform value in [lo, hi].
func (l *Logic) Real(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + l.rng.Float64()*(hi-lo)
}

// Int returns a uniform value in [lo, hi].
func (l *Logic) Int(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + l.rng.IntN(hi-lo+1)
}
