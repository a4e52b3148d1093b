package cultivation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/daasheo/immortalworld/internal/game/realm"
)

// AdvancementEvent describes a realm or sub-tier promotion.
type AdvancementEvent struct {
	// Tier and SubTier are the position after the promotion.
	Tier    realm.Tier
	SubTier realm.SubTier
	// TotalExp is the cumulative experience at the time of the promotion.
	TotalExp float64
}

// EventSink receives advancement notifications from the service. Implemented
// by the host's notification layer; a nil sink disables notifications.
type EventSink interface {
	AdvancementAchieved(ev AdvancementEvent)
}

// Service sequences engine calls for the host simulation loop and for
// gameplay action handlers. All collaborators are injected; the service
// holds no per-character state of its own.
type Service struct {
	logger *zap.Logger
	events EventSink
}

// NewService creates a cultivation service.
//
// Precondition: logger must be non-nil. events may be nil.
func NewService(logger *zap.Logger, events EventSink) *Service {
	if logger == nil {
		panic("cultivation.NewService: logger must not be nil")
	}
	return &Service{logger: logger, events: events}
}

// OnTick advances one cultivator by dtSeconds of simulation time, applying
// Qi regeneration. Called once per simulation step per character.
//
// Precondition: dtSeconds must be >= 0.
func (svc *Service) OnTick(s *State, dtSeconds float64) error {
	if err := ApplyRegen(s, dtSeconds); err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	return nil
}

// AddExperience awards experience and reports whether the cultivator
// advanced. Promotions are logged and forwarded to the event sink.
func (svc *Service) AddExperience(s *State, amount float64) (bool, error) {
	advanced, err := s.AddExperience(amount)
	if err != nil {
		return false, err
	}
	if advanced {
		svc.logger.Info("cultivator advanced",
			zap.String("realm", s.Tier().String()),
			zap.String("sub_tier", s.SubTier().String()),
			zap.Float64("total_exp", s.TotalExp()),
		)
		if svc.events != nil {
			svc.events.AdvancementAchieved(AdvancementEvent{
				Tier:     s.Tier(),
				SubTier:  s.SubTier(),
				TotalExp: s.TotalExp(),
			})
		}
	}
	return advanced, nil
}

// BeginRest starts a meditation session if the cultivator may meditate.
// On success the state transitions to RestActive, which grants the
// regeneration bonus for subsequent ticks.
//
// Postcondition: Returns true iff the session started.
func (svc *Service) BeginRest(s *State) bool {
	if !CanMeditate(s) {
		return false
	}
	s.beginRest()
	svc.logger.Debug("meditation started",
		zap.String("realm", s.Tier().String()),
		zap.Float64("qi", s.CurrentQi()),
	)
	return true
}

// CompleteRest finishes a meditation session: experience is computed from the
// duration and environment, applied, and durationMinutes*60 seconds of rest
// time are accrued. The state returns to RestIdle.
//
// Precondition: durationMinutes and envMultiplier must be >= 0.
// Postcondition: Returns the experience awarded, or a non-nil error with the
// state unchanged.
func (svc *Service) CompleteRest(s *State, durationMinutes, envMultiplier float64) (float64, error) {
	if durationMinutes < 0 || envMultiplier < 0 {
		return 0, fmt.Errorf("completing rest: %w", ErrNegativeAmount)
	}
	exp := MeditationExp(s, durationMinutes, envMultiplier)
	if _, err := svc.AddExperience(s, exp); err != nil {
		return 0, fmt.Errorf("completing rest: %w", err)
	}
	s.accrueRestTime(durationMinutes * 60)
	svc.logger.Debug("meditation completed",
		zap.Float64("duration_minutes", durationMinutes),
		zap.Float64("exp_gained", exp),
		zap.Float64("daily_rest_seconds", s.DailyRestSeconds()),
	)
	return exp, nil
}

// ResetDailyRestTime zeroes the accrued daily rest time. The host calls this
// once per day boundary; calling it repeatedly is harmless.
func (svc *Service) ResetDailyRestTime(s *State) {
	s.SetDailyRestSeconds(0)
}

// ConsumeQi spends Qi for an ability. Insufficiency is a normal boolean
// outcome, not an error.
func (svc *Service) ConsumeQi(s *State, cost float64) (bool, error) {
	return s.ConsumeQi(cost)
}

// ModifyKarma adjusts karma by delta and logs the change.
func (svc *Service) ModifyKarma(s *State, delta int) {
	before := s.Karma()
	s.ModifyKarma(delta)
	svc.logger.Debug("karma changed",
		zap.Int("delta", delta),
		zap.Int("before", before),
		zap.Int("after", s.Karma()),
	)
}

// IncrementTribulations records one completed tribulation.
func (svc *Service) IncrementTribulations(s *State) {
	s.SetTribulationsCompleted(s.TribulationsCompleted() + 1)
	svc.logger.Info("tribulation completed",
		zap.Int("total", s.TribulationsCompleted()),
	)
}

// EquipRing occupies a ring slot, honoring both the flat cap and the realm's
// stricter slot allowance.
//
// Postcondition: Returns ErrNoRingSlots with the state unchanged when no
// slot is available at the current realm.
func (svc *Service) EquipRing(s *State) error {
	if !CanEquipRing(s) {
		return ErrNoRingSlots
	}
	return s.EquipRing()
}

// UnequipRing frees a ring slot.
func (svc *Service) UnequipRing(s *State) error {
	return s.UnequipRing()
}

// AdvanceTier performs a manual, gate-checked realm promotion.
func (svc *Service) AdvanceTier(s *State) bool {
	if !AdvanceTier(s) {
		return false
	}
	svc.logger.Info("realm advanced",
		zap.String("realm", s.Tier().String()),
	)
	return true
}

// AdvanceSubTier performs a manual, gate-checked sub-stage promotion.
func (svc *Service) AdvanceSubTier(s *State) bool {
	return AdvanceSubTier(s)
}
