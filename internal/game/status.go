package game

// PermanentDuration marks an effect that never expires by ticking
const PermanentDuration = -1

// Stun effect names. Any of these with a positive duration blocks movement
// and actions for its holder.
const (
	EffectLassoStun  = "lasso_stun"
	EffectPoisonStun = "poison_stun"
	EffectCoffinStun = "coffin_stun"
)

// Non-stun named effects
const (
	EffectVestImmunity = "vest_immunity"
	EffectRiggedDice   = "rigged_dice_active"
)

// Battle buff names. Battle buffs live outside the timed effect list: they
// persist until a battle consumes them, regardless of how many turns pass.
const (
	BuffRevolver    = "revolver"
	BuffSunscreen   = "sunscreen"
	BuffFood        = "food"
	BuffCactus      = "cactus"
	BuffCowboyBoots = "cowboy_boots"
)

// BattleBuffs lists every buff a battle-buff tile can grant
var BattleBuffs = []string{BuffRevolver, BuffSunscreen, BuffFood, BuffCactus, BuffCowboyBoots}

// Effect is a named, timed or permanent modifier on an actor's status
type Effect struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

// PendingDecision records a movement sequence suspended at a fork
type PendingDecision struct {
	TileIndex      int
	Options        []int
	StepsRemaining int
}

// Status is the per-actor mutable state: health, gold, effects and the
// transient movement/battle bookkeeping the engines read and write.
type Status struct {
	Health    int
	MaxHealth int
	Gold      int
	Alive     bool
	Effects   []Effect

	// Battle-scoped state
	Shield      int
	Defending   bool
	battleBuffs []string

	// Movement-interrupt state
	MidMove  bool
	Decision *PendingDecision

	// Pending forced dice value, valid while EffectRiggedDice is present
	RiggedRoll int
}

// NewStatus creates a status with full health and the given starting gold
func NewStatus(health, gold int) *Status {
	return &Status{
		Health:    health,
		MaxHealth: health,
		Gold:      gold,
		Alive:     true,
		Effects:   make([]Effect, 0),
	}
}

// AddEffect appends a named effect. Positive durations tick down once per
// completed turn; PermanentDuration never expires by ticking.
func (s *Status) AddEffect(name string, duration int) {
	s.Effects = append(s.Effects, Effect{Name: name, Duration: duration})
}

// HasEffect reports whether any effect with the given name is present
func (s *Status) HasEffect(name string) bool {
	for _, e := range s.Effects {
		if e.Name == name {
			return true
		}
	}
	return false
}

// RemoveEffect strips all effects matching the given name
func (s *Status) RemoveEffect(name string) {
	kept := s.Effects[:0]
	for _, e := range s.Effects {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	s.Effects = kept
}

// Tick decrements all positive durations by one and drops any that reach
// zero. Permanent effects are left untouched.
func (s *Status) Tick() {
	kept := s.Effects[:0]
	for _, e := range s.Effects {
		if e.Duration > 0 {
			e.Duration--
			if e.Duration > 0 {
				kept = append(kept, e)
			}
			continue
		}
		if e.Duration == PermanentDuration {
			kept = append(kept, e)
		}
	}
	s.Effects = kept
}

// IsStunned reports whether any stun-category effect is active
func (s *Status) IsStunned() bool {
	for _, e := range s.Effects {
		switch e.Name {
		case EffectLassoStun, EffectPoisonStun, EffectCoffinStun:
			if e.Duration > 0 {
				return true
			}
		}
	}
	return false
}

// AdjustHealth applies a delta, clamping at zero. Reaching zero flips the
// alive flag; callers are responsible for reacting to the death.
func (s *Status) AdjustHealth(delta int) int {
	return s.SetHealth(s.Health + delta)
}

// SetHealth sets health directly with the same clamping rules. Restoring
// health above zero revives the actor.
func (s *Status) SetHealth(v int) int {
	if v < 0 {
		v = 0
	}
	s.Health = v
	s.Alive = s.Health > 0
	return s.Health
}

// AdjustGold applies a delta, clamping at zero
func (s *Status) AdjustGold(delta int) int {
	return s.SetGold(s.Gold + delta)
}

// SetGold sets gold directly, clamping at zero
func (s *Status) SetGold(v int) int {
	if v < 0 {
		v = 0
	}
	s.Gold = v
	return s.Gold
}

// AddBattleBuff grants a battle buff. Duplicates are ignored: holding two
// revolvers does not stack.
func (s *Status) AddBattleBuff(name string) {
	for _, b := range s.battleBuffs {
		if b == name {
			return
		}
	}
	s.battleBuffs = append(s.battleBuffs, name)
}

// HasBattleBuff reports whether the named buff is held
func (s *Status) HasBattleBuff(name string) bool {
	for _, b := range s.battleBuffs {
		if b == name {
			return true
		}
	}
	return false
}

// BattleBuffList returns a copy of the held battle buffs
func (s *Status) BattleBuffList() []string {
	out := make([]string, len(s.battleBuffs))
	copy(out, s.battleBuffs)
	return out
}

// ConsumeBattleBuffs clears every battle buff; called when a battle ends
func (s *Status) ConsumeBattleBuffs() {
	s.battleBuffs = nil
}

// ClearBattleState resets the shield and the defending posture after a battle
func (s *Status) ClearBattleState() {
	s.Shield = 0
	s.Defending = false
}

// SetRiggedRoll stores a forced dice value for the next roll
func (s *Status) SetRiggedRoll(value int) {
	s.RiggedRoll = value
	if !s.HasEffect(EffectRiggedDice) {
		s.AddEffect(EffectRiggedDice, PermanentDuration)
	}
}

// TakeRiggedRoll consumes and returns the forced dice value, or 0 if none
func (s *Status) TakeRiggedRoll() int {
	if !s.HasEffect(EffectRiggedDice) {
		return 0
	}
	v := s.RiggedRoll
	s.RiggedRoll = 0
	s.RemoveEffect(EffectRiggedDice)
	return v
}
