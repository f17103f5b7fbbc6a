package fighter

// Spawn placement
const (
	spawnInset = 80.0 // Distance from the side wall at spawn
)

// Physics constants (units per tick)
const (
	groundFriction   = 0.85
	airDrag          = 0.98
	floorBounce      = 0.3 // Velocity kept when a ground bug hits the floor hard
	flyerBounce      = 0.5 // Velocity kept when a flyer bounces off floor or ceiling
	wallBounce       = 0.5
	deadBounce       = 0.2
	bounceMinSpeed   = 2.0 // Slower vertical impacts just stop
	flyerGravity     = 0.15
	wallStunMinSpeed = 4.0 // Knocked-back impacts above this stun
	wallStunPerSpeed = 3.0 // Stun ticks per unit of impact speed
	wallStunMax      = 60
	knockbackTicks   = 15
)

// Stamina economy (per tick unless noted)
const (
	staminaRegenBase     = 0.1
	staminaRegenPerSpeed = 1.0 / 500
	flightDrain          = 0.15
	wallClingDrain       = 0.1
	exhaustedFraction    = 0.10 // Forced landing / wall drop below this
	recoveredFraction    = 0.40 // Exhaustion clears above this
	takeoffFraction      = 0.30
	wallAttachFraction   = 0.20
	jumpStaminaCost      = 15.0 // At full power
	wallJumpPush         = 4.0
)

// AI constants
const (
	minStateDwell        = 20  // Ticks before a standard transition may fire
	circleDwell          = 40  // Extra dwell before switching to circling
	farRange             = 200 // Beyond this the fighter closes distance
	farDwellBase         = 120 // Far-range dwell, shortened by aggression
	farDwellAggression   = 80
	corneredInstinct     = 60
	corneredChance       = 0.05
	emergencyHPFraction  = 0.30
	emergencyCaution     = 0.5
	emergencyChance      = 0.03
	stuckSpeed           = 0.1
	stuckTicks           = 45
	stuckBurst           = 3.0 // Multiple of max speed
	facingSmoothing      = 0.15
	steerResponse        = 0.15
	circleAngularSpeed   = 0.03
	flyerCruiseHeight    = 40.0 // Height above the opponent while closing in
	flyerOrbitHeight     = 60.0
	diveSpeed            = 4.0
	pounceRange          = 120.0
	pounceChance         = 0.05
	groundJumpChance     = 0.04
	groundJumpHeightDiff = 30.0
)

// Drive constants
const (
	driveDrift              = 0.002
	stalematePressureTicks  = 240
	stalemateForceTicks     = 450
	stalematePressure       = 0.004
	exhaustionCautionGain   = 0.005
	exhaustionAggressionCut = 0.002
	exhaustionFraction      = 0.25
)
