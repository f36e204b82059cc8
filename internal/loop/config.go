package loop

import "time"

// Match scheduling. The physics and ambient loops share one ticker and never
// run at the same time.
const (
	PhysicsRate   = 60
	PhysicsPeriod = time.Second / PhysicsRate
	AmbientRate   = 20
	AmbientPeriod = time.Second / AmbientRate
)

// AI
const (
	AIThinkTicks = 14 // Ambient ticks an AI team waits before shooting
)

// Commands
const (
	commandBuffer = 64
)

// Client rendering
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 200 // Render area is clamped and centred beyond this
	MaxTermHeight         = 70
	HUDWidth              = 26 // Columns reserved right of the rink
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)
