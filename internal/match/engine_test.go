package match

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

func newTestEngine(turn object.Team, tuning Tuning, pucks ...*object.Puck) *Engine {
	s := NewState(tuning.Rink)
	s.Turn = turn
	for _, p := range pucks {
		s.AddPuck(p)
	}
	return NewEngine(s, tuning)
}

// runShot ticks until the shot settles.
func runShot(t *testing.T, e *Engine) []Event {
	t.Helper()
	var events []Event
	for i := 0; i < 5000 && e.State().IsSimulating; i++ {
		e.Tick()
		events = append(events, e.Drain()...)
	}
	if e.State().IsSimulating {
		t.Fatal("shot did not settle")
	}
	return events
}

func findEvent(events []Event, kind EventKind) (Event, bool) {
	for _, ev := range events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return Event{}, false
}

func TestFrictionStopsPuck(t *testing.T) {
	p := object.NewPuck(0, object.Red, object.Pawn, physics.V(400, 600))
	e := newTestEngine(object.Red, DefaultTuning(), p)
	if !e.Shoot(0, physics.V(40, 0)) {
		t.Fatal("shot rejected")
	}

	prev := math.Inf(1)
	for e.State().IsSimulating {
		e.Tick()
		speed := p.Velocity.Len()
		if speed > 0 && speed >= prev {
			t.Fatalf("speed did not decrease: %v -> %v", prev, speed)
		}
		prev = speed
	}
	if !p.Velocity.IsZero() {
		t.Errorf("velocity after settle = %v", p.Velocity)
	}
	pos := p.Position
	e.Tick()
	if p.Position != pos {
		t.Errorf("puck drifted after settling")
	}
}

func TestNoChargePassesTurn(t *testing.T) {
	red := object.NewPuck(0, object.Red, object.Pawn, physics.V(400, 900))
	red2 := object.NewPuck(1, object.Red, object.Pawn, physics.V(100, 900))
	blue := object.NewPuck(2, object.Blue, object.King, physics.V(400, 200))
	e := newTestEngine(object.Red, DefaultTuning(), red, red2, blue)

	e.Shoot(0, physics.V(60, 0))
	events := runShot(t, e)

	s := e.State()
	if s.Turn != object.Blue || s.TurnLoss != LossNoCharge {
		t.Errorf("turn=%v loss=%v, want BLUE/NO_CHARGE", s.Turn, s.TurnLoss)
	}
	if s.Phase != PhaseAwaitingShot || !s.CanShoot || s.IsSimulating {
		t.Errorf("phase=%v canShoot=%v simulating=%v", s.Phase, s.CanShoot, s.IsSimulating)
	}
	if len(s.Fired) != 0 || s.TurnChanges != 1 {
		t.Errorf("fired=%v turnChanges=%d", s.Fired, s.TurnChanges)
	}
	if _, ok := findEvent(events, EventTurnChanged); !ok {
		t.Error("no TURN_CHANGED event")
	}
}

func TestShootRejections(t *testing.T) {
	red := object.NewPuck(0, object.Red, object.Pawn, physics.V(400, 900))
	red2 := object.NewPuck(1, object.Red, object.Pawn, physics.V(100, 900))
	blue := object.NewPuck(2, object.Blue, object.Pawn, physics.V(400, 300))
	e := newTestEngine(object.Red, DefaultTuning(), red, red2, blue)

	tests := []struct {
		name string
		id   int
		drag physics.Vec
	}{
		{"opponent puck", 2, physics.V(0, -100)},
		{"unknown puck", 99, physics.V(0, -100)},
		{"short drag", 0, physics.V(2, 0)},
		{"zero drag", 0, physics.Vec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if e.Shoot(tt.id, tt.drag) {
				t.Fatal("shot accepted")
			}
			if e.State().IsSimulating || !e.State().CanShoot {
				t.Fatal("rejected shot changed state")
			}
		})
	}

	if !e.Shoot(0, physics.V(50, 0)) {
		t.Fatal("valid shot rejected")
	}
	if e.Shoot(1, physics.V(50, 0)) {
		t.Error("shot accepted mid-simulation")
	}
	e.Drain()
	runShot(t, e)

	// Red passed the turn. Give it back to check the fired set.
	s := e.State()
	s.Turn = object.Red
	s.Fired[0] = true
	if e.Shoot(0, physics.V(50, 0)) {
		t.Error("already fired puck accepted")
	}
}

func TestOwnGoalBeatsUnchargedGoal(t *testing.T) {
	// Blue defends the top goal. The striker is uncharged as well.
	blue := object.NewPuck(0, object.Blue, object.Striker, physics.V(400, 60))
	red := object.NewPuck(1, object.Red, object.King, physics.V(400, 1000))
	e := newTestEngine(object.Blue, DefaultTuning(), blue, red)

	e.Shoot(0, physics.V(0, -100))
	events := runShot(t, e)

	ev, ok := findEvent(events, EventFoul)
	if !ok || ev.Reason != LossOwnGoal {
		t.Fatalf("foul event = %+v, want OWN_GOAL", ev)
	}
	s := e.State()
	if s.TurnLoss != LossOwnGoal || s.Turn != object.Red {
		t.Errorf("loss=%v turn=%v", s.TurnLoss, s.Turn)
	}
	if blue.Position != blue.InitialPosition {
		t.Errorf("fouling puck at %v, want respawn at %v", blue.Position, blue.InitialPosition)
	}
	if s.Score != [2]int{} {
		t.Errorf("score = %v", s.Score)
	}
}

func TestUnchargedGoalIsFoul(t *testing.T) {
	red := object.NewPuck(0, object.Red, object.Striker, physics.V(400, 60))
	red2 := object.NewPuck(1, object.Red, object.Pawn, physics.V(100, 900))
	e := newTestEngine(object.Red, DefaultTuning(), red, red2)

	e.Shoot(0, physics.V(0, -100))
	runShot(t, e)

	s := e.State()
	if s.TurnLoss != LossUnchargedGoal || s.Turn != object.Blue {
		t.Errorf("loss=%v turn=%v", s.TurnLoss, s.Turn)
	}
	if s.Score[object.Red] != 0 {
		t.Errorf("uncharged goal scored %d", s.Score[object.Red])
	}
}

func TestKingGoalStartsGoalSequence(t *testing.T) {
	tuning := DefaultTuning()
	tuning.TargetScore = 7
	king := object.NewPuck(0, object.Red, object.King, physics.V(400, 150))
	king.Charged = true
	pawn := object.NewPuck(1, object.Red, object.Pawn, physics.V(100, 900))
	pawn.Charged = true
	blue := object.NewPuck(2, object.Blue, object.Striker, physics.V(700, 700))
	e := newTestEngine(object.Red, tuning, king, pawn, blue)

	e.Shoot(0, physics.V(0, -200))
	events := runShot(t, e)

	s := e.State()
	if s.Score[object.Red] != 3 {
		t.Fatalf("red score = %d, want 3", s.Score[object.Red])
	}
	if s.Phase != PhaseGoal || s.Goal == nil || s.Goal.PuckType != object.King {
		t.Fatalf("phase=%v goal=%+v", s.Phase, s.Goal)
	}
	if _, ok := findEvent(events, EventTurnChanged); ok {
		t.Error("goal resolved through a turn change")
	}
	if _, ok := findEvent(events, EventGoalScored); !ok {
		t.Error("no GOAL_SCORED event")
	}
	for _, p := range s.Pucks {
		if p.Moving() {
			t.Errorf("puck %d still moving", p.ID)
		}
	}

	if e.CompleteGoal(s.GoalSeq - 1) {
		t.Error("stale goal sequence accepted")
	}
	if !e.CompleteGoal(s.GoalSeq) {
		t.Fatal("goal sequence rejected")
	}
	if s.Turn != object.Blue || s.Phase != PhaseAwaitingShot || s.Goal != nil {
		t.Errorf("after reset turn=%v phase=%v", s.Turn, s.Phase)
	}
	if king.Charged || pawn.Charged || king.Position != king.InitialPosition {
		t.Error("round reset left pucks charged or displaced")
	}
	if e.CompleteGoal(s.GoalSeq) {
		t.Error("goal sequence completed twice")
	}
}

func TestKingGoalWinsMatch(t *testing.T) {
	king := object.NewPuck(0, object.Red, object.King, physics.V(400, 150))
	king.Charged = true
	e := newTestEngine(object.Red, DefaultTuning(), king)

	e.Shoot(0, physics.V(0, -200))
	events := runShot(t, e)

	s := e.State()
	if !s.Won || s.Winner != object.Red || s.Phase != PhaseOver {
		t.Fatalf("won=%v winner=%v phase=%v", s.Won, s.Winner, s.Phase)
	}
	if _, ok := findEvent(events, EventMatchWon); !ok {
		t.Error("no MATCH_WON event")
	}
	if e.CompleteGoal(s.GoalSeq) {
		t.Error("won match reset the round")
	}
	if e.Shoot(0, physics.V(0, -100)) {
		t.Error("shot accepted after the match ended")
	}
}

// pawnScenario sets up pawn 3 below a pawn-pawn line and a pawn-special line.
func pawnScenario() (*Engine, *object.Puck) {
	shooter := object.NewPuck(3, object.Red, object.Pawn, physics.V(400, 600))
	e := newTestEngine(object.Red, DefaultTuning(),
		object.NewPuck(1, object.Red, object.Pawn, physics.V(300, 550)),
		object.NewPuck(2, object.Red, object.Pawn, physics.V(500, 550)),
		shooter,
		object.NewPuck(4, object.Red, object.Striker, physics.V(500, 450)),
		object.NewPuck(5, object.Blue, object.King, physics.V(100, 100)),
	)
	return e, shooter
}

func TestPawnChargesWithBothLineKinds(t *testing.T) {
	e, shooter := pawnScenario()
	if !e.Shoot(3, physics.V(0, -100)) {
		t.Fatal("shot rejected")
	}
	events := runShot(t, e)

	s := e.State()
	if !shooter.Charged {
		t.Fatal("pawn not charged")
	}
	if s.Lines == nil || s.Lines.Combo != 2 {
		t.Fatalf("line state = %+v, want combo 2", s.Lines)
	}
	if s.Turn != object.Red || s.TurnLoss != LossNone || !s.CanShoot {
		t.Errorf("no bonus turn: turn=%v loss=%v", s.Turn, s.TurnLoss)
	}
	if _, ok := findEvent(events, EventBonusTurn); !ok {
		t.Error("no BONUS_TURN event")
	}
	// Two perfect crossings: (8+8+0) + (8+8+4)
	if got := s.PulsarPower[object.Red]; math.Abs(got-36) > 1e-9 {
		t.Errorf("pulsar power = %v, want 36", got)
	}

	// Charge is permanent: a further shot that crosses nothing keeps it.
	s.Fired[3] = false
	e.Shoot(3, physics.V(60, 0))
	runShot(t, e)
	if !shooter.Charged {
		t.Error("re-shot un-charged the pawn")
	}
}

func TestBonusSoftLockPassesTurn(t *testing.T) {
	e, shooter := pawnScenario()
	s := e.State()
	s.Fired[1], s.Fired[2], s.Fired[4] = true, true, true

	e.Shoot(3, physics.V(0, -100))
	runShot(t, e)

	if !shooter.Charged {
		t.Fatal("pawn not charged")
	}
	if s.Turn != object.Blue || s.TurnLoss != LossAllFired {
		t.Errorf("turn=%v loss=%v, want BLUE/ALL_FIRED", s.Turn, s.TurnLoss)
	}
}

func TestSpecialShotMissLosesTurn(t *testing.T) {
	king := object.NewPuck(0, object.Red, object.King, physics.V(400, 1000))
	striker := object.NewPuck(1, object.Red, object.Striker, physics.V(200, 800))
	striker.Charged = true
	e := newTestEngine(object.Red, DefaultTuning(), king, striker)

	s := e.State()
	if s.Special[object.Red] != TierUltimate {
		t.Fatalf("tier = %v, want ULTIMATE", s.Special[object.Red])
	}
	if e.ArmSpecial(object.Blue) {
		t.Error("armed special out of turn")
	}
	if !e.ArmSpecial(object.Red) {
		t.Fatal("special not armed")
	}
	e.Shoot(0, physics.V(100, 0))
	if fx := king.Effect(object.EffectRage); fx == nil || fx.Kills != DefaultTuning().UltimateKills {
		t.Fatalf("king rage = %+v", fx)
	}
	runShot(t, e)

	if s.TurnLoss != LossSpecialMiss || s.Turn != object.Blue {
		t.Errorf("loss=%v turn=%v", s.TurnLoss, s.Turn)
	}
	if !s.SpecialSpent[object.Red] {
		t.Error("special not spent")
	}
}

func TestRageDestroysButSparesKing(t *testing.T) {
	tests := []struct {
		name      string
		victim    object.PuckType
		destroyed bool
	}{
		{"pawn", object.Pawn, true},
		{"king", object.King, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			berserker := object.NewPuck(1, object.Red, object.Berserker, physics.V(400, 600))
			victim := object.NewPuck(2, object.Blue, tt.victim, physics.V(400, 520))
			e := newTestEngine(object.Red, DefaultTuning(), berserker, victim)

			e.Shoot(1, physics.V(0, -100))
			events := runShot(t, e)

			_, gone := findEvent(events, EventPuckDestroyed)
			if gone != tt.destroyed || (e.State().Puck(2) == nil) != tt.destroyed {
				t.Errorf("destroyed=%v, want %v", gone, tt.destroyed)
			}
			if !tt.destroyed && victim.Position == victim.InitialPosition {
				t.Error("king was not pushed")
			}
		})
	}
}

func TestNullifierNeutralizesOpponent(t *testing.T) {
	null := object.NewPuck(1, object.Red, object.Nullifier, physics.V(400, 600))
	target := object.NewPuck(2, object.Blue, object.Bastion, physics.V(400, 530))
	e := newTestEngine(object.Red, DefaultTuning(), null, target)

	e.Shoot(1, physics.V(0, -100))
	for i := 0; i < 100 && !target.HasEffect(object.EffectNeutralize); i++ {
		e.Tick()
	}

	if !target.HasEffect(object.EffectNeutralize) || target.Mass != 1 {
		t.Fatalf("target mass=%v effects=%v", target.Mass, target.Effects)
	}
	target.ClearEffects()
	if target.Mass != object.Bastion.Spec().Mass {
		t.Errorf("mass not restored: %v", target.Mass)
	}
}

func TestOrbPickupCreditsShooter(t *testing.T) {
	rink := DefaultTuning().Rink
	striker := object.NewPuck(0, object.Red, object.Striker, physics.V(200, 150))
	e := newTestEngine(object.Red, DefaultTuning(), striker)
	s := e.State()
	// Loop parameter of (200, 40) on the top edge.
	perimeter := 2 * ((rink.Width - 80) + (rink.Height - 80))
	s.Orbs = append(s.Orbs, object.NewOrb(7, 160/perimeter, rink))

	e.Shoot(0, physics.V(0, -100))
	events := runShot(t, e)

	if len(s.Orbs) != 0 {
		t.Fatalf("orb not collected")
	}
	if s.PulsarPower[object.Red] != 10 || s.OrbPickups[object.Red] != 1 {
		t.Errorf("power=%v pickups=%d", s.PulsarPower[object.Red], s.OrbPickups[object.Red])
	}
	if _, ok := findEvent(events, EventOrbCollected); !ok {
		t.Error("no ORB_COLLECTED event")
	}
}

func TestTierUnlockEvent(t *testing.T) {
	king := object.NewPuck(0, object.Blue, object.King, physics.V(400, 150))
	a := object.NewPuck(1, object.Blue, object.Striker, physics.V(200, 300))
	b := object.NewPuck(2, object.Blue, object.Comet, physics.V(600, 300))
	pawn := object.NewPuck(3, object.Blue, object.Pawn, physics.V(400, 400))
	e := newTestEngine(object.Blue, DefaultTuning(), king, a, b, pawn)

	a.Charged = true
	e.recomputeTiers(true)
	if e.State().Special[object.Blue] != TierNone {
		t.Fatal("unlocked with an uncharged special")
	}
	b.Charged = true
	e.recomputeTiers(true)
	if e.State().Special[object.Blue] != TierRoyal {
		t.Fatalf("tier = %v, want ROYAL", e.State().Special[object.Blue])
	}
	pawn.Charged = true
	e.recomputeTiers(true)
	if e.State().Special[object.Blue] != TierUltimate {
		t.Fatalf("tier = %v, want ULTIMATE", e.State().Special[object.Blue])
	}

	var unlocks int
	for _, ev := range e.Drain() {
		if ev.Kind == EventSpecialUnlocked {
			unlocks++
		}
	}
	if unlocks != 2 {
		t.Errorf("unlock events = %d, want 2", unlocks)
	}
}

func TestArmPulsarNeedsFullPower(t *testing.T) {
	p := object.NewPuck(0, object.Red, object.Striker, physics.V(400, 900))
	e := newTestEngine(object.Red, DefaultTuning(), p)
	if e.ArmPulsar(object.Red) {
		t.Fatal("armed with no power")
	}
	e.State().PulsarPower[object.Red] = 100
	if !e.ArmPulsar(object.Red) {
		t.Fatal("could not arm full pulsar")
	}

	base := LaunchVelocity(p, physics.V(0, -100), DefaultTuning(), false, TierNone)
	e.Shoot(0, physics.V(0, -100))
	if got, want := p.Velocity.Len(), base.Len()*1.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("pulsar speed = %v, want %v", got, want)
	}
	if e.State().PulsarPower[object.Red] != 0 || e.State().PulsarArmed[object.Red] {
		t.Error("pulsar not spent")
	}
}

func TestWinner(t *testing.T) {
	tests := []struct {
		score  [2]int // RED, BLUE
		winner object.Team
		won    bool
	}{
		{[2]int{0, 0}, 0, false},
		{[2]int{3, 1}, object.Red, true},
		{[2]int{1, 3}, object.Blue, true},
		{[2]int{2, 2}, 0, false},
		{[2]int{2, 3}, 0, false},
		{[2]int{2, 4}, object.Blue, true},
		{[2]int{5, 3}, object.Red, true},
		{[2]int{4, 4}, 0, false},
	}
	for _, tt := range tests {
		winner, won := Winner(tt.score, 3)
		if won != tt.won || (won && winner != tt.winner) {
			t.Errorf("Winner(%v) = %v,%v want %v,%v", tt.score, winner, won, tt.winner, tt.won)
		}
	}
	if !SuddenDeath([2]int{2, 2}, 3) || SuddenDeath([2]int{1, 2}, 3) {
		t.Error("sudden death threshold")
	}
}

func TestStartMatch(t *testing.T) {
	for _, name := range Formations() {
		t.Run(name, func(t *testing.T) {
			red := TeamConfig{Team: object.Red, Specials: DefaultRoster(), Formation: name}
			blue := TeamConfig{Team: object.Blue, Specials: DefaultRoster(), Formation: name}
			e, err := StartMatch(red, blue, DefaultTuning(), rand.New(rand.NewSource(3)))
			if err != nil {
				t.Fatal(err)
			}
			s := e.State()
			if len(s.Pucks) != 28 {
				t.Fatalf("got %d pucks", len(s.Pucks))
			}
			for i, p := range s.Pucks {
				if p.ID != i {
					t.Fatalf("puck %d has id %d", i, p.ID)
				}
				if (i < 14) != (p.Team == object.Red) {
					t.Errorf("puck %d on team %v", i, p.Team)
				}
				if !s.Rink.Contains(p.Position) {
					t.Errorf("puck %d outside rink at %v", i, p.Position)
				}
				for _, q := range s.Pucks[i+1:] {
					if physics.CirclesOverlap(p.Position, p.Radius, q.Position, q.Radius) {
						t.Errorf("pucks %d and %d overlap", p.ID, q.ID)
					}
				}
			}
			if s.Pucks[0].Type != object.King || s.Pucks[14].Type != object.King {
				t.Error("kings not first")
			}
			if s.Turn != object.Red || !s.CanShoot {
				t.Error("red does not start")
			}
		})
	}
}

func TestStartMatchErrors(t *testing.T) {
	good := func(team object.Team) TeamConfig {
		return TeamConfig{Team: team, Specials: DefaultRoster(), Formation: "wedge"}
	}
	bad := good(object.Blue)
	bad.Formation = "pyramid"
	short := good(object.Blue)
	short.Specials = short.Specials[:3]
	pawns := good(object.Blue)
	pawns.Specials = append([]object.PuckType{object.Pawn}, pawns.Specials[1:]...)

	tests := []struct {
		name string
		blue TeamConfig
		want error
	}{
		{"same team", good(object.Red), ErrSameTeam},
		{"formation", bad, ErrUnknownFormation},
		{"roster size", short, ErrRosterSize},
		{"puck type", pawns, ErrUnknownPuckType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StartMatch(good(object.Red), tt.blue, DefaultTuning(), nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseRoster(t *testing.T) {
	got, err := ParseRoster(" comet, Titan ,SPARK")
	if err != nil {
		t.Fatal(err)
	}
	want := []object.PuckType{object.Comet, object.Titan, object.Spark}
	if len(got) != len(want) {
		t.Fatalf("roster = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("roster[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if def, _ := ParseRoster(""); len(def) != RosterSize {
		t.Errorf("empty roster = %v, want the default", def)
	}
	if _, err := ParseRoster("comet,goalie"); !errors.Is(err, ErrUnknownPuckType) {
		t.Errorf("err = %v", err)
	}
}

func TestSoundFor(t *testing.T) {
	name, opts, ok := SoundFor(Event{Kind: EventCollision, Value: 40})
	if !ok || name != SoundCollision || opts.Volume != 1 || opts.Throttle == 0 {
		t.Errorf("collision sound = %q %+v %v", name, opts, ok)
	}
	if _, _, ok := SoundFor(Event{Kind: EventRoundReset}); ok {
		t.Error("round reset has a sound")
	}
}

func TestSnapshotCopiesState(t *testing.T) {
	e, _ := pawnScenario()
	snap := e.Snapshot()
	if len(snap.Pucks) != 5 || snap.Turn != "RED" || snap.Phase != "AWAITING_SHOT" {
		t.Fatalf("snapshot = %+v", snap)
	}
	e.State().Pucks[0].Position = physics.V(1, 1)
	if snap.Pucks[0].X == 1 {
		t.Error("snapshot aliases state")
	}
}
