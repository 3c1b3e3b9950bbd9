package rules_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/rules"
	"github.com/mitchelldurbincs/HexTactics/internal/testutil"
)

func plainPath(costs ...int) func(positions ...core.MapPos) core.MapPath {
	return func(positions ...core.MapPos) core.MapPath {
		nodes := make([]core.PathNode, len(positions))
		for i, pos := range positions {
			nodes[i] = core.PathNode{Cost: costs[i], Pos: pos}
		}
		return core.NewMapPath(nodes)
	}
}

func TestValidateAttack(t *testing.T) {
	gs := testutil.CreateTestState(10, 10)
	ot := testutil.TestRegistry()
	testutil.PlaceUnit(gs, ot, 0, "soldier", 0, core.MapPos{X: 2, Y: 2})
	testutil.PlaceUnit(gs, ot, 1, "soldier", 1, core.MapPos{X: 4, Y: 2})
	testutil.PlaceUnit(gs, ot, 2, "soldier", 1, core.MapPos{X: 9, Y: 9})
	testutil.PlaceUnit(gs, ot, 3, "soldier", 0, core.MapPos{X: 2, Y: 3})
	tired := testutil.PlaceUnit(gs, ot, 4, "soldier", 0, core.MapPos{X: 3, Y: 3})
	tired.AttackPoints = 0
	testutil.PlaceUnit(gs, ot, 5, "tank", 0, core.MapPos{X: 5, Y: 3})

	v := rules.NewCommandValidator(ot)

	tests := []struct {
		name    string
		player  core.PlayerID
		cmd     core.AttackUnit
		wantErr error
	}{
		{"in range", 0, core.AttackUnit{AttackerID: 0, DefenderID: 1}, nil},
		{"out of range", 0, core.AttackUnit{AttackerID: 0, DefenderID: 2}, core.ErrOutOfRange},
		{"friendly fire", 0, core.AttackUnit{AttackerID: 0, DefenderID: 3}, core.ErrFriendlyFire},
		{"not own unit", 0, core.AttackUnit{AttackerID: 1, DefenderID: 0}, core.ErrNotYourUnit},
		{"unknown attacker", 0, core.AttackUnit{AttackerID: 42, DefenderID: 1}, core.ErrUnknownUnit},
		{"unknown defender", 0, core.AttackUnit{AttackerID: 0, DefenderID: 42}, core.ErrUnknownUnit},
		{"no attack points", 0, core.AttackUnit{AttackerID: 4, DefenderID: 1}, core.ErrNoAttackPoints},
		{"rifle at a tank", 1, core.AttackUnit{AttackerID: 1, DefenderID: 5}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(gs, tt.player, tt.cmd)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInAttackRange_MinimumDistance(t *testing.T) {
	ot := testutil.TestRegistry()
	tank := ot.NewUnit(0, testutil.MustTypeID(ot, "tank"), 0, core.MapPos{X: 3, Y: 3})

	assert.False(t, rules.InAttackRange(ot, tank, core.MapPos{X: 3, Y: 3}))
	assert.True(t, rules.InAttackRange(ot, tank, core.MapPos{X: 4, Y: 3}))
	assert.True(t, rules.InAttackRange(ot, tank, core.MapPos{X: 8, Y: 3}))
	assert.False(t, rules.InAttackRange(ot, tank, core.MapPos{X: 9, Y: 3}))
}

func TestValidateMove(t *testing.T) {
	terrain := map[core.MapPos]core.Terrain{
		{X: 3, Y: 0}: core.TerrainTrees,
		{X: 0, Y: 1}: core.TerrainWater,
	}
	gs := testutil.CreateTestStateWithTerrain(8, 8, terrain)
	ot := testutil.TestRegistry()
	testutil.PlaceUnit(gs, ot, 0, "soldier", 0, core.MapPos{X: 0, Y: 0})
	testutil.PlaceUnit(gs, ot, 1, "soldier", 1, core.MapPos{X: 5, Y: 0})

	v := rules.NewCommandValidator(ot)
	origin := core.MapPos{X: 0, Y: 0}

	tests := []struct {
		name     string
		player   core.PlayerID
		path     core.MapPath
		wantCost int
		wantErr  error
	}{
		{"two plain steps", 0, plainPath(0, 1, 2)(origin, core.MapPos{X: 1, Y: 0}, core.MapPos{X: 2, Y: 0}), 2, nil},
		{"into trees", 0, plainPath(0, 1, 2, 4)(origin, core.MapPos{X: 1, Y: 0}, core.MapPos{X: 2, Y: 0}, core.MapPos{X: 3, Y: 0}), 0, core.ErrInsufficientMovePoints},
		{"origin only", 0, plainPath(0)(origin), 0, core.ErrBadPath},
		{"wrong origin", 0, plainPath(0, 1)(core.MapPos{X: 1, Y: 1}, core.MapPos{X: 2, Y: 1}), 0, core.ErrBadPath},
		{"not adjacent", 0, plainPath(0, 1)(origin, core.MapPos{X: 2, Y: 0}), 0, core.ErrBadPath},
		{"wrong cost", 0, plainPath(0, 5)(origin, core.MapPos{X: 1, Y: 0}), 0, core.ErrBadPath},
		{"water", 0, plainPath(0, 1)(origin, core.MapPos{X: 0, Y: 1}), 0, core.ErrImpassable},
		{"off map", 0, plainPath(0, 1)(origin, core.MapPos{X: -1, Y: 0}), 0, core.ErrInvalidPosition},
		{"enemy unit", 1, plainPath(0, 1)(origin, core.MapPos{X: 1, Y: 0}), 0, core.ErrNotYourUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := v.ValidateMove(gs, tt.player, core.Move{UnitID: 0, Path: tt.path})
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.wantCost, cost)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateMove_OccupiedTile(t *testing.T) {
	gs := testutil.CreateTestState(5, 1)
	ot := testutil.TestRegistry()
	testutil.PlaceUnit(gs, ot, 0, "soldier", 0, core.MapPos{X: 0, Y: 0})
	testutil.PlaceUnit(gs, ot, 1, "soldier", 0, core.MapPos{X: 1, Y: 0})

	v := rules.NewCommandValidator(ot)
	path := plainPath(0, 1)(core.MapPos{X: 0, Y: 0}, core.MapPos{X: 1, Y: 0})

	_, err := v.ValidateMove(gs, 0, core.Move{UnitID: 0, Path: path})
	assert.ErrorIs(t, err, core.ErrTileOccupied)
}

func TestValidate_Transported(t *testing.T) {
	gs := testutil.CreateTestState(8, 8)
	ot := testutil.TestRegistry()
	passenger := testutil.PlaceUnit(gs, ot, 0, "soldier", 0, core.MapPos{X: 2, Y: 2})
	truck := ot.NewUnit(1, testutil.MustTypeID(ot, "truck"), 0, core.MapPos{X: 2, Y: 2})
	truck.PassengerID = &passenger.ID
	require.NoError(t, gs.AddUnit(truck))
	testutil.PlaceUnit(gs, ot, 2, "soldier", 1, core.MapPos{X: 3, Y: 2})

	v := rules.NewCommandValidator(ot)

	err := v.Validate(gs, 0, core.AttackUnit{AttackerID: 0, DefenderID: 2})
	assert.ErrorIs(t, err, core.ErrTransported)

	err = v.Validate(gs, 1, core.AttackUnit{AttackerID: 2, DefenderID: 0})
	assert.ErrorIs(t, err, core.ErrTransported)

	assert.NoError(t, v.Validate(gs, 1, core.AttackUnit{AttackerID: 2, DefenderID: 1}))
}

func TestValidate_EndTurnAndNil(t *testing.T) {
	gs := testutil.CreateTestState(4, 4)
	v := rules.NewCommandValidator(testutil.TestRegistry())

	assert.NoError(t, v.Validate(gs, 0, core.EndTurn{}))
	assert.ErrorIs(t, v.Validate(gs, 0, nil), core.ErrUnknownCommand)
}

func TestLegalAttacks(t *testing.T) {
	gs := testutil.CreateTestState(10, 10)
	ot := testutil.TestRegistry()
	testutil.PlaceUnit(gs, ot, 3, "soldier", 0, core.MapPos{X: 2, Y: 2})
	testutil.PlaceUnit(gs, ot, 1, "soldier", 0, core.MapPos{X: 9, Y: 0})
	testutil.PlaceUnit(gs, ot, 7, "soldier", 1, core.MapPos{X: 4, Y: 2})
	testutil.PlaceUnit(gs, ot, 5, "soldier", 1, core.MapPos{X: 3, Y: 3})

	v := rules.NewCommandValidator(ot)

	assert.Equal(t, []core.AttackUnit{
		{AttackerID: 3, DefenderID: 5},
		{AttackerID: 3, DefenderID: 7},
	}, v.LegalAttacks(gs, 0))
	assert.Len(t, v.LegalAttacks(gs, 1), 2)
	assert.Empty(t, v.LegalAttacks(gs, 2))
}

type player struct {
	id    core.PlayerID
	alive bool
}

func (p player) GetID() core.PlayerID { return p.id }
func (p player) IsAlive() bool        { return p.alive }

func TestWinConditionChecker(t *testing.T) {
	tests := []struct {
		name     string
		players  []rules.Player
		turn     int
		maxTurns int
		want     rules.MatchResult
	}{
		{
			name:    "both alive",
			players: []rules.Player{player{0, true}, player{1, true}},
			turn:    3,
			want:    rules.MatchResult{Winner: rules.NoWinner},
		},
		{
			name:    "last standing",
			players: []rules.Player{player{0, false}, player{1, true}},
			turn:    3,
			want:    rules.MatchResult{Over: true, Winner: 1, Reason: rules.ReasonLastStanding},
		},
		{
			name:    "everyone dead",
			players: []rules.Player{player{0, false}, player{1, false}},
			turn:    3,
			want:    rules.MatchResult{Over: true, Winner: rules.NoWinner, Reason: rules.ReasonAnnihilation},
		},
		{
			name:     "turn limit",
			players:  []rules.Player{player{0, true}, player{1, true}},
			turn:     11,
			maxTurns: 10,
			want:     rules.MatchResult{Over: true, Winner: rules.NoWinner, Reason: rules.ReasonTurnLimit},
		},
		{
			name:     "last turn still plays",
			players:  []rules.Player{player{0, true}, player{1, true}},
			turn:     10,
			maxTurns: 10,
			want:     rules.MatchResult{Winner: rules.NoWinner},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc := rules.NewWinConditionChecker(zerolog.Nop(), len(tt.players), tt.maxTurns)
			assert.Equal(t, tt.want, wc.Check(tt.players, tt.turn))
		})
	}
}

func TestWinConditionChecker_SinglePlayer(t *testing.T) {
	wc := rules.NewWinConditionChecker(zerolog.Nop(), 1, 0)
	result := wc.Check([]rules.Player{player{0, true}}, 50)
	assert.False(t, result.Over, "a solo match runs until the player is wiped out")
}
