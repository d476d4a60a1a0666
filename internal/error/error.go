package error

import (
	"errors"
	"fmt"
)

// Sentinels are matched with errors.Is; the constructors below wrap them
// with the details of each occurrence.
var (
	ErrPlacement         = errors.New("placement error")
	ErrIllegalShot       = errors.New("illegal shot")
	ErrMoveSourceFailure = errors.New("move source failure")
	ErrInvalidPhase      = errors.New("action not allowed in current phase")
	ErrStaleEpoch        = errors.New("game was reset while the move was in flight")
)

const (
	ConstErrAttackFailed = "shot operation failed"
	ConstErrDeployFailed = "fleet deployment failed"
)

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("game with this uuid does not exist, uuid: %s", gameUuid)
}

func ErrGameIsNil(gameUuid string) error {
	return fmt.Errorf("game with this uuid is nil, uuid: %s", gameUuid)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrNoActiveGame() error {
	return fmt.Errorf("no game has been created in this session")
}

func ErrOutOfGridBound(row, col int) error {
	return fmt.Errorf("%w: coordinates out of grid bound\trow: %d\tcol: %d", ErrPlacement, row, col)
}

func ErrCellOccupied(row, col int) error {
	return fmt.Errorf("%w: cell already occupied\trow: %d\tcol: %d", ErrPlacement, row, col)
}

func ErrInvalidShipId() error {
	return fmt.Errorf("%w: ship id must not be the empty marker", ErrPlacement)
}

func ErrPlacementExhausted(ship string, attempts int) error {
	return fmt.Errorf("%w: no valid position for %s after %d attempts", ErrPlacement, ship, attempts)
}

func ErrShotOutOfGridBound(row, col int) error {
	return fmt.Errorf("%w: coordinates out of grid bound\trow: %d\tcol: %d", ErrIllegalShot, row, col)
}

func ErrAlreadyShot(coordinates string) error {
	return fmt.Errorf("%w: %s was already fired upon", ErrIllegalShot, coordinates)
}

func ErrNotPlayerTurn() error {
	return fmt.Errorf("%w: it is not the player's turn", ErrIllegalShot)
}

func ErrNotOpponentTurn() error {
	return fmt.Errorf("%w: it is not the opponent's turn", ErrIllegalShot)
}

func ErrNotPlaying(phase string) error {
	return fmt.Errorf("%w: game is in phase %s", ErrIllegalShot, phase)
}

func ErrCannotDeploy(phase string) error {
	return fmt.Errorf("%w: fleets can only be deployed during setup, phase: %s", ErrInvalidPhase, phase)
}

func ErrInvalidCoordinates(raw string) error {
	return fmt.Errorf("invalid coordinates: %q", raw)
}

func ErrUnparsableMove(reason error) error {
	return fmt.Errorf("%w: unparsable move: %v", ErrMoveSourceFailure, reason)
}

func ErrMoveRequestFailed(reason error) error {
	return fmt.Errorf("%w: move request failed: %v", ErrMoveSourceFailure, reason)
}

func ErrMoveAlreadyTried(coordinates string) error {
	return fmt.Errorf("%w: move %s targets an already fired cell", ErrMoveSourceFailure, coordinates)
}

func ErrNoAgent(name string) error {
	return fmt.Errorf("agent %q is not available", name)
}

func ErrAgentStatus(endpoint string, status int) error {
	return fmt.Errorf("agent service %s responded with status %d", endpoint, status)
}

func ErrFleetSnapshotAbsent() error {
	return fmt.Errorf("no fleet snapshot has been stored for this game")
}
