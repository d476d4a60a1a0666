package api

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/saeidalz13/battleship-admiral/internal/agent"
	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
	mb "github.com/saeidalz13/battleship-admiral/models/battleship"
	mc "github.com/saeidalz13/battleship-admiral/models/connection"
)

type RequestHandler interface {
	HandleCreateGame(gm mb.GameManager) (*mb.Game, mc.Message[mc.RespCreateGame])
	HandleDeploy(game *mb.Game) mc.Message[mc.RespDeploy]
	HandleShoot(game *mb.Game) (mc.Message[mc.RespShot], mb.State)
	HandleReset(game *mb.Game) mc.Message[mc.RespReset]
	HandleChat(ctx context.Context, assistant *agent.Assistant) mc.Message[mc.RespChat]
	HandleFleetSnapshot(ctx context.Context, archive *agent.FleetArchive, game *mb.Game) mc.Message[mc.RespFleetSnapshot]
	HandleDeleteFleetSnapshot(ctx context.Context, archive *agent.FleetArchive, game *mb.Game) mc.Message[mc.NoPayload]
}

// Every incoming valid request will have this structure
// The request then is handled in line with RequestHandler interface
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) *Request {
	if len(payload) > 1 {
		log.Warn("cannot accept more than one payload")
		return nil
	}

	req := Request{}
	if len(payload) != 0 {
		req.payload = payload[0]
	}
	return &req
}

func (r *Request) HandleCreateGame(gm mb.GameManager) (*mb.Game, mc.Message[mc.RespCreateGame]) {
	game := gm.CreateGame()

	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)
	resp.AddPayload(mc.RespCreateGame{GameUuid: game.Uuid()})
	return game, resp
}

func (r *Request) HandleDeploy(game *mb.Game) mc.Message[mc.RespDeploy] {
	resp := mc.NewMessage[mc.RespDeploy](mc.CodeDeploy)
	if game == nil {
		resp.AddError(cerr.ErrNoActiveGame().Error(), cerr.ConstErrDeployFailed)
		return resp
	}

	state, err := game.Deploy()
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrDeployFailed)
		return resp
	}

	resp.AddPayload(mc.RespDeploy{PlayerFleet: state.Player.Fleet, Log: state.Log})
	return resp
}

func (r *Request) HandleShoot(game *mb.Game) (mc.Message[mc.RespShot], mb.State) {
	resp := mc.NewMessage[mc.RespShot](mc.CodeShoot)
	if game == nil {
		resp.AddError(cerr.ErrNoActiveGame().Error(), cerr.ConstErrAttackFailed)
		return resp, mb.NewState()
	}

	var reqShoot mc.Message[mc.ReqShoot]
	if err := json.Unmarshal(r.payload, &reqShoot); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp, game.Snapshot()
	}

	target, err := reqShoot.Payload.Target()
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp, game.Snapshot()
	}

	state, result, err := game.Shoot(target)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp, state
	}

	resp.AddPayload(mc.RespShot{
		Result:           result,
		Phase:            state.Phase,
		IsTurn:           state.IsPlayerTurn(),
		SunkenShipsEnemy: state.Opponent.SunkenShips(),
		Log:              state.Log,
	})
	return resp, state
}

func (r *Request) HandleReset(game *mb.Game) mc.Message[mc.RespReset] {
	resp := mc.NewMessage[mc.RespReset](mc.CodeReset)
	if game == nil {
		resp.AddError(cerr.ErrNoActiveGame().Error(), "")
		return resp
	}

	state := game.Reset()
	resp.AddPayload(mc.RespReset{Phase: state.Phase})
	return resp
}

// HandleChat always answers; the assistant replies with an apology when
// it cannot reach the helper agent.
func (r *Request) HandleChat(ctx context.Context, assistant *agent.Assistant) mc.Message[mc.RespChat] {
	resp := mc.NewMessage[mc.RespChat](mc.CodeChat)

	var reqChat mc.Message[mc.ReqChat]
	if err := json.Unmarshal(r.payload, &reqChat); err != nil {
		resp.AddError(err.Error(), "chat message could not be read")
		return resp
	}

	if assistant == nil {
		resp.AddPayload(mc.RespChat{Response: agent.ApologyText})
		return resp
	}

	resp.AddPayload(mc.RespChat{Response: assistant.Ask(ctx, reqChat.Payload.Message)})
	return resp
}

func (r *Request) HandleChatWelcome(ctx context.Context, assistant *agent.Assistant) mc.Message[mc.RespChat] {
	resp := mc.NewMessage[mc.RespChat](mc.CodeChatWelcome)
	if assistant == nil {
		resp.AddPayload(mc.RespChat{Response: agent.WelcomeText})
		return resp
	}

	resp.AddPayload(mc.RespChat{Response: assistant.Welcome(ctx)})
	return resp
}

func (r *Request) HandleFleetSnapshot(ctx context.Context, archive *agent.FleetArchive, game *mb.Game) mc.Message[mc.RespFleetSnapshot] {
	resp := mc.NewMessage[mc.RespFleetSnapshot](mc.CodeFleetSnapshot)
	if archive == nil || game == nil {
		resp.AddError(cerr.ErrFleetSnapshotAbsent().Error(), "")
		return resp
	}

	raw, err := archive.Raw(ctx, game.Uuid())
	if err != nil {
		resp.AddError(err.Error(), "fleet snapshot could not be read")
		return resp
	}

	resp.AddPayload(mc.RespFleetSnapshot{Raw: raw})
	return resp
}

func (r *Request) HandleDeleteFleetSnapshot(ctx context.Context, archive *agent.FleetArchive, game *mb.Game) mc.Message[mc.NoPayload] {
	resp := mc.NewMessage[mc.NoPayload](mc.CodeDeleteFleetSnapshot)
	if archive == nil || game == nil {
		resp.AddError(cerr.ErrFleetSnapshotAbsent().Error(), "")
		return resp
	}

	if err := archive.Delete(ctx, game.Uuid()); err != nil {
		resp.AddError(err.Error(), "fleet snapshot could not be deleted")
	}
	return resp
}
