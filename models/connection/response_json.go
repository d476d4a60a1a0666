package connection

import (
	mb "github.com/saeidalz13/battleship-admiral/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateGame struct {
	GameUuid string `json:"game_uuid"`
}

type RespDeploy struct {
	PlayerFleet mb.Fleet     `json:"player_fleet"`
	Log         mb.BattleLog `json:"log"`
}

type RespShot struct {
	Result           mb.ShotResult `json:"result"`
	Phase            mb.Phase      `json:"phase"`
	IsTurn           bool          `json:"is_turn"`
	SunkenShipsEnemy int           `json:"sunken_ships_enemy"`
	Log              mb.BattleLog  `json:"log"`
}

type RespOpponentShot struct {
	Result         mb.ShotResult `json:"result"`
	Commentary     string        `json:"commentary,omitempty"`
	Strategy       string        `json:"strategy,omitempty"`
	Fallback       bool          `json:"fallback"`
	Phase          mb.Phase      `json:"phase"`
	SunkenShipsOwn int           `json:"sunken_ships_own"`
	Log            mb.BattleLog  `json:"log"`
}

type RespEndGame struct {
	PlayerMatchStatus int `json:"player_match_status"`
}

type RespReset struct {
	Phase mb.Phase `json:"phase"`
}

type RespChat struct {
	Response string `json:"response"`
}

type RespFleetSnapshot struct {
	Raw string `json:"raw"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
