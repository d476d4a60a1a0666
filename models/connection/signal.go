package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeCreateGame
	CodeDeploy
	CodeShoot

	// Pushed by the server once the Admiral has fired
	CodeOpponentShot
	CodeEndGame
	CodeReset

	// Questions for the helper agent
	CodeChat
	CodeChatWelcome

	// Fleet snapshot kept by the agent service
	CodeFleetSnapshot
	CodeDeleteFleetSnapshot

	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
