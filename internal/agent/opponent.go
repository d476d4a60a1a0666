package agent

import (
	"context"
	"sync"

	mb "github.com/saeidalz13/battleship-admiral/models/battleship"
)

const (
	AdmiralName = "Admiral AI"

	admiralInstructions = `You are Admiral AI, a strategic Battleship opponent. You should:
1. Make intelligent shooting decisions based on previous hits and misses
2. When you hit a ship, systematically search adjacent squares to sink it
3. Provide brief, engaging naval commentary on moves
4. Keep track of the game state and adapt your strategy
5. Be a good sport - congratulate good moves and acknowledge defeats

Always respond with JSON in this format:
{
  "shot": "A5",
  "commentary": "Taking a shot at the center - let's see what we find!",
  "strategy": "random" or "hunting" or "targeting"
}`
)

// Opponent asks the Admiral agent for moves. The agent is created on the
// first move and kept for the rest of the game; a failed creation is
// retried on the next move.
type Opponent struct {
	client *Client

	mu      sync.Mutex
	agentId string
}

var _ mb.MoveSource = (*Opponent)(nil)

func NewOpponent(client *Client) *Opponent {
	return &Opponent{client: client}
}

func (o *Opponent) NextMove(ctx context.Context, summary mb.GameSummary) (string, error) {
	agentId, err := o.ensureAgent(ctx)
	if err != nil {
		return "", err
	}
	return o.client.Chat(ctx, agentId, summary.Prompt())
}

func (o *Opponent) ensureAgent(ctx context.Context) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.agentId != "" {
		return o.agentId, nil
	}

	agentId, err := o.client.CreateAgent(ctx, admiralInstructions, AdmiralName)
	if err != nil {
		return "", err
	}
	o.agentId = agentId
	return agentId, nil
}
