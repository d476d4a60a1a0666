package agent

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

const (
	HelperName = "Battleship Helper"

	helperInstructions = `You are a helpful assistant for the Battleship game. You can:
1. Explain game rules and strategies
2. Provide tips for playing against AI
3. Answer questions about the game interface
4. Help with any technical issues

Keep responses concise and friendly. Use naval/maritime terminology when appropriate.`

	WelcomeText = "Ahoy! I'm your Battleship assistant. Ask me anything about the game, strategies, or how to play!"
	ApologyText = "Sorry, I'm having trouble responding right now. Please try again."
)

// Assistant answers questions about the game through the helper agent.
type Assistant struct {
	client *Client

	mu      sync.Mutex
	agentId string
}

func NewAssistant(client *Client) *Assistant {
	return &Assistant{client: client}
}

// Welcome creates the helper agent if needed and returns the greeting.
// The greeting is shown even when the agent could not be created.
func (a *Assistant) Welcome(ctx context.Context) string {
	if _, err := a.ensureAgent(ctx); err != nil {
		log.Warn("helper agent unavailable", "err", err)
	}
	return WelcomeText
}

// Ask never fails; any problem is answered with ApologyText.
func (a *Assistant) Ask(ctx context.Context, message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return ApologyText
	}

	agentId, err := a.ensureAgent(ctx)
	if err != nil {
		log.Warn("helper agent unavailable", "err", err)
		return ApologyText
	}

	reply, err := a.client.Chat(ctx, agentId, message)
	if err != nil || strings.TrimSpace(reply) == "" {
		return ApologyText
	}
	return reply
}

func (a *Assistant) ensureAgent(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.agentId != "" {
		return a.agentId, nil
	}

	agentId, err := a.client.CreateAgent(ctx, helperInstructions, HelperName)
	if err != nil {
		return "", err
	}
	a.agentId = agentId
	return agentId, nil
}
