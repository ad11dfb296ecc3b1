package commands

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

const (
	// ChatEvent is the network event name for chat messages.
	ChatEvent = "chat"

	notConnectedMessage = "Not connected to server. Type " + Marker + "help for commands"
)

// ChatMessage is the outbound chat payload.
type ChatMessage struct {
	Message string `json:"message"`
}

// ChatRelay moves non-command text between the console and the network.
type ChatRelay struct {
	console Console
	network Network
	logger  *zap.Logger

	inputSub Subscription
	chatSub  Subscription
}

func NewChatRelay(console Console, network Network, logger *zap.Logger) *ChatRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatRelay{console: console, network: network, logger: logger}
}

// Send handles one outbound line. While a remote session is connected it owns
// chat display, so nothing is echoed or forwarded here.
func (c *ChatRelay) Send(text string) {
	if c.connected() {
		return
	}
	c.console.Log(text)

	conn := c.connection()
	if conn == nil {
		c.console.Log(notConnectedMessage)
		return
	}
	if err := conn.Emit(ChatEvent, ChatMessage{Message: text}); err != nil {
		c.logger.Warn("chat emit failed", zap.Error(err))
		c.console.Log(fmt.Sprintf("Failed to send chat: %v", err))
	}
}

// Receive writes an inbound chat payload to the console.
func (c *ChatRelay) Receive(payload any) {
	c.console.Log(DisplayText(payload))
}

// Enable attaches the console input listener and, when a connection exists,
// the chat listener. Calling it again while enabled does nothing.
func (c *ChatRelay) Enable(onInput func(line string)) {
	if c.inputSub == nil {
		c.inputSub = c.console.OnInput(onInput)
	}
	if c.chatSub == nil {
		if conn := c.connection(); conn != nil {
			c.chatSub = conn.OnChat(c.Receive)
		}
	}
}

// Disable releases both listeners.
func (c *ChatRelay) Disable() {
	if c.inputSub != nil {
		c.inputSub.Unsubscribe()
		c.inputSub = nil
	}
	if c.chatSub != nil {
		c.chatSub.Unsubscribe()
		c.chatSub = nil
	}
}

func (c *ChatRelay) connected() bool {
	return c.network != nil && c.network.Connected()
}

func (c *ChatRelay) connection() Connection {
	if c.network == nil {
		return nil
	}
	return c.network.Connection()
}

// DisplayText renders a chat payload: its "message" field when present,
// otherwise the payload itself.
func DisplayText(payload any) string {
	switch p := payload.(type) {
	case nil:
		return ""
	case string:
		return p
	case ChatMessage:
		return p.Message
	case *ChatMessage:
		if p != nil {
			return p.Message
		}
		return ""
	case map[string]any:
		if msg, ok := p["message"]; ok && msg != nil {
			return fmt.Sprint(msg)
		}
	case json.RawMessage:
		return rawDisplayText(p)
	case []byte:
		return rawDisplayText(p)
	case fmt.Stringer:
		return p.String()
	}
	if raw, err := json.Marshal(payload); err == nil {
		return string(raw)
	}
	return fmt.Sprint(payload)
}

func rawDisplayText(raw []byte) string {
	var msg struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(raw, &msg); err == nil && msg.Message != nil {
		return *msg.Message
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
