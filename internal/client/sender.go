package client

import "context"

const serviceSender = "message_sender"

// MessageSender is a client for the outbound message sender.
type MessageSender struct {
	base
}

// NewMessageSender returns a client for the message sender at baseURL.
func NewMessageSender(baseURL, token string, opts ...Option) *MessageSender {
	return &MessageSender{base: newBase(serviceSender, baseURL, token, opts)}
}

type outbound struct {
	ToAddr   string         `json:"to_addr"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// SendMessage queues one outbound message.
func (c *MessageSender) SendMessage(ctx context.Context, toAddr, content string, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	body := outbound{ToAddr: toAddr, Content: content, Metadata: metadata}
	return c.call(ctx, "send_message", "POST", "/outbound/", nil, body, nil)
}
