package service

import (
	"fmt"
	"strings"

	"github.com/praekeltfoundation/hellomama-registration/internal/config"
	"github.com/praekeltfoundation/hellomama-registration/internal/messageset"
	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

// Welcome builds the welcome assets attached to new subscriptions.
type Welcome struct {
	host string
	path string
}

// NewWelcome returns a Welcome serving assets from cfg.
func NewWelcome(cfg config.Welcome) Welcome {
	return Welcome{
		host: strings.TrimRight(cfg.PublicHost, "/"),
		path: strings.Trim(cfg.AudioPath, "/"),
	}
}

// AudioURL is the welcome recording for a recipient in a language.
func (w Welcome) AudioURL(lang string, recipient messageset.Recipient) string {
	return fmt.Sprintf("%s/%s/%s/welcome_%s.mp3", w.host, w.path, lang, recipient)
}

// Text is the welcome message sent to text subscribers.
func (w Welcome) Text(stage model.Stage) string {
	switch stage {
	case model.StagePostbirth:
		return "Welcome to HelloMama! You will now get free messages to help you and your baby stay healthy."
	case model.StageLoss:
		return "Welcome to HelloMama. We are sorry for your loss. You will get free messages to support you in the coming weeks."
	}
	return "Welcome to HelloMama! You will now get free messages to help you have a healthy pregnancy."
}
