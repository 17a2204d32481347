// Package notify sends desktop notifications.
package notify

import (
	"github.com/gen2brain/beeep"

	"github.com/clockbar/clockbar/internal/buildinfo"
)

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, body string) error
}

// Desktop sends notifications through the OS notification service.
type Desktop struct {
	icon []byte
}

// NewDesktop creates a notifier that shows icon (PNG) with each message.
func NewDesktop(icon []byte) *Desktop {
	beeep.AppName = buildinfo.AppName
	return &Desktop{icon: icon}
}

func (d *Desktop) Notify(title, body string) error {
	var icon any = ""
	if len(d.icon) > 0 {
		icon = d.icon
	}
	return beeep.Notify(title, body, icon)
}
