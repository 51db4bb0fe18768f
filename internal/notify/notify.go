// Package notify — исходящие уведомления. Вызывается только после
// успешной операции ядра, никогда внутри транзакции; отказ уведомления
// не влияет на результат операции.
package notify

import (
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/Leganyst/workshop-platform/internal/model"
)

// Notifier — граница коллаборатора уведомлений.
type Notifier interface {
	AppointmentScheduled(client *model.Client, appt *model.Appointment)
	FollowUpDue(client *model.Client, opp *model.Opportunity)
}

// WhatsAppLinkNotifier генерирует ссылки wa.me и пишет их в лог;
// отправкой занимается внешний канал.
type WhatsAppLinkNotifier struct {
	log *logrus.Logger
}

func NewWhatsAppLinkNotifier(log *logrus.Logger) *WhatsAppLinkNotifier {
	return &WhatsAppLinkNotifier{log: log}
}

func (n *WhatsAppLinkNotifier) AppointmentScheduled(client *model.Client, appt *model.Appointment) {
	if client.WhatsApp == "" {
		return
	}
	text := fmt.Sprintf("Hola %s, su cita quedó agendada para el %s.",
		client.Name, appt.ScheduledDate.Format("02/01/2006 15:04"))
	n.log.WithFields(logrus.Fields{
		"appointment_id": appt.ID,
		"link":           waLink(client.WhatsApp, text),
	}).Info("appointment notification link generated")
}

func (n *WhatsAppLinkNotifier) FollowUpDue(client *model.Client, opp *model.Opportunity) {
	if client.WhatsApp == "" {
		return
	}
	text := fmt.Sprintf("Hola %s, le recordamos: %s.", client.Name, opp.Description)
	n.log.WithFields(logrus.Fields{
		"opportunity_id": opp.ID,
		"link":           waLink(client.WhatsApp, text),
	}).Info("follow-up notification link generated")
}

func waLink(phone, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(text))
}
