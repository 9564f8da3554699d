package dms

import (
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/ChronoCoders/hermes/internal/herrors"
	"github.com/ChronoCoders/hermes/internal/hlog"
)

// Escalator sends the overdue-artifact SMS notification. Out of core
// scope — a missed check-in is not a cryptographic operation — but
// wired to a real Twilio client rather than stubbed, since that's the
// one place in this module an SMS API has a legitimate home.
type Escalator struct {
	client    *twilio.RestClient
	fromPhone string
}

// NewEscalator builds an Escalator that sends from fromPhone. The
// Twilio account credentials are read by twilio.NewRestClient from the
// environment.
func NewEscalator(fromPhone string) *Escalator {
	return &Escalator{client: twilio.NewRestClient(), fromPhone: fromPhone}
}

// Notify sends an overdue-artifact alert to toPhone.
func (e *Escalator) Notify(toPhone, artifactName string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(toPhone)
	params.SetFrom(e.fromPhone)
	params.SetBody("hermes: dead-man switch for \"" + artifactName + "\" has triggered; check-in was missed.")

	if _, err := e.client.Api.CreateMessage(params); err != nil {
		return herrors.New(herrors.IoError, "dms.Escalator.Notify", err)
	}
	hlog.Infof("dms", "escalation sent for %s to %s", artifactName, toPhone)
	return nil
}
