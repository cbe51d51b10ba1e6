package mailer

import (
	"fmt"
	"log"
	"os"
	"time"

	"rvpark/src/config"
	"rvpark/src/lib"
	"rvpark/src/models"
)

// fireTimeout bounds the outbound SMTP call. The booking response never
// waits on it.
const fireTimeout = 10 * time.Second

// Notifier delivers reservation emails. Delivery is best-effort and at
// least once; a failed send is logged and dropped, never propagated.
type Notifier interface {
	Fire(reservation *models.Reservation, subject string, body string)
}

type SMTPNotifier struct{}

func NewSMTPNotifier() *SMTPNotifier {
	return &SMTPNotifier{}
}

func (n *SMTPNotifier) Fire(reservation *models.Reservation, subject string, body string) {
	done := make(chan error, 1)
	go func() {
		done <- lib.SendMail(&lib.SendMailInput{
			From:     os.Getenv("MAIL_FROM"),
			FromName: os.Getenv("MAIL_FROM_NAME"),
			To:       []string{reservation.ContactEmail},
			Subject:  subject,
			Body:     body,
		})
	}()
	select {
	case err := <-done:
		if err != nil {
			log.Printf("[mailer] failed to send %q for reservation %s: %s\n", subject, reservation.Code, err.Error())
		}
	case <-time.After(fireTimeout):
		log.Printf("[mailer] timed out sending %q for reservation %s\n", subject, reservation.Code)
	}
}

func BookingReceivedBody(r *models.Reservation) (subject string, body string) {
	subject = "We received your reservation request"
	body = fmt.Sprintf(
		"Hi %s,\n\nThanks for booking with us. Your request is in and the dates are held.\n\n"+
			"Confirmation code: %s\nSite: %s\nCheck-in: %s\nCheck-out: %s\nParty size: %d\n\n"+
			"We will confirm your reservation shortly.\n",
		r.GuestName,
		r.Code,
		r.SiteClass,
		r.CheckIn.Format(config.DATE_PARSE_FORMAT),
		r.CheckOut.Format(config.DATE_PARSE_FORMAT),
		r.PartySize,
	)
	return subject, body
}

func BookingConfirmedBody(r *models.Reservation) (subject string, body string) {
	subject = "Your reservation is confirmed"
	body = fmt.Sprintf(
		"Hi %s,\n\nYour stay is confirmed. See you soon!\n\n"+
			"Confirmation code: %s\nSite: %s\nCheck-in: %s\nCheck-out: %s\n",
		r.GuestName,
		r.Code,
		r.SiteClass,
		r.CheckIn.Format(config.DATE_PARSE_FORMAT),
		r.CheckOut.Format(config.DATE_PARSE_FORMAT),
	)
	return subject, body
}

func BookingCancelledBody(r *models.Reservation) (subject string, body string) {
	subject = "Your reservation was cancelled"
	body = fmt.Sprintf(
		"Hi %s,\n\nYour reservation %s for %s through %s has been cancelled. "+
			"The dates are released and you are welcome to rebook any time.\n",
		r.GuestName,
		r.Code,
		r.CheckIn.Format(config.DATE_PARSE_FORMAT),
		r.CheckOut.Format(config.DATE_PARSE_FORMAT),
	)
	return subject, body
}
