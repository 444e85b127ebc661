package admin

import (
	"context"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/cafe-fausse/server/internal/gateway"
)

// ReservationInput is the raw form payload before submission.
type ReservationInput struct {
	Datetime string
	Guests   int
	Name     string
	Email    string
	Phone    string
}

// Validate checks the input locally before any network call.
func (in ReservationInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Datetime, validation.Required.Error("time slot is required")),
		validation.Field(&in.Guests, validation.Min(1).Error("guests must be at least 1")),
		validation.Field(&in.Name, validation.Required.Error("name is required")),
		validation.Field(&in.Email, validation.Required.Error("email is required"), is.Email.Error("email is invalid")),
	)
}

// ReservationForm drives the public reservation form. Successful submissions
// clear the inputs so the form is ready for another booking.
type ReservationForm struct {
	client Backend

	mu      sync.Mutex
	input   ReservationInput
	state   FormState
	message string
	result  *gateway.ReservationResult
}

// NewReservationForm creates a ReservationForm.
func NewReservationForm(client Backend) *ReservationForm {
	return &ReservationForm{client: client, state: StateIdle}
}

// SetInput replaces the pending form values.
func (f *ReservationForm) SetInput(in ReservationInput) {
	f.mu.Lock()
	f.input = in
	f.mu.Unlock()
}

// Input returns the pending form values.
func (f *ReservationForm) Input() ReservationInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// State returns the current state and user-facing message.
func (f *ReservationForm) State() (FormState, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.message
}

// Result returns the confirmation of the last successful submission.
func (f *ReservationForm) Result() *gateway.ReservationResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Submit validates the pending input and sends it to the backend. Invalid
// input produces an error state without a network call. A fully booked slot
// surfaces the backend's message so the guest can pick another time.
func (f *ReservationForm) Submit(ctx context.Context) {
	f.mu.Lock()
	in := f.input
	f.mu.Unlock()

	if err := in.Validate(); err != nil {
		f.set(StateError, err.Error(), nil)
		return
	}

	f.set(StateLoading, "", nil)

	res, err := f.client.SubmitReservation(ctx, gateway.Reservation{
		Datetime: in.Datetime,
		Guests:   in.Guests,
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
	})
	if err != nil {
		f.set(StateError, backendMessage(err, "Could not place the reservation."), nil)
		return
	}

	f.mu.Lock()
	f.input = ReservationInput{}
	f.state = StateSuccess
	f.message = res.Message
	f.result = res
	f.mu.Unlock()
}

func (f *ReservationForm) set(s FormState, msg string, res *gateway.ReservationResult) {
	f.mu.Lock()
	f.state = s
	f.message = msg
	f.result = res
	f.mu.Unlock()
}

// NewsletterForm drives the newsletter signup strip shown on every page.
type NewsletterForm struct {
	client Backend

	mu      sync.Mutex
	email   string
	state   FormState
	message string
}

// NewNewsletterForm creates a NewsletterForm.
func NewNewsletterForm(client Backend) *NewsletterForm {
	return &NewsletterForm{client: client, state: StateIdle}
}

// SetEmail replaces the pending email value.
func (f *NewsletterForm) SetEmail(email string) {
	f.mu.Lock()
	f.email = email
	f.mu.Unlock()
}

// Email returns the pending email value.
func (f *NewsletterForm) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// State returns the current state and user-facing message.
func (f *NewsletterForm) State() (FormState, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.message
}

// Submit validates the email locally, then subscribes it. The field is
// cleared on success.
func (f *NewsletterForm) Submit(ctx context.Context) {
	f.mu.Lock()
	email := f.email
	f.mu.Unlock()

	if err := validation.Validate(email,
		validation.Required.Error("email is required"),
		is.Email.Error("email is invalid"),
	); err != nil {
		f.setState(StateError, err.Error())
		return
	}

	f.setState(StateLoading, "")

	msg, err := f.client.SubscribeNewsletter(ctx, email)
	if err != nil {
		f.setState(StateError, backendMessage(err, "Subscription failed."))
		return
	}

	f.mu.Lock()
	f.email = ""
	f.state = StateSuccess
	f.message = msg
	f.mu.Unlock()
}

func (f *NewsletterForm) setState(s FormState, msg string) {
	f.mu.Lock()
	f.state = s
	f.message = msg
	f.mu.Unlock()
}
