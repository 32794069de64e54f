package registrations

import (
	"github.com/eventpass/backend/internal/models"
	"github.com/eventpass/backend/internal/notify"
)

// Stage is a workflow state.
type Stage string

const (
	StageReceived          Stage = "received"
	StageValidated         Stage = "validated"
	StageUniquenessChecked Stage = "uniqueness_checked"
	StagePersisted         Stage = "persisted"
	StageNotified          Stage = "notified"
	StageDone              Stage = "done"
)

// FailureKind classifies a failed registration.
type FailureKind string

const (
	// FailureValidation is user-correctable input; Fields is set.
	FailureValidation FailureKind = "validation"
	// FailureConflict is a business rule violation (duplicate email).
	FailureConflict FailureKind = "conflict"
	// FailureDependency is a store or encoder fault. Message is generic.
	FailureDependency FailureKind = "dependency"
)

// User-facing messages.
const (
	MessageSuccess    = "Registration successful! Your QR code has been generated and sent to your email."
	MessageValidation = "Please correct the errors below"
	MessageDuplicate  = "A registration with this email already exists. Please use a different email or contact support if you believe this is an error."
	MessageRetry      = "Failed to create registration. Please try again."
)

// Failure describes why a registration stopped. Stage is the last state reached.
type Failure struct {
	Kind    FailureKind
	Stage   Stage
	Message string
	Fields  map[string][]string
}

// Success is the completed registration.
type Success struct {
	Registration *models.AttendeeRegistration
	QRCode       string
	Notification notify.Result
}

// Result holds exactly one of Success or Failure.
type Result struct {
	Success *Success
	Failure *Failure
}

// OK reports whether the registration completed.
func (r Result) OK() bool { return r.Success != nil }

func succeeded(s Success) Result { return Result{Success: &s} }

func failed(kind FailureKind, stage Stage, message string, fields map[string][]string) Result {
	return Result{Failure: &Failure{Kind: kind, Stage: stage, Message: message, Fields: fields}}
}
