package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Places upstream.
	UpstreamUnavailable failure.ErrorCode = "UpstreamUnavailable" // transient transport or 5xx failure, safe to retry
	AuthRejected        failure.ErrorCode = "AuthRejected"        // the configured API key was refused
	QuotaExceeded       failure.ErrorCode = "QuotaExceeded"       // upstream rate/budget limit, or local daily budget spent

	// Hunts.
	HuntNotFound    failure.ErrorCode = "HuntNotFound"
	InvalidHuntID   failure.ErrorCode = "InvalidHuntID"
	HuntNotFinished failure.ErrorCode = "HuntNotFinished" // export requested before the hunt completed
	InvalidIndustry failure.ErrorCode = "InvalidIndustry"
	InvalidCity     failure.ErrorCode = "InvalidCity"
)
