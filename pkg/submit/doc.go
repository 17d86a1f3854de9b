// Package submit implements the form submission lifecycle.
//
// Submit clears the prior error and schedules the deferred loading flag
// before making the single transport call. When the call returns the timer is
// stopped and the session moves to the submitted or error state; a redirect
// target is resolved and handed to the navigator afterwards.
//
// The loading timer and the completion of the call are serialized by the
// session mutex, so the loading flag can never be raised after the response
// has been handled.
package submit
