package processor

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Greeting opens every free-form session.
const Greeting = "Hi! I'm the Temple View AI assistant. What can I help you with today?"

const (
	replyModelUnavailable = "Sorry, there was an issue reaching the AI."
	replyModelEmpty       = "Sorry, I couldn't come up with a response."

	replySubmitting   = "Thanks! Submitting your application..."
	replySubmitted    = "Your application has been submitted successfully!"
	replyAnythingElse = "Is there anything else I can help you with today?"
	replySubmitFailed = "There was an error submitting your application. Please try again."

	replyAlreadySubmitted = "Your application has already been submitted. Thank you!"
	replyStillSubmitting  = "Your application is being submitted. One moment please."

	replyChooseOption = "Please choose one of: %s."
	replyNotANumber   = "Sorry, I couldn't read %q as a number."
	replyAmountRange  = "Please enter an amount between $%d and $%d."
	replyTermRange    = "Please enter a term between %d and %d months."
)
