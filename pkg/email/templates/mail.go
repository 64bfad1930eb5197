package templates

import (
	"fmt"

	"github.com/a-h/templ"
)

// CodeData feeds the login and verification code emails.
type CodeData struct {
	AppName          string
	Name             string // empty when the account is unknown
	Code             string
	ExpiresInMinutes int
}

// WelcomeData feeds the welcome email.
type WelcomeData struct {
	AppName string
	Name    string
}

func greeting(name string) string {
	if name == "" {
		return "Hello,"
	}
	return fmt.Sprintf("Hello %s,", name)
}

func expiry(minutes int) string {
	unit := "minutes"
	if minutes == 1 {
		unit = "minute"
	}
	return fmt.Sprintf("This code expires in %d %s.", minutes, unit)
}

// LoginCode is the one-time sign-in code email.
func LoginCode(d CodeData) templ.Component {
	return Layout("Your login code", Stack(
		Heading("Your login code"),
		Text(greeting(d.Name)),
		Text(fmt.Sprintf("Use the code below to complete your login to %s.", d.AppName)),
		OTP(d.Code),
		Text(expiry(d.ExpiresInMinutes)),
		TextSecondary("If you didn't request this code, you can safely ignore this email."),
		TextSecondary(d.AppName),
	))
}

// VerificationCode confirms an address before an account is created.
func VerificationCode(d CodeData) templ.Component {
	return Layout("Verify your email address", Stack(
		Heading("Verify your email address"),
		Text("Hello,"),
		Text(fmt.Sprintf("Enter the code below to continue creating your %s account.", d.AppName)),
		OTP(d.Code),
		Text(expiry(d.ExpiresInMinutes)),
		TextSecondary("If you didn't request this code, you can safely ignore this email."),
		TextSecondary(d.AppName),
	))
}

// Welcome is sent once after registration. It carries no code.
func Welcome(d WelcomeData) templ.Component {
	return Layout("Welcome to "+d.AppName, Stack(
		Heading(fmt.Sprintf("Welcome to %s!", d.AppName)),
		Text(greeting(d.Name)),
		Text("Thanks for signing up! Your account has been created and you're all set."),
		Text("You can log in anytime by entering your email address. We'll send you a secure one-time code, no password needed."),
		TextSecondary("If you didn't create this account, please contact us and we'll take care of it."),
		TextSecondary(d.AppName),
	))
}
