package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal/core/events"
	"github.com/frahmantamala/onboarding-portal/internal/employee"
)

const company = "WinWire"

func portalLink(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

func offerMessage(e *events.OfferCreatedEvent, portalURL string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", e.FullName)
	fmt.Fprintf(&b, "We are pleased to offer you the position of %s in our %s team at %s.\n\n", e.Position, e.Department, company)
	fmt.Fprintf(&b, "Accept your offer here: %s\n", portalLink(portalURL, "/accept-offer/"+e.AcceptToken))
	fmt.Fprintf(&b, "This link expires on %s.\n\nRegards,\n%s HR", e.ExpiresAt.Format("02 Jan 2006"), company)

	return Message{
		Kind:    KindOffer,
		To:      []string{e.Email},
		Subject: fmt.Sprintf("Job Offer - %s at %s", e.Position, company),
		Body:    b.String(),
	}
}

func credentialsMessage(e *events.JoiningTriggeredEvent, portalURL string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", e.FullName)
	b.WriteString("Your joining process has started. Log in to complete your onboarding form.\n\n")
	fmt.Fprintf(&b, "Portal: %s\nEmail: %s\nTemporary password: %s\n\n", portalLink(portalURL, "/login"), e.Email, e.TempPassword)
	fmt.Fprintf(&b, "Regards,\n%s HR", company)

	return Message{
		Kind:    KindCredentials,
		To:      []string{e.Email},
		Subject: fmt.Sprintf("Your %s onboarding login", company),
		Body:    b.String(),
	}
}

func passMessage(e *events.PassIssuedEvent, portalURL string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", e.FullName)
	b.WriteString("Your onboarding documents have been verified.\n")
	fmt.Fprintf(&b, "Date of joining: %s\n\n", e.DateOfJoining.Format("02 Jan 2006"))
	fmt.Fprintf(&b, "Accept your onboarding pass: %s\n\n", portalLink(portalURL, "/onboarding-pass/"+e.PassToken))
	fmt.Fprintf(&b, "Regards,\n%s HR", company)

	return Message{
		Kind:    KindOnboardingPass,
		To:      []string{e.Email},
		Subject: fmt.Sprintf("Your %s Onboarding Pass", company),
		Body:    b.String(),
	}
}

func newJoinerMessage(e *events.PassAcceptedEvent, colleague employee.Contact) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", colleague.FirstName)
	fmt.Fprintf(&b, "Please welcome %s, who joins %s as %s in %s.\n", e.FullName, company, e.Position, e.Department)
	fmt.Fprintf(&b, "Reach out at %s to say hello.\n\nRegards,\n%s HR", e.Email, company)

	return Message{
		Kind:    KindNewJoiner,
		To:      []string{colleague.Email},
		Subject: fmt.Sprintf("Welcome %s to %s", e.FullName, company),
		Body:    b.String(),
	}
}

// welcomeSeries is the onboarding batch sent to a new employee.
func welcomeSeries(e *events.PassAcceptedEvent, portalURL string) []Message {
	greeting := fmt.Sprintf("Hi %s,\n\n", e.FirstName)
	sign := fmt.Sprintf("\n\nRegards,\n%s HR", company)

	series := []struct {
		kind, subject, body string
	}{
		{
			KindWelcome,
			fmt.Sprintf("Welcome to %s, %s!", company, e.FirstName),
			fmt.Sprintf("Welcome aboard! Your employee ID is %s and your login password is %s.\nSign in at %s.",
				e.EmployeeID, e.Password, portalLink(portalURL, "/login")),
		},
		{
			KindFirstDay,
			"Your first day checklist",
			"On day one please bring a government photo ID, collect your laptop from IT and complete the induction session.",
		},
		{
			KindPolicies,
			"Company policies",
			"Please review the leave, attendance, code of conduct and information security policies on the HR portal within your first week.",
		},
		{
			KindITSetup,
			"IT setup",
			"Your corporate email, VPN and collaboration accounts will be activated on your joining date. Contact the IT helpdesk for any access issues.",
		},
		{
			KindTeamIntroduction,
			fmt.Sprintf("Meet your %s team", e.Department),
			fmt.Sprintf("Your manager will introduce you to the %s team and assign an onboarding buddy in your first week.", e.Department),
		},
	}

	out := make([]Message, 0, len(series))
	for _, m := range series {
		out = append(out, Message{
			Kind:    m.kind,
			To:      []string{e.Email},
			Subject: m.subject,
			Body:    greeting + m.body + sign,
		})
	}
	return out
}

func dueAt(now time.Time, delay time.Duration) time.Time {
	if delay <= 0 {
		return now
	}
	return now.Add(delay)
}
