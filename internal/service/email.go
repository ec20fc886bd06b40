package service

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}

	return nil
}

func (s *emailService) SendOTP(ctx context.Context, email, fullName, code string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour verification code is: %s\n\nIt expires in 5 minutes.\n\nBest regards,\nThe ClubVerse Team", fullName, code)
	return s.send(email, "Verify your ClubVerse account", body)
}

func (s *emailService) SendApprovalRequest(ctx context.Context, adminEmail, adminName, clubName, actionSummary, approvalLink string) error {
	body := fmt.Sprintf("Hello %s,\n\nA roster change for %s needs your approval:\n\n%s\n\nApprove it by opening the link below. The request expires in 24 hours; if nobody approves it by then it is rejected automatically.\n\n%s\n\nBest regards,\nThe ClubVerse Team",
		adminName, clubName, actionSummary, approvalLink)
	return s.send(adminEmail, fmt.Sprintf("Approval needed - %s", clubName), body)
}

func (s *emailService) SendMemberRemoved(ctx context.Context, email, fullName, clubName, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nYou have been removed from %s.", fullName, clubName)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe ClubVerse Team"
	return s.send(email, fmt.Sprintf("Membership update - %s", clubName), body)
}

func (s *emailService) SendRoleUpdated(ctx context.Context, email, fullName, clubName, newRole string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour role in %s has been changed to: %s.\n\nBest regards,\nThe ClubVerse Team", fullName, clubName, newRole)
	return s.send(email, fmt.Sprintf("Role update - %s", clubName), body)
}

func (s *emailService) SendApplicationReceived(ctx context.Context, email, fullName, clubName string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour application to %s has been received. The club will review it and get back to you.\n\nBest regards,\nThe ClubVerse Team", fullName, clubName)
	return s.send(email, fmt.Sprintf("Application received - %s", clubName), body)
}

func (s *emailService) SendInterviewScheduled(ctx context.Context, email, fullName, clubName string, date time.Time, location, note string) error {
	body := fmt.Sprintf("Hello %s,\n\nGood news! %s has scheduled an interview for your application.\n\nDate: %s\nLocation: %s",
		fullName, clubName, date.Format("Mon, 02 Jan 2006 15:04"), location)
	if note != "" {
		body += fmt.Sprintf("\nNote: %s", note)
	}
	body += "\n\nBest regards,\nThe ClubVerse Team"
	return s.send(email, fmt.Sprintf("Interview scheduled - %s", clubName), body)
}

func (s *emailService) SendApplicationRejected(ctx context.Context, email, fullName, clubName, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nUnfortunately %s has decided not to move forward with your application.", fullName, clubName)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe ClubVerse Team"
	return s.send(email, fmt.Sprintf("Application update - %s", clubName), body)
}

func (s *emailService) SendApplicationAccepted(ctx context.Context, email, fullName, clubName string) error {
	body := fmt.Sprintf("Hello %s,\n\nCongratulations! You are now a member of %s.\n\nBest regards,\nThe ClubVerse Team", fullName, clubName)
	return s.send(email, fmt.Sprintf("Welcome to %s", clubName), body)
}

func (s *emailService) SendApplicationDeclined(ctx context.Context, email, fullName, clubName, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nAfter the interview, %s has decided not to offer you membership.", fullName, clubName)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe ClubVerse Team"
	return s.send(email, fmt.Sprintf("Application update - %s", clubName), body)
}

func (s *emailService) SendEventRegistration(ctx context.Context, email, fullName, eventTitle string, eventTime time.Time, location string) error {
	body := fmt.Sprintf("Hello %s,\n\nYou are registered for %s.\n\nWhen: %s\nWhere: %s\n\nBest regards,\nThe ClubVerse Team",
		fullName, eventTitle, eventTime.Format("Mon, 02 Jan 2006 15:04"), location)
	return s.send(email, fmt.Sprintf("Registration confirmed - %s", eventTitle), body)
}

func (s *emailService) SendEventReminder(ctx context.Context, email, fullName, eventTitle string, eventTime time.Time, location string) error {
	body := fmt.Sprintf("Hello %s,\n\nReminder: %s starts soon.\n\nWhen: %s\nWhere: %s\n\nBest regards,\nThe ClubVerse Team",
		fullName, eventTitle, eventTime.Format("Mon, 02 Jan 2006 15:04"), location)
	return s.send(email, fmt.Sprintf("Reminder - %s", eventTitle), body)
}

func (s *emailService) SendEventCancellation(ctx context.Context, email, fullName, eventTitle, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour registration for %s has been cancelled.", fullName, eventTitle)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe ClubVerse Team"
	return s.send(email, fmt.Sprintf("Registration cancelled - %s", eventTitle), body)
}
