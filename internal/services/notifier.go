package services

import (
	"context"
	"fmt"

	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/fitforge/fitforge-backend/internal/platform/sendgrid"
)

// PlanNotifier tells the user their coach-built plan went live. Notification
// is best-effort: a send failure never fails the releasing workflow.
type PlanNotifier interface {
	PlanReady(ctx context.Context, user *types.User, course *types.Course) error
}

type emailPlanNotifier struct {
	log  *logger.Logger
	mail sendgrid.Client
}

func NewEmailPlanNotifier(baseLog *logger.Logger, mail sendgrid.Client) PlanNotifier {
	return &emailPlanNotifier{
		log:  baseLog.With("service", "EmailPlanNotifier"),
		mail: mail,
	}
}

func (n *emailPlanNotifier) PlanReady(ctx context.Context, user *types.User, course *types.Course) error {
	if n == nil || n.mail == nil {
		return fmt.Errorf("mail client not configured")
	}
	if user == nil || course == nil {
		return fmt.Errorf("user and course required")
	}

	text := fmt.Sprintf("Hi %s,\n\nYour training plan %q is ready in your account.", user.FirstName, course.Title)
	if course.PDFURL != "" {
		text += "\nDownload the PDF: " + course.PDFURL
	}

	res, err := n.mail.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: user.Email, Name: user.FirstName + " " + user.LastName}},
		Subject: "Your training plan is ready",
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("send plan ready email: %w", err)
	}
	n.log.Info("plan ready email sent", "userId", user.ID, "courseId", course.ID, "status", res.StatusCode)
	return nil
}
