package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"

	"journal-backend/pkg/logger"
)

// EmailService sends every notification the editorial pipeline produces.
type EmailService interface {
	SendSubmissionReceived(ctx context.Context, data SubmissionReceivedData) error
	SendReviewInvitation(ctx context.Context, data ReviewInvitationData) error
	SendReviewCopy(ctx context.Context, data ReviewCopyData) error
	SendReviewSubmitted(ctx context.Context, data ReviewSubmittedData) error
	SendReviewFeedback(ctx context.Context, data ReviewFeedbackData) error
	SendEditorialDecision(ctx context.Context, data EditorialDecisionData) error
	SendPaymentLink(ctx context.Context, data PaymentLinkData) error
	SendPublicationNotification(ctx context.Context, data PublicationNotificationData) error
}

type smtpEmailService struct {
	smtpAddr    string
	smtpFrom    string
	journalName string
}

func NewSMTPEmailService(host, port, from, journalName string) EmailService {
	return &smtpEmailService{
		smtpAddr:    host + ":" + port,
		smtpFrom:    from,
		journalName: journalName,
	}
}

func (s *smtpEmailService) SendSubmissionReceived(_ context.Context, data SubmissionReceivedData) error {
	subject := fmt.Sprintf("Submission received: %s", data.Title)
	body := fmt.Sprintf(`<h2>Submission Received</h2>
<p>Dear %s,</p>
<p>Thank you for submitting your manuscript to %s.</p>
<p><strong>Submission ID:</strong> %s<br/>
<strong>Title:</strong> %s<br/>
<strong>Category:</strong> %s<br/>
<strong>Manuscript:</strong> %s</p>
<p>What happens next:</p>
<ol>
<li><strong>Initial screening</strong> (3-5 business days): our editors verify formatting, scope, and ethical compliance.</li>
<li><strong>Peer review</strong> (2-4 weeks): independent reviewers evaluate your work.</li>
<li><strong>Decision</strong>: accept, revise, or reject. You will be notified by email.</li>
<li><strong>Publication</strong>: accepted articles go live within 24 hours.</li>
</ol>`,
		data.AuthorName, s.journalName, data.SubmissionID, data.Title,
		data.Category, orDash(data.ManuscriptName))

	return s.sendHTML(data.AuthorEmail, subject, body)
}

func (s *smtpEmailService) SendReviewInvitation(_ context.Context, data ReviewInvitationData) error {
	subject := fmt.Sprintf("Invitation to review: %s", data.ArticleTitle)

	var b strings.Builder
	fmt.Fprintf(&b, `<h2>Invitation to Review</h2>
<p>Dear %s,</p>
<p>You are invited to review the following manuscript for %s.</p>
<p><strong>Manuscript ID:</strong> %s<br/>
<strong>Title:</strong> %s<br/>
<strong>Review deadline:</strong> %s</p>
<p><strong>Abstract:</strong></p>
<p>%s</p>`,
		data.ReviewerName, s.journalName, data.ArticleID, data.ArticleTitle,
		data.Deadline, data.Abstract)

	if data.ManuscriptURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s">Download manuscript</a></p>`, data.ManuscriptURL)
	}
	if data.EditorNote != "" {
		fmt.Fprintf(&b, `<p><strong>Note from the editor:</strong> %s</p>`, data.EditorNote)
	}

	return s.sendHTML(data.ReviewerEmail, subject, b.String())
}

func (s *smtpEmailService) SendReviewCopy(_ context.Context, data ReviewCopyData) error {
	subject := fmt.Sprintf("Review copy: %s", data.ArticleTitle)
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>Attached is the formatted review copy of <strong>%s</strong>.
Author identities have been removed.</p>`,
		data.ReviewerName, data.ArticleTitle)

	return s.sendWithAttachment(data.ReviewerEmail, subject, body, data.Attachment)
}

func (s *smtpEmailService) SendReviewSubmitted(_ context.Context, data ReviewSubmittedData) error {
	subject := fmt.Sprintf("Review received: %s", data.SubmissionTitle)

	score := "-"
	if data.Score != nil {
		score = fmt.Sprintf("%d/10", *data.Score)
	}

	body := fmt.Sprintf(`<h2>Review Received</h2>
<p>Dear %s,</p>
<p>Thank you for completing your review of <strong>%s</strong> (submission %s).</p>
<p><strong>Recommendation:</strong> %s<br/>
<strong>Score:</strong> %s</p>
<p><strong>Comments to the author:</strong></p>
<p>%s</p>`,
		data.ReviewerName, data.SubmissionTitle, data.SubmissionID,
		orDash(data.Recommendation), score, orDash(data.CommentsToAuthor))

	return s.sendHTML(data.ReviewerEmail, subject, body)
}

func (s *smtpEmailService) SendReviewFeedback(_ context.Context, data ReviewFeedbackData) error {
	subject := fmt.Sprintf("Editor feedback on your review: %s", data.SubmissionTitle)
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>The handling editor has feedback on your review of <strong>%s</strong>:</p>
<blockquote>%s</blockquote>
<p>Please revise and resubmit your review at your earliest convenience.</p>`,
		data.ReviewerName, data.SubmissionTitle, data.EditorFeedback)

	return s.sendHTML(data.ReviewerEmail, subject, body)
}

// decision subject and lead paragraph per decision value
var decisionCopy = map[string]struct {
	subject string
	lead    string
}{
	DecisionAccept: {
		subject: "Your manuscript has been accepted",
		lead:    "We are pleased to inform you that your manuscript has been <strong>accepted for publication</strong>.",
	},
	DecisionMinorRevision: {
		subject: "Decision on your manuscript: minor revision",
		lead:    "The reviewers recommend your manuscript for publication subject to <strong>minor revisions</strong>.",
	},
	DecisionMajorRevision: {
		subject: "Decision on your manuscript: major revision",
		lead:    "The reviewers have recommended <strong>major revisions</strong> before your manuscript can be considered further.",
	},
	DecisionReject: {
		subject: "Decision on your manuscript",
		lead:    "After careful consideration, we regret to inform you that your manuscript cannot be accepted for publication.",
	},
}

func (s *smtpEmailService) SendEditorialDecision(_ context.Context, data EditorialDecisionData) error {
	c, ok := decisionCopy[data.Decision]
	if !ok {
		return fmt.Errorf("unknown decision %q", data.Decision)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<h2>Editorial Decision</h2>
<p>Dear %s,</p>
<p>%s</p>
<p><strong>Manuscript ID:</strong> %s<br/>
<strong>Title:</strong> %s</p>`,
		data.AuthorName, c.lead, data.ArticleID, data.ArticleTitle)

	if data.ReviewerComments != "" {
		fmt.Fprintf(&b, `<p><strong>Reviewer comments:</strong></p><blockquote>%s</blockquote>`, data.ReviewerComments)
	}
	if data.EditorComments != "" {
		fmt.Fprintf(&b, `<p><strong>Editor comments:</strong></p><blockquote>%s</blockquote>`, data.EditorComments)
	}
	if data.RevisionDeadline != "" {
		fmt.Fprintf(&b, `<p><strong>Revision deadline:</strong> %s</p>`, data.RevisionDeadline)
	}

	return s.sendHTML(data.AuthorEmail, c.subject+": "+data.ArticleTitle, b.String())
}

func (s *smtpEmailService) SendPaymentLink(_ context.Context, data PaymentLinkData) error {
	subject := fmt.Sprintf("Publication fee for: %s", data.ArticleTitle)
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>To complete publication of <strong>%s</strong>, please pay the
publication fee of <strong>$%.2f</strong> using the secure link below.</p>
<p><a href="%s">Pay publication fee</a></p>
<p>The link expires after 24 hours. If it has expired, contact the editorial
office for a new one.</p>`,
		data.AuthorName, data.ArticleTitle, float64(data.AmountCents)/100, data.CheckoutURL)

	return s.sendHTML(data.AuthorEmail, subject, body)
}

func (s *smtpEmailService) SendPublicationNotification(_ context.Context, data PublicationNotificationData) error {
	subject := fmt.Sprintf("Your article is now published: %s", data.ArticleTitle)

	var b strings.Builder
	fmt.Fprintf(&b, `<h2>Now Published</h2>
<p>Dear %s,</p>
<p>Your article <strong>%s</strong> has been published in %s.</p>
<p><a href="%s">View your article</a></p>`,
		data.AuthorName, data.ArticleTitle, s.journalName, data.ArticleURL)

	if data.PDFURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s">Download PDF</a></p>`, data.PDFURL)
	}

	return s.sendHTML(data.AuthorEmail, subject, b.String())
}

func (s *smtpEmailService) sendHTML(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"utf-8\"\r\n\r\n%s",
		s.smtpFrom, to, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{to}, msg); err != nil {
		logger.Warn("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        to,
			"subject":   subject,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// sendWithAttachment builds a multipart/mixed message with one HTML part
// and one base64-encoded attachment.
func (s *smtpEmailService) sendWithAttachment(to, subject, body string, att Attachment) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	headers := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/mixed; boundary=%q\r\n\r\n",
		s.smtpFrom, to, subject, writer.Boundary())

	htmlHeader := textproto.MIMEHeader{}
	htmlHeader.Set("Content-Type", `text/html; charset="utf-8"`)
	htmlPart, err := writer.CreatePart(htmlHeader)
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}
	if _, err := htmlPart.Write([]byte(body)); err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	attHeader := textproto.MIMEHeader{}
	attHeader.Set("Content-Type", att.MimeType)
	attHeader.Set("Content-Transfer-Encoding", "base64")
	attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
	attPart, err := writer.CreatePart(attHeader)
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(att.Content)
	if _, err := attPart.Write([]byte(encoded)); err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	msg := append([]byte(headers), buf.Bytes()...)
	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{to}, msg); err != nil {
		logger.Warn("Failed to send email", map[string]interface{}{
			"error":   err.Error(),
			"to":      to,
			"subject": subject,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
