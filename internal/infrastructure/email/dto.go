package email

// Decision values carried in editorial decision emails.
const (
	DecisionAccept        = "accept"
	DecisionMinorRevision = "minor_revision"
	DecisionMajorRevision = "major_revision"
	DecisionReject        = "reject"
)

type SubmissionReceivedData struct {
	AuthorName     string
	AuthorEmail    string
	SubmissionID   string
	Title          string
	Category       string
	ManuscriptName string
}

type ReviewInvitationData struct {
	ReviewerName  string
	ReviewerEmail string
	ArticleTitle  string
	ArticleID     string
	Abstract      string
	Deadline      string
	ManuscriptURL string
	EditorNote    string
}

// ReviewCopyData carries the formatted manuscript copy attached to the
// invitation follow-up.
type ReviewCopyData struct {
	ReviewerName  string
	ReviewerEmail string
	ArticleTitle  string
	Attachment    Attachment
}

type ReviewSubmittedData struct {
	ReviewerName     string
	ReviewerEmail    string
	SubmissionTitle  string
	SubmissionID     string
	Recommendation   string
	Score            *int
	CommentsToAuthor string
}

type ReviewFeedbackData struct {
	ReviewerName    string
	ReviewerEmail   string
	SubmissionTitle string
	EditorFeedback  string
}

type EditorialDecisionData struct {
	AuthorName       string
	AuthorEmail      string
	ArticleTitle     string
	ArticleID        string
	Decision         string // accept, minor_revision, major_revision, reject
	ReviewerComments string
	EditorComments   string
	RevisionDeadline string
}

type PaymentLinkData struct {
	AuthorName   string
	AuthorEmail  string
	ArticleTitle string
	AmountCents  int64
	CheckoutURL  string
}

type PublicationNotificationData struct {
	AuthorName   string
	AuthorEmail  string
	ArticleTitle string
	ArticleURL   string
	PDFURL       string
}

type Attachment struct {
	Filename string
	Content  []byte
	MimeType string
}
