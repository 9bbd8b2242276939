package docgen

import (
	"bytes"
	"fmt"
	"html/template"
)

type PublicationCertificateData struct {
	Title         string
	AuthorName    string
	ReceivedDate  string
	PublishedDate string
	DOI           string
	ISSN          string
	JournalName   string
}

type ReviewerCertificateData struct {
	ReviewerName string
	Expertise    string
	ReviewCount  int
	PeriodFrom   string
	PeriodTo     string
	IssuedDate   string
	JournalName  string
}

var publicationCertTmpl = template.Must(template.New("publication_certificate").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"/><title>Certificate of Publication</title></head>
<body style="margin:0;padding:0;">
<div style="width:{{.PageW}}px;height:{{.PageH}}px;font-family:'EB Garamond','Georgia',serif;background:#ece6f5;position:relative;overflow:hidden;box-sizing:border-box;">
  <div style="position:relative;width:100%;height:100%;display:flex;flex-direction:column;align-items:center;justify-content:space-evenly;padding:40px 80px;box-sizing:border-box;">
    <div style="text-align:center;">
      <div style="font-family:'Playfair Display','Georgia',serif;font-size:30px;font-weight:900;color:#1a2550;letter-spacing:2px;text-transform:uppercase;">{{.JournalName}}</div>
      <div style="font-size:14px;color:#555;margin-top:2px;">A Peer-Reviewed Multidisciplinary Journal</div>
    </div>
    <div style="text-align:center;width:100%;">
      <div style="width:100%;height:1.5px;background:linear-gradient(90deg,transparent,#8a7a4a,transparent);"></div>
      <div style="font-family:'Playfair Display','Georgia',serif;font-size:17px;font-weight:700;color:#8a6d1b;letter-spacing:5px;text-transform:uppercase;margin:10px 0 2px;">Certificate of Publication</div>
      <div style="color:#8a7a4a;font-size:16px;margin-bottom:8px;">&#9733;</div>
      <div style="width:100%;height:1.5px;background:linear-gradient(90deg,transparent,#8a7a4a,transparent);"></div>
    </div>
    <div style="text-align:center;">
      <div style="font-family:'Cormorant Garamond','Georgia',serif;font-size:18px;font-style:italic;color:#333;margin-bottom:14px;">This is to certify that the article entitled</div>
      <div style="font-family:'Playfair Display','Georgia',serif;font-weight:700;color:#1a2550;text-align:center;padding:12px 24px;border-top:1.5px solid #1a2550;border-bottom:1.5px solid #1a2550;max-width:580px;line-height:1.35;font-size:{{.TitleSize}}px;margin:0 auto;">&#8220;{{.Title}}&#8221;</div>
      <div style="font-family:'Cormorant Garamond','Georgia',serif;font-size:16px;font-style:italic;color:#333;margin-top:18px;margin-bottom:6px;">authored by</div>
      <div style="font-family:'Great Vibes',cursive;font-size:{{.NameSize}}px;color:#1a2550;line-height:1.15;margin-top:8px;margin-bottom:24px;">{{.AuthorName}}</div>
    </div>
    <div style="text-align:center;margin-top:12px;">
      <div style="display:inline-block;text-align:left;font-size:17px;color:#333;line-height:1.8;">
        <div><span style="font-weight:600;color:#1a2550;">Received:</span> <span style="font-style:italic;">{{.ReceivedDate}}</span></div>
        <div><span style="font-weight:600;color:#1a2550;">Published:</span> <span style="font-style:italic;">{{.PublishedDate}}</span></div>
        <div><span style="font-weight:600;color:#1a2550;">DOI:</span> <span style="font-style:italic;">{{.DOI}}</span></div>
      </div>
    </div>
    <div style="text-align:center;">
      <div style="font-family:'Cormorant Garamond','Georgia',serif;font-size:17px;font-style:italic;color:#333;line-height:1.5;">
        has been peer reviewed and published in<br/>
        <span style="font-weight:700;color:#1a2550;">{{.JournalName}}</span>
      </div>
    </div>
    <div style="width:100%;display:flex;justify-content:space-between;align-items:flex-end;">
      <div style="text-align:left;">
        <div style="font-family:'Cormorant Garamond','Georgia',serif;font-size:14px;font-style:italic;color:#444;">Editor-in-Chief</div>
        <div style="font-size:14px;color:#1a2550;font-weight:600;">{{.JournalName}}</div>
      </div>
      <div style="text-align:center;">
        <div style="font-size:13px;color:#1a2550;font-weight:600;letter-spacing:1px;">ISSN: {{.ISSN}}</div>
      </div>
    </div>
  </div>
</div>
</body>
</html>`))

var reviewerCertTmpl = template.Must(template.New("reviewer_certificate").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"/><title>Certificate of Reviewing</title></head>
<body style="margin:0;padding:0;">
<div style="width:{{.PageW}}px;height:{{.PageH}}px;font-family:'EB Garamond','Georgia',serif;background:#f4f1e8;position:relative;overflow:hidden;box-sizing:border-box;">
  <div style="position:relative;width:100%;height:100%;display:flex;flex-direction:column;align-items:center;justify-content:space-evenly;padding:40px 80px;box-sizing:border-box;">
    <div style="text-align:center;">
      <div style="font-family:'Playfair Display','Georgia',serif;font-size:30px;font-weight:900;color:#1a2550;letter-spacing:2px;text-transform:uppercase;">{{.JournalName}}</div>
      <div style="font-size:14px;color:#555;margin-top:2px;">A Peer-Reviewed Multidisciplinary Journal</div>
    </div>
    <div style="text-align:center;width:100%;">
      <div style="font-family:'Playfair Display','Georgia',serif;font-size:17px;font-weight:700;color:#8a6d1b;letter-spacing:5px;text-transform:uppercase;margin:10px 0 2px;">Certificate of Reviewing</div>
    </div>
    <div style="text-align:center;">
      <div style="font-family:'Cormorant Garamond','Georgia',serif;font-size:18px;font-style:italic;color:#333;margin-bottom:14px;">This certificate is awarded to</div>
      <div style="font-family:'Great Vibes',cursive;font-size:{{.NameSize}}px;color:#1a2550;line-height:1.15;">{{.ReviewerName}}</div>
      <div style="font-family:'Cormorant Garamond','Georgia',serif;font-size:16px;color:#333;margin-top:18px;line-height:1.7;">
        in recognition of {{.ReviewCountText}} completed for the journal<br/>
        in the field of <strong>{{.Expertise}}</strong><br/>
        during the period {{.PeriodFrom}} &ndash; {{.PeriodTo}}
      </div>
    </div>
    <div style="width:100%;display:flex;justify-content:space-between;align-items:flex-end;">
      <div style="text-align:left;">
        <div style="font-family:'Cormorant Garamond','Georgia',serif;font-size:14px;font-style:italic;color:#444;">Editor-in-Chief</div>
        <div style="font-size:14px;color:#1a2550;font-weight:600;">{{.JournalName}}</div>
      </div>
      <div style="font-size:13px;color:#555;">Issued {{.IssuedDate}}</div>
    </div>
  </div>
</div>
</body>
</html>`))

// RenderPublicationCertificate renders the certificate as a standalone HTML
// page sized for US Letter. Font sizes adapt to title and name length.
func RenderPublicationCertificate(data PublicationCertificateData) ([]byte, error) {
	doi := data.DOI
	if doi == "" {
		doi = "Pending"
	}
	issn := data.ISSN
	if issn == "" {
		issn = "Pending"
	}

	var buf bytes.Buffer
	err := publicationCertTmpl.Execute(&buf, struct {
		PublicationCertificateData
		PageW, PageH        int
		TitleSize, NameSize int
		DOI, ISSN           string
	}{
		PublicationCertificateData: data,
		PageW:                      PageWidth,
		PageH:                      PageHeight,
		TitleSize:                  TitleFontSize(len([]rune(data.Title))),
		NameSize:                   AuthorNameFontSize(len([]rune(data.AuthorName))),
		DOI:                        doi,
		ISSN:                       issn,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render publication certificate: %w", err)
	}
	return buf.Bytes(), nil
}

func RenderReviewerCertificate(data ReviewerCertificateData) ([]byte, error) {
	countText := fmt.Sprintf("%d peer reviews", data.ReviewCount)
	if data.ReviewCount == 1 {
		countText = "a peer review"
	}

	var buf bytes.Buffer
	err := reviewerCertTmpl.Execute(&buf, struct {
		ReviewerCertificateData
		PageW, PageH    int
		NameSize        int
		ReviewCountText string
	}{
		ReviewerCertificateData: data,
		PageW:                   PageWidth,
		PageH:                   PageHeight,
		NameSize:                ReviewerNameFontSize(len([]rune(data.ReviewerName))),
		ReviewCountText:         countText,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render reviewer certificate: %w", err)
	}
	return buf.Bytes(), nil
}
