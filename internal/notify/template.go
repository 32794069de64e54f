package notify

import (
	"bytes"
	"html/template"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Subject}}</title>
</head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9fafb;">
  <div style="background-color: white; padding: 30px; border-radius: 8px;">
    <h1 style="color: #1f2937; font-size: 24px; margin-bottom: 20px; text-align: center;">{{.Subject}}</h1>
    <p style="color: #374151; font-size: 16px;">Dear {{.FirstName}} {{.LastName}},</p>
    <p style="color: #374151; font-size: 16px;">
      Thank you for registering for our event! Your registration has been confirmed.
      Please find your QR code below, which you'll need to present at the event entrance.
    </p>
    <div style="background-color: #f3f4f6; padding: 30px; margin: 30px 0; text-align: center; border-radius: 8px; border: 1px solid #e5e7eb;">
      <h3 style="color: #1f2937; font-size: 18px;">Your Event QR Code</h3>
      <img src="cid:qr-code-image" alt="QR Code" width="200" height="200" style="width: 200px; height: 200px; margin: 0 auto;" />
      <p style="font-size: 14px; color: #6b7280;">Scan this QR code at the event entrance</p>
      <div style="background-color: white; padding: 15px; border-radius: 4px; border: 1px solid #d1d5db; font-size: 12px; color: #374151; text-align: left;">
        <p><strong>Name:</strong> {{.FirstName}} {{.LastName}}</p>
        <p><strong>Email:</strong> {{.Email}}</p>
        <p><strong>Phone:</strong> {{.Phone}}</p>
      </div>
    </div>
    <div style="background-color: #dbeafe; padding: 20px; border-radius: 6px; margin: 20px 0;">
      <h4 style="color: #1e40af; font-size: 16px;">Important Information:</h4>
      <ul style="color: #1e40af; font-size: 14px; margin: 0; padding-left: 20px;">
        <li>Please arrive 15 minutes before the event starts</li>
        <li>Bring a valid ID for verification</li>
        <li>Keep this email as your ticket confirmation</li>
        <li>Contact us if you have any questions</li>
      </ul>
    </div>
    <p style="color: #374151; font-size: 16px; text-align: center;">We look forward to seeing you at the event!</p>
    <p style="color: #6b7280; font-size: 14px; text-align: center;">Best regards,<br />The Event Team</p>
  </div>
</body>
</html>
`))

// RenderHTML renders the confirmation body. Attendee fields are HTML-escaped and
// the image is referenced as cid:qr-code-image (ContentID).
func RenderHTML(subject string, msg Message) (string, error) {
	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, struct {
		Message
		Subject string
	}{Message: msg, Subject: subject})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
