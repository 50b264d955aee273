package email

import (
	"fmt"
	"net/url"
)

// MagicLinkMessage builds the access email: a deep link carrying the token
// plus the security notice (24h expiry, single use, activity logged).
func MagicLinkMessage(baseURL, to, token, videoTitle string) Message {
	accessURL := fmt.Sprintf("%s/access?token=%s", baseURL, url.QueryEscape(token))

	text := fmt.Sprintf(`Your secure access link for %q is ready.

Click here to access your training video: %s

Important:
- This link expires in 24 hours
- The link can only be used once
- Your viewing activity will be tracked for compliance

If you didn't request this access link, please ignore this email.

TaskSafe Security Team
`, videoTitle, accessURL)

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Your Training Video is Ready</h2>
  <p>Your secure access link for <strong>%q</strong> has been generated.</p>
  <p><a href="%s" style="display:inline-block;background-color:#3b82f6;color:white;text-decoration:none;padding:12px 24px;border-radius:6px;">Access Training Video</a></p>
  <ul style="color:#6b7280;font-size:14px;">
    <li>This link expires in <strong>24 hours</strong></li>
    <li>The link can only be used <strong>once</strong></li>
    <li>Your viewing activity will be <strong>tracked for compliance</strong></li>
  </ul>
  <p style="color:#9ca3af;font-size:12px;">If you didn't request this access link, please ignore this email.</p>
</body>
</html>
`, videoTitle, accessURL)

	return Message{
		To:      to,
		Subject: fmt.Sprintf("TaskSafe: Access Link for %q", videoTitle),
		Text:    text,
		HTML:    html,
	}
}
