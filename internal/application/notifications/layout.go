package notifications

import (
	"fmt"
	"time"
)

const (
	themePrimary = "#2563EB"
	themeBgBody  = "#F3F4F6"
)

// Layout wraps notification content in the shared HTML email shell.
func Layout(contentHTML string) string {
	year := time.Now().Year()
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>BarterZone</title>
  <style>
    body { margin: 0; padding: 0; width: 100%% !important; background-color: %s; }
    body, td, p, a { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; color: #1F2937; }
    .content-body p { margin: 0 0 24px 0; font-size: 16px; line-height: 1.6; color: #374151; }
    .content-body h1 { color: #111827; font-size: 24px; margin: 0 0 20px 0; font-weight: 700; }
    .content-body a { color: %s; font-weight: 600; text-decoration: none; }
  </style>
</head>
<body>
  <table role="presentation" width="100%%" cellspacing="0" cellpadding="0">
    <tr><td align="center" style="padding: 32px 16px;">
      <table role="presentation" width="560" cellspacing="0" cellpadding="0" style="background: #FFFFFF; border-radius: 8px;">
        <tr><td style="padding: 32px;" class="content-body">%s</td></tr>
      </table>
      <p style="font-size: 12px; color: #6B7280; margin-top: 24px;">&copy; %d BarterZone</p>
    </td></tr>
  </table>
</body>
</html>`, themeBgBody, themePrimary, contentHTML, year)
}
