// Package email sends transactional mail through Postmark, or in dev mode
// writes it to disk through DevSender.
//
// Every message carries an HTML and a text body; when only text is given it is
// also used as HTML. Message bodies are built by the templates subpackage.
//
//	sender, err := email.New(cfg)
//	if err != nil {
//	    return err
//	}
//	msg, err := templates.VerificationEmail(ctx, link)
//	if err != nil {
//	    return err
//	}
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   user.Email,
//	    Subject:  msg.Subject,
//	    BodyHTML: msg.HTML,
//	    BodyText: msg.Text,
//	    Tag:      "email-verification",
//	})
package email
