// Package templates holds the HTML emails sent during sign-in and
// registration, built as templ components. Dynamic values are escaped.
//
//	html, err := templates.Render(ctx, templates.LoginCode(templates.CodeData{
//	    AppName:          "Acme",
//	    Name:             acct.Name,
//	    Code:             code,
//	    ExpiresInMinutes: 10,
//	}))
package templates
