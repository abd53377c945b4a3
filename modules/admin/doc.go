// Package admin serves the admin API: session login and logout under /auth
// and page content editing under /content.
//
// POST /auth/login takes {"identifier", "secret"} and answers with the login
// result; a rejected login answers 401 with the message to display. Content
// routes require a session whose role is in EditorRoles. PUT /content/{pageID}
// answers 501 when the configured content backend cannot store pages.
package admin
