// Package ezgmail is a lightweight index for the helper subpackages in this
// module.
//
// This root package is documentation-only. Import specific subpackages to use
// concrete helpers.
//
// Available subpackages:
//   - github.com/asweigart/ezgmail/gmail
//     Gmail helpers for searching threads, reading messages, sending email
//     with attachments, downloading attachments, and managing labels.
//   - github.com/asweigart/ezgmail/browser
//     Browser helpers for opening URLs (used by the OAuth consent flow).
//
// Discovery workflow:
//   - Run: go doc github.com/asweigart/ezgmail
//   - Then drill in with:
//     go doc github.com/asweigart/ezgmail/gmail
//     go doc github.com/asweigart/ezgmail/browser
package ezgmail
