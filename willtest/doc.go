// Package willtest provides fakes and helpers for testing handlers and
// decorators without a running application.
package willtest
