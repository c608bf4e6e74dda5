// Package sms provides outbound text-message delivery behind a small
// interface, so the authentication flow does not depend on a specific
// gateway vendor.
package sms
