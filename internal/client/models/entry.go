// Package models defines the credential and sharing types exchanged with the
// vault service.
package models

import "strings"

// CredentialEntry is one stored credential as the service reports it.
//
// Secret is only populated when the service returned the value in clear;
// when SecretHidden is set the plaintext must be fetched per reveal through
// the decrypt endpoint and must never be written back into the cached
// collection.
type CredentialEntry struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Website      string `json:"website"`
	Username     string `json:"username"`
	Secret       string `json:"password,omitempty"`
	SecretHidden bool   `json:"password_hidden"`
	Category     string `json:"category"`
	Notes        string `json:"notes"`
	CreatedAt    int64  `json:"created_at"`
	ModifiedAt   int64  `json:"modified_at"`
}

// HasWebsiteLink reports whether the entry's website is an http(s) URL a
// host could offer to open.
func (e CredentialEntry) HasWebsiteLink() bool {
	return hasHTTPPrefix(e.Website)
}

// EntryFields carries the writable fields of a credential for create and
// update requests.
type EntryFields struct {
	Title    string `json:"title"`
	Website  string `json:"website"`
	Username string `json:"username"`
	Secret   string `json:"password"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

// SharedEntry is the read-only credential returned when consuming a share.
// The secret arrives decrypted; it is never merged into the local collection
// unless the user explicitly saves it as a new entry.
type SharedEntry struct {
	Title    string `json:"title"`
	Website  string `json:"website"`
	Username string `json:"username"`
	Secret   string `json:"password"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
	SharedBy string `json:"shared_by"`
}

// Fields converts a shared entry into writable fields for the
// save-to-my-passwords action.
func (e SharedEntry) Fields() EntryFields {
	return EntryFields{
		Title:    e.Title,
		Website:  e.Website,
		Username: e.Username,
		Secret:   e.Secret,
		Category: e.Category,
		Notes:    e.Notes,
	}
}

// HasWebsiteLink reports whether the shared entry's website is an http(s) URL.
func (e SharedEntry) HasWebsiteLink() bool {
	return hasHTTPPrefix(e.Website)
}

func hasHTTPPrefix(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
