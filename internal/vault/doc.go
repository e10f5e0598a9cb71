// Package vault provides the password-protected document store.
//
// A Store keeps one document encrypted at rest in a storage.Persistence:
//   - credential: password check record, verified before any decryption
//   - envelope:   the document sealed under a key derived from the password
//   - pending:    journal used to replace both records as one unit when the
//     backend cannot write several keys atomically
//
// Session states: Locked -> Unlocking -> Unlocked -> Locked. The password is
// owned by the Unlocked state and wiped by Lock.
//
// Every save derives a new key from a fresh salt and seals with a fresh
// nonce. A password that passed the credential check but fails to open the
// envelope is reported as ErrDataCorruption, never as ErrInvalidPassword.
package vault
