// Package git checks how a vault file relates to the surrounding git
// repository.
//
// The vault file holds only ciphertext, but committing it publishes every
// historical envelope. status reports when the file is tracked so the user
// can decide deliberately, and whether it is covered by .gitignore.
package git
