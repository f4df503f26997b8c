// Package secrets holds the build-time defaults injected at link time:
//
//	go build -ldflags "-X github.com/coregx/hashcrack/internal/secrets.salt=s3cr3t"
//
// A binary built without the flag has an empty default salt, which simply
// means unsalted hashing unless HASHER_SALT or --salt says otherwise.
package secrets

var salt string

// Salt returns the embedded default salt.
func Salt() string {
	return salt
}
