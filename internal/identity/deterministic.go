// Package identity derives namespacing prefixes for markview instances so
// several documents on one page never share generated element ids.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// prefixLength is the number of hex characters kept from the instance
// UUID. Eight characters give 2^32 distinct prefixes.
const prefixLength = 8

// UUID derives a deterministic UUID from key using go-hashid, falling back
// to a name based SHA-1 UUID when hashing fails.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// InstancePrefix returns a stable prefix such as "mv-1a2b3c4d" for an
// instance key, e.g. a document path. Empty keys yield "".
func InstancePrefix(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	return format(UUID("go-markview:instance:" + key))
}

// UniquePrefix returns a random prefix for instances without a stable key.
func UniquePrefix() string {
	return format(uuid.New())
}

func format(uid uuid.UUID) string {
	hex := strings.ReplaceAll(uid.String(), "-", "")
	return "mv-" + hex[:prefixLength]
}
