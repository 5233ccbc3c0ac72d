package authkey

import (
	"encoding/binary"
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/sha3"
)

// derivationTag domain-separates authorization keys from any other sha3 use
// in the process. Changing it invalidates every outstanding authorization.
const derivationTag = "strongbox/authorization-key/v1"

// Key is the opaque binding value an authorization is consumed under.
// It is derived one-way from the full authorization tuple and is only
// ever compared for equality.
type Key [32]byte

// Derive computes the authorization key for a tuple. The same tuple always
// yields the same key; a change to any field yields an unrelated key. The
// domain identifier is bound first so a credential scoped to one deployment
// can never be replayed against another.
func Derive(vaultID, recipient string, amount, authorizationID uint64, domainID string) Key {
	h := sha3.New256()
	writeField(h, []byte(derivationTag))
	writeField(h, []byte(domainID))
	writeField(h, []byte(vaultID))
	writeField(h, []byte(recipient))
	writeUint64(h, amount)
	writeUint64(h, authorizationID)

	var key Key
	h.Sum(key[:0])
	return key
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// writeField length-prefixes each variable-size field so adjacent fields
// cannot be reassociated ("ab","c" must not collide with "a","bc").
func writeField(h hash.Hash, field []byte) {
	var prefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(prefix[:], uint64(len(field)))
	h.Write(prefix[:n])
	h.Write(field)
}

func writeUint64(h hash.Hash, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}
