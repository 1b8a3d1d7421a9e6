package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Hasher produces and checks salted bcrypt verifiers.
type Hasher struct {
	Cost int
}

func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{Cost: cost}
}

func (h Hasher) cost() int {
	if h.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return h.Cost
}

func (h Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h Hasher) Check(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHashes caches one throwaway verifier per cost. A failed login for an
// unknown email compares against the verifier of the configured cost, so it
// takes as long as a wrong password for a real account.
var dummyHashes sync.Map

func dummyHash(cost int) []byte {
	if v, ok := dummyHashes.Load(cost); ok {
		return v.([]byte)
	}
	b, err := bcrypt.GenerateFromPassword([]byte("travgram-dummy-password"), cost)
	if err != nil {
		b, _ = bcrypt.GenerateFromPassword([]byte("travgram-dummy-password"), bcrypt.DefaultCost)
	}
	v, _ := dummyHashes.LoadOrStore(cost, b)
	return v.([]byte)
}

// CheckMissing burns one comparison against a throwaway verifier.
func (h Hasher) CheckMissing(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash(h.cost()), []byte(password))
}
