//go:build race

package bookshelf

import "golang.org/x/crypto/bcrypt"

// Race-enabled builds hash at the minimum cost so test suites can run
// with strict timeouts.
func init() {
	bcryptCost = bcrypt.MinCost
}
