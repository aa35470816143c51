// Package password hashes and verifies user passwords using bcrypt.
//
// Usage:
//
//	hash, err := password.Hash("correct horse battery staple")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := password.Verify(hash, candidate); err != nil {
//		// wrong password, or hash from an unsupported cost/algorithm
//	}
//
// Hash always uses DefaultCost; callers needing a different cost factor
// (e.g. lower cost for test fixtures) use HashWithCost directly.
package password
