// Package password provides the argon2id credential hasher consumed by the
// engine through the root Hasher interface. Digests use the PHC string
// format so parameters travel with the hash and can be upgraded over time.
package password
