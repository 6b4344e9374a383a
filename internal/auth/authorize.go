package auth

// AuthorizeOwner reports whether the authenticated caller owns the resource.
// Pure comparison, no I/O. Handlers verify the token first, so a nil claims
// here means a programming error upstream and is treated as not allowed.
func AuthorizeOwner(resourceOwnerID int64, claims *Claims) bool {
	if claims == nil {
		return false
	}
	return resourceOwnerID == claims.UserID
}
