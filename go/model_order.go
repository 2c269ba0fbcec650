/*
 * Boutique Orders API
 *
 * Order intake for the storefront plus the admin back office.
 *
 * API version: 1.0.0
 */

package storefrontserver

// StatusUpdate is the PATCH /api/orders/:id body. Status stays untyped so
// that any value, not just a string, reaches the status sanitizer.
type StatusUpdate struct {
	Status any `json:"status" form:"status"`
}

// StatusText returns the status when it is a string and "" otherwise.
func (u StatusUpdate) StatusText() string {
	s, _ := u.Status.(string)
	return s
}

// DeleteResult acknowledges a removed order.
type DeleteResult struct {
	Ok bool   `json:"ok"`
	Id string `json:"id"`
}

// LoginRequest is the POST /api/admin/login body.
type LoginRequest struct {
	Password string `json:"password" form:"password"`
}

// LoginResponse carries the issued admin token.
type LoginResponse struct {
	Token string `json:"token"`
}
