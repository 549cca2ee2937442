package domain

import "time"

const PromotionStatusApproved = "approved"

// AdminPromotionRequest is an append-only grant of the admin role to an email.
type AdminPromotionRequest struct {
	ID          string    `json:"id"`
	RequestedBy string    `json:"requested_by"`
	TargetEmail string    `json:"target_email"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeriveRole computes the effective role for a session. The embedded role
// claim wins first; otherwise an approved promotion for the claimed email
// is the only other path to admin. Roles are only ever raised, never lowered.
func DeriveRole(claims IdentityClaims, promotions []AdminPromotionRequest) Role {
	if Role(claims.Role) == RoleAdmin {
		return RoleAdmin
	}
	email := NormalizeEmail(claims.Email)
	if email == "" {
		return RoleUser
	}
	for _, p := range promotions {
		if p.Status == PromotionStatusApproved && NormalizeEmail(p.TargetEmail) == email {
			return RoleAdmin
		}
	}
	return RoleUser
}
