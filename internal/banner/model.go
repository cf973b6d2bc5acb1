package banner

import "time"

// Banner is a paid ad slot. It stays inactive until the banner order is
// captured, then runs until ExpiresAt.
type Banner struct {
	ID        int        `db:"id" json:"id"`
	OwnerID   int        `db:"owner_id" json:"owner_id"`
	Title     string     `db:"title" json:"title"`
	ImagePath string     `db:"image_path" json:"image_path"`
	TargetURL string     `db:"target_url" json:"target_url"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	ExpiresAt *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

type CreateBannerRequest struct {
	Title     string `json:"title" binding:"required,min=2,max=200"`
	ImagePath string `json:"image_path" binding:"required"`
	TargetURL string `json:"target_url" binding:"omitempty,url"`
}
