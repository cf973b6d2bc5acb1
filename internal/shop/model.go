package shop

import "time"

type Shop struct {
	ID               int        `db:"id" json:"id"`
	OwnerID          int        `db:"owner_id" json:"owner_id"`
	Name             string     `db:"name" json:"name"`
	Location         string     `db:"location" json:"location"`
	Category         string     `db:"category" json:"category"`
	PackageExpiresAt *time.Time `db:"package_expires_at" json:"package_expires_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

type CreateShopRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Location string `json:"location" binding:"required"`
	Category string `json:"category" binding:"required"`
}
