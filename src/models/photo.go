package models

import "rvpark/src/types"

// Photo is one gallery image. The file itself lives in S3 under Key;
// URL is the public location served to the site.
type Photo struct {
	ID         uint         `gorm:"primarykey" json:"id"`
	Title      string       `json:"title,omitempty"`
	Caption    string       `json:"caption,omitempty"`
	Key        string       `gorm:"uniqueIndex" json:"-"`
	URL        string       `json:"url,omitempty"`
	UploadedBy uint         `json:"uploaded_by,omitempty"`
	Metadata   *types.JSONB `gorm:"type:jsonb" json:"metadata,omitempty"`

	Uploader *User `gorm:"foreignKey:uploaded_by" json:"uploader,omitempty"`

	types.Timestamps
}
