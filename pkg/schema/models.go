// Package schema provides database schema models of the phingest catalog.
// Tables are created and updated by GORM AutoMigrate, queries are done
// with pgx and do not use these structs.
package schema

import (
	"time"
)

// Item is an ingested primary asset together with its flattened metadata.
type Item struct {
	// Identifier is the persistent identifier, "prefix/suffix".
	Identifier string `gorm:"column:identifier;type:varchar(255);primaryKey"`

	// Location is the locator of the primary asset in object storage.
	Location string `gorm:"column:location;type:text;not null"`

	CaptureDate *time.Time `gorm:"column:capture_date;type:date;index"`
	CaptureTime *string    `gorm:"column:capture_time;type:time"`
	ExportDate  *time.Time `gorm:"column:export_date;type:date"`
	ExportTime  *string    `gorm:"column:export_time;type:time"`

	Shutter       *string `gorm:"column:shutter;type:varchar(50)"`
	Aperture      *string `gorm:"column:aperture;type:varchar(50)"`
	FocalLength   *int    `gorm:"column:focal_length"`
	FocalLength35 *int    `gorm:"column:focal_length_35"`

	CameraMaker *string `gorm:"column:camera_maker;type:varchar(255)"`
	CameraModel *string `gorm:"column:camera_model;type:varchar(255)"`

	ISO             *int `gorm:"column:iso"`
	ExposureMode    *int `gorm:"column:exposure_mode"`
	ExposureProgram *int `gorm:"column:exposure_program"`
	MeteringMode    *int `gorm:"column:metering_mode"`

	Artist      *string `gorm:"column:artist;type:varchar(255)"`
	Software    *string `gorm:"column:software;type:varchar(255)"`
	ContentType *string `gorm:"column:content_type;type:varchar(100)"`

	// RawFilename and Filename are used by the duplicate probe.
	RawFilename *string `gorm:"column:raw_filename;type:varchar(255);index"`
	Filename    string  `gorm:"column:filename;type:varchar(255);not null;index"`

	// Checksum is the hex blake2b-256 digest of the primary asset.
	Checksum *string `gorm:"column:checksum;type:char(64);index"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
}

// TableName returns the table name of items.
func (Item) TableName() string { return "items" }

// Tag is a label shared by items and the dataset mirror.
type Tag struct {
	// ID is "tag_" followed by the slug of Name.
	ID   string `gorm:"column:id;type:varchar(64);primaryKey"`
	Name string `gorm:"column:name;type:varchar(255);not null"`
}

// TableName returns the table name of tags.
func (Tag) TableName() string { return "tags" }

// ItemTag associates an item with a tag.
type ItemTag struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Identifier string `gorm:"column:identifier;type:varchar(255);not null;index"`
	TagID      string `gorm:"column:tag_id;type:varchar(64);not null;index"`

	Item Item `gorm:"foreignKey:Identifier;references:Identifier;constraint:OnDelete:CASCADE"`
	Tag  Tag  `gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name of item-tag associations.
func (ItemTag) TableName() string { return "item_tags" }

// Derivative is a rendition of an item stored in the CDN bucket.
type Derivative struct {
	ID uint `gorm:"column:id;primaryKey;autoIncrement"`

	// Identifier of the source item. Renditions generated offline are
	// never stored, so it is always set in practice.
	Identifier *string `gorm:"column:identifier;type:varchar(255);index"`

	Width       int    `gorm:"column:width;not null"`
	Height      int    `gorm:"column:height;not null"`
	ContentType string `gorm:"column:content_type;type:varchar(100);not null"`
	// Size is in kilobytes.
	Size    int    `gorm:"column:size;not null"`
	Purpose string `gorm:"column:purpose;type:varchar(20);not null"`

	Location      string `gorm:"column:location;type:text;not null"`
	DerivativeKey string `gorm:"column:derivative_key;type:varchar(255);not null;uniqueIndex"`

	Item *Item `gorm:"foreignKey:Identifier;references:Identifier;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name of renditions.
func (Derivative) TableName() string { return "derivatives" }
