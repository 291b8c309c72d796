package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReportAddressCreate struct {
	Building   *string          `json:"building,omitempty"`
	Street     *string          `json:"street,omitempty"`
	City       *string          `json:"city,omitempty"`
	State      *string          `json:"state,omitempty"`
	PostalCode *string          `json:"postalCode,omitempty"`
	Country    *string          `json:"country,omitempty"`
	Latitude   *decimal.Decimal `json:"latitude"`
	Longitude  *decimal.Decimal `json:"longitude"`
}

// ReportCreate is the JSON part of the multipart creation payload; photo
// bytes travel as separate file parts.
type ReportCreate struct {
	UserID  int64               `json:"userId"`
	Note    string              `json:"note"`
	Address ReportAddressCreate `json:"address"`
}

// PhotoUpload carries one uploaded photo before it reaches blob storage.
type PhotoUpload struct {
	Data      []byte
	Extension string
}

// ReportAddressPatch merges provided sub-fields into the existing address
// row; absent fields are left untouched.
type ReportAddressPatch struct {
	Building   *string          `json:"building,omitempty"`
	Street     *string          `json:"street,omitempty"`
	City       *string          `json:"city,omitempty"`
	State      *string          `json:"state,omitempty"`
	PostalCode *string          `json:"postalCode,omitempty"`
	Country    *string          `json:"country,omitempty"`
	Latitude   *decimal.Decimal `json:"latitude,omitempty"`
	Longitude  *decimal.Decimal `json:"longitude,omitempty"`
}

// ReportPatch lists the fields a report owner may change. Admin-only fields
// live in AdminReportPatch so the type system keeps them off this path.
type ReportPatch struct {
	Note    *string             `json:"note,omitempty"`
	Address *ReportAddressPatch `json:"address,omitempty"`
}

type AdminReportPatch struct {
	ReportPatch
	Status            *string    `json:"status,omitempty"`
	AdminNote         *string    `json:"adminNote,omitempty"`
	VotesPos          *int       `json:"votesPos,omitempty"`
	VotesNeg          *int       `json:"votesNeg,omitempty"`
	ReportDatetime    *time.Time `json:"reportDatetime,omitempty"`
	PublishedDatetime *time.Time `json:"publishedDatetime,omitempty"`
}
