// Package record contains the intermediate representation of an
// accredited organization produced by the certificate parser and consumed
// by the populator.
package record

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance. It caches struct metadata, so
// one instance serves all records.
var Validate = validator.New(validator.WithRequiredStructEnabled())

// Organization holds the values extracted from the
// ActualEducationOrganization element of one certificate. Absent values
// are empty strings, never nil. OGRN is never empty for records returned
// by the parser.
type Organization struct {
	FullName                 string
	ShortName                string
	OGRN                     string `validate:"required,numeric,len=13|len=15"`
	INN                      string `validate:"omitempty,numeric,len=10|len=12"`
	KPP                      string `validate:"omitempty,numeric,len=9"`
	PostAddress              string
	Phone                    string
	Fax                      string
	Email                    string `validate:"omitempty,email"`
	WebSite                  string
	HeadPost                 string
	HeadName                 string
	FormName                 string
	FormCode                 string
	KindName                 string
	KindCode                 string
	TypeName                 string
	TypeCode                 string
	RegionName               string
	RegionCode               string
	FederalDistrictCode      string
	FederalDistrictShortName string
	FederalDistrictName      string

	// File is the base name of the XML file the record came from.
	File string

	// CertificateID is the Id of the enclosing Certificate element.
	CertificateID string

	// SourceID is the Id of the organization in the source feed.
	SourceID string

	// HeadSourceID is the Id of the head organization for branches.
	HeadSourceID string

	// Programs are accredited programs listed in certificate supplements.
	Programs []Program
}

// Program is an accredited educational program of an organization.
type Program struct {
	// Code is the specialty code.
	Code string

	// Name is the specialty name.
	Name string

	// GroupCode is the code of the enlarged specialty group (UGS).
	GroupCode string

	// GroupName is the name of the enlarged specialty group.
	GroupName string

	// Level is the education level as given by the source.
	Level string
}

// Warnings returns human readable problems with field syntax. A record
// with warnings is still usable, the source feed is known to contain
// imperfect data.
func (o *Organization) Warnings() []string {
	err := Validate.Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	res := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		res = append(res,
			fmt.Sprintf("%s value '%v' fails '%s'", fe.Field(), fe.Value(), fe.Tag()))
	}
	return res
}
